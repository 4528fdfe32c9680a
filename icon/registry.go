package icon

type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Question
	Mark
	Watched
	Watching
	NotWatched
	Play
	Search
	Key
	Serial
	Movie
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "✓",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "👹",
		nerd:    "❬!❭",
		plain:   "X",
		kaomoji: "(×_×)",
		squares: "🟥",
	},
	Progress: {
		emoji:   "👾",
		nerd:    "",
		plain:   "~",
		kaomoji: "(・_・)ノ",
		squares: "🟦",
	},
	Question: {
		emoji:   "🤨",
		nerd:    "",
		plain:   "?",
		kaomoji: "(・・ )?",
		squares: "🟪",
	},
	Mark: {
		emoji:   "📌",
		nerd:    "",
		plain:   "*",
		kaomoji: "★",
		squares: "🟨",
	},
	Watched: {
		emoji:   "✅",
		nerd:    "",
		plain:   "+",
		kaomoji: "(￣▽￣)",
		squares: "🟩",
	},
	Watching: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "~",
		kaomoji: "(・ω・)",
		squares: "🟧",
	},
	NotWatched: {
		emoji:   "🆕",
		nerd:    "",
		plain:   "-",
		kaomoji: "(゜-゜)",
		squares: "⬜",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "(ﾉ◕ヮ◕)ﾉ",
		squares: "🟦",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "",
		plain:   "/",
		kaomoji: "(⊙_⊙)",
		squares: "🟫",
	},
	Key: {
		emoji:   "🔑",
		nerd:    "",
		plain:   "#",
		kaomoji: "(￢‿￢)",
		squares: "🟨",
	},
	Serial: {
		emoji:   "📺",
		nerd:    "",
		plain:   "S",
		kaomoji: "[■_■]",
		squares: "🟪",
	},
	Movie: {
		emoji:   "🎬",
		nerd:    "",
		plain:   "M",
		kaomoji: "(⌐■_■)",
		squares: "🟥",
	},
}
