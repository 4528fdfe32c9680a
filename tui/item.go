package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/icon"
	"github.com/kptv-cli/kptv/key"
	"github.com/kptv-cli/kptv/style"
	"github.com/kptv-cli/kptv/util"
	"github.com/spf13/viper"
)

// listItem wraps a season or a video for the lists.
type listItem struct {
	internal any
	// next marks the entry playback would pick by default.
	next bool
}

func statusIcon(status catalog.WatchingStatus) string {
	if !viper.GetBool(key.TUIShowWatched) {
		return ""
	}
	switch status {
	case catalog.Watched:
		return icon.Get(icon.Watched)
	case catalog.Watching:
		return icon.Get(icon.Watching)
	default:
		return icon.Get(icon.NotWatched)
	}
}

func (t *listItem) Title() string {
	var title, status string

	switch e := t.internal.(type) {
	case *catalog.Season:
		title = fmt.Sprintf("Season %d", e.Number)
		if e.Title != "" {
			title += " " + style.Faint(e.Title)
		}
		status = statusIcon(e.Status())
	case *catalog.Video:
		title = fmt.Sprintf("%d. %s", e.Number, e.Title)
		if e.Title == "" {
			title = fmt.Sprintf("Episode %d", e.Number)
		}
		status = statusIcon(e.Watching.Status)
	}

	if status != "" {
		title = status + " " + title
	}
	if t.next {
		title += " " + lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(icon.Get(icon.Mark))
	}
	return title
}

func (t *listItem) Description() string {
	var parts []string

	switch e := t.internal.(type) {
	case *catalog.Season:
		watched := 0
		for _, v := range e.Episodes {
			if v.Watching.Status == catalog.Watched {
				watched++
			}
		}
		parts = append(parts, util.Quantify(len(e.Episodes), "episode", "episodes"))
		if watched > 0 {
			parts = append(parts, style.Fg(style.Green)(fmt.Sprintf("%d watched", watched)))
		}
	case *catalog.Video:
		if e.SNumber != 0 {
			parts = append(parts, e.Code())
		}
		if e.Duration > 0 {
			parts = append(parts, util.FormatDuration(e.Duration))
		}
		if e.Watching.Status == catalog.Watching && e.Watching.Time > 0 {
			parts = append(parts, style.Fg(style.Yellow)("resume at "+util.FormatDuration(e.Watching.Time)))
		}
		if n := len(e.Audios); n > 0 {
			parts = append(parts, style.Faint(util.Quantify(n, "audio track", "audio tracks")))
		}
	}

	return strings.Join(parts, " • ")
}

func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *catalog.Season:
		return fmt.Sprintf("Season %d %s", e.Number, e.Title)
	case *catalog.Video:
		return e.Title
	default:
		return ""
	}
}
