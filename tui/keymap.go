package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/kptv-cli/kptv/color"
	"github.com/kptv-cli/kptv/input"
	"github.com/kptv-cli/kptv/style"
)

// statefulKeymap holds the browser keys and shows the ones that apply to the current
// state. While a video plays the remote keymap takes over.
type statefulKeymap struct {
	state  state
	remote *input.Keymap

	quit, forceQuit,
	confirm, play, resume,
	toggleWatched,
	back,
	up, down, left, right,
	top, bottom,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func bind(keys []string, help, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

func newStatefulKeymap(remote *input.Keymap) *statefulKeymap {
	orange := style.Fg(color.Orange)
	return &statefulKeymap{
		remote:        remote,
		quit:          bind([]string{"q"}, "q", "quit"),
		forceQuit:     bind([]string{"ctrl+c", "ctrl+d"}, "ctrl+c", "quit"),
		confirm:       bind([]string{"enter"}, "enter", "open"),
		play:          bind([]string{"enter"}, orange("enter"), orange("play")),
		resume:        bind([]string{"c"}, "c", "continue watching"),
		toggleWatched: bind([]string{"w"}, "w", "toggle watched"),
		back:          bind([]string{"esc"}, "esc", "back"),
		up:            bind([]string{"up", "k"}, "↑", "up"),
		down:          bind([]string{"down", "j"}, "↓", "down"),
		left:          bind([]string{"left", "h"}, "←", "previous page"),
		right:         bind([]string{"right", "l"}, "→", "next page"),
		top:           bind([]string{"g", "home"}, "g", "top"),
		bottom:        bind([]string{"G", "end"}, "G", "bottom"),
		showHelp:      bind([]string{"?"}, "?", "help"),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	same := func(bindings ...key.Binding) ([]key.Binding, []key.Binding) {
		return bindings, bindings
	}

	switch k.state {
	case loadingState:
		return same(k.forceQuit)
	case seasonsState:
		return []key.Binding{k.confirm, k.resume},
			[]key.Binding{k.confirm, k.resume, k.toggleWatched, k.quit}
	case episodesState:
		return []key.Binding{k.play, k.toggleWatched, k.back},
			[]key.Binding{k.play, k.resume, k.toggleWatched, k.back, k.quit}
	case playingState:
		return k.remote.Bindings(input.PlayPause, input.ChannelUp, input.ChannelDown, input.Blue, input.Back),
			k.remote.Bindings(input.Buttons...)
	case errorState:
		return same(k.back, k.quit)
	default:
		return same()
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:      k.up,
		CursorDown:    k.down,
		NextPage:      k.right,
		PrevPage:      k.left,
		GoToStart:     k.top,
		GoToEnd:       k.bottom,
		ShowFullHelp:  k.showHelp,
		CloseFullHelp: k.showHelp,
		Quit:          k.quit,
		ForceQuit:     k.forceQuit,
	}
}
