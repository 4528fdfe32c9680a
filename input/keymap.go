package input

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Keymap binds terminal keys to remote buttons.
type Keymap struct {
	bindings map[Button]key.Binding
}

// NewKeymap returns the default layout: arrows, enter and backspace/esc as on the
// remote, space for play/pause, brackets and page keys for channel up/down and F1-F4
// for the color buttons.
func NewKeymap() *Keymap {
	b := func(help string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
	}

	return &Keymap{bindings: map[Button]key.Binding{
		Back:        b("back", "esc", "backspace"),
		Enter:       b("ok", "enter"),
		PlayPause:   b("play/pause", " ", "p"),
		Play:        b("play", "P"),
		Pause:       b("pause", "ctrl+p"),
		Stop:        b("stop", "s"),
		ArrowUp:     b("up", "up", "k"),
		ArrowDown:   b("down", "down", "j"),
		ArrowLeft:   b("left", "left", "h"),
		ArrowRight:  b("right", "right", "l"),
		ChannelUp:   b("next", "]", "pgup", "n"),
		ChannelDown: b("previous", "[", "pgdown", "N"),
		Red:         b("red", "f1", "1"),
		Green:       b("green", "f2", "2"),
		Yellow:      b("fullscreen", "f3", "3", "f"),
		Blue:        b("settings", "f4", "4", "tab"),
	}}
}

// Button resolves a key press. It accepts tea.KeyMsg or anything else that renders as
// a key name.
func (k *Keymap) Button(msg fmt.Stringer) mo.Option[Button] {
	for _, button := range Buttons {
		if binding, ok := k.bindings[button]; ok && key.Matches(msg, binding) {
			return mo.Some(button)
		}
	}
	return mo.None[Button]()
}

// Binding returns the binding of button, for help rendering.
func (k *Keymap) Binding(button Button) key.Binding {
	return k.bindings[button]
}

// Bindings returns the bindings of buttons, skipping unknown ones.
func (k *Keymap) Bindings(buttons ...Button) []key.Binding {
	return lo.FilterMap(buttons, func(b Button, _ int) (key.Binding, bool) {
		binding, ok := k.bindings[b]
		return binding, ok
	})
}

// Rebind replaces the keys of button. Without keys the button is unbound.
func (k *Keymap) Rebind(button Button, keys ...string) {
	binding := k.bindings[button]
	if len(keys) == 0 {
		binding.Unbind()
		k.bindings[button] = binding
		return
	}
	binding.SetKeys(keys...)
	binding.SetHelp(keys[0], binding.Help().Desc)
	k.bindings[button] = binding
}
