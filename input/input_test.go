package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDispatcher(t *testing.T) {
	Convey("Given a dispatcher with a view and an overlay", t, func() {
		d := NewDispatcher()
		var order []string

		d.Register([]Button{Back, Enter}, func(b Button) bool {
			order = append(order, "view "+string(b))
			return true
		})
		closeOverlay := d.Register([]Button{Back, Blue}, func(b Button) bool {
			order = append(order, "overlay "+string(b))
			return b == Back
		})

		Convey("The most recent registration wins", func() {
			So(d.Dispatch(Back), ShouldBeTrue)
			So(order, ShouldResemble, []string{"overlay back"})
		})

		Convey("Unconsumed presses fall through", func() {
			d.Register([]Button{Enter}, func(Button) bool {
				order = append(order, "passive")
				return false
			})
			So(d.Dispatch(Enter), ShouldBeTrue)
			So(order, ShouldResemble, []string{"passive", "view enter"})
		})

		Convey("Buttons nobody listens to are not handled", func() {
			So(d.Dispatch(Blue), ShouldBeFalse)
			So(d.Dispatch(Red), ShouldBeFalse)
			So(order, ShouldResemble, []string{"overlay blue"})
		})

		Convey("Unregistering restores the previous handler", func() {
			closeOverlay()
			closeOverlay()
			So(d.Len(), ShouldEqual, 1)
			So(d.Dispatch(Back), ShouldBeTrue)
			So(order, ShouldResemble, []string{"view back"})
		})

		Convey("A handler may unregister itself while dispatching", func() {
			var self func()
			self = d.Register([]Button{Stop}, func(Button) bool {
				self()
				return true
			})
			So(d.Dispatch(Stop), ShouldBeTrue)
			So(d.Dispatch(Stop), ShouldBeFalse)
		})
	})
}

func TestKeymap(t *testing.T) {
	Convey("Given the default keymap", t, func() {
		k := NewKeymap()

		Convey("Terminal keys resolve to buttons", func() {
			So(k.Button(tea.KeyMsg{Type: tea.KeyEnter}).MustGet(), ShouldEqual, Enter)
			So(k.Button(tea.KeyMsg{Type: tea.KeyEsc}).MustGet(), ShouldEqual, Back)
			So(k.Button(tea.KeyMsg{Type: tea.KeyUp}).MustGet(), ShouldEqual, ArrowUp)
			So(k.Button(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}).MustGet(), ShouldEqual, PlayPause)
			So(k.Button(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}}).MustGet(), ShouldEqual, ChannelUp)
			So(k.Button(tea.KeyMsg{Type: tea.KeyF4}).MustGet(), ShouldEqual, Blue)
		})

		Convey("Unknown keys resolve to nothing", func() {
			So(k.Button(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}}).IsAbsent(), ShouldBeTrue)
		})

		Convey("Buttons can be rebound", func() {
			k.Rebind(ChannelUp, ">")
			So(k.Button(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'>'}}).MustGet(), ShouldEqual, ChannelUp)
			So(k.Button(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}}).IsAbsent(), ShouldBeTrue)
			So(k.Binding(ChannelUp).Help().Key, ShouldEqual, ">")
		})

		Convey("Rebinding without keys unbinds the button", func() {
			So(func() { k.Rebind(Yellow) }, ShouldNotPanic)
			So(k.Button(tea.KeyMsg{Type: tea.KeyF3}).IsAbsent(), ShouldBeTrue)
			So(k.Binding(Yellow).Enabled(), ShouldBeFalse)
		})

		Convey("Every button has a binding", func() {
			So(k.Bindings(Buttons...), ShouldHaveLength, len(Buttons))
		})
	})
}
