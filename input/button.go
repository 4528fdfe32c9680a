// Package input maps terminal keys to the logical buttons of a TV remote and routes
// button presses to the handlers of the active views.
package input

// Button is a logical remote-control button.
type Button string

const (
	Back        Button = "back"
	Enter       Button = "enter"
	PlayPause   Button = "play_pause"
	Play        Button = "play"
	Pause       Button = "pause"
	Stop        Button = "stop"
	ArrowUp     Button = "arrow_up"
	ArrowDown   Button = "arrow_down"
	ArrowLeft   Button = "arrow_left"
	ArrowRight  Button = "arrow_right"
	ChannelUp   Button = "channel_up"
	ChannelDown Button = "channel_down"
	Red         Button = "red"
	Green       Button = "green"
	Yellow      Button = "yellow"
	Blue        Button = "blue"
)

// Buttons lists every button in remote layout order.
var Buttons = []Button{
	Back, Enter, PlayPause, Play, Pause, Stop,
	ArrowUp, ArrowDown, ArrowLeft, ArrowRight,
	ChannelUp, ChannelDown,
	Red, Green, Yellow, Blue,
}
