// Package style renders text with lipgloss in the kptv color scheme.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/kptv-cli/kptv/color"
)

// Scheme colors for the browser and the dependency report.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Text     = lipgloss.Color("#cdd6f4")
	Lavender = lipgloss.Color("#b4befe")
	Peach    = lipgloss.Color("#fab387")
	Mauve    = lipgloss.Color("#cba6f7")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	HiRed    = lipgloss.Color("#f38ba8")

	AccentColor       = Mauve
	ActiveBorderColor = AccentColor
)

var (
	titleFg = lipgloss.Color("230")
	titleBg = lipgloss.Color("62")
)

func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg colors the foreground.
func Fg(c lipgloss.Color) func(string) string {
	return render(New().Foreground(c))
}

// Truncate fits text into width cells.
func Truncate(width int) func(string) string {
	return render(New().Width(width).MaxHeight(1))
}

// Tag renders a padded badge.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return render(New().Foreground(fg).Background(bg).Padding(0, 1))
}

func render(s lipgloss.Style) func(string) string {
	return func(text string) string { return s.Render(text) }
}

var (
	Faint      = render(New().Faint(true))
	Bold       = render(New().Bold(true))
	Title      = Tag(titleFg, titleBg)
	ErrorTitle = Tag(titleFg, color.Red)
)
