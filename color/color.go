// Package color names the terminal colors used in command output.
package color

import "github.com/charmbracelet/lipgloss"

// ANSI colors follow the terminal theme.
var (
	Red      = lipgloss.Color("1")
	Green    = lipgloss.Color("2")
	Yellow   = lipgloss.Color("3")
	Blue     = lipgloss.Color("4")
	Purple   = lipgloss.Color("5")
	Cyan     = lipgloss.Color("6")
	HiRed    = lipgloss.Color("9")
	HiPurple = lipgloss.Color("13")
)

// Orange highlights the primary action in help lines.
var Orange = lipgloss.Color("#ffb703")
