package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/color"
	"github.com/kptv-cli/kptv/icon"
	"github.com/kptv-cli/kptv/navigator"
	"github.com/kptv-cli/kptv/playback"
	"github.com/kptv-cli/kptv/style"
	"github.com/kptv-cli/kptv/util"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
	panelStyle            = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(style.ActiveBorderColor).
				Padding(0, 1)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case seasonsState:
		output = listExtraPaddingStyle.Render(b.seasonsC.View())
	case episodesState:
		output = listExtraPaddingStyle.Render(b.episodesC.View())
	case playingState:
		output = b.viewPlaying()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " " + fmt.Sprintf("Fetching item %d", b.options.ItemID),
		},
	)
}

func (b *statefulBubble) viewPlaying() string {
	status := b.status

	if status.Loading {
		return b.renderLines(
			true,
			[]string{
				style.Title("Now Playing"),
				"",
				style.Fg(color.Purple)(status.Title),
				"",
				b.spinnerC.View() + " Loading media links",
			},
		)
	}

	lines := []string{
		style.Title("Now Playing"),
		"",
		style.Truncate(b.width)(icon.Get(icon.Play) + " " + style.Fg(color.Purple)(status.Title)),
	}
	if status.Description != "" {
		lines = append(lines, style.Faint(wordwrap.String(status.Description, b.width)))
	}

	state := "starting"
	if s, ok := status.State.Get(); ok {
		state = stateLabel(s)
	}
	lines = append(lines, "", fmt.Sprintf("%s %s", style.Bold(util.FormatDuration(status.Position)), style.Faint(state)))

	if sel, ok := status.Selection.Get(); ok {
		lines = append(lines, style.Truncate(b.width)(style.Faint(playback.Summary(sel))))
	}

	if text, ok := b.options.Player.SettingsText().Get(); ok {
		lines = append(lines, "", panelStyle.Render(text))
	}

	return b.renderLines(true, lines)
}

func stateLabel(s navigator.State) string {
	switch s {
	case navigator.Playing:
		return "playing"
	case navigator.Paused:
		return "paused"
	case navigator.Exiting:
		return "leaving"
	default:
		return "switching episode"
	}
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(color.Red).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(b.lastError.Error()), b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	h := lipgloss.Height(l)
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

// itemTitle names the item in list titles.
func itemTitle(item *catalog.Item) string {
	title := item.Title
	if item.Year > 0 {
		title += fmt.Sprintf(" (%d)", item.Year)
	}
	if q, ok := catalog.QualityIcon(item).Get(); ok {
		title += " " + strings.ToUpper(q)
	}
	return title
}
