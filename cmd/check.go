package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kptv-cli/kptv/constant"
	"github.com/kptv-cli/kptv/icon"
	"github.com/kptv-cli/kptv/key"
	"github.com/kptv-cli/kptv/style"
	"github.com/spf13/viper"
)

var mpvInstallHints = map[string]string{
	constant.Darwin:  "brew install mpv",
	constant.Linux:   "sudo apt install mpv",
	constant.Windows: "scoop install mpv",
	constant.Android: "pkg install mpv",
}

// checkPlayer exits with install instructions when the configured mpv binary cannot be
// found.
func checkPlayer() {
	mpv := viper.GetString(key.PlayerMPVPath)
	if _, err := exec.LookPath(mpv); err != nil {
		fmt.Println(missingPlayerReport(mpv))
		os.Exit(1)
	}
}

func missingPlayerReport(mpv string) string {
	accent := style.New().Bold(true)
	sections := []string{
		accent.Foreground(style.HiRed).Render(icon.Get(icon.Fail) + " Error: Missing Dependency"),
		style.New().Foreground(style.Text).Render(
			fmt.Sprintf("The player '%s' was not found. Install mpv or set %s.", mpv, key.PlayerMPVPath),
		),
	}
	if hint, ok := mpvInstallHints[runtime.GOOS]; ok {
		sections = append(sections, "To install it, try running:\n  "+accent.Foreground(style.AccentColor).Render(hint))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0).
		Render(strings.Join(sections, "\n\n"))
}
