package version

import (
	"fmt"

	"github.com/kptv-cli/kptv/color"
	"github.com/kptv-cli/kptv/constant"
	"github.com/kptv-cli/kptv/icon"
	"github.com/kptv-cli/kptv/key"
	"github.com/kptv-cli/kptv/style"
	"github.com/kptv-cli/kptv/util"
	"github.com/spf13/viper"
)

const releasePage = "https://github.com/kptv-cli/kptv/releases/tag/v"

// newer reports whether latest is ahead of the running build.
func newer(latest string) bool {
	comp, err := Compare(latest, constant.Version)
	return err == nil && comp > 0
}

// Notify prints a notice when a newer release exists. Lookup errors are ignored.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(icon.Get(icon.Progress) + " Checking for a new version...")
	latest, err := Latest()
	erase()
	if err != nil || !newer(latest) {
		return
	}

	fmt.Printf("\n%s New version is available %s %s\n%s\n\n",
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint("(you're on "+constant.Version+")"),
		style.Faint(releasePage+latest),
	)
}
