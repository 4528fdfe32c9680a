package cmd

import (
	"fmt"
	"os"

	"github.com/kptv-cli/kptv/icon"
	"github.com/kptv-cli/kptv/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// ignoreMissing treats removing something that is already gone as done.
func ignoreMissing(err error) error {
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

var clearable = lo.Filter(locations, func(l location, _ int) bool {
	return l.description.IsPresent()
})

func init() {
	rootCmd.AddCommand(clearCmd)
	for _, l := range clearable {
		l.register(clearCmd, "clear "+l.description.MustGet())
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached data and state saved on this machine",
	Run: func(cmd *cobra.Command, args []string) {
		chosen := lo.Filter(clearable, func(l location, _ int) bool {
			return lo.Must(cmd.Flags().GetBool(l.flag))
		})
		if len(chosen) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, l := range chosen {
			name := l.description.MustGet()
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), name))
			err := util.Delete(l.path())
			erase()
			handleErr(ignoreMissing(err))
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(name))
		}
	},
}
