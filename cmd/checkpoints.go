package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/kptv-cli/kptv/color"
	"github.com/kptv-cli/kptv/icon"
	"github.com/kptv-cli/kptv/resume"
	"github.com/kptv-cli/kptv/style"
	"github.com/kptv-cli/kptv/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkpointsCmd)
	checkpointsCmd.Flags().IntP("item", "i", 0, "Show only the checkpoints of this item")
	checkpointsCmd.Flags().IntP("limit", "l", 0, "Show at most this many checkpoints")
	checkpointsCmd.SetOut(os.Stdout)
}

var checkpointsCmd = &cobra.Command{
	Use:   "checkpoints",
	Short: "List the resume positions saved on this machine, most recent first",
	Run: func(cmd *cobra.Command, args []string) {
		all, err := resume.DefaultLedger().All()
		handleErr(err)

		if itemID := lo.Must(cmd.Flags().GetInt("item")); itemID > 0 {
			all = lo.Filter(all, func(c resume.Checkpoint, _ int) bool { return c.ItemID == itemID })
		}
		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && len(all) > limit {
			all = all[:limit]
		}

		if len(all) == 0 {
			cmd.Println(style.Faint("No checkpoints"))
			return
		}

		for _, c := range all {
			cmd.Printf(
				"%s %s %s %s\n",
				icon.Get(icon.Watching),
				style.Fg(color.Purple)(c.Key.String()),
				style.Bold(util.FormatDuration(c.Time)),
				style.Faint(humanize.Time(c.SavedAt)),
			)
		}
		cmd.Println(style.Faint(fmt.Sprintf("%s total", humanize.Comma(int64(len(all))))))
	},
}
