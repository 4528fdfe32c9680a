package cmd

import (
	"fmt"

	"github.com/kptv-cli/kptv/api"
	"github.com/kptv-cli/kptv/color"
	"github.com/kptv-cli/kptv/icon"
	"github.com/kptv-cli/kptv/log"
	"github.com/kptv-cli/kptv/navigator"
	"github.com/kptv-cli/kptv/style"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().IntP("season", "s", 0, "Season to play")
	playCmd.Flags().IntP("episode", "e", 0, "Episode to play, within the season for serials")
	playCmd.Flags().Bool("headless", false, "Play without the terminal browser, controlling playback from mpv")
}

var playCmd = &cobra.Command{
	Use:   "play [item id]",
	Short: "Play an item, continuing where you left off",
	Long: `Play an item from the media library.

Without flags playback picks the first episode you have not watched yet and resumes it
from the saved position. When playback ends the next episode starts.`,
	Example: "  kptv play 8345 -s 2 -e 4",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		itemID, err := parseItemID(args[0])
		handleErr(err)

		target := navigator.Target{ItemID: itemID}
		if cmd.Flags().Changed("season") {
			target.Season = mo.Some(lo.Must(cmd.Flags().GetInt("season")))
		}
		if cmd.Flags().Changed("episode") {
			target.Episode = mo.Some(lo.Must(cmd.Flags().GetInt("episode")))
		}

		if !lo.Must(cmd.Flags().GetBool("headless")) {
			handleErr(browse(itemID, &target))
			return
		}

		checkPlayer()

		ctx, cancel := signalContext()
		defer cancel()

		session, _ := newSession(api.NewFromConfig())
		log.Infof("playing %s headless", target)
		fmt.Printf("%s Playing %s\n", icon.Get(icon.Play), style.Fg(color.Purple)(target.String()))
		handleErr(session.Run(ctx, target))
		fmt.Printf("%s Position saved\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
