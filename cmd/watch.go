package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/kptv-cli/kptv/api"
	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/color"
	"github.com/kptv-cli/kptv/constant"
	"github.com/kptv-cli/kptv/icon"
	"github.com/kptv-cli/kptv/style"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Manage watched marks and the lists of items in progress",
}

func init() {
	watchCmd.AddCommand(watchToggleCmd)
	watchToggleCmd.Flags().IntP("season", "s", 0, "Season to toggle, or the season of the episode")
	watchToggleCmd.Flags().IntP("episode", "e", 0, "Episode to toggle")
	watchToggleCmd.Flags().Bool("watched", false, "Mark as watched instead of flipping")
	watchToggleCmd.Flags().Bool("unwatched", false, "Mark as not watched instead of flipping")
	watchToggleCmd.MarkFlagsMutuallyExclusive("watched", "unwatched")
}

var watchToggleCmd = &cobra.Command{
	Use:     "toggle [item id]",
	Short:   "Flip the watched mark of an item, a season or an episode",
	Example: "  kptv watch toggle 8345 -s 1 -e 3 --watched",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		itemID, err := parseItemID(args[0])
		handleErr(err)

		var toggle api.Toggle
		if cmd.Flags().Changed("season") {
			toggle.Season = mo.Some(lo.Must(cmd.Flags().GetInt("season")))
		}
		if cmd.Flags().Changed("episode") {
			toggle.Video = mo.Some(lo.Must(cmd.Flags().GetInt("episode")))
		}
		switch {
		case lo.Must(cmd.Flags().GetBool("watched")):
			toggle.Status = mo.Some(catalog.Watched)
		case lo.Must(cmd.Flags().GetBool("unwatched")):
			toggle.Status = mo.Some(catalog.NotWatched)
		}

		watched, err := api.NewFromConfig().ToggleWatched(context.Background(), itemID, toggle)
		handleErr(err)

		state := style.Fg(color.Yellow)("not watched")
		if watched {
			state = style.Fg(color.Green)("watched")
		}
		fmt.Printf("%s marked %s as %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), toggleTarget(itemID, toggle), state)
	},
}

func toggleTarget(itemID int, t api.Toggle) string {
	target := fmt.Sprintf("item %d", itemID)
	if s, ok := t.Season.Get(); ok {
		target += fmt.Sprintf(" season %d", s)
	}
	if v, ok := t.Video.Get(); ok {
		target += fmt.Sprintf(" episode %d", v)
	}
	return style.Fg(color.Purple)(target)
}

func init() {
	watchCmd.AddCommand(watchStartCmd)
}

var watchStartCmd = &cobra.Command{
	Use:   "start [item id]",
	Short: "Put the next video of an item in progress without playing it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		itemID, err := parseItemID(args[0])
		handleErr(err)

		ctx := context.Background()
		client := api.NewFromConfig()
		item, err := client.Item(ctx, itemID)
		handleErr(err)

		video := catalog.VideoToPlay(item, mo.None[int](), mo.None[int]())
		if video == nil {
			handleErr(errors.New("nothing to watch"))
		}

		handleErr(client.MarkTime(ctx, item.ID, constant.WatchStartOffset, video.Number, video.SNumber))
		fmt.Printf("%s started %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(catalog.Title(item, video)))
	},
}

func init() {
	watchCmd.AddCommand(watchSubscribeCmd)
}

var watchSubscribeCmd = &cobra.Command{
	Use:     "subscribe [item id]",
	Aliases: []string{"sub"},
	Short:   "Add a serial to the watchlist or remove it",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		itemID, err := parseItemID(args[0])
		handleErr(err)

		subscribed, err := api.NewFromConfig().ToggleWatchlist(context.Background(), itemID)
		handleErr(err)

		if subscribed {
			fmt.Printf("%s subscribed to item %d\n", style.Fg(color.Green)(icon.Get(icon.Success)), itemID)
		} else {
			fmt.Printf("%s unsubscribed from item %d\n", style.Fg(color.Green)(icon.Get(icon.Success)), itemID)
		}
	},
}

func init() {
	watchCmd.AddCommand(watchListCmd)
	watchListCmd.Flags().StringP("filter", "f", "", "Show only titles fuzzily matching the filter")
	watchListCmd.Flags().Bool("subscribed", false, "List subscribed serials only")
	watchListCmd.SetOut(os.Stdout)
}

var watchListCmd = &cobra.Command{
	Use:       "list [serials|movies]",
	Short:     "List items in progress",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"serials", "movies"},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client := api.NewFromConfig()

		kind := "serials"
		if len(args) > 0 {
			kind = args[0]
		}

		var (
			items []*catalog.Item
			err   error
		)
		switch kind {
		case "movies":
			items, err = client.WatchingMovies(ctx)
		default:
			items, err = client.WatchingSerials(ctx, lo.Must(cmd.Flags().GetBool("subscribed")))
		}
		handleErr(err)

		items = filterItems(items, lo.Must(cmd.Flags().GetString("filter")))
		if len(items) == 0 {
			cmd.Println(style.Faint("Nothing in progress"))
			return
		}
		for _, item := range items {
			cmd.Println(itemLine(item))
		}
	},
}

func filterItems(items []*catalog.Item, filter string) []*catalog.Item {
	if filter == "" {
		return items
	}
	return lo.Filter(items, func(item *catalog.Item, _ int) bool {
		return fuzzy.MatchNormalizedFold(filter, item.Title)
	})
}

func itemLine(item *catalog.Item) string {
	kind := icon.Get(icon.Movie)
	if item.Type == "serial" || catalog.IsSerial(item) {
		kind = icon.Get(icon.Serial)
	}
	line := fmt.Sprintf("%s %s %s", kind, style.Faint(fmt.Sprintf("%7d", item.ID)), item.Title)
	if item.Year > 0 {
		line += style.Faint(fmt.Sprintf(" (%d)", item.Year))
	}
	if item.New > 0 {
		line += " " + style.Fg(color.Yellow)(fmt.Sprintf("+%d new", item.New))
	}
	return line
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("page", "p", 1, "Page to show")
	historyCmd.Flags().IntP("limit", "l", 20, "Entries per page")
	historyCmd.SetOut(os.Stdout)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the account watch history",
	Run: func(cmd *cobra.Command, args []string) {
		page := lo.Must(cmd.Flags().GetInt("page"))
		entries, pagination, err := api.NewFromConfig().History(
			context.Background(),
			page,
			lo.Must(cmd.Flags().GetInt("limit")),
		)
		handleErr(err)

		for _, entry := range entries {
			if entry.Item == nil {
				continue
			}
			title := catalog.Title(entry.Item, entry.Media)
			cmd.Printf(
				"%s %s %s\n",
				style.Faint(fmt.Sprintf("%7d", entry.Item.ID)),
				title,
				style.Faint(humanize.Time(entry.LastSeenAt())),
			)
		}
		if pagination.Total > 1 {
			cmd.Println(style.Faint(fmt.Sprintf("page %d of %d", page, pagination.Total)))
		}
	},
}
