package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/kptv-cli/kptv/api"
	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/color"
	"github.com/kptv-cli/kptv/icon"
	"github.com/kptv-cli/kptv/log"
	"github.com/kptv-cli/kptv/player"
	"github.com/kptv-cli/kptv/style"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func printItems(cmd *cobra.Command, items []*catalog.Item, empty string) {
	if len(items) == 0 {
		cmd.Println(style.Faint(empty))
		return
	}
	for _, item := range items {
		cmd.Println(itemLine(item))
	}
}

func printPage(cmd *cobra.Command, p api.Pagination) {
	if p.Total > 1 {
		cmd.Println(style.Faint(fmt.Sprintf("page %d of %d", p.Current, p.Total)))
	}
}

func init() {
	rootCmd.AddCommand(bookmarksCmd)
	bookmarksCmd.Flags().IntP("page", "p", 1, "Page of the folder to show")
	bookmarksCmd.Flags().StringP("filter", "f", "", "Show only titles fuzzily matching the filter")
	bookmarksCmd.SetOut(os.Stdout)
}

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks [folder id]",
	Short: "List bookmark folders, or the items of one folder",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client := api.NewFromConfig()

		if len(args) == 0 {
			folders, err := client.Bookmarks(ctx)
			handleErr(err)
			if len(folders) == 0 {
				cmd.Println(style.Faint("No bookmark folders"))
				return
			}
			for _, f := range folders {
				cmd.Printf("%s %s %s\n", style.Faint(fmt.Sprintf("%7d", f.ID)), f.Title, style.Faint(fmt.Sprintf("(%d)", f.Count)))
			}
			return
		}

		folderID, err := strconv.Atoi(args[0])
		handleErr(err)
		folder, items, pagination, err := client.BookmarkItems(ctx, folderID, lo.Must(cmd.Flags().GetInt("page")))
		handleErr(err)

		cmd.Println(style.Title(folder.Title))
		printItems(cmd, filterItems(items, lo.Must(cmd.Flags().GetString("filter"))), "The folder is empty")
		printPage(cmd, pagination)
	},
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
	collectionsCmd.Flags().StringP("sort", "s", string(api.ByCreated), "Order: created, watchers or views")
	collectionsCmd.Flags().StringP("title", "t", "", "Show only collections whose title contains this")
	collectionsCmd.Flags().IntP("page", "p", 1, "Page to show")
	_ = collectionsCmd.RegisterFlagCompletionFunc("sort", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(api.CollectionSorts, func(s api.CollectionSort, _ int) string {
			return string(s)
		}), cobra.ShellCompDirectiveNoFileComp
	})
	collectionsCmd.SetOut(os.Stdout)
}

var collectionsCmd = &cobra.Command{
	Use:   "collections [collection id]",
	Short: "Browse editorial collections, or the items of one collection",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client := api.NewFromConfig()

		if len(args) > 0 {
			id, err := strconv.Atoi(args[0])
			handleErr(err)
			collection, items, err := client.CollectionItems(ctx, id)
			handleErr(err)

			cmd.Println(style.Title(collection.Title))
			printItems(cmd, items, "The collection is empty")
			return
		}

		sort := api.CollectionSort(lo.Must(cmd.Flags().GetString("sort")))
		if !lo.Contains(api.CollectionSorts, sort) {
			handleErr(fmt.Errorf("unknown sort %q, expected one of: created, watchers, views", sort))
		}

		collections, pagination, err := client.Collections(
			ctx,
			lo.Must(cmd.Flags().GetString("title")),
			sort,
			lo.Must(cmd.Flags().GetInt("page")),
		)
		handleErr(err)

		for _, c := range collections {
			cmd.Printf(
				"%s %s %s\n",
				style.Faint(fmt.Sprintf("%7d", c.ID)),
				c.Title,
				style.Faint(humanize.Comma(int64(c.Views))+" views"),
			)
		}
		printPage(cmd, pagination)
	},
}

func init() {
	rootCmd.AddCommand(channelsCmd)
	channelsCmd.Flags().StringP("filter", "f", "", "Show only channels fuzzily matching the filter")
	channelsCmd.SetOut(os.Stdout)
}

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List live TV channels",
	Run: func(cmd *cobra.Command, args []string) {
		channels, err := api.NewFromConfig().Channels(context.Background())
		handleErr(err)

		filter := lo.Must(cmd.Flags().GetString("filter"))
		channels = lo.Filter(channels, func(c api.Channel, _ int) bool {
			return filter == "" || fuzzy.MatchNormalizedFold(filter, c.Title)
		})
		for _, c := range channels {
			cmd.Printf("%s %s\n", style.Faint(fmt.Sprintf("%7d", c.ID)), c.Title)
		}
	},
}

func init() {
	channelsCmd.AddCommand(channelsPlayCmd)
}

var channelsPlayCmd = &cobra.Command{
	Use:   "play [channel id]",
	Short: "Watch a live channel in mpv",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		handleErr(err)

		checkPlayer()

		ctx, cancel := signalContext()
		defer cancel()

		channels, err := api.NewFromConfig().Channels(ctx)
		handleErr(err)
		channel, ok := lo.Find(channels, func(c api.Channel) bool { return c.ID == id })
		if !ok {
			handleErr(fmt.Errorf("channel %d not found", id))
		}

		mpv := player.NewMPV()
		log.With(log.Fields{"channel": channel.ID}).Info("playing live channel")
		handleErr(mpv.Play(player.Media{URL: channel.Stream, Title: channel.Title}))
		defer mpv.Close()

		fmt.Printf("%s Watching %s\n", icon.Get(icon.Play), style.Fg(color.Purple)(channel.Title))
		select {
		case <-mpv.Wait():
		case <-ctx.Done():
		}
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().StringP("sort", "s", "", "Server order, for example rating- or created-")
	browseCmd.Flags().IntP("genre", "g", 0, "Genre id")
	browseCmd.Flags().IntP("page", "p", 1, "Page to show")
	browseCmd.SetOut(os.Stdout)
}

var browseCmd = &cobra.Command{
	Use:       "browse [type]",
	Short:     "Browse a category of the library",
	Example:   "  kptv browse serial -s rating-",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"movie", "serial", "tvshow", "3D", "concert", "documovie", "docuserial"},
	Run: func(cmd *cobra.Command, args []string) {
		query := api.ItemsQuery{
			Sort:  lo.Must(cmd.Flags().GetString("sort")),
			Genre: lo.Must(cmd.Flags().GetInt("genre")),
			Page:  lo.Must(cmd.Flags().GetInt("page")),
		}
		if len(args) > 0 {
			query.Type = args[0]
		}

		items, pagination, err := api.NewFromConfig().Items(context.Background(), query)
		handleErr(err)
		printItems(cmd, items, "Nothing found")
		printPage(cmd, pagination)
	},
}
