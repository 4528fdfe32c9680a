package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kptv-cli/kptv/api"
	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/color"
	"github.com/kptv-cli/kptv/internal/cache"
	"github.com/kptv-cli/kptv/key"
	"github.com/kptv-cli/kptv/log"
	"github.com/kptv-cli/kptv/query"
	"github.com/kptv-cli/kptv/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var searchCache = cache.New[[]*catalog.Item]("search", 6*time.Hour)

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntP("limit", "l", 0, "Maximum number of results (search.limit by default)")
	searchCmd.Flags().BoolP("fresh", "f", false, "Ignore cached results")
	searchCmd.SetOut(os.Stdout)
}

var searchCmd = &cobra.Command{
	Use:     "search [query]",
	Short:   "Search the catalog by title",
	Example: "  kptv search the office",
	Args:    cobra.MinimumNArgs(1),
	ValidArgsFunction: func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		q := strings.Join(args, " ")

		limit := lo.Must(cmd.Flags().GetInt("limit"))
		if limit <= 0 {
			limit = viper.GetInt(key.SearchLimit)
		}

		cacheKey := cache.Key(q, fmt.Sprint(limit))
		items, cached := searchCache.Get(cacheKey).Get()
		if !cached || lo.Must(cmd.Flags().GetBool("fresh")) {
			var err error
			items, err = api.NewFromConfig().Search(context.Background(), q, limit)
			handleErr(err)

			if err := searchCache.Set(cacheKey, items); err != nil {
				log.Warnf("caching search results: %v", err)
			}
		}

		if len(items) == 0 {
			cmd.Println(style.Faint("No results"))
			if suggestion, ok := query.Suggest(q).Get(); ok && suggestion != strings.ToLower(strings.TrimSpace(q)) {
				cmd.Printf("Did you mean %s?\n", style.Fg(color.Yellow)(suggestion))
			}
			return
		}

		if err := query.Remember(q, 1); err != nil {
			log.Warnf("remembering query: %v", err)
		}
		for _, item := range items {
			cmd.Println(itemLine(item))
		}
	},
}
