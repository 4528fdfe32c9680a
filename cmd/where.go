package cmd

import (
	"os"

	"github.com/kptv-cli/kptv/color"
	"github.com/kptv-cli/kptv/style"
	"github.com/kptv-cli/kptv/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// location is a place kptv keeps files in. where prints it and clear empties the
// ones that have a description.
type location struct {
	flag        string
	short       mo.Option[string]
	title       string
	path        func() string
	hidden      bool
	description mo.Option[string]
}

var locations = []location{
	{"config", mo.Some("c"), "Config", where.Config, false, mo.None[string]()},
	{"logs", mo.Some("l"), "Logs", where.Logs, false, mo.None[string]()},
	{"preferences", mo.Some("p"), "Preferences", where.Preferences, false, mo.Some("saved preferences")},
	{"checkpoints", mo.Some("k"), "Checkpoints", where.Checkpoints, false, mo.Some("resume checkpoints")},
	{"cache", mo.None[string](), "Cache", where.Cache, true, mo.Some("cache directory")},
	{"temp", mo.None[string](), "Temp", where.Temp, true, mo.Some("player sockets")},
	{"queries", mo.None[string](), "Queries", where.Queries, true, mo.Some("queries history")},
}

func (l location) register(cmd *cobra.Command, usage string) {
	if short, ok := l.short.Get(); ok {
		cmd.Flags().BoolP(l.flag, short, false, usage)
	} else {
		cmd.Flags().Bool(l.flag, false, usage)
	}
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		l.register(whereCmd, l.title+" path")
		if l.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(l.flag))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string {
		return l.flag
	})...)
	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration, logs and saved state live",
	Run: func(cmd *cobra.Command, args []string) {
		if l, ok := lo.Find(locations, func(l location) bool {
			return lo.Must(cmd.Flags().GetBool(l.flag))
		}); ok {
			cmd.Println(l.path())
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		visible := lo.Reject(locations, func(l location, _ int) bool { return l.hidden })
		for i, l := range visible {
			if i > 0 {
				cmd.Println()
			}
			cmd.Printf("%s %s\n", header(l.title+"?"), style.Fg(color.Yellow)("--"+l.flag))
			cmd.Println(l.path())
		}
	},
}
