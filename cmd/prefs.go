package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/kptv-cli/kptv/color"
	"github.com/kptv-cli/kptv/icon"
	"github.com/kptv-cli/kptv/prefs"
	"github.com/kptv-cli/kptv/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(prefsCmd)
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect the audio, subtitle and quality choices saved per item",
}

func init() {
	prefsCmd.AddCommand(prefsShowCmd)
	prefsShowCmd.SetOut(os.Stdout)
}

var prefsShowCmd = &cobra.Command{
	Use:   "show [item id]",
	Short: "Show the track choices saved for an item",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		itemID, err := parseItemID(args[0])
		handleErr(err)

		store := prefs.Default()
		keys := prefs.ItemKeys(store, itemID)
		if len(keys) == 0 {
			cmd.Println(style.Faint(fmt.Sprintf("Nothing saved for item %d", itemID)))
			return
		}

		slices.Sort(keys)
		for _, k := range keys {
			value, _ := store.Lookup(k)
			rendered := style.Faint("none")
			if value != nil {
				rendered = style.Fg(color.Yellow)(fmt.Sprint(value))
			}
			cmd.Printf("%s = %s\n", style.Fg(color.Purple)(k), rendered)
		}
	},
}

func init() {
	prefsCmd.AddCommand(prefsClearCmd)
}

var prefsClearCmd = &cobra.Command{
	Use:   "clear [item id]",
	Short: "Forget the track choices saved for an item",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		itemID, err := parseItemID(args[0])
		handleErr(err)

		handleErr(prefs.ClearItem(prefs.Default(), itemID))
		fmt.Printf("%s cleared preferences of item %d\n", style.Fg(color.Green)(icon.Get(icon.Success)), itemID)
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.SetOut(os.Stdout)
}

func completionSettings(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return lo.Map(prefs.Flags, func(f prefs.Flag, _ int) string { return f.Name }), cobra.ShellCompDirectiveNoFileComp
}

var settingsCmd = &cobra.Command{
	Use:   "settings [name] [value]",
	Short: "Show or change the playback settings kept with the preferences",
	Long: `Show or change the playback settings kept with the preferences.

A setting that was never changed follows the config file, see "kptv config info".
Use "kptv settings [name] --reset" to go back to it.`,
	Args:              cobra.MaximumNArgs(2),
	ValidArgsFunction: completionSettings,
	Run: func(cmd *cobra.Command, args []string) {
		store := prefs.Default()

		switch {
		case len(args) == 1 && lo.Must(cmd.Flags().GetBool("reset")):
			if _, ok := prefs.FindFlag(args[0]); !ok {
				handleErr(fmt.Errorf("unknown setting %q", args[0]))
			}
			handleErr(store.Delete(args[0]))
			fmt.Printf("%s reset %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(args[0]))
			return
		case len(args) == 2:
			handleErr(prefs.SetFlag(store, args[0], args[1]))
			fmt.Printf(
				"%s set %s to %s\n",
				style.Fg(color.Green)(icon.Get(icon.Success)),
				style.Fg(color.Purple)(args[0]),
				style.Fg(color.Yellow)(args[1]),
			)
			return
		}

		flags := prefs.Flags
		if len(args) == 1 {
			flag, ok := prefs.FindFlag(args[0])
			if !ok {
				handleErr(fmt.Errorf("unknown setting %q", args[0]))
			}
			flags = []prefs.Flag{flag}
		}

		for _, flag := range flags {
			value, stored := prefs.Effective(store, flag)
			origin := style.Faint("(config " + flag.Fallback + ")")
			if stored {
				origin = style.Faint("(saved)")
			}
			cmd.Printf(
				"%s = %s %s\n  %s\n",
				style.Fg(color.Purple)(flag.Name),
				style.Fg(color.Yellow)(value),
				origin,
				style.Faint(flag.Description),
			)
		}
	},
}

func init() {
	settingsCmd.Flags().BoolP("reset", "r", false, "Remove the saved value so the config default applies again")
}
