package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/kptv-cli/kptv/api"
	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/color"
	"github.com/kptv-cli/kptv/icon"
	"github.com/kptv-cli/kptv/open"
	"github.com/kptv-cli/kptv/resume"
	"github.com/kptv-cli/kptv/style"
	"github.com/kptv-cli/kptv/util"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(itemCmd)
	itemCmd.Flags().BoolP("json", "j", false, "Print the item as JSON")
	itemCmd.Flags().Bool("schema", false, "Print the JSON schema of the item output and exit")
	itemCmd.Flags().BoolP("trailer", "t", false, "Open the trailer in the default browser")
	itemCmd.Flags().Bool("similar", false, "List items similar to this one")
	itemCmd.MarkFlagsMutuallyExclusive("json", "schema", "trailer", "similar")
	itemCmd.SetOut(os.Stdout)
}

var itemCmd = &cobra.Command{
	Use:   "item [item id]",
	Short: "Show an item with its seasons and the episode to play next",
	Args: func(cmd *cobra.Command, args []string) error {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			return nil
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			reflector := new(jsonschema.Reflector)
			reflector.Anonymous = true
			reflector.Namer = func(t reflect.Type) string {
				return "catalog." + t.Name()
			}
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(reflector.Reflect(&catalog.Item{})))
			return
		}

		itemID, err := parseItemID(args[0])
		handleErr(err)

		client := api.NewFromConfig()
		if lo.Must(cmd.Flags().GetBool("similar")) {
			similar, err := client.Similar(context.Background(), itemID)
			handleErr(err)
			printItems(cmd, similar, "Nothing similar found")
			return
		}

		item, err := client.Item(context.Background(), itemID)
		handleErr(err)

		switch {
		case lo.Must(cmd.Flags().GetBool("json")):
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(item))
		case lo.Must(cmd.Flags().GetBool("trailer")):
			if item.Trailer == nil || item.Trailer.URL == "" {
				handleErr(errors.New("the item has no trailer"))
			}
			handleErr(open.Start(item.Trailer.URL))
		default:
			cmd.Print(renderItem(item, resume.DefaultLedger()))
		}
	},
}

func renderItem(item *catalog.Item, local resume.Checkpoints) string {
	var b strings.Builder
	width := 80
	if w, _, err := util.TerminalSize(); err == nil && w > 0 {
		width = w
	}

	kind := icon.Get(icon.Movie)
	if catalog.IsSerial(item) {
		kind = icon.Get(icon.Serial)
	}
	header := style.Bold(item.Title)
	if item.Year > 0 {
		header += style.Faint(fmt.Sprintf(" (%d)", item.Year))
	}
	if q, ok := catalog.QualityIcon(item).Get(); ok {
		header += " " + style.Tag(style.Base, style.AccentColor)(strings.ToUpper(q))
	}
	fmt.Fprintf(&b, "%s %s\n", kind, header)

	if item.Plot != "" {
		fmt.Fprintf(&b, "\n%s\n", style.Faint(wordwrap.String(item.Plot, width)))
	}

	if len(item.Seasons) > 0 && len(item.Videos) == 0 {
		b.WriteString("\n")
		seasons := slices.Clone(item.Seasons)
		slices.SortStableFunc(seasons, func(x, y *catalog.Season) int { return x.Number - y.Number })
		for _, s := range seasons {
			watched := lo.CountBy(s.Episodes, func(v *catalog.Video) bool { return v.Watching.Status == catalog.Watched })
			fmt.Fprintf(
				&b,
				"%s Season %d %s\n",
				seasonIcon(s),
				s.Number,
				style.Faint(fmt.Sprintf("%d/%s", watched, util.Quantify(len(s.Episodes), "episode", "episodes"))),
			)
		}
	}

	next := catalog.VideoToPlay(item, mo.None[int](), mo.None[int]())
	if next == nil {
		b.WriteString("\n" + style.Faint("Nothing to play") + "\n")
		return b.String()
	}

	line := catalog.Description(next)
	if line == "" {
		line = item.Title
	}
	fmt.Fprintf(&b, "\n%s %s %s", icon.Get(icon.Play), style.Fg(color.Yellow)("Next"), line)
	if start := resume.StartTime(item.ID, next, local); start > 0 {
		b.WriteString(style.Faint(" from " + util.FormatDuration(start)))
	}
	b.WriteString("\n")

	if len(next.Audios) > 0 {
		names := lo.Map(next.Audios, func(a catalog.AudioVariant, _ int) string { return a.Name() })
		fmt.Fprintf(&b, "  %s %s\n", style.Faint("audio"), strings.Join(names, ", "))
	}
	if len(next.Subtitles) > 0 {
		names := lo.Map(next.Subtitles, func(s catalog.SubtitleVariant, _ int) string { return s.Name() })
		fmt.Fprintf(&b, "  %s %s\n", style.Faint("subtitles"), strings.Join(names, ", "))
	}
	return b.String()
}

func seasonIcon(s *catalog.Season) string {
	switch s.Status() {
	case catalog.Watched:
		return icon.Get(icon.Watched)
	case catalog.Watching:
		return icon.Get(icon.Watching)
	default:
		return icon.Get(icon.NotWatched)
	}
}
