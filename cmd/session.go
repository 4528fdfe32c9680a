package cmd

import (
	"fmt"
	"strconv"

	"github.com/kptv-cli/kptv/api"
	"github.com/kptv-cli/kptv/input"
	"github.com/kptv-cli/kptv/key"
	"github.com/kptv-cli/kptv/navigator"
	"github.com/kptv-cli/kptv/playback"
	"github.com/kptv-cli/kptv/player"
	"github.com/kptv-cli/kptv/prefs"
	"github.com/kptv-cli/kptv/resume"
	"github.com/kptv-cli/kptv/tui"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

func parseItemID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}

func newSession(client *api.Client) (*playback.Session, *input.Dispatcher) {
	var local resume.Checkpoints
	if viper.GetBool(key.HistorySaveCheckpoints) {
		local = resume.DefaultLedger()
	}

	dispatcher := input.NewDispatcher()
	session := playback.New(
		client,
		player.NewMPV(),
		prefs.Default(),
		local,
		dispatcher,
		playback.OptionsFromConfig(),
	)
	return session, dispatcher
}

// browse opens the item browser, starting playback of target right away when given.
func browse(itemID int, target *navigator.Target) error {
	checkPlayer()

	ctx, cancel := signalContext()
	defer cancel()

	client := api.NewFromConfig()
	session, dispatcher := newSession(client)

	options := &tui.Options{
		ItemID:     itemID,
		Catalog:    client,
		Player:     session,
		Dispatcher: dispatcher,
		Keymap:     input.NewKeymap(),
	}
	if target != nil {
		options.Play = mo.Some(*target)
	}
	return tui.Run(ctx, options)
}
