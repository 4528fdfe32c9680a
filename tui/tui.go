// Package tui is the interactive item browser: seasons, episodes and a remote
// overlay while a video plays.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kptv-cli/kptv/api"
	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/input"
	"github.com/kptv-cli/kptv/navigator"
	"github.com/kptv-cli/kptv/playback"
	"github.com/samber/mo"
)

// Catalog loads the browsed item and flips watched marks.
type Catalog interface {
	Item(ctx context.Context, id int) (*catalog.Item, error)
	ToggleWatched(ctx context.Context, itemID int, t api.Toggle) (bool, error)
}

// Player runs playback sessions, see playback.Session.
type Player interface {
	Run(ctx context.Context, target navigator.Target) error
	Status() playback.Status
	SettingsText() mo.Option[string]
}

type Options struct {
	ItemID     int
	Catalog    Catalog
	Player     Player
	Dispatcher *input.Dispatcher
	Keymap     *input.Keymap
	// Play starts playback right away instead of showing the episode list.
	Play mo.Option[navigator.Target]
}

// Run shows the browser until the user quits. A playback session still running at that
// point is cancelled and waited for, so its last checkpoint is saved.
func Run(ctx context.Context, options *Options) error {
	bubble := newBubble(ctx, options)
	defer bubble.shutdown()

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
