package tui

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kptv-cli/kptv/api"
	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/log"
	"github.com/kptv-cli/kptv/navigator"
	"github.com/kptv-cli/kptv/playback"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type itemLoadedMsg struct {
	item *catalog.Item
}

type playbackEndedMsg struct {
	err error
}

type statusMsg playback.Status

type watchedToggledMsg struct {
	video   *catalog.Video
	watched bool
}

func (b *statefulBubble) loadItem() tea.Cmd {
	return func() tea.Msg {
		item, err := b.options.Catalog.Item(b.ctx, b.options.ItemID)
		if err != nil {
			return fmt.Errorf("load item %d: %w", b.options.ItemID, err)
		}
		return itemLoadedMsg{item: item}
	}
}

// play runs a session from the command goroutine. The message arrives once the user
// leaves the item or the session fails.
func (b *statefulBubble) play(target navigator.Target) tea.Cmd {
	b.sessions.Add(1)
	b.status = playback.Status{Loading: true}
	b.newState(playingState)

	run := func() tea.Msg {
		defer b.sessions.Done()
		log.Infof("playing %s", target)
		return playbackEndedMsg{err: b.options.Player.Run(b.ctx, target)}
	}
	return tea.Batch(run, b.pollStatus(), b.spinnerC.Tick)
}

func (b *statefulBubble) pollStatus() tea.Cmd {
	return tea.Tick(statusInterval, func(time.Time) tea.Msg {
		return statusMsg(b.options.Player.Status())
	})
}

func (b *statefulBubble) toggleWatched(video *catalog.Video) tea.Cmd {
	item := b.item
	return func() tea.Msg {
		toggle := api.Toggle{Video: mo.Some(video.Number)}
		if video.SNumber != 0 {
			toggle.Season = mo.Some(video.SNumber)
		}
		watched, err := b.options.Catalog.ToggleWatched(b.ctx, item.ID, toggle)
		if err != nil {
			log.Warnf("toggling watched: %v", err)
			return "Could not update the watched mark"
		}
		return watchedToggledMsg{video: video, watched: watched}
	}
}

// populate fills the lists from the item and points the cursors at what playback
// would pick by default.
func (b *statefulBubble) populate() tea.Cmd {
	item := b.item
	next := catalog.VideoToPlay(item, mo.None[int](), mo.None[int]())

	if len(item.Videos) > 0 || len(item.Seasons) == 0 {
		b.season = nil
		b.episodesC.Title = itemTitle(item)
		return b.setEpisodes(item.Videos, next, b.state == loadingState)
	}

	b.seasonsC.Title = itemTitle(item)
	seasons := slices.Clone(item.Seasons)
	slices.SortStableFunc(seasons, func(x, y *catalog.Season) int { return x.Number - y.Number })

	defaultSeason := catalog.SeasonToPlay(item, mo.None[int]())
	items := lo.Map(seasons, func(s *catalog.Season, _ int) list.Item {
		return &listItem{internal: s, next: s == defaultSeason}
	})
	cmd := b.seasonsC.SetItems(items)
	if b.state == loadingState {
		if _, i, ok := lo.FindIndexOf(seasons, func(s *catalog.Season) bool { return s == defaultSeason }); ok {
			b.seasonsC.Select(i)
		}
	}

	if b.season != nil {
		if season, ok := lo.Find(item.Seasons, func(s *catalog.Season) bool { return s.Number == b.season.Number }); ok {
			b.season = season
			return tea.Batch(cmd, b.setEpisodes(season.Episodes, next, false))
		}
	}
	return cmd
}

// setEpisodes lists videos by number. The cursor stays where it was, or moves to next
// when jump is set.
func (b *statefulBubble) setEpisodes(videos []*catalog.Video, next *catalog.Video, jump bool) tea.Cmd {
	sorted := slices.Clone(videos)
	slices.SortStableFunc(sorted, func(x, y *catalog.Video) int { return x.Number - y.Number })

	cursor := b.episodesC.Index()
	items := lo.Map(sorted, func(v *catalog.Video, _ int) list.Item {
		return &listItem{internal: v, next: v == next}
	})
	cmd := b.episodesC.SetItems(items)

	if jump {
		_, cursor, _ = lo.FindIndexOf(sorted, func(v *catalog.Video) bool { return v == next })
	}
	if cursor >= 0 && cursor < len(items) {
		b.episodesC.Select(cursor)
	}
	return cmd
}

func (b *statefulBubble) openSeason(season *catalog.Season) tea.Cmd {
	b.season = season
	b.episodesC.Title = fmt.Sprintf("Season %d", season.Number)
	next := catalog.VideoToPlay(b.item, mo.None[int](), mo.Some(season.Number))
	cmd := b.setEpisodes(season.Episodes, next, true)
	b.newState(episodesState)
	return cmd
}
