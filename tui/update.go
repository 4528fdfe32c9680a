package tui

import (
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/internal/ui"
	"github.com/kptv-cli/kptv/navigator"
	"github.com/kptv-cli/kptv/playback"
	"github.com/samber/mo"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case error:
		b.stopLoading()
		b.raiseError(msg)
		return b, cmd
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case itemLoadedMsg:
		b.stopLoading()
		b.item = msg.item
		return b, tea.Batch(cmd, b.onItemLoaded())
	case playbackEndedMsg:
		return b, tea.Batch(cmd, b.onPlaybackEnded(msg.err))
	case statusMsg:
		if b.state != playingState {
			return b, cmd
		}
		b.status = playback.Status(msg)
		return b, tea.Batch(cmd, b.pollStatus())
	case watchedToggledMsg:
		return b, tea.Batch(cmd, b.onWatchedToggled(msg))
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	var stateCmd tea.Cmd
	switch b.state {
	case loadingState:
		stateCmd = b.updateLoading(msg)
	case seasonsState:
		stateCmd = b.updateSeasons(msg)
	case episodesState:
		stateCmd = b.updateEpisodes(msg)
	case playingState:
		stateCmd = b.updatePlaying(msg)
	case errorState:
		stateCmd = b.updateError(msg)
	}

	return b, tea.Batch(cmd, stateCmd)
}

func (b *statefulBubble) onItemLoaded() tea.Cmd {
	cmd := b.populate()
	if b.state != loadingState {
		return cmd
	}

	if target, ok := b.options.Play.Get(); ok {
		b.options.Play = mo.None[navigator.Target]()
		if len(b.item.Seasons) > 0 {
			b.setState(seasonsState)
		} else {
			b.setState(episodesState)
		}
		return tea.Batch(cmd, b.play(target))
	}

	if len(b.item.Videos) == 0 && len(b.item.Seasons) > 0 {
		b.setState(seasonsState)
	} else {
		b.setState(episodesState)
	}
	return cmd
}

func (b *statefulBubble) onPlaybackEnded(err error) tea.Cmd {
	if b.state == playingState {
		b.previousState()
	}

	var notify tea.Cmd
	if err != nil {
		notify = ui.Notify("Playback failed: " + err.Error())
	}

	// watched marks moved while playing
	b.loading = true
	return tea.Batch(notify, b.loadItem(), b.spinnerC.Tick)
}

func (b *statefulBubble) onWatchedToggled(msg watchedToggledMsg) tea.Cmd {
	if msg.watched {
		msg.video.Watching.Status = catalog.Watched
	} else {
		msg.video.Watching.Status = catalog.NotWatched
	}
	return b.populate()
}

func (b *statefulBubble) updateLoading(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if _, ok := msg.(spinner.TickMsg); ok && b.loading {
		b.spinnerC, cmd = b.spinnerC.Update(msg)
	}
	return cmd
}

func (b *statefulBubble) updateSeasons(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if season, ok := b.selectedSeason(); ok {
				return b.openSeason(season)
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.resume):
			return b.play(navigator.Target{ItemID: b.item.ID})
		case bubblesKey.Matches(msg, b.keymap.back):
			return nil
		}
	}

	var cmd tea.Cmd
	b.seasonsC, cmd = b.seasonsC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateEpisodes(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.play):
			if video, ok := b.selectedVideo(); ok {
				return b.play(navigator.TargetOf(b.item, video))
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.resume):
			target := navigator.Target{ItemID: b.item.ID}
			if b.season != nil {
				target.Season = mo.Some(b.season.Number)
			}
			return b.play(target)
		case bubblesKey.Matches(msg, b.keymap.toggleWatched):
			if video, ok := b.selectedVideo(); ok {
				return b.toggleWatched(video)
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return nil
		}
	}

	var cmd tea.Cmd
	b.episodesC, cmd = b.episodesC.Update(msg)
	return cmd
}

// updatePlaying forwards keys to the session as remote buttons.
func (b *statefulBubble) updatePlaying(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if button, ok := b.remoteButton(msg); ok {
			b.options.Dispatcher.Dispatch(button)
		}
		return nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return cmd
	}
	return nil
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
		case bubblesKey.Matches(msg, b.keymap.quit):
			return tea.Quit
		}
	}
	return nil
}

func (b *statefulBubble) selectedSeason() (*catalog.Season, bool) {
	return selected[*catalog.Season](b.seasonsC)
}

func (b *statefulBubble) selectedVideo() (*catalog.Video, bool) {
	return selected[*catalog.Video](b.episodesC)
}

func selected[T any](l list.Model) (T, bool) {
	var zero T
	item, ok := l.SelectedItem().(*listItem)
	if !ok || item == nil {
		return zero, false
	}
	v, ok := item.internal.(T)
	return v, ok
}
