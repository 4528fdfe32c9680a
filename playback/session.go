// Package playback runs a playback session: it opens videos of one item in mpv, keeps
// resume checkpoints in sync and maps remote buttons to player and navigation actions.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/input"
	"github.com/kptv-cli/kptv/key"
	"github.com/kptv-cli/kptv/log"
	"github.com/kptv-cli/kptv/navigator"
	"github.com/kptv-cli/kptv/player"
	"github.com/kptv-cli/kptv/prefs"
	"github.com/kptv-cli/kptv/resume"
	"github.com/kptv-cli/kptv/tracks"
	"github.com/kptv-cli/kptv/util"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// ErrNothingToPlay is returned for items without videos.
var ErrNothingToPlay = errors.New("nothing to play")

const osdDuration = 3 * time.Second

// API is the part of the media API a session needs.
type API interface {
	Item(ctx context.Context, id int) (*catalog.Item, error)
	MediaLinks(ctx context.Context, videoID int) (*catalog.Links, error)
	resume.Marker
}

type Options struct {
	// SyncInterval is the cadence of checkpoint ticks. Zero disables them.
	SyncInterval  time.Duration
	SkipStep      float64
	ShowStartFrom bool
}

func OptionsFromConfig() Options {
	return Options{
		SyncInterval:  time.Duration(viper.GetInt(key.PlayerTimeSyncInterval)) * time.Second,
		SkipStep:      float64(viper.GetInt(key.PlayerSkipStep)),
		ShowStartFrom: viper.GetBool(key.PlayerShowStartFromNotification),
	}
}

// Session plays one item at a time. Buttons arrive through the dispatcher and player
// events through an event listener, both from their own goroutines.
type Session struct {
	api        API
	player     player.Player
	store      prefs.Store
	local      resume.Checkpoints
	dispatcher *input.Dispatcher
	policy     prefs.Policy
	options    Options

	mu       sync.Mutex
	item     *catalog.Item
	video    *catalog.Video
	links    *catalog.Links
	nav      *navigator.Navigator
	tracker  *resume.Tracker
	selector *tracks.Selector
	panel    mo.Option[*panel]
}

// New prepares a session. local may be nil to keep no local checkpoints.
func New(
	api API,
	p player.Player,
	store prefs.Store,
	local resume.Checkpoints,
	dispatcher *input.Dispatcher,
	options Options,
) *Session {
	return &Session{
		api:        api,
		player:     p,
		store:      store,
		local:      local,
		dispatcher: dispatcher,
		policy:     prefs.LoadPolicy(store),
		options:    options,
	}
}

// Run plays target and whatever the navigator moves to afterwards, until the user
// leaves the item or ctx is cancelled.
func (s *Session) Run(ctx context.Context, target navigator.Target) error {
	item, err := s.api.Item(ctx, target.ItemID)
	if err != nil {
		return fmt.Errorf("load item %d: %w", target.ItemID, err)
	}

	// Remote marks must outlive a cancelled session so the last position still lands.
	tracker := resume.NewTracker(context.WithoutCancel(ctx), item.ID, s.local, s.api)
	selector := tracks.NewSelector(s.store, item.ID, s.policy)
	defer tracker.Wait()
	defer s.player.Close()

	s.mu.Lock()
	s.item, s.tracker, s.selector = item, tracker, selector
	s.mu.Unlock()

	unregister := s.dispatcher.Register(input.Buttons, s.handleButton)
	defer unregister()
	defer s.closePanel()

	for {
		video := catalog.VideoToPlay(item, target.Episode, target.Season)
		if video == nil {
			return ErrNothingToPlay
		}

		next, err := s.playVideo(ctx, item, video, tracker, selector)
		if err != nil {
			return err
		}

		t, ok := next.Get()
		if !ok {
			return nil
		}
		target = t
	}
}

func (s *Session) playVideo(
	ctx context.Context,
	item *catalog.Item,
	video *catalog.Video,
	tracker *resume.Tracker,
	selector *tracks.Selector,
) (mo.Option[navigator.Target], error) {
	videoCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := log.With(log.Fields{"item": item.ID, "video": video.ID, "code": video.Code()})

	start := tracker.Open(video)
	// a decision made while loading abandons the pending requests
	router := newRouter(cancel)
	nav := navigator.New(item, video, tracker, selector, router)

	s.mu.Lock()
	s.video, s.links, s.nav = video, nil, nav
	s.mu.Unlock()
	s.closePanel()

	abort := func(err error) (mo.Option[navigator.Target], error) {
		tracker.Close()
		selector.Reset()
		if ctx.Err() != nil {
			return mo.None[navigator.Target](), nil
		}
		return mo.None[navigator.Target](), err
	}

	logger.Info("loading media links")
	links, err := s.api.MediaLinks(videoCtx, video.ID)
	if next, ok := router.taken(); ok {
		logger.Info("left before playback started")
		return next, nil
	}
	if err != nil {
		return abort(fmt.Errorf("load media links of %s: %w", catalog.Title(item, video), err))
	}

	selection := selector.Resolve(video, links)
	media, err := mediaOf(item, video, selection, start)
	if err != nil {
		return abort(err)
	}

	s.mu.Lock()
	s.links = links
	s.mu.Unlock()

	if next, ok := router.taken(); ok {
		logger.Info("left before playback started")
		return next, nil
	}

	logger.WithFields(log.Fields{"streaming": selection.StreamingType, "start": start}).Info("starting playback")
	if err := s.player.Play(media); err != nil {
		return abort(fmt.Errorf("play %s: %w", catalog.Title(item, video), err))
	}
	nav.Play()

	if start > 0 && s.options.ShowStartFrom {
		s.osd("Resuming from " + util.FormatDuration(start))
	}

	listener := player.NewEventListener(s.player.Socket(), func(e player.Event) {
		s.handleEvent(nav, tracker, e)
	})
	listenerDone, err := listener.Start()
	if err != nil {
		return abort(err)
	}
	defer listener.Stop()

	ticker := resume.NewTicker(videoCtx, func() { tracker.Tick(tracker.Position()) })
	ticker.Reset(s.options.SyncInterval)
	defer ticker.Stop()

	select {
	case next := <-router.decided:
		return next, nil
	case <-s.player.Wait():
		logger.Info("player exited")
	case <-listenerDone:
		logger.Info("player connection closed")
	case <-ctx.Done():
	}

	nav.Exit(tracker.Position())
	return <-router.decided, nil
}

// mediaOf builds what the player needs for the selection.
func mediaOf(item *catalog.Item, video *catalog.Video, sel tracks.Selection, start float64) (player.Media, error) {
	source, ok := sel.Source.Get()
	if !ok {
		return player.Media{}, fmt.Errorf("no %s source for %s", sel.StreamingType, catalog.Title(item, video))
	}

	media := player.Media{
		URL:   source.URL(sel.StreamingType),
		Title: catalog.Title(item, video),
		Start: start,
	}
	if audio, ok := sel.Audio.Get(); ok {
		media.Audio = mo.Some(audio.Index)
	}
	if sub, ok := sel.Subtitle.Get(); ok && sub.URL != "" {
		media.Subtitle = mo.Some(sub.URL)
	}
	return media, nil
}

func (s *Session) handleEvent(nav *navigator.Navigator, tracker *resume.Tracker, e player.Event) {
	switch e.Kind {
	case player.TimeChanged:
		tracker.Observe(e.Time)
	case player.PauseChanged:
		if e.Flag {
			nav.Pause(tracker.Position())
		} else {
			nav.Play()
		}
	case player.EOFReached:
		if e.Flag {
			nav.Ended(tracker.Position())
		}
	case player.FileEnded:
		switch e.Reason {
		case "eof":
			nav.Ended(tracker.Position())
		case "quit", "error":
			nav.Exit(tracker.Position())
		}
	case player.Shutdown:
		nav.Exit(tracker.Position())
	}
}

// current returns the navigator and tracker of the video on screen, if any.
func (s *Session) current() (*navigator.Navigator, *resume.Tracker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nav == nil || s.tracker == nil {
		return nil, nil, false
	}
	return s.nav, s.tracker, true
}

func (s *Session) handleButton(b input.Button) bool {
	nav, tracker, ok := s.current()
	if !ok || nav.State().Terminal() {
		return false
	}

	var err error
	switch b {
	case input.Back, input.Stop:
		nav.Exit(tracker.Position())
	case input.PlayPause:
		err = s.player.TogglePause()
	case input.Enter:
		if !s.policy.PauseByOKClick {
			return false
		}
		err = s.player.TogglePause()
	case input.Play:
		err = s.player.SetPause(false)
	case input.Pause:
		err = s.player.SetPause(true)
	case input.ChannelUp:
		nav.SkipForward(tracker.Position())
	case input.ChannelDown:
		nav.SkipBackward(tracker.Position())
	case input.ArrowLeft:
		err = s.player.SeekRelative(-s.options.SkipStep)
	case input.ArrowRight:
		err = s.player.SeekRelative(s.options.SkipStep)
	case input.Yellow:
		err = s.player.ToggleFullscreen()
	case input.ArrowUp:
		if !s.policy.SettingsByUpClick {
			return false
		}
		s.openPanel()
	case input.Blue:
		s.openPanel()
	default:
		return false
	}

	if err != nil {
		log.Warnf("button %s: %v", b, err)
	}
	return true
}

func (s *Session) osd(text string) {
	if err := s.player.ShowText(text, osdDuration); err != nil {
		log.Debugf("osd: %v", err)
	}
}

// Status is a snapshot of the session for display.
type Status struct {
	Title       string
	Description string
	Loading     bool
	State       mo.Option[navigator.State]
	Position    float64
	Selection   mo.Option[tracks.Selection]
	// Row is the focused settings row while the settings panel is open.
	Row mo.Option[Row]
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	var status Status
	if s.item == nil || s.video == nil {
		status.Loading = true
		return status
	}

	status.Title = catalog.Title(s.item, s.video)
	status.Description = catalog.Description(s.video)
	status.Loading = s.links == nil
	if s.nav != nil {
		status.State = mo.Some(s.nav.State())
	}
	if s.tracker != nil {
		status.Position = s.tracker.Position()
	}
	if s.selector != nil {
		status.Selection = s.selector.Current()
	}
	if p, ok := s.panel.Get(); ok {
		status.Row = mo.Some(p.row)
	}
	return status
}

// router receives the single navigation decision of one video and cancels the work
// still running for it.
type router struct {
	once    sync.Once
	decided chan mo.Option[navigator.Target]
	cancel  context.CancelFunc
}

func newRouter(cancel context.CancelFunc) *router {
	return &router{decided: make(chan mo.Option[navigator.Target], 1), cancel: cancel}
}

func (r *router) decide(next mo.Option[navigator.Target]) {
	r.once.Do(func() {
		r.decided <- next
		r.cancel()
	})
}

func (r *router) Replace(target navigator.Target) {
	r.decide(mo.Some(target))
}

func (r *router) Exit(*catalog.Item) {
	r.decide(mo.None[navigator.Target]())
}

// taken returns the decision if one was made.
func (r *router) taken() (mo.Option[navigator.Target], bool) {
	select {
	case next := <-r.decided:
		return next, true
	default:
		return mo.None[navigator.Target](), false
	}
}
