package resume

import (
	"context"
	"sync"

	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/log"
	"github.com/samber/mo"
)

// Marker saves the playback offset of a video on the server.
type Marker interface {
	MarkTime(ctx context.Context, itemID int, time float64, video, season int) error
}

// Checkpoints is the local side of the persistence, usually a *Ledger.
type Checkpoints interface {
	Get(key Key) mo.Option[Checkpoint]
	Save(key Key, time float64) error
}

type State int

const (
	Idle State = iota
	Playing
	Paused
	Ended
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	default:
		return "idle"
	}
}

// Tracker follows the position of one video at a time and persists checkpoints on
// pause, sync tick, skip and end. Remote marks are sent in the background and their
// failures are only logged.
type Tracker struct {
	mu       sync.Mutex
	ctx      context.Context
	itemID   int
	local    Checkpoints
	remote   Marker
	video    *catalog.Video
	state    State
	position float64
	pending  sync.WaitGroup
}

// NewTracker creates a tracker for the videos of one item. local may be nil to keep
// checkpoints on the server only. Remote marks run under ctx.
func NewTracker(ctx context.Context, itemID int, local Checkpoints, remote Marker) *Tracker {
	return &Tracker{
		ctx:    ctx,
		itemID: itemID,
		local:  local,
		remote: remote,
	}
}

func keyOf(itemID int, v *catalog.Video) Key {
	return Key{ItemID: itemID, Video: v.Number, Season: v.SNumber}
}

// StartTime is where playback of v should begin. Only a video in progress resumes: from
// the local checkpoint when there is one, else from the server offset.
func StartTime(itemID int, v *catalog.Video, local Checkpoints) float64 {
	if v == nil || v.Watching.Status != catalog.Watching {
		return 0
	}
	if local != nil {
		if c, ok := local.Get(keyOf(itemID, v)).Get(); ok {
			return c.Time
		}
	}
	return v.Watching.Time
}

// Open makes v the tracked video, resets the state to Idle and returns its start time.
func (t *Tracker) Open(v *catalog.Video) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.video = v
	t.state = Idle
	t.position = StartTime(t.itemID, v, t.local)
	return t.position
}

// Close drops the tracked video.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.video = nil
	t.state = Idle
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Position is the last observed offset.
func (t *Tracker) Position() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

// Observe records the offset without persisting it.
func (t *Tracker) Observe(time float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.video != nil && time >= 0 {
		t.position = time
	}
}

func (t *Tracker) Play() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.video != nil && t.state != Ended {
		t.state = Playing
	}
}

// Pause persists time and moves to Paused.
func (t *Tracker) Pause(time float64) {
	t.transition(Paused, time, "pause")
}

// Tick persists time during playback. Ticks outside Playing are ignored.
func (t *Tracker) Tick(time float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Playing {
		return
	}
	t.persistLocked(time, "tick")
}

// Skip persists the offset at which the user skipped away.
func (t *Tracker) Skip(time float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.video == nil || t.state == Ended {
		return
	}
	t.persistLocked(time, "skip")
}

// End persists the final offset and moves to Ended.
func (t *Tracker) End(time float64) {
	t.transition(Ended, time, "end")
}

func (t *Tracker) transition(to State, time float64, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.video == nil || t.state == Ended {
		return
	}
	t.state = to
	t.persistLocked(time, reason)
}

// persistLocked writes the local checkpoint and issues the remote mark without
// waiting for it.
func (t *Tracker) persistLocked(time float64, reason string) {
	if t.video == nil {
		return
	}
	if time < 0 {
		time = 0
	}
	t.position = time

	key := keyOf(t.itemID, t.video)
	logger := log.With(log.Fields{"checkpoint": key.String(), "time": time, "reason": reason})

	if t.local != nil {
		if err := t.local.Save(key, time); err != nil {
			logger.Warnf("saving checkpoint: %v", err)
		}
	}

	if t.remote == nil {
		return
	}

	t.pending.Add(1)
	go func() {
		defer t.pending.Done()
		if err := t.remote.MarkTime(t.ctx, key.ItemID, time, key.Video, key.Season); err != nil {
			logger.Warnf("marking time: %v", err)
			return
		}
		logger.Debug("checkpoint synced")
	}()
}

// Wait blocks until every remote mark issued so far has returned.
func (t *Tracker) Wait() {
	t.pending.Wait()
}
