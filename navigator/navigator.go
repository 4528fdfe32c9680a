// Package navigator moves a playback session to the next or previous video, or out of
// the item, once the current video ends or the user skips.
package navigator

import (
	"fmt"
	"sync"

	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/log"
	"github.com/samber/mo"
)

// Target addresses a video to open. Absent selectors let the catalog reader decide.
type Target struct {
	ItemID  int
	Season  mo.Option[int]
	Episode mo.Option[int]
}

// TargetOf addresses v within item.
func TargetOf(item *catalog.Item, v *catalog.Video) Target {
	t := Target{ItemID: item.ID, Episode: mo.Some(v.Number)}
	if v.SNumber != 0 {
		t.Season = mo.Some(v.SNumber)
	}
	return t
}

func (t Target) String() string {
	s := fmt.Sprintf("item %d", t.ItemID)
	if season, ok := t.Season.Get(); ok {
		s += fmt.Sprintf(" season %d", season)
	}
	if episode, ok := t.Episode.Get(); ok {
		s += fmt.Sprintf(" episode %d", episode)
	}
	return s
}

// Router performs the navigation. Replace swaps the current video without adding a
// history entry, Exit returns to the item.
type Router interface {
	Replace(target Target)
	Exit(item *catalog.Item)
}

// Tracker is the part of resume.Tracker the navigator drives.
type Tracker interface {
	Play()
	Pause(time float64)
	Skip(time float64)
	End(time float64)
	Close()
}

// Resetter drops volatile track state, see tracks.Selector.
type Resetter interface {
	Reset()
}

type State int

const (
	Playing State = iota
	Paused
	AdvancingNext
	AdvancingPrevious
	Exiting
)

func (s State) String() string {
	return [...]string{"playing", "paused", "advancing next", "advancing previous", "exiting"}[s]
}

// Terminal reports whether the navigator has left the current video.
func (s State) Terminal() bool {
	return s >= AdvancingNext
}

type Navigator struct {
	mu       sync.Mutex
	item     *catalog.Item
	current  *catalog.Video
	state    State
	tracker  Tracker
	selector Resetter
	router   Router
}

// New starts navigating from current, in the Playing state.
func New(item *catalog.Item, current *catalog.Video, tracker Tracker, selector Resetter, router Router) *Navigator {
	return &Navigator{
		item:     item,
		current:  current,
		tracker:  tracker,
		selector: selector,
		router:   router,
	}
}

func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

func (n *Navigator) Current() *catalog.Video {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Play resumes from Paused.
func (n *Navigator) Play() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.Terminal() {
		return
	}
	n.state = Playing
	n.tracker.Play()
}

// Pause records time and moves to Paused.
func (n *Navigator) Pause(time float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.Terminal() {
		return
	}
	n.state = Paused
	n.tracker.Pause(time)
}

// Ended flushes the final checkpoint and moves on to the next video.
func (n *Navigator) Ended(time float64) {
	n.leave(time, true, n.tracker.End)
}

// SkipForward flushes the checkpoint at time and moves on to the next video.
func (n *Navigator) SkipForward(time float64) {
	n.leave(time, true, n.tracker.Skip)
}

// SkipBackward flushes the checkpoint at time and moves back to the previous video.
func (n *Navigator) SkipBackward(time float64) {
	n.leave(time, false, n.tracker.Skip)
}

// Exit flushes the checkpoint at time and leaves the item.
func (n *Navigator) Exit(time float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.Terminal() {
		return
	}
	n.tracker.Pause(time)
	n.finish(Exiting, mo.None[*catalog.Video]())
}

func (n *Navigator) leave(time float64, forward bool, flush func(float64)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.Terminal() {
		return
	}

	flush(time)

	if forward {
		n.finish(AdvancingNext, catalog.NextVideo(n.item, n.current))
	} else {
		n.finish(AdvancingPrevious, catalog.PreviousVideo(n.item, n.current))
	}
}

func (n *Navigator) finish(advancing State, to mo.Option[*catalog.Video]) {
	n.selector.Reset()
	n.tracker.Close()

	next, ok := to.Get()
	if !ok {
		n.state = Exiting
		log.With(log.Fields{"item": n.item.ID}).Info("leaving item")
		n.router.Exit(n.item)
		return
	}

	n.state = advancing
	target := TargetOf(n.item, next)
	log.With(log.Fields{"item": n.item.ID, "from": n.current.Code()}).Infof("navigating to %s", target)
	n.current = next
	n.router.Replace(target)
}
