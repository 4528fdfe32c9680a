// Package resume tracks the playback position of the active video and persists resume
// checkpoints, locally and to the media API.
package resume

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kptv-cli/kptv/filesystem"
	"github.com/kptv-cli/kptv/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Key identifies the video a checkpoint belongs to. Season is 0 for movies.
type Key struct {
	ItemID int `json:"item_id"`
	Video  int `json:"video"`
	Season int `json:"season,omitempty"`
}

func (k Key) encode() string {
	return fmt.Sprintf("%d/%d/%d", k.ItemID, k.Season, k.Video)
}

func (k Key) String() string {
	if k.Season == 0 {
		return fmt.Sprintf("%d #%d", k.ItemID, k.Video)
	}
	return fmt.Sprintf("%d s%de%d", k.ItemID, k.Season, k.Video)
}

// Checkpoint is the last known playback offset of a video.
type Checkpoint struct {
	Key
	Time    float64   `json:"time"`
	SavedAt time.Time `json:"saved_at"`
}

// Ledger keeps checkpoints in a JSON file. Entries are overwritten, never expired.
type Ledger struct {
	internal *gache.Cache[map[string]*Checkpoint]
	mu       sync.RWMutex
	now      func() time.Time
}

// NewLedger opens the ledger at path.
func NewLedger(path string) *Ledger {
	return &Ledger{
		internal: gache.New[map[string]*Checkpoint](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
		now: time.Now,
	}
}

var (
	defaultLedger     *Ledger
	defaultLedgerOnce sync.Once
)

// DefaultLedger returns the ledger kept at where.Checkpoints().
func DefaultLedger() *Ledger {
	defaultLedgerOnce.Do(func() {
		defaultLedger = NewLedger(where.Checkpoints())
	})
	return defaultLedger
}

func (l *Ledger) load() (map[string]*Checkpoint, error) {
	saved, expired, err := l.internal.Get()
	if err != nil {
		return nil, err
	}
	if expired || saved == nil {
		return make(map[string]*Checkpoint), nil
	}
	return saved, nil
}

// Get returns the checkpoint of key, if one was saved.
func (l *Ledger) Get(key Key) mo.Option[Checkpoint] {
	l.mu.RLock()
	defer l.mu.RUnlock()

	saved, err := l.load()
	if err != nil {
		return mo.None[Checkpoint]()
	}
	if c, ok := saved[key.encode()]; ok {
		return mo.Some(*c)
	}
	return mo.None[Checkpoint]()
}

// Save overwrites the checkpoint of key.
func (l *Ledger) Save(key Key, t float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	saved, err := l.load()
	if err != nil {
		return err
	}

	saved[key.encode()] = &Checkpoint{Key: key, Time: t, SavedAt: l.now()}
	return l.internal.Set(saved)
}

// All returns every checkpoint, most recent first.
func (l *Ledger) All() ([]Checkpoint, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	saved, err := l.load()
	if err != nil {
		return nil, err
	}

	all := lo.MapToSlice(saved, func(_ string, c *Checkpoint) Checkpoint { return *c })
	slices.SortFunc(all, func(a, b Checkpoint) int {
		return cmp.Compare(b.SavedAt.UnixNano(), a.SavedAt.UnixNano())
	})
	return all, nil
}

// Clear removes every checkpoint.
func (l *Ledger) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.internal.Set(make(map[string]*Checkpoint))
}
