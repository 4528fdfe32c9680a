package resume

import (
	"context"
	"sync"
	"time"
)

// Ticker calls fn at a fixed interval until stopped. fn must not call Reset or Stop.
type Ticker struct {
	mu     sync.Mutex
	parent context.Context
	fn     func()
	cancel context.CancelFunc
	// generation invalidates ticks of a superseded or stopped loop.
	generation uint64
}

func NewTicker(ctx context.Context, fn func()) *Ticker {
	return &Ticker{parent: ctx, fn: fn}
}

// Reset stops the current loop and starts a new one with interval. A non-positive
// interval only stops.
func (t *Ticker) Reset(interval time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	if interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(t.parent)
	t.cancel = cancel
	go t.run(ctx, t.generation, interval)
}

// Stop cancels the loop. Once it returns no further tick fires.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Ticker) stopLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.generation++
}

func (t *Ticker) run(ctx context.Context, generation uint64, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.fire(ctx, generation)
		}
	}
}

func (t *Ticker) fire(ctx context.Context, generation uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if generation != t.generation || ctx.Err() != nil {
		return
	}
	t.fn()
}
