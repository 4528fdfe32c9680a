package input

import (
	"slices"
	"sync"

	"github.com/kptv-cli/kptv/log"
)

// Handler reacts to a button press. It returns true when it consumed the press, which
// stops the dispatch.
type Handler func(Button) bool

type registration struct {
	buttons []Button
	handler Handler
}

// Dispatcher routes presses to registered handlers, the most recently registered
// first. A handler that does not consume a press lets it fall through to older ones.
type Dispatcher struct {
	mu      sync.Mutex
	entries []*registration
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register subscribes handler to buttons. The returned function removes the
// subscription and is safe to call more than once.
func (d *Dispatcher) Register(buttons []Button, handler Handler) (unregister func()) {
	r := &registration{buttons: slices.Clone(buttons), handler: handler}

	d.mu.Lock()
	d.entries = append(d.entries, r)
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.entries = slices.DeleteFunc(d.entries, func(e *registration) bool { return e == r })
		})
	}
}

// Dispatch delivers b and reports whether a handler consumed it. Handlers may register
// or unregister while being called.
func (d *Dispatcher) Dispatch(b Button) bool {
	d.mu.Lock()
	snapshot := slices.Clone(d.entries)
	d.mu.Unlock()

	for i := len(snapshot) - 1; i >= 0; i-- {
		r := snapshot[i]
		if !slices.Contains(r.buttons, b) {
			continue
		}
		if r.handler(b) {
			return true
		}
	}

	log.Debugf("button %s was not handled", b)
	return false
}

// Len returns the number of registrations.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}
