package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/kptv-cli/kptv/log"
)

// EventKind is the kind of an observed playback change.
type EventKind int

const (
	TimeChanged EventKind = iota
	PauseChanged
	SeekingChanged
	EOFReached
	FileEnded
	Shutdown
)

func (k EventKind) String() string {
	return [...]string{"time", "pause", "seeking", "eof", "end-file", "shutdown"}[k]
}

// Event is one decoded mpv notification.
type Event struct {
	Kind EventKind
	// Time is set for TimeChanged.
	Time float64
	// Flag is the new value for PauseChanged, SeekingChanged and EOFReached.
	Flag bool
	// Reason is set for FileEnded: eof, stop, quit, error or redirect.
	Reason string
}

var observed = []string{"time-pos", "pause", "seeking", "eof-reached"}

type rawEvent struct {
	Event  string          `json:"event"`
	Name   string          `json:"name"`
	Data   json.RawMessage `json:"data"`
	Reason string          `json:"reason"`
}

// decodeEvent turns one line of the IPC stream into an Event. Replies and events nobody
// cares about are dropped.
func decodeEvent(line []byte) (Event, bool) {
	var raw rawEvent
	if err := json.Unmarshal(line, &raw); err != nil || raw.Event == "" {
		return Event{}, false
	}

	switch raw.Event {
	case "end-file":
		return Event{Kind: FileEnded, Reason: raw.Reason}, true
	case "shutdown":
		return Event{Kind: Shutdown}, true
	case "property-change":
	default:
		return Event{}, false
	}

	switch raw.Name {
	case "time-pos":
		var t *float64
		if json.Unmarshal(raw.Data, &t) != nil || t == nil {
			return Event{}, false
		}
		return Event{Kind: TimeChanged, Time: *t}, true
	case "pause", "seeking", "eof-reached":
		var flag bool
		if json.Unmarshal(raw.Data, &flag) != nil {
			return Event{}, false
		}
		kind := map[string]EventKind{"pause": PauseChanged, "seeking": SeekingChanged, "eof-reached": EOFReached}[raw.Name]
		return Event{Kind: kind, Flag: flag}, true
	default:
		return Event{}, false
	}
}

// EventListener observes playback properties over a dedicated IPC connection and
// hands every decoded event to a callback, from its own goroutine.
type EventListener struct {
	socketPath string
	callback   func(Event)
	conn       net.Conn
	done       chan struct{}
	mu         sync.Mutex
}

func NewEventListener(socketPath string, callback func(Event)) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
	}
}

// Start subscribes to the observed properties and starts the read loop. The returned
// channel is closed when the loop ends, either on Stop or when mpv goes away.
func (el *EventListener) Start() (<-chan struct{}, error) {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.conn != nil {
		return el.done, nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return nil, fmt.Errorf("event listener connect: %w", err)
	}

	// Observers belong to the connection that registers them.
	for i, name := range observed {
		payload, _ := json.Marshal(ipcCommand{Command: []any{"observe_property", i + 1, name}})
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return nil, fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.done = make(chan struct{})
	go el.readLoop(conn, el.done)

	log.Debugf("observing %v on %s", observed, el.socketPath)
	return el.done, nil
}

// Stop closes the connection, which ends the read loop.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.conn == nil {
		return
	}
	el.conn.Close()
	el.conn = nil
}

func (el *EventListener) readLoop(conn net.Conn, done chan struct{}) {
	defer close(done)

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			if event, ok := decodeEvent(line); ok {
				el.callback(event)
			}
		}
		if err != nil {
			log.Debugf("event listener stopped: %v", err)
			return
		}
	}
}
