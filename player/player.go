// Package player drives mpv through its JSON-IPC socket and reports playback events.
package player

import (
	"time"

	"github.com/samber/mo"
)

// Media is what to play and how to start it.
type Media struct {
	URL   string
	Title string
	// Start is the initial offset in seconds.
	Start float64
	// Audio is the 1-based audio track index inside the stream.
	Audio mo.Option[int]
	// Subtitle is an external subtitle file URL.
	Subtitle mo.Option[string]
	Headers  map[string]string
}

// Player is a running playback engine.
type Player interface {
	Play(media Media) error
	Reload(url string, at float64) error

	TogglePause() error
	SetPause(paused bool) error
	Paused() (bool, error)
	TimePos() (float64, error)
	Duration() (float64, error)
	Seek(seconds float64) error
	SeekRelative(seconds float64) error

	SetAudio(index int) error
	SetSubtitle(url mo.Option[string]) error
	ToggleFullscreen() error
	ShowText(text string, d time.Duration) error

	IsRunning() bool
	Socket() string
	Wait() <-chan struct{}
	Close() error
}
