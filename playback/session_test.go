package playback

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/input"
	"github.com/kptv-cli/kptv/navigator"
	"github.com/kptv-cli/kptv/player"
	"github.com/kptv-cli/kptv/prefs"
	"github.com/kptv-cli/kptv/tracks"
	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type memStore struct {
	mu     sync.Mutex
	values map[string]any
}

func newMemStore() *memStore { return &memStore{values: map[string]any{}} }

func (m *memStore) Lookup(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *memStore) Set(key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.Keys(m.values)
}

type mark struct {
	video, season int
	time          float64
}

type fakeAPI struct {
	mu       sync.Mutex
	item     *catalog.Item
	linksErr error
	marks    []mark
	// hold keeps the links of a video loading until closed
	hold map[int]chan struct{}
}

func (f *fakeAPI) Item(_ context.Context, id int) (*catalog.Item, error) {
	if id != f.item.ID {
		return nil, errors.New("item not found")
	}
	return f.item, nil
}

func (f *fakeAPI) MediaLinks(ctx context.Context, videoID int) (*catalog.Links, error) {
	if hold, ok := f.hold[videoID]; ok {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.linksErr != nil {
		return nil, f.linksErr
	}
	file := func(quality string) catalog.SourceVariant {
		return catalog.SourceVariant{
			Quality: quality,
			URLs:    map[catalog.StreamingType]string{catalog.HTTP: fmt.Sprintf("https://cdn/%d/%s", videoID, quality)},
		}
	}
	return &catalog.Links{
		Files:     []catalog.SourceVariant{file("720p"), file("1080p")},
		Subtitles: []catalog.SubtitleVariant{{Lang: "eng", File: "eng.srt", URL: "https://cdn/eng.srt"}},
	}, nil
}

func (f *fakeAPI) MarkTime(_ context.Context, _ int, time float64, video, season int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marks = append(f.marks, mark{video, season, time})
	return nil
}

func (f *fakeAPI) allMarks() []mark {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mark(nil), f.marks...)
}

type fakePlayer struct {
	mu     sync.Mutex
	socket string
	played chan player.Media
	calls  []string
	osd    []string
	exited chan struct{}
	closed bool
}

func newFakePlayer(socket string) *fakePlayer {
	return &fakePlayer{
		socket: socket,
		played: make(chan player.Media, 8),
		exited: make(chan struct{}),
	}
}

func (f *fakePlayer) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return nil
}

func (f *fakePlayer) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakePlayer) Play(media player.Media) error {
	_ = f.record("play " + media.URL)
	f.played <- media
	return nil
}

func (f *fakePlayer) Reload(url string, at float64) error {
	return f.record(fmt.Sprintf("reload %s at %g", url, at))
}

func (f *fakePlayer) TogglePause() error { return f.record("toggle pause") }
func (f *fakePlayer) SetPause(paused bool) error { return f.record(fmt.Sprintf("pause %v", paused)) }
func (f *fakePlayer) Paused() (bool, error) { return false, nil }
func (f *fakePlayer) TimePos() (float64, error) { return 0, nil }
func (f *fakePlayer) Duration() (float64, error) { return 0, nil }
func (f *fakePlayer) Seek(seconds float64) error { return f.record(fmt.Sprintf("seek %g", seconds)) }
func (f *fakePlayer) SetAudio(index int) error { return f.record(fmt.Sprintf("aid %d", index)) }
func (f *fakePlayer) ToggleFullscreen() error { return f.record("fullscreen") }
func (f *fakePlayer) IsRunning() bool { return true }
func (f *fakePlayer) Socket() string { return f.socket }
func (f *fakePlayer) Wait() <-chan struct{} { return f.exited }
func (f *fakePlayer) SeekRelative(s float64) error { return f.record(fmt.Sprintf("seek %+g", s)) }

func (f *fakePlayer) SetSubtitle(url mo.Option[string]) error {
	return f.record("sub " + url.OrElse("no"))
}

func (f *fakePlayer) ShowText(text string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.osd = append(f.osd, text)
	return nil
}

func (f *fakePlayer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// fakeSocket accepts event listener connections so tests can push mpv events.
type fakeSocket struct {
	listener net.Listener
	conns    chan net.Conn
}

func newFakeSocket(t *testing.T) *fakeSocket {
	l, err := net.Listen("unix", filepath.Join(t.TempDir(), "mpv.sock"))
	if err != nil {
		t.Fatal(err)
	}
	f := &fakeSocket{listener: l, conns: make(chan net.Conn, 8)}
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			f.conns <- conn
		}
	}()
	return f
}

func push(conn net.Conn, line string) {
	_, _ = conn.Write([]byte(line + "\n"))
}

func timePos(t float64) string {
	return fmt.Sprintf(`{"event":"property-change","name":"time-pos","data":%g}`, t)
}

const eof = `{"event":"property-change","name":"eof-reached","data":true}`

func receive[T any](ch chan T) (T, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(2 * time.Second):
		var zero T
		return zero, false
	}
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func episode(season, number int, status catalog.WatchingStatus, at float64) *catalog.Video {
	return &catalog.Video{
		ID:       season*100 + number,
		Number:   number,
		SNumber:  season,
		Watching: catalog.WatchingState{Status: status, Time: at},
		Audios: []catalog.AudioVariant{
			{ID: 11, Index: 1, Lang: "rus", Codec: "aac"},
			{ID: 12, Index: 2, Lang: "eng", Codec: "aac"},
		},
	}
}

func serial() *catalog.Item {
	return &catalog.Item{
		ID:    7,
		Title: "Serial",
		Type:  "serial",
		Seasons: []*catalog.Season{
			{Number: 1, Episodes: []*catalog.Video{
				episode(1, 1, catalog.Watching, 95),
				episode(1, 2, catalog.NotWatched, 0),
			}},
			{Number: 2, Episodes: []*catalog.Video{
				episode(2, 1, catalog.NotWatched, 0),
			}},
		},
	}
}

func TestSession(t *testing.T) {
	Convey("Given a session over a serial", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		socket := newFakeSocket(t)
		defer socket.listener.Close()

		api := &fakeAPI{item: serial()}
		fp := newFakePlayer(socket.listener.Addr().String())
		store := newMemStore()
		_ = store.Set(prefs.StreamingType, "http")
		_ = store.Set(prefs.SettingsByUpClick, true)
		dispatcher := input.NewDispatcher()

		session := New(api, fp, store, nil, dispatcher, Options{SkipStep: 10, ShowStartFrom: true})

		var runErr error
		finished := make(chan struct{})
		go func() {
			runErr = session.Run(ctx, navigator.Target{ItemID: 7})
			close(finished)
		}()

		media, ok := receive(fp.played)
		So(ok, ShouldBeTrue)
		conn, ok := receive(socket.conns)
		So(ok, ShouldBeTrue)

		Convey("The unfinished episode starts where it was left", func() {
			So(media.Title, ShouldEqual, "Serial (s1e1)")
			So(media.Start, ShouldEqual, 95)
			So(media.URL, ShouldEqual, "https://cdn/101/1080p")
			So(media.Audio, ShouldResemble, mo.Some(1))
			So(media.Subtitle.IsAbsent(), ShouldBeTrue)

			fp.mu.Lock()
			So(fp.osd, ShouldContain, "Resuming from 1:35")
			fp.mu.Unlock()
		})

		Convey("The end of an episode opens the next one until the serial is over", func() {
			push(conn, timePos(1400))
			push(conn, eof)

			media, ok = receive(fp.played)
			So(ok, ShouldBeTrue)
			So(media.Title, ShouldEqual, "Serial (s1e2)")
			So(media.Start, ShouldEqual, 0)

			conn, ok = receive(socket.conns)
			So(ok, ShouldBeTrue)
			push(conn, eof)

			media, ok = receive(fp.played)
			So(ok, ShouldBeTrue)
			So(media.Title, ShouldEqual, "Serial (s2e1)")

			conn, ok = receive(socket.conns)
			So(ok, ShouldBeTrue)
			push(conn, eof)

			_, ok = receive(finished)
			So(ok, ShouldBeTrue)
			So(runErr, ShouldBeNil)
			So(api.allMarks(), ShouldContain, mark{video: 1, season: 1, time: 1400})
		})

		Convey("Back saves the position and leaves the item", func() {
			push(conn, timePos(200))
			So(eventually(func() bool { return session.Status().Position == 200 }), ShouldBeTrue)

			So(dispatcher.Dispatch(input.Back), ShouldBeTrue)

			_, ok = receive(finished)
			So(ok, ShouldBeTrue)
			So(runErr, ShouldBeNil)
			So(api.allMarks(), ShouldContain, mark{video: 1, season: 1, time: 200})

			fp.mu.Lock()
			So(fp.closed, ShouldBeTrue)
			fp.mu.Unlock()
			So(dispatcher.Len(), ShouldEqual, 0)
		})

		Convey("Channel buttons skip between episodes", func() {
			So(dispatcher.Dispatch(input.ChannelUp), ShouldBeTrue)
			media, ok = receive(fp.played)
			So(ok, ShouldBeTrue)
			So(media.Title, ShouldEqual, "Serial (s1e2)")

			_, ok = receive(socket.conns)
			So(ok, ShouldBeTrue)
			So(dispatcher.Dispatch(input.ChannelDown), ShouldBeTrue)
			media, ok = receive(fp.played)
			So(ok, ShouldBeTrue)
			So(media.Title, ShouldEqual, "Serial (s1e1)")
		})

		Convey("Player buttons reach the player", func() {
			So(dispatcher.Dispatch(input.PlayPause), ShouldBeTrue)
			So(dispatcher.Dispatch(input.ArrowLeft), ShouldBeTrue)
			So(dispatcher.Dispatch(input.Yellow), ShouldBeTrue)
			So(dispatcher.Dispatch(input.Enter), ShouldBeFalse)

			So(fp.recorded(), ShouldContain, "toggle pause")
			So(fp.recorded(), ShouldContain, "seek -10")
			So(fp.recorded(), ShouldContain, "fullscreen")
		})

		Convey("The settings panel switches tracks without leaving", func() {
			So(dispatcher.Dispatch(input.ArrowUp), ShouldBeTrue)
			So(session.Status().Row, ShouldResemble, mo.Some(AudioRow))

			So(dispatcher.Dispatch(input.ArrowRight), ShouldBeTrue)
			So(fp.recorded(), ShouldContain, "aid 2")
			So(store.values[prefs.ItemKey(7, prefs.Audio)], ShouldEqual, "12")

			So(dispatcher.Dispatch(input.ArrowDown), ShouldBeTrue)
			So(dispatcher.Dispatch(input.ArrowRight), ShouldBeTrue)
			So(fp.recorded(), ShouldContain, "sub https://cdn/eng.srt")
			So(store.values[prefs.ItemKey(7, prefs.Subtitle)], ShouldEqual, "eng.srt")

			So(dispatcher.Dispatch(input.ArrowDown), ShouldBeTrue)
			So(dispatcher.Dispatch(input.ArrowRight), ShouldBeTrue)
			So(fp.recorded(), ShouldContain, "reload https://cdn/101/720p at 95")
			calls := fp.recorded()
			So(calls[len(calls)-1], ShouldEqual, "sub https://cdn/eng.srt")

			text, ok := session.SettingsText().Get()
			So(ok, ShouldBeTrue)
			So(text, ShouldContainSubstring, "> Quality: 720p")

			So(dispatcher.Dispatch(input.Back), ShouldBeTrue)
			So(session.Status().Row.IsAbsent(), ShouldBeTrue)

			select {
			case <-finished:
				So("session ended", ShouldBeEmpty)
			case <-time.After(50 * time.Millisecond):
			}
		})

		Convey("Cancelling the context leaves through the navigator", func() {
			cancel()
			_, ok = receive(finished)
			So(ok, ShouldBeTrue)
			So(runErr, ShouldBeNil)
			So(api.allMarks(), ShouldContain, mark{video: 1, season: 1, time: 95})
		})

		cancel()
		_, _ = receive(finished)
	})
}

func TestSessionFailures(t *testing.T) {
	Convey("Given a session", t, func() {
		api := &fakeAPI{item: serial()}
		fp := newFakePlayer("")
		session := New(api, fp, newMemStore(), nil, input.NewDispatcher(), Options{})

		Convey("An unknown item is reported", func() {
			err := session.Run(context.Background(), navigator.Target{ItemID: 99})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "load item 99")
		})

		Convey("A links failure ends the session before the player starts", func() {
			api.linksErr = errors.New("gateway timeout")
			err := session.Run(context.Background(), navigator.Target{ItemID: 7})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "gateway timeout")
			So(fp.recorded(), ShouldBeEmpty)
		})

		Convey("Skipping while links load abandons the video", func() {
			hold := make(chan struct{})
			defer close(hold)
			api.hold = map[int]chan struct{}{101: hold}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			finished := make(chan error, 1)
			go func() { finished <- session.Run(ctx, navigator.Target{ItemID: 7}) }()

			So(eventually(func() bool {
				status := session.Status()
				return status.Loading && status.Title == "Serial (s1e1)"
			}), ShouldBeTrue)
			So(session.dispatcher.Dispatch(input.ChannelUp), ShouldBeTrue)

			media, ok := receive(fp.played)
			So(ok, ShouldBeTrue)
			So(media.URL, ShouldEqual, "https://cdn/102/1080p")
			So(fp.recorded(), ShouldNotContain, "play https://cdn/101/1080p")

			cancel()
			_, ok = receive(finished)
			So(ok, ShouldBeTrue)
		})

		Convey("Back while links load leaves without playing", func() {
			hold := make(chan struct{})
			defer close(hold)
			api.hold = map[int]chan struct{}{101: hold}

			finished := make(chan error, 1)
			go func() { finished <- session.Run(context.Background(), navigator.Target{ItemID: 7}) }()

			So(eventually(func() bool { return session.Status().Title == "Serial (s1e1)" }), ShouldBeTrue)
			So(session.dispatcher.Dispatch(input.Back), ShouldBeTrue)

			err, ok := receive(finished)
			So(ok, ShouldBeTrue)
			So(err, ShouldBeNil)
			So(fp.recorded(), ShouldBeEmpty)
		})

		Convey("An item without videos has nothing to play", func() {
			api.item = &catalog.Item{ID: 7, Type: "movie"}
			err := session.Run(context.Background(), navigator.Target{ItemID: 7})
			So(err, ShouldEqual, ErrNothingToPlay)
		})
	})
}

func TestCycle(t *testing.T) {
	Convey("Given a list of options", t, func() {
		options := []string{"a", "b", "c"}
		is := func(v string) func(string) bool { return func(o string) bool { return o == v } }

		Convey("Steps wrap around both ends", func() {
			next, _ := cycle(options, is("c"), 1)
			So(next, ShouldEqual, "a")
			prev, _ := cycle(options, is("a"), -1)
			So(prev, ShouldEqual, "c")
		})

		Convey("Without a current option it starts from an end", func() {
			next, _ := cycle(options, is("x"), 1)
			So(next, ShouldEqual, "a")
			prev, _ := cycle(options, is("x"), -1)
			So(prev, ShouldEqual, "c")
		})

		Convey("An empty list yields nothing", func() {
			_, ok := cycle(nil, is("a"), 1)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given the links of a video", t, func() {
		links, _ := (&fakeAPI{}).MediaLinks(context.Background(), 1)

		Convey("Sources are offered best first", func() {
			options := sourceOptions(links, catalog.HTTP)
			So(options, ShouldHaveLength, 2)
			So(options[0].Quality, ShouldEqual, "1080p")
			So(sourceOptions(links, catalog.HLS4), ShouldBeEmpty)
		})

		Convey("Subtitles without a file to load are not offered", func() {
			video := &catalog.Video{Subtitles: []catalog.SubtitleVariant{
				{Lang: "rus", Embed: true},
				{Lang: "eng", URL: "https://cdn/eng.srt"},
			}}
			options := subtitleOptions(video, &catalog.Links{})
			So(options, ShouldHaveLength, 2)
			So(options[0].IsAbsent(), ShouldBeTrue)
			So(options[1].MustGet().Lang, ShouldEqual, "eng")
		})

		Convey("Summary renders a selection on one line", func() {
			sel := tracks.Selection{
				StreamingType: catalog.HTTP,
				Source:        mo.Some(links.Files[1]),
				Subtitle:      mo.Some(links.Subtitles[0]),
			}
			So(Summary(sel), ShouldEqual, "http · 1080p · sub ENG")
			So(strings.Contains(Summary(tracks.Selection{StreamingType: catalog.HLS}), "·"), ShouldBeFalse)
		})
	})
}
