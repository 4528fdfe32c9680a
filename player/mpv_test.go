package player

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuildArgs(t *testing.T) {
	Convey("Given media to play", t, func() {
		media := Media{
			URL:      "https://cdn.example.com/video.m3u8",
			Title:    "Serial (s1e2)\n",
			Start:    612.5,
			Audio:    mo.Some(2),
			Subtitle: mo.Some("https://cdn.example.com/eng.srt"),
			Headers:  map[string]string{"Referer": "https://example.com", "Cookie": "a=1,b=2"},
		}

		Convey("The command line carries start, tracks and headers", func() {
			args, err := buildArgs("/tmp/kptv.sock", media)
			So(err, ShouldBeNil)
			So(args, ShouldContain, "--input-ipc-server=/tmp/kptv.sock")
			So(args, ShouldContain, "--force-media-title=Serial (s1e2)")
			So(args, ShouldContain, "--start=612.500")
			So(args, ShouldContain, "--aid=2")
			So(args, ShouldContain, "--sub-file=https://cdn.example.com/eng.srt")
			So(args, ShouldContain, "--http-header-fields=Cookie: a=1%2Cb=2,Referer: https://example.com")
			So(args[len(args)-1], ShouldEqual, media.URL)
		})

		Convey("A fresh video has no start or track flags", func() {
			args, err := buildArgs("/tmp/kptv.sock", Media{URL: media.URL})
			So(err, ShouldBeNil)
			for _, arg := range args {
				So(arg, ShouldNotStartWith, "--start")
				So(arg, ShouldNotStartWith, "--aid")
				So(arg, ShouldNotStartWith, "--sub-file")
			}
		})

		Convey("Flag injection is refused", func() {
			_, err := buildArgs("/tmp/kptv.sock", Media{URL: "--script=evil.lua"})
			So(err, ShouldNotBeNil)
			_, err = buildArgs("/tmp/kptv.sock", Media{URL: media.URL, Subtitle: mo.Some("file:///etc/passwd")})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDecodeEvent(t *testing.T) {
	Convey("Given lines of the IPC stream", t, func() {
		Convey("Property changes decode to typed events", func() {
			e, ok := decodeEvent([]byte(`{"event":"property-change","id":1,"name":"time-pos","data":12.25}`))
			So(ok, ShouldBeTrue)
			So(e, ShouldResemble, Event{Kind: TimeChanged, Time: 12.25})

			e, ok = decodeEvent([]byte(`{"event":"property-change","id":2,"name":"pause","data":true}`))
			So(ok, ShouldBeTrue)
			So(e, ShouldResemble, Event{Kind: PauseChanged, Flag: true})

			e, ok = decodeEvent([]byte(`{"event":"property-change","id":4,"name":"eof-reached","data":true}`))
			So(ok, ShouldBeTrue)
			So(e.Kind, ShouldEqual, EOFReached)
		})

		Convey("End of file carries its reason", func() {
			e, ok := decodeEvent([]byte(`{"event":"end-file","reason":"quit"}`))
			So(ok, ShouldBeTrue)
			So(e.Reason, ShouldEqual, "quit")
		})

		Convey("Replies, unknown events and null data are dropped", func() {
			for _, line := range []string{
				`{"data":null,"error":"success","request_id":1}`,
				`{"event":"playback-restart"}`,
				`{"event":"property-change","name":"time-pos","data":null}`,
				`not json`,
			} {
				_, ok := decodeEvent([]byte(line))
				So(ok, ShouldBeFalse)
			}
		})
	})
}

// fakeMPV answers IPC commands the way mpv does and pushes events to observers.
type fakeMPV struct {
	listener net.Listener
	mu       sync.Mutex
	commands [][]any
	// quit is called after the reply to a quit command
	quit func()
}

const fakeMPVEnv = "KPTV_TEST_FAKE_MPV"

// TestMain lets the test binary stand in for the mpv executable.
func TestMain(m *testing.M) {
	if os.Getenv(fakeMPVEnv) == "1" {
		runFakeMPV()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// runFakeMPV serves the IPC socket named on the command line until told to quit.
func runFakeMPV() {
	var socket string
	for _, arg := range os.Args[1:] {
		if path, ok := strings.CutPrefix(arg, "--input-ipc-server="); ok {
			socket = path
		}
	}

	l, err := net.Listen("unix", socket)
	if err != nil {
		os.Exit(1)
	}
	defer l.Close()

	done := make(chan struct{})
	f := &fakeMPV{listener: l, quit: sync.OnceFunc(func() { close(done) })}
	go f.serve()
	<-done
}

func newFakeMPV(t *testing.T) *fakeMPV {
	l, err := net.Listen("unix", filepath.Join(t.TempDir(), "mpv.sock"))
	if err != nil {
		t.Fatal(err)
	}
	f := &fakeMPV{listener: l}
	go f.serve()
	return f
}

func (f *fakeMPV) serve() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		go f.handle(conn)
	}
}

func (f *fakeMPV) handle(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var cmd ipcCommand
		if json.Unmarshal(scanner.Bytes(), &cmd) != nil {
			continue
		}
		f.mu.Lock()
		f.commands = append(f.commands, cmd.Command)
		f.mu.Unlock()

		write := func(v any) {
			b, _ := json.Marshal(v)
			_, _ = conn.Write(append(b, '\n'))
		}

		// a broadcast that arrives before the reply
		write(map[string]any{"event": "playback-restart"})

		switch cmd.Command[0] {
		case "get_property":
			switch cmd.Command[1] {
			case "time-pos":
				write(map[string]any{"data": 42.5, "error": "success", "request_id": cmd.RequestID})
			case "pid":
				write(map[string]any{"data": os.Getpid(), "error": "success", "request_id": cmd.RequestID})
			default:
				write(map[string]any{"error": "property unavailable", "request_id": cmd.RequestID})
			}
		case "observe_property":
			write(map[string]any{"error": "success", "request_id": cmd.RequestID})
			if cmd.Command[2] == "eof-reached" {
				write(map[string]any{"event": "property-change", "name": "time-pos", "data": 10.0})
				write(map[string]any{"event": "property-change", "name": "pause", "data": true})
				write(map[string]any{"event": "property-change", "name": "eof-reached", "data": true})
			}
		case "quit":
			write(map[string]any{"error": "success", "request_id": cmd.RequestID})
			if f.quit != nil {
				f.quit()
			}
		default:
			write(map[string]any{"error": "success", "request_id": cmd.RequestID})
		}
	}
}

func (f *fakeMPV) sent() [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]any(nil), f.commands...)
}

func TestIPC(t *testing.T) {
	Convey("Given a player attached to a fake mpv", t, func() {
		fake := newFakeMPV(t)
		defer fake.listener.Close()

		m := &MPV{proc: process{socketPath: fake.listener.Addr().String(), exited: make(chan struct{})}}

		Convey("Properties are read past broadcast events", func() {
			pos, err := m.TimePos()
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 42.5)
		})

		Convey("mpv errors are returned without retrying", func() {
			_, err := m.Duration()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "property unavailable")
			So(fake.sent(), ShouldHaveLength, 1)
		})

		Convey("Track commands are sent as mpv expects them", func() {
			So(m.SetAudio(3), ShouldBeNil)
			So(m.SetSubtitle(mo.None[string]()), ShouldBeNil)
			So(m.SetSubtitle(mo.Some("https://cdn/eng.srt")), ShouldBeNil)

			sent := fake.sent()
			So(sent[0], ShouldResemble, []any{"set_property", "aid", 3.0})
			So(sent[1], ShouldResemble, []any{"set_property", "sid", "no"})
			So(sent[2], ShouldResemble, []any{"sub-add", "https://cdn/eng.srt", "select"})
		})

		Convey("A stopped process rejects commands", func() {
			close(m.proc.exited)
			_, err := m.TimePos()
			So(err, ShouldEqual, ErrNotRunning)
		})

		Convey("The event listener decodes observed changes", func() {
			var mu sync.Mutex
			var events []Event
			el := NewEventListener(m.Socket(), func(e Event) {
				mu.Lock()
				events = append(events, e)
				mu.Unlock()
			})

			done, err := el.Start()
			So(err, ShouldBeNil)

			deadline := time.Now().Add(2 * time.Second)
			for time.Now().Before(deadline) {
				mu.Lock()
				n := len(events)
				mu.Unlock()
				if n >= 3 {
					break
				}
				time.Sleep(10 * time.Millisecond)
			}

			el.Stop()
			<-done

			mu.Lock()
			defer mu.Unlock()
			So(events, ShouldResemble, []Event{
				{Kind: TimeChanged, Time: 10},
				{Kind: PauseChanged, Flag: true},
				{Kind: EOFReached, Flag: true},
			})
		})
	})
}

func TestPlay(t *testing.T) {
	Convey("Given mpv started from the test binary", t, func() {
		t.Setenv(fakeMPVEnv, "1")
		m := NewMPV()
		m.path = os.Args[0]

		Convey("Nothing runs before Play", func() {
			So(m.IsRunning(), ShouldBeFalse)
			So(m.TogglePause(), ShouldEqual, ErrNotRunning)
			So(m.Close(), ShouldBeNil)
		})

		Convey("Buttons pressed while videos switch reach whichever process is up", func() {
			stop := make(chan struct{})
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					select {
					case <-stop:
						return
					default:
						_ = m.TogglePause()
						_ = m.Socket()
						time.Sleep(time.Millisecond)
					}
				}
			}()

			So(m.Play(Media{URL: "https://cdn/1.m3u8"}), ShouldBeNil)
			first := m.Wait()
			So(m.IsRunning(), ShouldBeTrue)

			So(m.Play(Media{URL: "https://cdn/2.m3u8"}), ShouldBeNil)
			So(m.IsRunning(), ShouldBeTrue)
			_, ok := <-first
			So(ok, ShouldBeFalse)

			close(stop)
			wg.Wait()

			socket := m.Socket()
			So(m.Close(), ShouldBeNil)
			So(m.IsRunning(), ShouldBeFalse)
			_, err := os.Stat(socket)
			So(os.IsNotExist(err), ShouldBeTrue)
		})
	})
}
