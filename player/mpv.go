package player

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kptv-cli/kptv/key"
	"github.com/kptv-cli/kptv/log"
	"github.com/kptv-cli/kptv/where"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

const (
	socketWaitRetries = 20
	socketWaitDelay   = 250 * time.Millisecond
)

// ErrNotRunning is returned by commands sent before Play or after Close.
var ErrNotRunning = errors.New("mpv is not running")

// process is one started mpv. An empty socketPath means nothing is running.
type process struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
}

func (p process) alive() bool {
	if p.socketPath == "" {
		return false
	}
	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

// MPV runs one mpv process per Play call.
type MPV struct {
	path string

	// state guards proc, mu serialises IPC writes
	state sync.Mutex
	proc  process
	mu    sync.Mutex
}

// NewMPV prepares a player using player.mpv_path. Nothing is started yet.
func NewMPV() *MPV {
	exited := make(chan struct{})
	close(exited)
	return &MPV{
		path: viper.GetString(key.PlayerMPVPath),
		proc: process{exited: exited},
	}
}

func (m *MPV) current() process {
	m.state.Lock()
	defer m.state.Unlock()
	return m.proc
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

// buildArgs renders the mpv command line. The user's mpv.conf is left in charge of
// output and decoding.
func buildArgs(socketPath string, media Media) ([]string, error) {
	target, err := sanitizeMediaTarget(media.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}

	title := sanitizeTitle(media.Title)
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--input-ipc-server=" + socketPath,
		"--force-media-title=" + title,
		"--title=" + title,
		"--force-window=yes",
		"--keep-open=yes",
	}

	if media.Start > 0 {
		args = append(args, "--start="+formatSeconds(media.Start))
	}
	if aid, ok := media.Audio.Get(); ok && aid > 0 {
		args = append(args, fmt.Sprintf("--aid=%d", aid))
	}
	if sub, ok := media.Subtitle.Get(); ok {
		safe, err := sanitizeMediaTarget(sub)
		if err != nil {
			return nil, fmt.Errorf("invalid subtitle: %w", err)
		}
		args = append(args, "--sub-file="+safe)
	}
	if header := headerFields(media.Headers); header != "" {
		args = append(args, "--http-header-fields="+header)
	}

	return append(args, target), nil
}

func headerFields(headers map[string]string) string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	slices.Sort(names)

	fields := make([]string, 0, len(names))
	for _, name := range names {
		fields = append(fields, fmt.Sprintf("%s: %s", name, strings.ReplaceAll(headers[name], ",", "%2C")))
	}
	return strings.Join(fields, ",")
}

// Play starts mpv for media, closing a previous process first.
func (m *MPV) Play(media Media) error {
	if err := m.Close(); err != nil {
		log.Warnf("closing previous mpv: %v", err)
	}

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	socketPath := filepath.Join(where.Temp(), fmt.Sprintf("mpv-%x.sock", suffix))

	args, err := buildArgs(socketPath, media)
	if err != nil {
		return err
	}

	cmd := exec.Command(m.path, args...)
	cmd.SysProcAttr = ownProcessGroup()
	cmd.Stdin, cmd.Stdout, cmd.Stderr = nil, nil, nil

	log.With(log.Fields{"socket": socketPath, "start": media.Start}).Infof("starting %s", m.path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	p := process{socketPath: socketPath, cmd: cmd, exited: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(p.exited)
	}()

	m.state.Lock()
	m.proc = p
	m.state.Unlock()

	if err := waitForSocket(p); err != nil {
		select {
		case <-p.exited:
		default:
			log.Warn("killing mpv: socket never became ready")
			_ = killGroup(cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return nil
}

func waitForSocket(p process) error {
	for range socketWaitRetries {
		time.Sleep(socketWaitDelay)

		select {
		case <-p.exited:
			return errors.New("mpv exited before the socket was ready")
		default:
		}

		if conn, err := net.Dial("unix", p.socketPath); err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", p.socketPath, socketWaitRetries)
}

// Reload switches the stream of the running file, for a source change, and resumes
// at the given offset.
func (m *MPV) Reload(rawURL string, at float64) error {
	target, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}
	if err := m.set("start", formatSeconds(at)); err != nil {
		return err
	}
	_, err = m.command("loadfile", target, "replace")
	return err
}

func (m *MPV) command(args ...any) (any, error) {
	p := m.current()
	if !p.alive() {
		return nil, ErrNotRunning
	}
	return m.sendCommand(p.socketPath, args...)
}

func (m *MPV) set(property string, value any) error {
	_, err := m.command("set_property", property, value)
	return err
}

func (m *MPV) TogglePause() error {
	_, err := m.command("cycle", "pause")
	return err
}

func (m *MPV) SetPause(paused bool) error {
	return m.set("pause", paused)
}

func (m *MPV) Paused() (bool, error) {
	data, err := m.command("get_property", "pause")
	if err != nil {
		return false, err
	}
	paused, _ := data.(bool)
	return paused, nil
}

// TimePos returns the current position in seconds.
func (m *MPV) TimePos() (float64, error) {
	return m.floatProperty("time-pos")
}

func (m *MPV) Duration() (float64, error) {
	return m.floatProperty("duration")
}

// Seek jumps to an absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.command("seek", seconds, "absolute")
	return err
}

func (m *MPV) SeekRelative(seconds float64) error {
	_, err := m.command("seek", seconds, "relative")
	return err
}

// SetAudio selects the audio track by its 1-based index.
func (m *MPV) SetAudio(index int) error {
	return m.set("aid", index)
}

// SetSubtitle adds and selects an external subtitle, or hides subtitles for None.
func (m *MPV) SetSubtitle(subtitle mo.Option[string]) error {
	sub, ok := subtitle.Get()
	if !ok {
		return m.set("sid", "no")
	}
	safe, err := sanitizeMediaTarget(sub)
	if err != nil {
		return fmt.Errorf("invalid subtitle: %w", err)
	}
	_, err = m.command("sub-add", safe, "select")
	return err
}

func (m *MPV) ToggleFullscreen() error {
	_, err := m.command("cycle", "fullscreen")
	return err
}

// ShowText displays an OSD message. Line breaks are kept.
func (m *MPV) ShowText(text string, d time.Duration) error {
	text = strings.NewReplacer("\r", "", "\x00", "").Replace(text)
	_, err := m.command("show-text", text, d.Milliseconds())
	return err
}

// IsRunning reports whether mpv answers IPC commands.
func (m *MPV) IsRunning() bool {
	_, err := m.command("get_property", "pid")
	return err == nil
}

func (m *MPV) Socket() string {
	return m.current().socketPath
}

// Wait returns a channel closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.current().exited
}

// Close quits mpv, killing it when it does not exit in time, and removes the socket.
// Commands sent meanwhile fail with ErrNotRunning.
func (m *MPV) Close() error {
	m.state.Lock()
	p := m.proc
	m.proc.socketPath = ""
	m.state.Unlock()

	if p.socketPath == "" {
		return nil
	}

	if p.alive() {
		_, _ = m.sendCommand(p.socketPath, "quit")
		select {
		case <-p.exited:
		case <-time.After(3 * time.Second):
			_ = killGroup(p.cmd)
		}
	}

	_ = os.Remove(p.socketPath)
	return nil
}

func (m *MPV) floatProperty(name string) (float64, error) {
	data, err := m.command("get_property", name)
	if err != nil {
		return 0, err
	}
	switch v := data.(type) {
	case float64:
		return v, nil
	case nil:
		return 0, fmt.Errorf("property %s: unavailable", name)
	default:
		return 0, fmt.Errorf("property %s: expected a number, got %T", name, data)
	}
}

// sanitizeMediaTarget accepts http(s) URLs and local paths, and rejects anything that
// mpv could read as a flag.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", errors.New("empty URL")
	}
	if strings.ContainsAny(l, "\x00\n\r") {
		return "", errors.New("invalid control characters in URL")
	}
	if strings.HasPrefix(l, "-") {
		return "", errors.New("url must not start with '-'")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
