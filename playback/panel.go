package playback

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/input"
	"github.com/kptv-cli/kptv/log"
	"github.com/kptv-cli/kptv/tracks"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Row is a line of the settings panel.
type Row int

const (
	AudioRow Row = iota
	SubtitleRow
	SourceRow
)

var rows = []Row{AudioRow, SubtitleRow, SourceRow}

func (r Row) String() string {
	return [...]string{"Audio", "Subtitles", "Quality"}[r]
}

// panel is the settings overlay. While open it sits on top of the dispatcher and takes
// the arrows, OK and Back away from the playback handler.
type panel struct {
	row        Row
	unregister func()
}

var panelButtons = []input.Button{
	input.Back,
	input.Blue,
	input.Enter,
	input.ArrowUp,
	input.ArrowDown,
	input.ArrowLeft,
	input.ArrowRight,
}

func (s *Session) openPanel() {
	s.mu.Lock()
	if s.panel.IsPresent() || s.links == nil {
		s.mu.Unlock()
		return
	}
	p := &panel{row: AudioRow}
	s.panel = mo.Some(p)
	s.mu.Unlock()

	p.unregister = s.dispatcher.Register(panelButtons, s.handlePanelButton)
	s.osd(s.panelText())
}

func (s *Session) closePanel() {
	s.mu.Lock()
	p, ok := s.panel.Get()
	s.panel = mo.None[*panel]()
	s.mu.Unlock()

	if ok && p.unregister != nil {
		p.unregister()
	}
}

func (s *Session) handlePanelButton(b input.Button) bool {
	s.mu.Lock()
	p, ok := s.panel.Get()
	s.mu.Unlock()
	if !ok {
		return false
	}

	switch b {
	case input.Back, input.Blue:
		s.closePanel()
		s.osd("")
		return true
	case input.ArrowUp:
		s.moveRow(p, -1)
	case input.ArrowDown:
		s.moveRow(p, 1)
	case input.ArrowLeft:
		s.Cycle(p.row, -1)
	case input.ArrowRight, input.Enter:
		s.Cycle(p.row, 1)
	}

	s.osd(s.panelText())
	return true
}

func (s *Session) moveRow(p *panel, step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.row = rows[(int(p.row)+step+len(rows))%len(rows)]
}

// cycle returns the option after (or before, for a negative step) the one matching
// current, wrapping around. With no match it starts from an end.
func cycle[T any](options []T, current func(T) bool, step int) (T, bool) {
	if len(options) == 0 {
		var zero T
		return zero, false
	}

	_, i, found := lo.FindIndexOf(options, current)
	n := len(options)
	switch {
	case !found && step >= 0:
		i = 0
	case !found:
		i = n - 1
	default:
		i = ((i+step)%n + n) % n
	}
	return options[i], true
}

// Cycle switches the track of row to the next or previous option, saves it for the
// item and applies it to the running player.
func (s *Session) Cycle(row Row, step int) {
	s.mu.Lock()
	video, links, selector, tracker := s.video, s.links, s.selector, s.tracker
	s.mu.Unlock()

	if video == nil || links == nil || selector == nil {
		return
	}
	sel, ok := selector.Current().Get()
	if !ok {
		return
	}

	var err error
	switch row {
	case AudioRow:
		audio, ok := cycle(video.Audios, func(a catalog.AudioVariant) bool {
			current, set := sel.Audio.Get()
			return set && current.Key() == a.Key()
		}, step)
		if !ok {
			return
		}
		selector.ChangeAudio(audio)
		err = s.player.SetAudio(audio.Index)
	case SubtitleRow:
		subtitle, _ := cycle(subtitleOptions(video, links), func(o mo.Option[catalog.SubtitleVariant]) bool {
			return sameSubtitle(o, sel.Subtitle)
		}, step)
		selector.ChangeSubtitle(subtitle)
		url := mo.None[string]()
		if sub, ok := subtitle.Get(); ok {
			url = mo.Some(sub.URL)
		}
		err = s.player.SetSubtitle(url)
	case SourceRow:
		source, ok := cycle(sourceOptions(links, sel.StreamingType), func(v catalog.SourceVariant) bool {
			current, set := sel.Source.Get()
			return set && current.Key() == v.Key()
		}, step)
		if !ok {
			return
		}
		selector.ChangeSource(source)
		err = s.player.Reload(source.URL(sel.StreamingType), tracker.Position())
		// loadfile drops subtitles added at runtime
		if sub, ok := sel.Subtitle.Get(); ok && sub.URL != "" && err == nil {
			err = s.player.SetSubtitle(mo.Some(sub.URL))
		}
	}

	if err != nil {
		log.Warnf("switching %s: %v", strings.ToLower(row.String()), err)
	}
}

// subtitleOptions lists Off followed by the subtitles of the video that can be loaded
// into the player.
func subtitleOptions(video *catalog.Video, links *catalog.Links) []mo.Option[catalog.SubtitleVariant] {
	subtitles := video.Subtitles
	if len(links.Subtitles) > 0 {
		subtitles = links.Subtitles
	}
	options := []mo.Option[catalog.SubtitleVariant]{mo.None[catalog.SubtitleVariant]()}
	for _, sub := range subtitles {
		if sub.URL == "" {
			continue
		}
		options = append(options, mo.Some(sub))
	}
	return options
}

func sameSubtitle(a, b mo.Option[catalog.SubtitleVariant]) bool {
	x, okA := a.Get()
	y, okB := b.Get()
	if okA != okB {
		return false
	}
	return !okA || x.Key() == y.Key()
}

// sourceOptions lists the sources deliverable over t, highest tier first.
func sourceOptions(links *catalog.Links, t catalog.StreamingType) []catalog.SourceVariant {
	options := lo.Filter(links.Files, func(v catalog.SourceVariant, _ int) bool {
		return v.Supports(t)
	})
	slices.SortStableFunc(options, func(a, b catalog.SourceVariant) int {
		return b.Tier() - a.Tier()
	})
	return options
}

func (s *Session) panelText() string {
	status := s.Status()
	sel, ok := status.Selection.Get()
	if !ok {
		return ""
	}
	focused := status.Row.OrElse(AudioRow)

	values := map[Row]string{AudioRow: "Default", SubtitleRow: "Off", SourceRow: "-"}
	if audio, ok := sel.Audio.Get(); ok {
		values[AudioRow] = audio.Name()
	}
	if sub, ok := sel.Subtitle.Get(); ok {
		values[SubtitleRow] = sub.Name()
	}
	if source, ok := sel.Source.Get(); ok {
		values[SourceRow] = source.Quality
	}

	var b strings.Builder
	for _, row := range rows {
		marker := "  "
		if row == focused {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%s: %s\n", marker, row, values[row])
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// SettingsText renders the panel for the terminal overlay.
func (s *Session) SettingsText() mo.Option[string] {
	if s.Status().Row.IsAbsent() {
		return mo.None[string]()
	}
	return mo.Some(s.panelText())
}

// Summary renders sel on one line.
func Summary(sel tracks.Selection) string {
	parts := []string{string(sel.StreamingType)}
	if source, ok := sel.Source.Get(); ok {
		parts = append(parts, source.Quality)
	}
	if audio, ok := sel.Audio.Get(); ok {
		parts = append(parts, audio.Name())
	}
	if sub, ok := sel.Subtitle.Get(); ok {
		parts = append(parts, "sub "+sub.Name())
	}
	return strings.Join(parts, " · ")
}
