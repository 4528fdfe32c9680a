package tracks

import (
	"sync"

	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/log"
	"github.com/kptv-cli/kptv/prefs"
	"github.com/samber/mo"
)

// Selection is the set of tracks in use for one video.
type Selection struct {
	StreamingType catalog.StreamingType
	Audio         mo.Option[catalog.AudioVariant]
	Subtitle      mo.Option[catalog.SubtitleVariant]
	Source        mo.Option[catalog.SourceVariant]
}

// Selector keeps the volatile selection of the current video and writes user changes
// back to the store as the new defaults of the item.
type Selector struct {
	mu      sync.Mutex
	store   prefs.Store
	itemID  int
	policy  prefs.Policy
	current mo.Option[Selection]
}

func NewSelector(store prefs.Store, itemID int, policy prefs.Policy) *Selector {
	return &Selector{
		store:  store,
		itemID: itemID,
		policy: policy,
	}
}

// SavedSubtitle reads the subtitle preference of the item. A stored null means off.
func SavedSubtitle(store prefs.Store, itemID int) SubtitlePreference {
	value, ok := store.Lookup(prefs.ItemKey(itemID, prefs.Subtitle))
	if !ok {
		return SubtitleUnset()
	}
	if value == nil {
		return SubtitleOff()
	}
	id := prefs.String(store, prefs.ItemKey(itemID, prefs.Subtitle)).OrEmpty()
	if id == "" {
		return SubtitleUnset()
	}
	return SubtitleID(id)
}

// Resolve computes the selection of video once its links are known. Audio tracks come
// from the video, sources and subtitles from the links.
func (s *Selector) Resolve(video *catalog.Video, links *catalog.Links) Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	streaming := ForcedStreamingType(s.policy.StreamingType, s.policy.SwitchToHLSFromHTTP, len(video.Audios))

	subtitles := video.Subtitles
	if links != nil && len(links.Subtitles) > 0 {
		subtitles = links.Subtitles
	}

	var files []catalog.SourceVariant
	if links != nil {
		files = links.Files
	}

	selection := Selection{
		StreamingType: streaming,
		Audio: ResolveAudio(
			video.Audios,
			s.policy.AC3ByDefault,
			prefs.String(s.store, prefs.ItemKey(s.itemID, prefs.Audio)),
		),
		Subtitle: ResolveSubtitle(
			subtitles,
			s.policy.ForcedByDefault,
			SavedSubtitle(s.store, s.itemID),
		),
		Source: ResolveSource(
			files,
			mo.Some(streaming),
			s.policy.DefaultQuality,
			prefs.String(s.store, prefs.ItemKey(s.itemID, prefs.Source)),
		),
	}

	s.current = mo.Some(selection)
	return selection
}

// Current returns the selection, or None while links are still loading.
func (s *Selector) Current() mo.Option[Selection] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Reset forgets the volatile selection. Saved preferences are kept.
func (s *Selector) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = mo.None[Selection]()
}

func (s *Selector) update(fn func(*Selection)) {
	if sel, ok := s.current.Get(); ok {
		fn(&sel)
		s.current = mo.Some(sel)
	}
}

func (s *Selector) persist(track prefs.Track, value any) {
	k := prefs.ItemKey(s.itemID, track)
	if err := s.store.Set(k, value); err != nil {
		log.With(log.Fields{"item": s.itemID, "key": k}).Warnf("saving track preference: %v", err)
	}
}

// ChangeAudio switches the audio track and saves it for the item.
func (s *Selector) ChangeAudio(audio catalog.AudioVariant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.update(func(sel *Selection) { sel.Audio = mo.Some(audio) })
	s.persist(prefs.Audio, audio.Key())
}

// ChangeSubtitle switches the subtitle track and saves it for the item. None turns
// subtitles off and is saved as an explicit off.
func (s *Selector) ChangeSubtitle(subtitle mo.Option[catalog.SubtitleVariant]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.update(func(sel *Selection) { sel.Subtitle = subtitle })
	if sub, ok := subtitle.Get(); ok {
		s.persist(prefs.Subtitle, sub.Key())
	} else {
		s.persist(prefs.Subtitle, nil)
	}
}

// ChangeSource switches the delivery source and saves it for the item.
func (s *Selector) ChangeSource(source catalog.SourceVariant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.update(func(sel *Selection) { sel.Source = mo.Some(source) })
	s.persist(prefs.Source, source.Key())
}
