// Package tracks picks the audio track, subtitle track and delivery source of a video
// from what is available, the saved per-item choices and the global policy.
package tracks

import (
	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/constant"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// ResolveAudio picks the saved track if it is still offered, else the first AC3 track
// when preferAC3 is set, else the first track.
func ResolveAudio(available []catalog.AudioVariant, preferAC3 bool, saved mo.Option[string]) mo.Option[catalog.AudioVariant] {
	if len(available) == 0 {
		return mo.None[catalog.AudioVariant]()
	}

	if id, ok := saved.Get(); ok {
		if a, found := lo.Find(available, func(a catalog.AudioVariant) bool { return a.Key() == id }); found {
			return mo.Some(a)
		}
	}

	if preferAC3 {
		if a, found := lo.Find(available, catalog.AudioVariant.IsAC3); found {
			return mo.Some(a)
		}
	}

	return mo.Some(available[0])
}

type subtitleState int

const (
	subtitleUnset subtitleState = iota
	subtitleOff
	subtitleID
)

// SubtitlePreference is the saved subtitle choice of an item: nothing saved, an
// explicit "off", or a track id.
type SubtitlePreference struct {
	state subtitleState
	id    string
}

func SubtitleUnset() SubtitlePreference { return SubtitlePreference{} }

func SubtitleOff() SubtitlePreference { return SubtitlePreference{state: subtitleOff} }

func SubtitleID(id string) SubtitlePreference {
	return SubtitlePreference{state: subtitleID, id: id}
}

func (p SubtitlePreference) IsUnset() bool { return p.state == subtitleUnset }

func (p SubtitlePreference) IsOff() bool { return p.state == subtitleOff }

// ID returns the saved track id, if one was saved.
func (p SubtitlePreference) ID() mo.Option[string] {
	if p.state != subtitleID {
		return mo.None[string]()
	}
	return mo.Some(p.id)
}

func (p SubtitlePreference) String() string {
	switch p.state {
	case subtitleOff:
		return "off"
	case subtitleID:
		return p.id
	default:
		return "unset"
	}
}

// ResolveSubtitle honours an explicit "off" first, then the saved track, then the first
// forced track when preferForced is set. Otherwise no subtitle is shown.
func ResolveSubtitle(available []catalog.SubtitleVariant, preferForced bool, saved SubtitlePreference) mo.Option[catalog.SubtitleVariant] {
	if saved.IsOff() {
		return mo.None[catalog.SubtitleVariant]()
	}

	if id, ok := saved.ID().Get(); ok {
		if s, found := lo.Find(available, func(s catalog.SubtitleVariant) bool { return s.Key() == id }); found {
			return mo.Some(s)
		}
	}

	if preferForced {
		if s, found := lo.Find(available, func(s catalog.SubtitleVariant) bool { return s.Forced }); found {
			return mo.Some(s)
		}
	}

	return mo.None[catalog.SubtitleVariant]()
}

// ResolveSource filters the sources by the forced delivery protocol, which is
// mandatory, then picks the saved source, else the default quality tier, else the
// highest tier.
func ResolveSource(
	available []catalog.SourceVariant,
	forced mo.Option[catalog.StreamingType],
	defaultQuality mo.Option[string],
	saved mo.Option[string],
) mo.Option[catalog.SourceVariant] {
	candidates := available
	if t, ok := forced.Get(); ok {
		candidates = lo.Filter(available, func(s catalog.SourceVariant, _ int) bool { return s.Supports(t) })
	}
	if len(candidates) == 0 {
		return mo.None[catalog.SourceVariant]()
	}

	if id, ok := saved.Get(); ok {
		if s, found := lo.Find(candidates, func(s catalog.SourceVariant) bool { return s.Key() == id }); found {
			return mo.Some(s)
		}
	}

	if q, ok := defaultQuality.Get(); ok {
		tier := catalog.ParseTier(q)
		if s, found := lo.Find(candidates, func(s catalog.SourceVariant) bool {
			return s.Quality == q || (tier != 0 && s.Tier() == tier)
		}); found {
			return mo.Some(s)
		}
	}

	return mo.Some(lo.MaxBy(candidates, func(a, b catalog.SourceVariant) bool { return a.Tier() > b.Tier() }))
}

// ForcedStreamingType escalates http to hls when the video carries more audio tracks
// than http delivery can hold and the switch is enabled.
func ForcedStreamingType(selected catalog.StreamingType, switchToHLS bool, audioCount int) catalog.StreamingType {
	if selected == catalog.HTTP && switchToHLS && audioCount > constant.HTTPMaxAudios {
		return catalog.HLS
	}
	return selected
}
