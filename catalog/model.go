// Package catalog holds the media catalog model and the pure functions that decide
// which video to play, and which one comes next or before.
package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// WatchingStatus uses the API encoding.
type WatchingStatus int

const (
	NotWatched WatchingStatus = -1
	Watching   WatchingStatus = 0
	Watched    WatchingStatus = 1
)

func (s WatchingStatus) String() string {
	switch s {
	case NotWatched:
		return "not watched"
	case Watching:
		return "watching"
	case Watched:
		return "watched"
	default:
		return "unknown"
	}
}

// WatchingState is the server-side progress of a video or season.
type WatchingState struct {
	Status WatchingStatus `json:"status"`
	// Time is the last saved playback offset, in seconds.
	Time float64 `json:"time"`
}

// Item is a playable catalog entry: a movie or a serial.
type Item struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Type       string    `json:"type"`
	Year       int       `json:"year,omitempty"`
	Plot       string    `json:"plot,omitempty"`
	Quality    int       `json:"quality,omitempty"`
	Subscribed bool      `json:"subscribed,omitempty"`
	Posters    Posters   `json:"posters"`
	Duration   Duration  `json:"duration"`
	Trailer    *Trailer  `json:"trailer,omitempty"`
	Seasons    []*Season `json:"seasons,omitempty"`
	Videos     []*Video  `json:"videos,omitempty"`
	// New is the number of unseen episodes reported by watching lists.
	New int `json:"new,omitempty"`
}

type Posters struct {
	Small string `json:"small,omitempty"`
	Big   string `json:"big,omitempty"`
	Wide  string `json:"wide,omitempty"`
}

// Duration holds average and total runtime, in seconds.
type Duration struct {
	Average float64 `json:"average,omitempty"`
	Total   float64 `json:"total,omitempty"`
}

type Trailer struct {
	ID  int    `json:"id"`
	URL string `json:"url,omitempty"`
}

// Season groups the episodes of a serial.
type Season struct {
	Number   int           `json:"number"`
	Title    string        `json:"title,omitempty"`
	Watching WatchingState `json:"watching"`
	Episodes []*Video      `json:"episodes"`
}

// Watched reports whether every episode of the season is watched. It is derived from
// the episodes and does not trust the aggregate status.
func (s *Season) Watched() bool {
	if len(s.Episodes) == 0 {
		return false
	}
	return lo.EveryBy(s.Episodes, func(v *Video) bool {
		return v.Watching.Status == Watched
	})
}

// Video is a single playable unit: a movie cut or one episode.
type Video struct {
	ID        int               `json:"id"`
	Number    int               `json:"number"`
	SNumber   int               `json:"snumber,omitempty"`
	Title     string            `json:"title,omitempty"`
	Duration  float64           `json:"duration,omitempty"`
	Thumbnail string            `json:"thumbnail,omitempty"`
	Watching  WatchingState     `json:"watching"`
	Audios    []AudioVariant    `json:"audios,omitempty"`
	Subtitles []SubtitleVariant `json:"subtitles,omitempty"`
}

// Code renders the s<season>e<episode> label used in titles.
func (v *Video) Code() string {
	return fmt.Sprintf("s%de%d", max(v.SNumber, 1), max(v.Number, 1))
}

type AudioType struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type AudioAuthor struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// AudioVariant is one audio track of a video.
type AudioVariant struct {
	ID     int          `json:"id"`
	Index  int          `json:"index"`
	Codec  string       `json:"codec"`
	Lang   string       `json:"lang"`
	Type   *AudioType   `json:"type,omitempty"`
	Author *AudioAuthor `json:"author,omitempty"`
}

// Key is the stable identifier stored as a preference.
func (a AudioVariant) Key() string {
	return strconv.Itoa(a.ID)
}

func (a AudioVariant) IsAC3() bool {
	return strings.EqualFold(a.Codec, "ac3")
}

// Name renders e.g. "02. RUS. Dub (Studio) AC3".
func (a AudioVariant) Name() string {
	parts := []string{fmt.Sprintf("%02d.", a.Index)}
	if a.Lang != "" {
		parts = append(parts, strings.ToUpper(a.Lang)+".")
	}
	if a.Type != nil && a.Type.Title != "" {
		parts = append(parts, a.Type.Title)
	}
	if a.Author != nil && a.Author.Title != "" {
		parts = append(parts, "("+a.Author.Title+")")
	}
	if a.Codec != "" {
		parts = append(parts, strings.ToUpper(a.Codec))
	}
	return strings.Join(parts, " ")
}

// SubtitleVariant is one subtitle track of a video.
type SubtitleVariant struct {
	Lang   string  `json:"lang"`
	Shift  float64 `json:"shift,omitempty"`
	Embed  bool    `json:"embed,omitempty"`
	Forced bool    `json:"forced,omitempty"`
	File   string  `json:"file,omitempty"`
	URL    string  `json:"url"`
}

// Key is the stable identifier stored as a preference.
func (s SubtitleVariant) Key() string {
	if s.File != "" {
		return s.File
	}
	return s.Lang
}

func (s SubtitleVariant) Name() string {
	name := strings.ToUpper(s.Lang)
	if s.Forced {
		name += " (forced)"
	}
	return name
}

// StreamingType is a delivery protocol family.
type StreamingType string

const (
	HTTP StreamingType = "http"
	HLS  StreamingType = "hls"
	HLS2 StreamingType = "hls2"
	HLS4 StreamingType = "hls4"
)

// ParseStreamingType accepts the configured protocol name.
func ParseStreamingType(s string) (StreamingType, error) {
	switch t := StreamingType(strings.ToLower(strings.TrimSpace(s))); t {
	case HTTP, HLS, HLS2, HLS4:
		return t, nil
	default:
		return "", fmt.Errorf("unknown streaming type %q", s)
	}
}

// SourceVariant is one delivery source (quality tier) of a video.
type SourceVariant struct {
	Codec     string                   `json:"codec,omitempty"`
	Width     int                      `json:"w,omitempty"`
	Height    int                      `json:"h,omitempty"`
	Quality   string                   `json:"quality"`
	QualityID int                      `json:"quality_id,omitempty"`
	URLs      map[StreamingType]string `json:"url"`
}

// Key is the stable identifier stored as a preference.
func (s SourceVariant) Key() string {
	return s.Quality
}

var tierPattern = regexp.MustCompile(`\d+`)

// Tier parses the numeric quality ("1080p" -> 1080). Unparseable qualities rank lowest.
func (s SourceVariant) Tier() int {
	return ParseTier(s.Quality)
}

// ParseTier extracts the numeric tier from a quality label such as "720p" or "2160".
func ParseTier(quality string) int {
	m := tierPattern.FindString(quality)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}

// Supports reports whether the source can be delivered over t.
func (s SourceVariant) Supports(t StreamingType) bool {
	return s.URLs[t] != ""
}

// URL returns the address for t.
func (s SourceVariant) URL(t StreamingType) string {
	return s.URLs[t]
}

// Links is what the media-links endpoint returns for one video.
type Links struct {
	Files     []SourceVariant   `json:"files"`
	Subtitles []SubtitleVariant `json:"subtitles"`
}
