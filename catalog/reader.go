package catalog

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/kptv-cli/kptv/log"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Status derives the season status from its episodes. A season without episodes keeps
// the status reported by the API.
func (s *Season) Status() WatchingStatus {
	if len(s.Episodes) == 0 {
		return s.Watching.Status
	}
	if s.Watched() {
		return Watched
	}
	if lo.SomeBy(s.Episodes, func(v *Video) bool { return v.Watching.Status != NotWatched }) {
		return Watching
	}
	return NotWatched
}

// IsSerial reports whether the item is organised in seasons.
func IsSerial(item *Item) bool {
	return item != nil && len(item.Seasons) > 0
}

func byNumber[T any](items []T, number func(T) int) []T {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return cmp.Compare(number(a), number(b))
	})
	return sorted
}

func videoNumber(v *Video) int   { return v.Number }
func seasonNumber(s *Season) int { return s.Number }

func findVideo(videos []*Video, number int) (*Video, bool) {
	return lo.Find(videos, func(v *Video) bool { return v.Number == number })
}

func findSeason(seasons []*Season, number int) (*Season, bool) {
	return lo.Find(seasons, func(s *Season) bool { return s.Number == number })
}

// SeasonToPlay picks the explicitly selected season, else the first season that is not
// fully watched, else season 1.
func SeasonToPlay(item *Item, season mo.Option[int]) *Season {
	if item == nil || len(item.Seasons) == 0 {
		return nil
	}

	seasons := byNumber(item.Seasons, seasonNumber)

	if number, ok := season.Get(); ok {
		if s, found := findSeason(seasons, number); found {
			return s
		}
		log.With(log.Fields{"item": item.ID, "season": number}).Warn("selected season not found, using the first one")
		return seasons[0]
	}

	if s, found := lo.Find(seasons, func(s *Season) bool { return s.Status() != Watched }); found {
		return s
	}

	if s, found := findSeason(seasons, 1); found {
		return s
	}
	return seasons[0]
}

// VideoToPlay resolves the video a play request refers to.
//
// With an explicit episode the matching video of the flat list or of the resolved
// season is returned. Without one, the first video that is not watched is returned, or
// the first video when everything is watched. An explicit selector that matches nothing
// falls back to the first video. Videos are ordered by number, not by position.
func VideoToPlay(item *Item, episode, season mo.Option[int]) *Video {
	if item == nil {
		return nil
	}

	videos := item.Videos
	if len(videos) == 0 {
		if s := SeasonToPlay(item, season); s != nil {
			videos = s.Episodes
		}
	}
	if len(videos) == 0 {
		return nil
	}

	videos = byNumber(videos, videoNumber)

	if number, ok := episode.Get(); ok {
		if v, found := findVideo(videos, number); found {
			return v
		}
		log.With(log.Fields{"item": item.ID, "episode": number}).Warn("selected episode not found, using the first one")
		return videos[0]
	}

	if v, found := lo.Find(videos, func(v *Video) bool { return v.Watching.Status != Watched }); found {
		return v
	}
	return videos[0]
}

// collectionOf returns the list current belongs to and its season, if any.
func collectionOf(item *Item, current *Video) ([]*Video, *Season) {
	if len(item.Videos) > 0 {
		return item.Videos, nil
	}
	season, _ := findSeason(item.Seasons, current.SNumber)
	if season == nil {
		return nil, nil
	}
	return season.Episodes, season
}

// NextVideo returns the video after current: the next number in the same collection,
// else the first episode of the following season. None at the end of the series.
func NextVideo(item *Item, current *Video) mo.Option[*Video] {
	if item == nil || current == nil {
		return mo.None[*Video]()
	}

	videos, season := collectionOf(item, current)
	if next, ok := findVideo(videos, current.Number+1); ok {
		return mo.Some(next)
	}

	if !IsSerial(item) {
		return mo.None[*Video]()
	}

	seasonNo := 0
	if season != nil {
		seasonNo = season.Number
	}

	nextSeason, ok := findSeason(item.Seasons, seasonNo+1)
	if !ok || len(nextSeason.Episodes) == 0 {
		return mo.None[*Video]()
	}

	if first, ok := findVideo(nextSeason.Episodes, 1); ok {
		return mo.Some(first)
	}
	return mo.Some(lo.MinBy(nextSeason.Episodes, func(a, b *Video) bool { return a.Number < b.Number }))
}

// PreviousVideo returns the video before current: the previous number in the same
// collection, else the highest numbered episode of the preceding season. None at the
// start of the series.
func PreviousVideo(item *Item, current *Video) mo.Option[*Video] {
	if item == nil || current == nil {
		return mo.None[*Video]()
	}

	videos, season := collectionOf(item, current)
	if prev, ok := findVideo(videos, current.Number-1); ok {
		return mo.Some(prev)
	}

	if !IsSerial(item) {
		return mo.None[*Video]()
	}

	seasonNo := 0
	if season != nil {
		seasonNo = season.Number
	}

	prevSeason, ok := findSeason(item.Seasons, seasonNo-1)
	if !ok || len(prevSeason.Episodes) == 0 {
		return mo.None[*Video]()
	}

	return mo.Some(lo.MaxBy(prevSeason.Episodes, func(a, b *Video) bool { return a.Number > b.Number }))
}

// PrevNext resolves both neighbours of current.
func PrevNext(item *Item, current *Video) (prev, next mo.Option[*Video]) {
	return PreviousVideo(item, current), NextVideo(item, current)
}

// Title renders the item title, with the episode code for serials.
func Title(item *Item, video *Video) string {
	if item == nil {
		return ""
	}
	if video != nil && video.SNumber != 0 {
		return fmt.Sprintf("%s (%s)", item.Title, video.Code())
	}
	return item.Title
}

// Description renders the episode title and code for serials, the video title otherwise.
func Description(video *Video) string {
	if video == nil {
		return ""
	}
	if video.SNumber == 0 {
		return video.Title
	}
	if video.Title == "" {
		return video.Code()
	}
	return fmt.Sprintf("%s (%s)", video.Title, video.Code())
}

// QualityIcon classifies the best quality of an item.
func QualityIcon(item *Item) mo.Option[string] {
	if item == nil || item.Quality == 0 {
		return mo.None[string]()
	}
	switch item.Quality {
	case 2160:
		return mo.Some("4k")
	case 1080, 720:
		return mo.Some("hd")
	default:
		return mo.Some("sd")
	}
}
