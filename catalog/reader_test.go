package catalog

import (
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func episode(season, number int, status WatchingStatus) *Video {
	return &Video{
		ID:       season*100 + number,
		Number:   number,
		SNumber:  season,
		Watching: WatchingState{Status: status},
	}
}

func twoSeasons() *Item {
	return &Item{
		ID:    7,
		Title: "Serial",
		Type:  "serial",
		Seasons: []*Season{
			{Number: 1, Episodes: []*Video{
				episode(1, 1, Watched),
				episode(1, 2, Watched),
			}},
			{Number: 2, Episodes: []*Video{
				episode(2, 1, NotWatched),
				episode(2, 2, NotWatched),
				episode(2, 3, NotWatched),
			}},
		},
	}
}

func shuffled() *Item {
	return &Item{
		ID: 8,
		Seasons: []*Season{
			{Number: 2, Episodes: []*Video{
				episode(2, 3, NotWatched),
				episode(2, 1, NotWatched),
				episode(2, 2, NotWatched),
			}},
			{Number: 1, Episodes: []*Video{
				episode(1, 2, NotWatched),
				episode(1, 4, NotWatched),
				episode(1, 1, NotWatched),
			}},
		},
	}
}

func movie() *Item {
	return &Item{
		ID:     9,
		Title:  "Movie",
		Type:   "movie",
		Videos: []*Video{{ID: 900, Number: 1, Watching: WatchingState{Status: Watching, Time: 120}}},
	}
}

func find(item *Item, season, number int) *Video {
	for _, s := range item.Seasons {
		if s.Number != season {
			continue
		}
		for _, v := range s.Episodes {
			if v.Number == number {
				return v
			}
		}
	}
	return nil
}

func TestVideoToPlay(t *testing.T) {
	Convey("Given a serial with two seasons", t, func() {
		item := twoSeasons()

		Convey("Without a selector the first unwatched episode is chosen", func() {
			v := VideoToPlay(item, mo.None[int](), mo.None[int]())
			So(v.SNumber, ShouldEqual, 2)
			So(v.Number, ShouldEqual, 1)
		})

		Convey("An explicit selector returns the exact episode", func() {
			v := VideoToPlay(item, mo.Some(2), mo.Some(1))
			So(v, ShouldEqual, find(item, 1, 2))
		})

		Convey("An explicit episode without season uses the season to play", func() {
			v := VideoToPlay(item, mo.Some(3), mo.None[int]())
			So(v, ShouldEqual, find(item, 2, 3))
		})

		Convey("A selector that matches nothing falls back to the first episode", func() {
			v := VideoToPlay(item, mo.Some(42), mo.Some(2))
			So(v, ShouldEqual, find(item, 2, 1))
		})

		Convey("A missing season falls back to the first season", func() {
			v := VideoToPlay(item, mo.Some(2), mo.Some(9))
			So(v, ShouldEqual, find(item, 1, 2))
		})

		Convey("When everything is watched episode 1 of season 1 is the rewatch default", func() {
			for _, s := range item.Seasons {
				for _, e := range s.Episodes {
					e.Watching.Status = Watched
				}
			}
			v := VideoToPlay(item, mo.None[int](), mo.None[int]())
			So(v.SNumber, ShouldEqual, 1)
			So(v.Number, ShouldEqual, 1)
		})
	})

	Convey("Given a serial with shuffled arrays", t, func() {
		item := shuffled()

		Convey("The rewatch default is still number 1", func() {
			for _, s := range item.Seasons {
				for _, e := range s.Episodes {
					e.Watching.Status = Watched
				}
			}
			v := VideoToPlay(item, mo.None[int](), mo.None[int]())
			So(v.SNumber, ShouldEqual, 1)
			So(v.Number, ShouldEqual, 1)
		})

		Convey("The first unwatched episode is found by number", func() {
			v := VideoToPlay(item, mo.None[int](), mo.None[int]())
			So(v, ShouldEqual, find(item, 1, 1))
		})
	})

	Convey("Given a movie", t, func() {
		item := movie()

		Convey("The only video is chosen", func() {
			So(VideoToPlay(item, mo.None[int](), mo.None[int]()).ID, ShouldEqual, 900)
		})

		Convey("A nil item yields nil", func() {
			So(VideoToPlay(nil, mo.None[int](), mo.None[int]()), ShouldBeNil)
		})
	})
}

func TestSeasonToPlay(t *testing.T) {
	Convey("Given a serial", t, func() {
		item := twoSeasons()

		Convey("The first season that is not fully watched is chosen", func() {
			So(SeasonToPlay(item, mo.None[int]()).Number, ShouldEqual, 2)
		})

		Convey("Season status is derived from the episodes", func() {
			item.Seasons[0].Watching.Status = NotWatched
			So(item.Seasons[0].Status(), ShouldEqual, Watched)
			So(SeasonToPlay(item, mo.None[int]()).Number, ShouldEqual, 2)
		})

		Convey("A partially watched season reports Watching", func() {
			item.Seasons[1].Episodes[0].Watching.Status = Watched
			So(item.Seasons[1].Status(), ShouldEqual, Watching)
		})

		Convey("Movies have no season", func() {
			So(SeasonToPlay(movie(), mo.None[int]()), ShouldBeNil)
		})
	})
}

func TestNextPrevious(t *testing.T) {
	Convey("Given two seasons with episodes {1,2} and {1,2,3}", t, func() {
		item := twoSeasons()

		Convey("Next of s1e2 is s2e1", func() {
			next, ok := NextVideo(item, find(item, 1, 2)).Get()
			So(ok, ShouldBeTrue)
			So(next, ShouldEqual, find(item, 2, 1))
		})

		Convey("Previous of s2e1 is s1e2", func() {
			prev, ok := PreviousVideo(item, find(item, 2, 1)).Get()
			So(ok, ShouldBeTrue)
			So(prev, ShouldEqual, find(item, 1, 2))
		})

		Convey("Next within a season increments the number", func() {
			So(NextVideo(item, find(item, 2, 1)).MustGet(), ShouldEqual, find(item, 2, 2))
		})

		Convey("The series has boundaries", func() {
			So(NextVideo(item, find(item, 2, 3)).IsAbsent(), ShouldBeTrue)
			So(PreviousVideo(item, find(item, 1, 1)).IsAbsent(), ShouldBeTrue)
		})

		Convey("Next composed with previous round-trips on interior episodes", func() {
			for _, s := range item.Seasons {
				for _, e := range s.Episodes {
					next, ok := NextVideo(item, e).Get()
					if !ok {
						continue
					}
					So(PreviousVideo(item, next).MustGet(), ShouldEqual, e)
				}
			}
		})
	})

	Convey("Given shuffled episode arrays", t, func() {
		item := shuffled()

		Convey("Neighbours are searched by number, not position", func() {
			So(NextVideo(item, find(item, 2, 1)).MustGet(), ShouldEqual, find(item, 2, 2))
			So(PreviousVideo(item, find(item, 2, 3)).MustGet(), ShouldEqual, find(item, 2, 2))
		})

		Convey("A gap in numbering ends the season", func() {
			So(NextVideo(item, find(item, 1, 2)).MustGet(), ShouldEqual, find(item, 2, 1))
		})

		Convey("Previous season resolves to its highest number", func() {
			So(PreviousVideo(item, find(item, 2, 1)).MustGet(), ShouldEqual, find(item, 1, 4))
		})

		Convey("Next season resolves to episode 1 wherever it is stored", func() {
			So(NextVideo(item, find(item, 1, 4)).MustGet(), ShouldEqual, find(item, 2, 1))
		})
	})

	Convey("Given a movie with a single video", t, func() {
		item := movie()
		v := item.Videos[0]

		Convey("There is neither next nor previous", func() {
			prev, next := PrevNext(item, v)
			So(prev.IsAbsent(), ShouldBeTrue)
			So(next.IsAbsent(), ShouldBeTrue)
		})
	})

	Convey("Given a flat multi-part item", t, func() {
		item := &Item{Videos: []*Video{{Number: 2}, {Number: 1}, {Number: 3}}}

		Convey("Neighbours stay within the flat list", func() {
			So(NextVideo(item, item.Videos[1]).MustGet(), ShouldEqual, item.Videos[0])
			So(PreviousVideo(item, item.Videos[0]).MustGet(), ShouldEqual, item.Videos[1])
			So(NextVideo(item, item.Videos[2]).IsAbsent(), ShouldBeTrue)
		})
	})
}

func TestPresentation(t *testing.T) {
	Convey("Given titles and descriptions", t, func() {
		item := twoSeasons()
		v := find(item, 2, 3)

		Convey("Serial titles carry the episode code", func() {
			So(Title(item, v), ShouldEqual, "Serial (s2e3)")
			So(Description(v), ShouldEqual, "s2e3")
			v.Title = "Finale"
			So(Description(v), ShouldEqual, "Finale (s2e3)")
		})

		Convey("Movie titles are plain", func() {
			m := movie()
			So(Title(m, m.Videos[0]), ShouldEqual, "Movie")
		})

		Convey("Quality icons classify tiers", func() {
			So(QualityIcon(&Item{Quality: 2160}).MustGet(), ShouldEqual, "4k")
			So(QualityIcon(&Item{Quality: 720}).MustGet(), ShouldEqual, "hd")
			So(QualityIcon(&Item{Quality: 480}).MustGet(), ShouldEqual, "sd")
			So(QualityIcon(&Item{}).IsAbsent(), ShouldBeTrue)
		})
	})
}
