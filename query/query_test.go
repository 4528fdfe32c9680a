package query

import (
	"testing"

	"github.com/kptv-cli/kptv/filesystem"
	"github.com/kptv-cli/kptv/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given remembered queries", t, func() {
		So(Remember("the office", 1), ShouldBeNil)
		So(Remember("office space", 10), ShouldBeNil)

		Convey("Suggestions are ordered by rank", func() {
			s := SuggestMany("offi")
			So(len(s), ShouldBeGreaterThanOrEqualTo, 2)
			So(s[0], ShouldEqual, "office space")
		})

		Convey("Remembering again raises the rank", func() {
			So(Remember("The Office ", 20), ShouldBeNil)
			So(Suggest("offi").MustGet(), ShouldEqual, "the office")
		})

		Convey("Nothing is suggested when suggestions are off", func() {
			viper.Set(key.SearchShowQuerySuggestions, false)
			defer viper.Set(key.SearchShowQuerySuggestions, true)
			So(SuggestMany("offi"), ShouldBeEmpty)
		})

		Convey("Input is normalized", func() {
			So(normalize("  THE   OFFICE  "), ShouldEqual, "the office")
			So(Remember("   ", 5), ShouldBeNil)
			So(SuggestMany(""), ShouldNotContain, "")
		})

		Convey("Equal ranks are ordered alphabetically", func() {
			So(sorted([]*record{{Rank: 1, Query: "b"}, {Rank: 1, Query: "a"}, {Rank: 2, Query: "c"}}), ShouldResemble,
				[]*record{{Rank: 2, Query: "c"}, {Rank: 1, Query: "a"}, {Rank: 1, Query: "b"}})
		})
	})
}
