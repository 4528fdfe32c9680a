package util

import (
	"testing"

	"github.com/kptv-cli/kptv/filesystem"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "episode", "episodes"), ShouldEqual, "1 episode")
		So(Quantify(0, "episode", "episodes"), ShouldEqual, "0 episodes")
		So(Quantify(2, "episode", "episodes"), ShouldEqual, "2 episodes")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("cache directory"), ShouldEqual, "Cache directory")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFormatDuration(t *testing.T) {
	Convey("FormatDuration", t, func() {
		So(FormatDuration(0), ShouldEqual, "0:00")
		So(FormatDuration(95.8), ShouldEqual, "1:35")
		So(FormatDuration(3725), ShouldEqual, "1:02:05")
		So(FormatDuration(-3), ShouldEqual, "0:00")
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete removes files and directories", t, func() {
		fs := filesystem.API()
		So(fs.WriteFile("/tmp/kptv/a/b.json", []byte("{}"), 0o644), ShouldBeNil)
		So(fs.WriteFile("/tmp/kptv/c.json", []byte("{}"), 0o644), ShouldBeNil)

		So(Delete("/tmp/kptv/c.json"), ShouldBeNil)
		So(Delete("/tmp/kptv/a"), ShouldBeNil)

		exists, _ := fs.Exists("/tmp/kptv/a/b.json")
		So(exists, ShouldBeFalse)
		So(Delete("/tmp/kptv/missing"), ShouldNotBeNil)
	})
}

func TestStack(t *testing.T) {
	Convey("Stack", t, func() {
		var s Stack[int]
		s.Push(1)
		s.Push(2)
		So(s.Pop(), ShouldResemble, mo.Some(2))
		So(s.Pop(), ShouldResemble, mo.Some(1))
		So(s.Pop().IsAbsent(), ShouldBeTrue)
	})
}
