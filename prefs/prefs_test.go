package prefs

import (
	"path/filepath"
	"testing"

	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/config"
	"github.com/kptv-cli/kptv/filesystem"
	"github.com/kptv-cli/kptv/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func path(name string) string {
	return filepath.Join("/prefs", name+".json")
}

func newStore(name string) *File {
	_ = filesystem.API().Remove(path(name))
	return NewFile(path(name))
}

func TestFile(t *testing.T) {
	Convey("Given an empty preference file", t, func() {
		store := newStore(t.Name())

		Convey("Lookups miss", func() {
			_, ok := store.Lookup(ItemKey(1, Audio))
			So(ok, ShouldBeFalse)
			So(String(store, ItemKey(1, Audio)).IsAbsent(), ShouldBeTrue)
		})

		Convey("When values are written", func() {
			So(store.Set(ItemKey(1, Audio), "12"), ShouldBeNil)
			So(store.Set(ItemKey(1, Subtitle), nil), ShouldBeNil)
			So(store.Set(AC3ByDefault, true), ShouldBeNil)

			Convey("A fresh handle on the same path reads them back", func() {
				reopened := NewFile(path(t.Name()))
				So(String(reopened, ItemKey(1, Audio)).MustGet(), ShouldEqual, "12")
				So(Bool(reopened, AC3ByDefault).MustGet(), ShouldBeTrue)
			})

			Convey("An explicit nil survives the round trip as a present key", func() {
				value, ok := NewFile(path(t.Name())).Lookup(ItemKey(1, Subtitle))
				So(ok, ShouldBeTrue)
				So(value, ShouldBeNil)
			})

			Convey("Keys are listed sorted", func() {
				So(store.Keys(), ShouldResemble, []string{
					AC3ByDefault,
					ItemKey(1, Audio),
					ItemKey(1, Subtitle),
				})
			})

			Convey("A file that can not be read is never overwritten", func() {
				backend := filesystem.API().Fs
				filesystem.Use(afero.NewReadOnlyFs(backend))
				defer filesystem.Use(backend)
				unreadable := NewFile(path(t.Name()))

				So(unreadable.Set(ItemKey(2, Audio), "5"), ShouldNotBeNil)
				So(unreadable.Delete(ItemKey(1, Audio)), ShouldNotBeNil)
				_, ok := unreadable.Lookup(ItemKey(1, Audio))
				So(ok, ShouldBeFalse)
				So(unreadable.Keys(), ShouldBeEmpty)

				filesystem.Use(backend)
				So(NewFile(path(t.Name())).Keys(), ShouldResemble, []string{
					AC3ByDefault,
					ItemKey(1, Audio),
					ItemKey(1, Subtitle),
				})
			})

			Convey("Clearing an item keeps global flags", func() {
				So(store.Set(ItemKey(10, Audio), "3"), ShouldBeNil)
				So(ClearItem(store, 1), ShouldBeNil)
				So(store.Keys(), ShouldResemble, []string{AC3ByDefault, ItemKey(10, Audio)})
			})
		})
	})
}

func TestTypedReads(t *testing.T) {
	Convey("Given loosely typed values", t, func() {
		store := newStore(t.Name())
		So(store.Set("number", 1080.0), ShouldBeNil)
		So(store.Set("text", "false"), ShouldBeNil)
		So(store.Set("garbage", "maybe"), ShouldBeNil)

		Convey("Numbers read as strings", func() {
			So(String(store, "number").MustGet(), ShouldEqual, "1080")
		})

		Convey("Boolean strings are parsed", func() {
			So(Bool(store, "text").MustGet(), ShouldBeFalse)
			So(Bool(store, "garbage").IsAbsent(), ShouldBeTrue)
		})
	})
}

func TestPolicy(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		So(config.Setup(), ShouldBeNil)
		store := newStore(t.Name())

		Convey("An empty store yields the configured defaults", func() {
			policy := LoadPolicy(store)
			So(policy.StreamingType, ShouldEqual, catalog.HTTP)
			So(policy.DefaultQuality.IsAbsent(), ShouldBeTrue)
			So(policy.AC3ByDefault, ShouldBeFalse)
			So(policy.SettingsByUpClick, ShouldBeTrue)
		})

		Convey("Config changes apply while the store is silent", func() {
			viper.Set(key.PlayerAC3ByDefault, true)
			defer viper.Set(key.PlayerAC3ByDefault, false)
			So(LoadPolicy(store).AC3ByDefault, ShouldBeTrue)
		})

		Convey("Stored flags take precedence", func() {
			So(SetFlag(store, StreamingType, "HLS"), ShouldBeNil)
			So(SetFlag(store, DefaultQuality, "1080"), ShouldBeNil)
			So(SetFlag(store, SettingsByUpClick, "false"), ShouldBeNil)

			policy := LoadPolicy(store)
			So(policy.StreamingType, ShouldEqual, catalog.HLS)
			So(policy.DefaultQuality.MustGet(), ShouldEqual, "1080")
			So(policy.SettingsByUpClick, ShouldBeFalse)

			value, stored := Effective(store, Flags[0])
			So(value, ShouldEqual, "hls")
			So(stored, ShouldBeTrue)
		})

		Convey("Invalid values are rejected", func() {
			So(SetFlag(store, "volume", "11"), ShouldNotBeNil)
			So(SetFlag(store, AC3ByDefault, "sometimes"), ShouldNotBeNil)
			So(SetFlag(store, StreamingType, "dash"), ShouldNotBeNil)
			So(SetFlag(store, DefaultQuality, "best"), ShouldNotBeNil)
		})

		Convey("A broken stored streaming type falls back to http", func() {
			So(store.Set(StreamingType, "dash"), ShouldBeNil)
			So(LoadPolicy(store).StreamingType, ShouldEqual, catalog.HTTP)
		})
	})
}
