package where

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kptv-cli/kptv/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Given the path resolvers", t, func() {
		Convey("Directories are created on demand", func() {
			for _, dir := range []func() string{Config, Cache, Logs, Temp} {
				path := dir()
				So(path, ShouldNotBeEmpty)
				So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			}
		})

		Convey("Store files live under the config directory", func() {
			So(filepath.Dir(Preferences()), ShouldEqual, Config())
			So(filepath.Dir(Checkpoints()), ShouldEqual, Config())
			So(filepath.Dir(Queries()), ShouldEqual, Cache())
		})

		Convey("The config directory honours the override variable", func() {
			custom := filepath.Join(os.TempDir(), "kptv-where-test")
			So(os.Setenv(EnvConfigPath, custom), ShouldBeNil)
			defer os.Unsetenv(EnvConfigPath)

			So(Config(), ShouldEqual, custom)
			So(Preferences(), ShouldEqual, filepath.Join(custom, "preferences.json"))
		})

		Convey("Platforms without a user directory use the fallback", func() {
			none := func() (string, error) { return "", errors.New("$HOME is not defined") }
			So(userDir(none, "cache"), ShouldEqual, "cache")
		})
	})
}
