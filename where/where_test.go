package where

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cinewatch/cinewatch/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestWhere(t *testing.T) {
	Convey("Paths", t, func() {
		Convey("Config honours the override variable", func() {
			custom := filepath.Join(os.TempDir(), "cinewatch-where-test")
			t.Setenv(EnvConfigPath, custom)

			So(Config(), ShouldEqual, custom)
			So(Logs(), ShouldEqual, filepath.Join(custom, "logs"))

			exists, err := filesystem.API().DirExists(filepath.Join(custom, "logs"))
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
		})

		Convey("Metadata lives under the cache directory", func() {
			So(filepath.Dir(Metadata()), ShouldEqual, Cache())
			So(filepath.Base(Metadata()), ShouldEqual, "tmdb.json")
		})

		Convey("Temp is inside the OS temp directory", func() {
			So(Temp(), ShouldStartWith, os.TempDir())
		})
	})
}
