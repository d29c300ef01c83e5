package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/cinewatch/cinewatch/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPrune(t *testing.T) {
	Convey("Given a directory with fresh and stale files", t, func() {
		filesystem.SetMemMapFs()
		fsys := filesystem.API()
		dir := "/tmp/cinewatch"
		So(fsys.MkdirAll(dir, 0o755), ShouldBeNil)

		for _, name := range []string{"mpv-aa.sock", "mpv-bb.sock", "notes.txt"} {
			So(fsys.WriteFile(filepath.Join(dir, name), nil, 0o644), ShouldBeNil)
		}

		old := time.Now().Add(-48 * time.Hour)
		So(fsys.Chtimes(filepath.Join(dir, "mpv-aa.sock"), old, old), ShouldBeNil)
		So(fsys.Chtimes(filepath.Join(dir, "notes.txt"), old, old), ShouldBeNil)

		Convey("Only stale matching files are removed", func() {
			removed := prune(dir, SocketTTL, func(name string) bool {
				return filepath.Ext(name) == ".sock"
			})
			So(removed, ShouldEqual, 1)

			exists, _ := fsys.Exists(filepath.Join(dir, "mpv-aa.sock"))
			So(exists, ShouldBeFalse)
			exists, _ = fsys.Exists(filepath.Join(dir, "mpv-bb.sock"))
			So(exists, ShouldBeTrue)
			exists, _ = fsys.Exists(filepath.Join(dir, "notes.txt"))
			So(exists, ShouldBeTrue)
		})
	})
}
