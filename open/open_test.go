package open

import (
	"runtime"
	"testing"

	"github.com/cinewatch/cinewatch/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Given a watch page address", t, func() {
		const page = "http://127.0.0.1:7861/mounts/abc?x=1&y=2"

		Convey("A named browser receives the address as its last argument", func() {
			if runtime.GOOS == constant.Windows || runtime.GOOS == constant.Android {
				SkipSo()
				return
			}

			cmd, err := command(page, "firefox")
			So(err, ShouldBeNil)
			So(cmd.Args[len(cmd.Args)-1], ShouldEqual, page)
		})

		Convey("The system handler is used without a browser", func() {
			if runtime.GOOS != constant.Linux {
				SkipSo()
				return
			}

			cmd, err := command(page, "")
			So(err, ShouldBeNil)
			So(cmd.Args, ShouldResemble, []string{"xdg-open", page})
		})
	})
}
