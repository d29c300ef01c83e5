package ui

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a notifier", t, func() {
		var m Model

		Convey("A notification is shown and schedules its own clearing", func() {
			cmd := m.Update(NotificationMsg("mirror vidsrc.xyz failed"))
			So(cmd, ShouldNotBeNil)
			So(m.Text(), ShouldEqual, "mirror vidsrc.xyz failed")
			So(m.View("a\nb"), ShouldStartWith, "a\nb  ")

			Convey("A stale clear does not hide a newer notification", func() {
				m.Update(NotificationMsg("trying vidsrc.in"))
				m.Update(ClearNotificationMsg{seq: 1})
				So(m.Text(), ShouldEqual, "trying vidsrc.in")

				m.Update(ClearNotificationMsg{seq: 2})
				So(m.Text(), ShouldBeEmpty)
				So(m.View("a"), ShouldEqual, "a")
			})
		})
	})
}
