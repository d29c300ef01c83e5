package playback

import (
	"errors"
	"testing"

	"github.com/cinewatch/cinewatch/source"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeAdapter struct {
	calls      []string
	volume     float64
	muted      bool
	fullscreen bool
	transport  bool
	disposed   bool
	seekTo     float64
	playErr    error
}

func (f *fakeAdapter) Play() error {
	f.calls = append(f.calls, "play")
	return f.playErr
}

func (f *fakeAdapter) Pause() error {
	f.calls = append(f.calls, "pause")
	return nil
}

func (f *fakeAdapter) Seek(seconds float64) error {
	f.calls = append(f.calls, "seek")
	f.seekTo = seconds
	return nil
}

func (f *fakeAdapter) SetVolume(v float64) error {
	f.volume = v
	return nil
}

func (f *fakeAdapter) SetMuted(m bool) error {
	f.muted = m
	return nil
}

func (f *fakeAdapter) Fullscreen() bool { return f.fullscreen }

func (f *fakeAdapter) SetFullscreen(on bool) error {
	f.calls = append(f.calls, map[bool]string{true: "enter", false: "exit"}[on])
	return nil
}

func (f *fakeAdapter) Transport() bool { return f.transport }

func (f *fakeAdapter) Dispose() {
	f.calls = append(f.calls, "dispose")
	f.disposed = true
}

func mounted(ctrl *Controller, a *fakeAdapter) *Session {
	s := NewSession(ctrl, func(source.VideoSource, Reporter) (Adapter, error) { return a, nil })
	So(s.Mount(source.DirectFile{URL: "https://cdn.test/a.mp4"}), ShouldBeNil)
	return s
}

func TestController(t *testing.T) {
	Convey("Given a controller with a native adapter", t, func() {
		ctrl := NewController(nil)
		adapter := &fakeAdapter{transport: true}
		mounted(ctrl, adapter)

		Convey("The initial state has defaults", func() {
			st := ctrl.State()
			So(st.Paused, ShouldBeFalse)
			So(st.Muted, ShouldBeFalse)
			So(st.Volume, ShouldEqual, DefaultVolume)
			So(st.Initialized, ShouldBeFalse)
		})

		Convey("TogglePlayPause does not change state optimistically", func() {
			ctrl.TogglePlayPause()
			So(adapter.calls, ShouldResemble, []string{"pause"})
			So(ctrl.State().Paused, ShouldBeFalse)

			ctrl.Paused(true)
			ctrl.TogglePlayPause()
			So(adapter.calls, ShouldResemble, []string{"pause", "play"})
			So(ctrl.State().Paused, ShouldBeTrue)
		})

		Convey("A rejected play leaves the state alone", func() {
			adapter.playErr = errors.New("not buffered")
			ctrl.Paused(true)
			ctrl.TogglePlayPause()
			So(ctrl.State().Paused, ShouldBeTrue)
		})

		Convey("Seek forwards the target unchanged", func() {
			ctrl.Duration(100)
			ctrl.Seek(250)
			So(adapter.seekTo, ShouldEqual, 250)
			So(ctrl.State().Position, ShouldEqual, 0)

			ctrl.Position(40)
			ctrl.SeekBy(-10)
			So(adapter.seekTo, ShouldEqual, 30)
		})

		Convey("SetVolume clamps and applies optimistically", func() {
			ctrl.SetVolume(1.7)
			So(ctrl.State().Volume, ShouldEqual, 1)
			So(adapter.volume, ShouldEqual, 1)

			ctrl.SetVolume(-0.2)
			So(ctrl.State().Volume, ShouldEqual, 0)

			ctrl.SetVolumePercent(35)
			So(ctrl.State().Volume, ShouldAlmostEqual, 0.35)
			So(ctrl.State().VolumePercent(), ShouldEqual, 35)
		})

		Convey("ToggleMute flips and forwards", func() {
			ctrl.ToggleMute()
			So(ctrl.State().Muted, ShouldBeTrue)
			So(adapter.muted, ShouldBeTrue)
			ctrl.ToggleMute()
			So(adapter.muted, ShouldBeFalse)
		})

		Convey("ToggleFullscreen requests the inverse of the adapter flag", func() {
			ctrl.ToggleFullscreen()
			So(adapter.calls, ShouldResemble, []string{"enter"})
			So(ctrl.State().Fullscreen, ShouldBeFalse)

			adapter.fullscreen = true
			ctrl.ToggleFullscreen()
			So(adapter.calls, ShouldResemble, []string{"enter", "exit"})

			ctrl.Fullscreen(true)
			So(ctrl.State().Fullscreen, ShouldBeTrue)
		})

		Convey("ToggleSubtitles only flips the flag", func() {
			ctrl.ToggleSubtitles()
			So(ctrl.State().SubtitlesEnabled, ShouldBeTrue)
			So(adapter.calls, ShouldBeEmpty)
		})

		Convey("Next does nothing", func() {
			before := ctrl.State()
			ctrl.Next()
			So(ctrl.State(), ShouldResemble, before)
			So(adapter.calls, ShouldBeEmpty)
		})

		Convey("A position reported before the duration is clamped to it", func() {
			ctrl.Position(42.5)
			ctrl.Duration(30)
			So(ctrl.State().Position, ShouldEqual, 30)
			So(ctrl.State().Position, ShouldBeLessThanOrEqualTo, ctrl.State().Duration)

			ctrl.Position(12)
			ctrl.Duration(30)
			So(ctrl.State().Position, ShouldEqual, 12)
		})

		Convey("Reloaded clears the timeline and disables seeking", func() {
			ctrl.Duration(100)
			ctrl.Position(90)
			ctrl.Reloaded()

			st := ctrl.State()
			So(st.Initialized, ShouldBeFalse)
			So(st.Duration, ShouldEqual, 0)
			So(st.Position, ShouldEqual, 0)
			So(ctrl.Controls().Seek, ShouldBeFalse)
		})

		Convey("Seek is disabled until the duration is known", func() {
			So(ctrl.Controls().Seek, ShouldBeFalse)
			So(ctrl.Controls().PlayPause, ShouldBeTrue)

			ctrl.Duration(120)
			So(ctrl.State().Initialized, ShouldBeTrue)
			So(ctrl.Controls().Seek, ShouldBeTrue)
		})

		Convey("A failure disables transport and records the error", func() {
			ctrl.Duration(120)
			ctrl.Failed(errors.New("init timeout"))

			c := ctrl.Controls()
			So(ctrl.State().Err, ShouldNotBeNil)
			So(c.PlayPause, ShouldBeFalse)
			So(c.Seek, ShouldBeFalse)
			So(c.Back, ShouldBeTrue)
		})

		Convey("Subscribers see every change", func() {
			var seen []State
			ctrl.Subscribe(func(s State) { seen = append(seen, s) })
			ctrl.Paused(true)
			ctrl.Position(12)
			So(seen, ShouldHaveLength, 2)
			So(seen[1].Position, ShouldEqual, 12)
		})
	})

	Convey("Given an adapter without transport", t, func() {
		ctrl := NewController(nil)
		mounted(ctrl, &fakeAdapter{})

		Convey("Volume and mute intents leave the state alone", func() {
			before := ctrl.State()
			ctrl.SetVolume(0.2)
			ctrl.SetVolumePercent(50)
			ctrl.ToggleMute()
			So(ctrl.State(), ShouldResemble, before)
		})

		Convey("Only back, fullscreen and presentation controls are enabled", func() {
			c := ctrl.Controls()
			So(c.PlayPause, ShouldBeFalse)
			So(c.Volume, ShouldBeFalse)
			So(c.Fullscreen, ShouldBeTrue)
			So(c.Back, ShouldBeTrue)
		})
	})

	Convey("GoBack invokes the navigation callback", t, func() {
		navigated := false
		ctrl := NewController(func() { navigated = true })
		ctrl.GoBack()
		So(navigated, ShouldBeTrue)
	})
}

func TestSession(t *testing.T) {
	Convey("Given a session", t, func() {
		ctrl := NewController(nil)
		var order []string
		var adapters []*fakeAdapter

		session := NewSession(ctrl, func(src source.VideoSource, r Reporter) (Adapter, error) {
			if u, ok := src.(source.Unavailable); ok {
				return nil, errors.New(u.Reason)
			}
			order = append(order, "mount")
			a := &fakeAdapter{transport: true}
			adapters = append(adapters, a)
			return a, nil
		})

		Convey("A new mount disposes the previous adapter first", func() {
			So(session.Mount(source.DirectFile{URL: "a"}), ShouldBeNil)
			ctrl.Duration(50)

			So(session.Mount(source.DirectFile{URL: "b"}), ShouldBeNil)
			So(adapters[0].disposed, ShouldBeTrue)
			So(adapters[1].disposed, ShouldBeFalse)
			So(order, ShouldResemble, []string{"mount", "mount"})
			So(ctrl.State().Initialized, ShouldBeFalse)
		})

		Convey("Intents after Close reach no adapter", func() {
			So(session.Mount(source.DirectFile{URL: "a"}), ShouldBeNil)
			session.Close()

			ctrl.TogglePlayPause()
			So(adapters[0].calls, ShouldResemble, []string{"dispose"})
			So(session.Mount(source.DirectFile{URL: "b"}), ShouldEqual, ErrClosed)
		})

		Convey("A failed mount surfaces the error", func() {
			err := session.Mount(source.Unavailable{Reason: "nothing to play"})
			So(err, ShouldNotBeNil)
			So(ctrl.State().Err, ShouldNotBeNil)
			So(session.Source(), ShouldBeNil)
		})
	})
}
