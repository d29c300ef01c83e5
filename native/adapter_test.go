package native

import (
	"errors"
	"testing"
	"time"

	"github.com/cinewatch/cinewatch/eventloop"
	"github.com/cinewatch/cinewatch/playback"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeEngine struct {
	opens   int
	loads   []SourceOption
	resizes [][2]int
	closed  int
	emit    func(Event)
}

func (f *fakeEngine) Open(opts Options, emit func(Event)) error {
	f.opens++
	f.emit = emit
	return nil
}

func (f *fakeEngine) Load(src SourceOption, autoplay bool) error {
	f.loads = append(f.loads, src)
	return nil
}

func (f *fakeEngine) Resize(w, h int) error {
	f.resizes = append(f.resizes, [2]int{w, h})
	return nil
}

func (f *fakeEngine) Play() error { return nil }
func (f *fakeEngine) Pause() error { return nil }
func (f *fakeEngine) Seek(float64) error { return nil }
func (f *fakeEngine) SetVolume(float64) error { return nil }
func (f *fakeEngine) SetMuted(bool) error { return nil }
func (f *fakeEngine) SetFullscreen(bool) error { return nil }

func (f *fakeEngine) Close() error {
	f.closed++
	return nil
}

func (f *fakeEngine) calls() int {
	return f.opens + len(f.loads) + len(f.resizes) + f.closed
}

func hlsOptions() Options {
	opts := DefaultOptions()
	opts.TechOrder = []Tech{TechHTML5}
	opts.Sources = []SourceOption{{URL: "https://cdn.test/master.m3u8", MimeType: MimeHLS}}
	return opts
}

func TestAdapter(t *testing.T) {
	Convey("Given a mounted native adapter", t, func() {
		sched := eventloop.NewManual()
		engine := &fakeEngine{}
		ctrl := playback.NewController(nil)
		adapter := New(sched, engine, ctrl, 20*time.Second)
		So(adapter.Mount(hlsOptions()), ShouldBeNil)

		emit := func(events ...Event) {
			for _, ev := range events {
				engine.emit(ev)
			}
			sched.Drain()
		}

		Convey("Play, pause and a time update before the duration is known", func() {
			emit(Event{Kind: EventPlay}, Event{Kind: EventPause}, Event{Kind: EventTimeUpdate, Value: 42.5})

			st := ctrl.State()
			So(st.Position, ShouldEqual, 42.5)
			So(st.Paused, ShouldBeTrue)
			So(st.Initialized, ShouldBeFalse)
		})

		Convey("Positions past the known duration are clamped", func() {
			emit(Event{Kind: EventDurationChange, Value: 100}, Event{Kind: EventTimeUpdate, Value: 130})
			So(ctrl.State().Position, ShouldEqual, 100)
			So(ctrl.State().Duration, ShouldEqual, 100)
			So(ctrl.State().Initialized, ShouldBeTrue)
		})

		Convey("Only the first duration event counts", func() {
			emit(Event{Kind: EventDurationChange, Value: 100}, Event{Kind: EventDurationChange, Value: 50})
			So(ctrl.State().Duration, ShouldEqual, 100)
		})

		Convey("Fullscreen follows the engine", func() {
			emit(Event{Kind: EventFullscreenChange, On: true})
			So(ctrl.State().Fullscreen, ShouldBeTrue)
			So(adapter.Fullscreen(), ShouldBeTrue)
		})

		Convey("Mounting again reconfigures instead of reopening", func() {
			So(adapter.Mount(hlsOptions()), ShouldBeNil)
			So(engine.opens, ShouldEqual, 1)
		})

		Convey("Identical options trigger no engine call", func() {
			before := engine.calls()
			So(adapter.Update(hlsOptions()), ShouldBeNil)
			So(engine.calls(), ShouldEqual, before)
		})

		Convey("A size change on the same source resizes in place", func() {
			opts := hlsOptions()
			opts.Width, opts.Height = 1920, 1080
			So(adapter.Update(opts), ShouldBeNil)
			So(engine.loads, ShouldBeEmpty)
			So(engine.resizes, ShouldResemble, [][2]int{{1920, 1080}})
		})

		Convey("Other option changes on the same source are not applied", func() {
			opts := hlsOptions()
			opts.Autoplay = false
			So(adapter.Update(opts), ShouldBeNil)
			So(engine.loads, ShouldBeEmpty)
			So(engine.resizes, ShouldBeEmpty)
		})

		Convey("A new source is loaded", func() {
			emit(Event{Kind: EventDurationChange, Value: 100}, Event{Kind: EventTimeUpdate, Value: 90})
			So(ctrl.Controls().Seek, ShouldBeTrue)

			opts := hlsOptions()
			opts.Sources = []SourceOption{{URL: "https://cdn.test/b.mp4", MimeType: MimeMP4}}
			So(adapter.Update(opts), ShouldBeNil)
			So(engine.loads, ShouldResemble, opts.Sources)
			So(adapter.Options().Source().URL, ShouldEqual, "https://cdn.test/b.mp4")

			Convey("The timeline of the old source is forgotten", func() {
				st := ctrl.State()
				So(st.Initialized, ShouldBeFalse)
				So(st.Duration, ShouldEqual, 0)
				So(st.Position, ShouldEqual, 0)
				So(ctrl.Controls().Seek, ShouldBeFalse)
			})

			Convey("The new duration is taken", func() {
				emit(Event{Kind: EventDurationChange, Value: 40})
				So(ctrl.State().Duration, ShouldEqual, 40)
				So(ctrl.Controls().Seek, ShouldBeTrue)
			})
		})

		Convey("Events of the old source still queued after a source change are dropped", func() {
			engine.emit(Event{Kind: EventDurationChange, Value: 100})
			engine.emit(Event{Kind: EventTimeUpdate, Value: 90})

			opts := hlsOptions()
			opts.Sources = []SourceOption{{URL: "https://cdn.test/b.mp4", MimeType: MimeMP4}}
			So(adapter.Update(opts), ShouldBeNil)
			sched.Drain()

			So(ctrl.State().Initialized, ShouldBeFalse)
			So(ctrl.State().Position, ShouldEqual, 0)

			emit(Event{Kind: EventTimeUpdate, Value: 3})
			So(ctrl.State().Position, ShouldEqual, 3)
		})

		Convey("A duration arriving after a larger position clamps it", func() {
			emit(Event{Kind: EventTimeUpdate, Value: 42.5}, Event{Kind: EventDurationChange, Value: 30})
			So(ctrl.State().Position, ShouldEqual, 30)
		})

		Convey("Without a duration event the init timeout is reported", func() {
			sched.Advance(20 * time.Second)
			So(errors.Is(ctrl.State().Err, ErrInitTimeout), ShouldBeTrue)
		})

		Convey("A duration event cancels the init timeout", func() {
			emit(Event{Kind: EventDurationChange, Value: 100})
			sched.Advance(time.Minute)
			So(ctrl.State().Err, ShouldBeNil)
		})

		Convey("After dispose nothing mutates the state", func() {
			adapter.Dispose()
			So(engine.closed, ShouldEqual, 1)

			before := ctrl.State()
			emit(Event{Kind: EventPause}, Event{Kind: EventTimeUpdate, Value: 9})
			sched.Advance(time.Minute)
			So(ctrl.State(), ShouldResemble, before)

			adapter.Dispose()
			So(engine.closed, ShouldEqual, 1)
			So(adapter.Mount(hlsOptions()), ShouldEqual, ErrDisposed)
		})

		Convey("Events queued before dispose are dropped", func() {
			engine.emit(Event{Kind: EventPause})
			adapter.Dispose()
			sched.Drain()
			So(ctrl.State().Paused, ShouldBeFalse)
		})

		Convey("Closing the player window invokes OnClosed", func() {
			closed := false
			adapter.OnClosed = func() { closed = true }
			emit(Event{Kind: EventClosed})
			So(closed, ShouldBeTrue)
		})
	})

	Convey("Mounting without sources fails", t, func() {
		adapter := New(eventloop.NewManual(), &fakeEngine{}, playback.NewController(nil), 0)
		So(adapter.Mount(DefaultOptions()), ShouldEqual, ErrNoSource)
	})
}
