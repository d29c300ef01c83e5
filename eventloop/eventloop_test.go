package eventloop

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestLoop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	Convey("Given a running loop", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		loop := New()
		go func() { _ = loop.Run(ctx) }()

		Convey("Posted work runs in order", func() {
			var got []int
			for i := 0; i < 5; i++ {
				i := i
				loop.Post(func() { got = append(got, i) })
			}

			var snapshot []int
			So(loop.Call(ctx, func() { snapshot = append(snapshot, got...) }), ShouldBeNil)
			So(snapshot, ShouldResemble, []int{0, 1, 2, 3, 4})
		})

		Convey("Work posted from the loop runs after the current item", func() {
			var got []string
			done := make(chan struct{})
			loop.Post(func() {
				loop.Post(func() {
					got = append(got, "inner")
					close(done)
				})
				got = append(got, "outer")
			})
			<-done
			So(got, ShouldResemble, []string{"outer", "inner"})
		})

		Convey("Timers fire on the loop", func() {
			fired := make(chan struct{})
			loop.AfterFunc(time.Millisecond, func() { close(fired) })

			select {
			case <-fired:
			case <-time.After(time.Second):
				t.Fatal("timer did not fire")
			}
		})

		Convey("A stopped timer never runs", func() {
			ran := false
			timer := loop.AfterFunc(time.Hour, func() { ran = true })
			So(timer.Stop(), ShouldBeTrue)
			So(timer.Stop(), ShouldBeFalse)

			var seen bool
			So(loop.Call(ctx, func() { seen = ran }), ShouldBeNil)
			So(seen, ShouldBeFalse)
		})

		Convey("A panic in posted work does not stop the loop", func() {
			loop.Post(func() { panic("boom") })

			alive := false
			So(loop.Call(ctx, func() { alive = true }), ShouldBeNil)
			So(alive, ShouldBeTrue)
		})

		Reset(func() {
			cancel()
			<-loop.Done()
		})
	})

	Convey("Call on a stopped loop reports closure", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		loop := New()
		cancel()
		So(errors.Is(loop.Run(ctx), context.Canceled), ShouldBeTrue)

		err := loop.Call(context.Background(), func() {})
		So(errors.Is(err, ErrClosed), ShouldBeTrue)
	})
}

func TestManual(t *testing.T) {
	Convey("Given a manual scheduler", t, func() {
		m := NewManual()
		start := m.Now()

		Convey("Posted work waits for Drain", func() {
			ran := 0
			m.Post(func() { ran++ })
			So(ran, ShouldEqual, 0)
			So(m.Drain(), ShouldEqual, 1)
			So(ran, ShouldEqual, 1)
		})

		Convey("Timers fire in deadline order at their deadline", func() {
			var order []string
			var at []time.Duration
			m.AfterFunc(3*time.Second, func() {
				order = append(order, "grace")
				at = append(at, m.Now().Sub(start))
			})
			m.AfterFunc(time.Second, func() {
				order = append(order, "first")
				at = append(at, m.Now().Sub(start))
			})

			m.Advance(2 * time.Second)
			So(order, ShouldResemble, []string{"first"})

			m.Advance(time.Second)
			So(order, ShouldResemble, []string{"first", "grace"})
			So(at, ShouldResemble, []time.Duration{time.Second, 3 * time.Second})
			So(m.Now().Sub(start), ShouldEqual, 3*time.Second)
		})

		Convey("Timers scheduled by a firing timer are honored within the same advance", func() {
			var fired []time.Duration
			m.AfterFunc(12*time.Second, func() {
				fired = append(fired, m.Now().Sub(start))
				m.AfterFunc(12*time.Second, func() {
					fired = append(fired, m.Now().Sub(start))
				})
			})

			m.Advance(30 * time.Second)
			So(fired, ShouldResemble, []time.Duration{12 * time.Second, 24 * time.Second})
		})

		Convey("Stopped timers are not pending", func() {
			timer := m.AfterFunc(time.Second, func() { t.Fatal("stopped timer fired") })
			So(m.Pending(), ShouldEqual, 1)
			So(timer.Stop(), ShouldBeTrue)
			So(m.Pending(), ShouldEqual, 0)
			m.Advance(time.Minute)
		})
	})
}
