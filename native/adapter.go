package native

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cinewatch/cinewatch/eventloop"
	"github.com/cinewatch/cinewatch/log"
	"github.com/cinewatch/cinewatch/playback"
	"github.com/sirupsen/logrus"
)

var (
	// ErrInitTimeout is reported when the player never learns the duration.
	ErrInitTimeout = errors.New("player did not initialize in time")
	// ErrDisposed is returned when mounting a disposed adapter.
	ErrDisposed = errors.New("adapter disposed")
	// ErrNoSource is returned for options without sources.
	ErrNoSource = errors.New("no source to play")
)

// DefaultInitTimeout bounds the wait for the first duration event.
const DefaultInitTimeout = 20 * time.Second

// Adapter owns one engine handle. All methods must be called on the event loop.
type Adapter struct {
	sched       eventloop.Scheduler
	engine      Engine
	reporter    playback.Reporter
	initTimeout time.Duration

	// OnClosed is invoked when the user closes the player window.
	OnClosed func()

	opts     Options
	mounted  bool
	disposed bool
	gen      uint64

	// loads counts sources loaded into the handle. The engine may emit from
	// any goroutine, so events are stamped with it before being posted.
	loads atomic.Uint64

	duration      float64
	durationKnown bool
	fullscreen    bool
	initTimer     eventloop.Timer

	logger *logrus.Entry
}

// New returns an unmounted adapter. A zero initTimeout disables the init check.
func New(sched eventloop.Scheduler, engine Engine, reporter playback.Reporter, initTimeout time.Duration) *Adapter {
	return &Adapter{
		sched:       sched,
		engine:      engine,
		reporter:    reporter,
		initTimeout: initTimeout,
		logger:      log.For("native"),
	}
}

// Mount opens the engine. Mounting again reconfigures the existing handle.
func (a *Adapter) Mount(opts Options) error {
	if a.disposed {
		return ErrDisposed
	}
	if a.mounted {
		return a.Update(opts)
	}
	if len(opts.Sources) == 0 {
		return ErrNoSource
	}

	a.gen++
	if err := a.engine.Open(opts, a.bridge(a.gen)); err != nil {
		return fmt.Errorf("open player: %w", err)
	}

	a.opts = opts.clone()
	a.mounted = true
	a.logger.WithField("src", opts.Source().URL).WithField("tech", opts.Tech()).Info("mounted")
	a.armInit()
	return nil
}

// Update applies opts to the mounted handle. Identical options do nothing, a
// changed size alone is applied in place, and a changed source reloads.
func (a *Adapter) Update(opts Options) error {
	if a.disposed {
		return ErrDisposed
	}
	if !a.mounted {
		return a.Mount(opts)
	}
	if opts.Equal(a.opts) {
		return nil
	}
	if len(opts.Sources) == 0 {
		return ErrNoSource
	}

	if opts.Source() == a.opts.Source() {
		if opts.Width != a.opts.Width || opts.Height != a.opts.Height {
			if err := a.engine.Resize(opts.Width, opts.Height); err != nil {
				return fmt.Errorf("resize player: %w", err)
			}
		}
		a.opts.Width, a.opts.Height = opts.Width, opts.Height
		return nil
	}

	a.loads.Add(1)
	if err := a.engine.Load(opts.Source(), opts.Autoplay); err != nil {
		return fmt.Errorf("load %s: %w", opts.Source().URL, err)
	}
	if opts.Width != a.opts.Width || opts.Height != a.opts.Height {
		if err := a.engine.Resize(opts.Width, opts.Height); err != nil {
			a.logger.WithError(err).Warn("resize after load")
		}
	}

	a.opts = opts.clone()
	a.durationKnown = false
	a.duration = 0
	a.reporter.Reloaded()
	a.armInit()
	return nil
}

// Options returns the options of the mounted handle.
func (a *Adapter) Options() Options {
	return a.opts.clone()
}

func (a *Adapter) armInit() {
	if a.initTimer != nil {
		a.initTimer.Stop()
		a.initTimer = nil
	}
	if a.initTimeout <= 0 {
		return
	}

	gen, load := a.gen, a.loads.Load()
	a.initTimer = a.sched.AfterFunc(a.initTimeout, func() {
		if a.disposed || gen != a.gen || load != a.loads.Load() || a.durationKnown {
			return
		}
		a.reporter.Failed(fmt.Errorf("%w after %s", ErrInitTimeout, a.initTimeout))
	})
}

// bridge returns the engine callback for mount generation gen. Events emitted
// before a source change are dropped.
func (a *Adapter) bridge(gen uint64) func(Event) {
	return func(ev Event) {
		load := a.loads.Load()
		a.sched.Post(func() {
			if a.disposed || gen != a.gen || load != a.loads.Load() {
				return
			}
			a.handle(ev)
		})
	}
}

func (a *Adapter) handle(ev Event) {
	switch ev.Kind {
	case EventPause:
		a.reporter.Paused(true)
	case EventPlay:
		a.reporter.Paused(false)
	case EventTimeUpdate:
		pos := max(ev.Value, 0)
		if a.durationKnown && pos > a.duration {
			pos = a.duration
		}
		a.reporter.Position(pos)
	case EventDurationChange:
		if a.durationKnown || ev.Value <= 0 {
			return
		}
		a.durationKnown = true
		a.duration = ev.Value
		if a.initTimer != nil {
			a.initTimer.Stop()
			a.initTimer = nil
		}
		a.reporter.Duration(ev.Value)
	case EventFullscreenChange:
		a.fullscreen = ev.On
		a.reporter.Fullscreen(ev.On)
	case EventError:
		a.reporter.Failed(fmt.Errorf("native player: %w", ev.Err))
	case EventClosed:
		if a.OnClosed != nil {
			a.OnClosed()
		}
	}
}

// Dispose closes the engine. Later events and timers are ignored.
func (a *Adapter) Dispose() {
	if a.disposed {
		return
	}
	a.disposed = true
	a.gen++

	if a.initTimer != nil {
		a.initTimer.Stop()
		a.initTimer = nil
	}

	if a.mounted {
		if err := a.engine.Close(); err != nil {
			a.logger.WithError(err).Warn("close player")
		}
	}
}

func (a *Adapter) Play() error { return a.engine.Play() }
func (a *Adapter) Pause() error { return a.engine.Pause() }
func (a *Adapter) Seek(seconds float64) error { return a.engine.Seek(seconds) }
func (a *Adapter) SetVolume(fraction float64) error { return a.engine.SetVolume(fraction) }
func (a *Adapter) SetMuted(muted bool) error { return a.engine.SetMuted(muted) }
func (a *Adapter) Fullscreen() bool { return a.fullscreen }
func (a *Adapter) SetFullscreen(on bool) error { return a.engine.SetFullscreen(on) }
func (a *Adapter) Transport() bool { return true }

var _ playback.Adapter = (*Adapter)(nil)
