package embed

import (
	"fmt"

	"github.com/cinewatch/cinewatch/eventloop"
	"github.com/cinewatch/cinewatch/log"
	"github.com/cinewatch/cinewatch/playback"
	"github.com/cinewatch/cinewatch/source"
	"github.com/sirupsen/logrus"
)

// Adapter mounts an embed source and falls back across mirror domains.
// All methods must be called on the event loop.
type Adapter struct {
	sched    eventloop.Scheduler
	frame    Frame
	detector Detector
	reporter playback.Reporter
	hooks    Hooks
	settings Settings
	src      source.EmbedProvider

	state FallbackState
	phase Phase

	// attempt identifies the current attempt. Events and timers carrying an
	// older value are dropped.
	attempt  uint64
	disposed bool

	loadTimer  eventloop.Timer
	graceTimer eventloop.Timer
	fullscreen bool

	logger *logrus.Entry
}

// Mount starts loading src on the first candidate domain.
func Mount(
	sched eventloop.Scheduler,
	frame Frame,
	detector Detector,
	reporter playback.Reporter,
	src source.EmbedProvider,
	settings Settings,
	hooks Hooks,
) (*Adapter, error) {
	if len(settings.Domains) == 0 {
		return nil, ErrNoCandidates
	}

	a := &Adapter{
		sched:    sched,
		frame:    frame,
		detector: detector,
		reporter: reporter,
		hooks:    hooks,
		settings: settings.withDefaults(),
		src:      src,
		state:    FallbackState{Candidates: append([]string(nil), settings.Domains...)},
		logger:   log.For("embed").WithField("title", fmt.Sprintf("%s/%d", src.Kind, src.TMDBID)),
	}

	a.try(0)
	return a, nil
}

// State returns a copy of the fallback state.
func (a *Adapter) State() FallbackState {
	s := a.state
	s.Candidates = append([]string(nil), a.state.Candidates...)
	return s
}

// Phase returns the current phase.
func (a *Adapter) Phase() Phase {
	return a.phase
}

// URL returns the embed URL of the current attempt.
func (a *Adapter) URL() string {
	return a.src.URL(a.state.Current())
}

func (a *Adapter) try(index int) {
	a.stopTimers()
	a.attempt++
	a.state.Index = index
	a.phase = PhaseLoading

	domain := a.state.Current()
	url := a.src.URL(domain)
	a.logger.WithField("domain", domain).Info("loading embed")
	if a.hooks.OnAttempt != nil {
		a.hooks.OnAttempt(index, domain, url)
	}

	attempt := a.attempt
	a.loadTimer = a.sched.AfterFunc(a.settings.LoadTimeout, func() {
		if a.current(attempt) {
			a.fail(fmt.Sprintf("no load signal from %s within %s", domain, a.settings.LoadTimeout))
		}
	})

	if err := a.frame.Load(url, &sink{a: a, attempt: attempt}); err != nil {
		a.fail(fmt.Sprintf("load %s: %s", domain, err))
	}
}

func (a *Adapter) current(attempt uint64) bool {
	return !a.disposed && a.attempt == attempt && a.phase == PhaseLoading
}

func (a *Adapter) loaded(title string) {
	if a.detector.LoadFailed(title) {
		a.fail(fmt.Sprintf("%s loaded an error page %q", a.state.Current(), title))
		return
	}

	if a.graceTimer != nil {
		return
	}

	if a.loadTimer != nil {
		a.loadTimer.Stop()
		a.loadTimer = nil
	}

	attempt := a.attempt
	a.graceTimer = a.sched.AfterFunc(a.settings.GraceWindow, func() {
		if a.current(attempt) {
			a.confirm()
		}
	})
}

func (a *Adapter) message(origin string, payload []byte) {
	if a.detector.MessageFailed(origin, payload) {
		a.fail(fmt.Sprintf("%s reported an error", origin))
	}
}

func (a *Adapter) confirm() {
	a.stopTimers()
	a.phase = PhaseLoaded
	a.logger.WithField("domain", a.state.Current()).Info("embed loaded")
	if a.hooks.OnLoaded != nil {
		a.hooks.OnLoaded(a.state.Current())
	}
}

// fail moves to the next candidate, or to PhaseFailed after the last one.
func (a *Adapter) fail(reason string) {
	a.logger.WithField("domain", a.state.Current()).Warn(reason)

	if next := a.state.Index + 1; next < len(a.state.Candidates) {
		if a.hooks.OnAdvance != nil {
			a.hooks.OnAdvance(a.state.Index, reason)
		}
		a.try(next)
		return
	}

	a.stopTimers()
	a.attempt++
	a.phase = PhaseFailed
	a.state.Exhausted = true

	err := fmt.Errorf("%w: %s", ErrExhausted, reason)
	if a.hooks.OnFailed != nil {
		a.hooks.OnFailed(err)
	}
	a.reporter.Failed(err)
}

func (a *Adapter) stopTimers() {
	if a.loadTimer != nil {
		a.loadTimer.Stop()
		a.loadTimer = nil
	}
	if a.graceTimer != nil {
		a.graceTimer.Stop()
		a.graceTimer = nil
	}
}

// Dispose stops the timers and closes the frame. It is safe to call twice.
func (a *Adapter) Dispose() {
	if a.disposed {
		return
	}
	a.disposed = true
	a.stopTimers()

	if err := a.frame.Close(); err != nil {
		a.logger.WithError(err).Warn("close frame")
	}
}

// The embed page lives in another origin, so transport is out of reach.

func (a *Adapter) Play() error { return playback.ErrUnsupported }
func (a *Adapter) Pause() error { return playback.ErrUnsupported }
func (a *Adapter) Seek(float64) error { return playback.ErrUnsupported }
func (a *Adapter) SetVolume(float64) error { return playback.ErrUnsupported }
func (a *Adapter) SetMuted(bool) error { return playback.ErrUnsupported }
func (a *Adapter) Transport() bool { return false }
func (a *Adapter) Fullscreen() bool { return a.fullscreen }

func (a *Adapter) SetFullscreen(on bool) error {
	if a.disposed {
		return nil
	}
	if f, ok := a.frame.(FullscreenFrame); ok {
		return f.RequestFullscreen(on)
	}
	return playback.ErrUnsupported
}

var _ playback.Adapter = (*Adapter)(nil)

// sink routes the events of one attempt onto the event loop.
type sink struct {
	a       *Adapter
	attempt uint64
}

func (s *sink) Loaded(title string) {
	s.a.sched.Post(func() {
		if s.a.current(s.attempt) {
			s.a.loaded(title)
		}
	})
}

func (s *sink) Message(origin string, payload []byte) {
	s.a.sched.Post(func() {
		if s.a.current(s.attempt) {
			s.a.message(origin, payload)
		}
	})
}

func (s *sink) Fullscreen(on bool) {
	s.a.sched.Post(func() {
		if s.a.disposed || s.a.fullscreen == on {
			return
		}
		s.a.fullscreen = on
		s.a.reporter.Fullscreen(on)
	})
}
