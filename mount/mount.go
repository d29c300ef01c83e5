// Package mount turns a resolved VideoSource into a mounted playback adapter.
package mount

import (
	"errors"
	"fmt"
	"time"

	"github.com/cinewatch/cinewatch/embed"
	"github.com/cinewatch/cinewatch/eventloop"
	"github.com/cinewatch/cinewatch/metrics"
	"github.com/cinewatch/cinewatch/native"
	"github.com/cinewatch/cinewatch/playback"
	"github.com/cinewatch/cinewatch/source"
)

// ErrUnavailable is returned when mounting an Unavailable source.
var ErrUnavailable = errors.New("no playable source")

// Factory builds adapters. It must be used from the event loop.
type Factory struct {
	Sched eventloop.Scheduler

	// Frame returns the frame hosting embed pages. Required for embed sources.
	Frame    func(src source.EmbedProvider) (embed.Frame, error)
	Detector embed.Detector
	Embed    embed.Settings
	Hooks    embed.Hooks

	// Engine returns a fresh native engine. Required for direct and trailer sources.
	Engine      func() (native.Engine, error)
	Native      native.Options
	InitTimeout time.Duration

	// OnClosed is invoked when the user closes the native player window.
	OnClosed func()
}

// Func adapts f to a playback.MountFunc.
func (f *Factory) Func() playback.MountFunc {
	return f.Mount
}

// Mount creates and mounts the adapter matching src.
func (f *Factory) Mount(src source.VideoSource, r playback.Reporter) (playback.Adapter, error) {
	switch s := src.(type) {
	case source.EmbedProvider:
		return f.mountEmbed(s, r)
	case source.DirectFile, source.TrailerFallback:
		return f.mountNative(src, r)
	case source.Unavailable:
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, s.Reason)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnavailable, src)
	}
}

func (f *Factory) mountEmbed(src source.EmbedProvider, r playback.Reporter) (playback.Adapter, error) {
	if f.Frame == nil {
		return nil, errors.New("embed playback needs a frame host")
	}

	frame, err := f.Frame(src)
	if err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}

	detector := f.Detector
	if detector == nil {
		detector = embed.HeuristicDetector{Domains: f.Embed.Domains}
	}

	adapter, err := embed.Mount(f.Sched, frame, detector, r, src, f.Embed, meteredHooks(f.Hooks))
	if err != nil {
		_ = frame.Close()
		return nil, err
	}

	return tracked(adapter, "embed"), nil
}

func (f *Factory) mountNative(src source.VideoSource, r playback.Reporter) (playback.Adapter, error) {
	if f.Engine == nil {
		return nil, errors.New("native playback needs a player engine")
	}

	opts, err := native.OptionsFor(src, f.Native)
	if err != nil {
		return nil, err
	}

	engine, err := f.Engine()
	if err != nil {
		return nil, err
	}

	adapter := native.New(f.Sched, engine, meteredReporter{Reporter: r}, f.InitTimeout)
	adapter.OnClosed = f.OnClosed
	if err := adapter.Mount(opts); err != nil {
		adapter.Dispose()
		return nil, err
	}

	return tracked(adapter, "native"), nil
}

// meteredHooks counts mirror outcomes before calling hooks.
func meteredHooks(hooks embed.Hooks) embed.Hooks {
	var domain string

	return embed.Hooks{
		OnAttempt: func(index int, d, url string) {
			domain = d
			metrics.RecordMirrorAttempt(d)
			if hooks.OnAttempt != nil {
				hooks.OnAttempt(index, d, url)
			}
		},
		OnAdvance: func(from int, reason string) {
			metrics.RecordMirrorResult(domain, metrics.ResultFailed)
			if hooks.OnAdvance != nil {
				hooks.OnAdvance(from, reason)
			}
		},
		OnLoaded: func(d string) {
			metrics.RecordMirrorResult(d, metrics.ResultLoaded)
			if hooks.OnLoaded != nil {
				hooks.OnLoaded(d)
			}
		},
		OnFailed: func(err error) {
			metrics.RecordMirrorResult(domain, metrics.ResultFailed)
			metrics.EmbedExhaustedTotal.Inc()
			if hooks.OnFailed != nil {
				hooks.OnFailed(err)
			}
		},
	}
}

// meteredReporter counts native failures on their way to the controller.
type meteredReporter struct {
	playback.Reporter
}

func (m meteredReporter) Failed(err error) {
	if errors.Is(err, native.ErrInitTimeout) {
		metrics.RecordNativeFailure(metrics.ReasonInitTimeout)
	} else {
		metrics.RecordNativeFailure(metrics.ReasonPlayer)
	}
	m.Reporter.Failed(err)
}

// trackedAdapter keeps the active mounts gauge in step with Dispose.
type trackedAdapter struct {
	playback.Adapter
	kind     string
	disposed bool
}

func tracked(a playback.Adapter, kind string) *trackedAdapter {
	metrics.MountsActive.WithLabelValues(kind).Inc()
	return &trackedAdapter{Adapter: a, kind: kind}
}

func (t *trackedAdapter) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	metrics.MountsActive.WithLabelValues(t.kind).Dec()
	t.Adapter.Dispose()
}
