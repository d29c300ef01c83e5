// Package watch ties metadata, resolution and mounting together for one title.
package watch

import (
	"context"
	"fmt"

	"github.com/cinewatch/cinewatch/embed"
	"github.com/cinewatch/cinewatch/eventloop"
	"github.com/cinewatch/cinewatch/log"
	"github.com/cinewatch/cinewatch/metadata"
	"github.com/cinewatch/cinewatch/metrics"
	"github.com/cinewatch/cinewatch/mount"
	"github.com/cinewatch/cinewatch/playback"
	"github.com/cinewatch/cinewatch/source"
	"github.com/cinewatch/cinewatch/title"
)

// Fetcher loads title metadata.
type Fetcher interface {
	FetchAppendedVideos(ctx context.Context, kind title.Kind, id int) (*metadata.Detail, error)
}

// Service resolves titles and starts playback sessions on Loop.
type Service struct {
	Loop *eventloop.Loop

	// Fetcher is nil when metadata is skipped.
	Fetcher  Fetcher
	Resolver source.Config

	// Factory is copied for every session. Its Sched is replaced by Loop and
	// its Frame by the frame given to Start.
	Factory mount.Factory

	// Volume is applied once the player reports its duration.
	Volume float64
}

// Resolve fetches metadata, when configured, and picks the source for ref.
// A fetch failure aborts: sources are never resolved from partial metadata.
func (s *Service) Resolve(ctx context.Context, ref title.Ref) (source.VideoSource, *metadata.Detail, error) {
	var detail *metadata.Detail
	if s.Fetcher != nil {
		d, err := s.Fetcher.FetchAppendedVideos(ctx, ref.Kind, ref.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("metadata for %s: %w", ref, err)
		}
		detail = d
	}

	src := source.Resolve(ref, detail, s.Resolver)
	metrics.RecordResolution(string(src.Tag()))
	log.For("watch").WithField("title", ref.String()).WithField("source", src.String()).Info("resolved")
	return src, detail, nil
}

// Start mounts src in a new session. frame hosts embed sources and may be nil
// for other variants. back runs on the loop when the user leaves the view.
func (s *Service) Start(ctx context.Context, src source.VideoSource, frame embed.Frame, back func()) (*Playback, error) {
	p := &Playback{
		loop:    s.Loop,
		updates: make(chan playback.State, 1),
	}

	factory := s.Factory
	factory.Sched = s.Loop
	if frame != nil {
		factory.Frame = func(source.EmbedProvider) (embed.Frame, error) { return frame, nil }
	}

	var mountErr error
	err := s.Loop.Call(ctx, func() {
		ctrl := playback.NewController(back)
		factory.OnClosed = ctrl.GoBack

		applied := false
		ctrl.Subscribe(func(st playback.State) {
			publish(p.updates, st)

			if applied || !st.Initialized || !ctrl.Controls().Volume {
				return
			}
			applied = true
			s.Loop.Post(func() { ctrl.SetVolume(s.Volume) })
		})

		p.session = playback.NewSession(ctrl, factory.Func())
		mountErr = p.session.Mount(src)
	})
	if err != nil {
		return nil, err
	}

	// a failed mount still leaves a session whose state carries the error
	return p, mountErr
}

// publish replaces any unread state with st.
func publish(ch chan playback.State, st playback.State) {
	for {
		select {
		case ch <- st:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}

// Playback is a running session. Its methods may be called from any goroutine.
type Playback struct {
	loop    *eventloop.Loop
	session *playback.Session
	updates chan playback.State
}

// Updates delivers the latest state after every change. Intermediate states may be skipped.
func (p *Playback) Updates() <-chan playback.State {
	return p.updates
}

// Do runs fn with the controller on the loop.
func (p *Playback) Do(ctx context.Context, fn func(*playback.Controller)) error {
	return p.loop.Call(ctx, func() { fn(p.session.Controller()) })
}

// Snapshot returns the current state and enabled controls.
func (p *Playback) Snapshot(ctx context.Context) (st playback.State, controls playback.Controls, err error) {
	err = p.Do(ctx, func(c *playback.Controller) {
		st, controls = c.State(), c.Controls()
	})
	return
}

// Source returns the mounted source, or nil after a failed mount.
func (p *Playback) Source(ctx context.Context) (src source.VideoSource, err error) {
	err = p.loop.Call(ctx, func() { src = p.session.Source() })
	return
}

// Close disposes the mounted adapter.
func (p *Playback) Close(ctx context.Context) error {
	return p.loop.Call(ctx, p.session.Close)
}
