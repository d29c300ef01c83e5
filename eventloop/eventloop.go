// Package eventloop runs every state transition of a watch session on one goroutine.
//
// Work is submitted with Post and timers with AfterFunc; both execute on the
// loop goroutine in submission order. Code running on the loop owns the
// playback state and needs no locks.
package eventloop

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cinewatch/cinewatch/log"
)

// ErrClosed is returned by Call when the loop has stopped.
var ErrClosed = errors.New("event loop closed")

// Timer is a pending AfterFunc callback.
type Timer interface {
	// Stop prevents the callback from being queued. It reports whether the
	// timer was still pending. A callback that was already queued still runs,
	// so callers guard it with their own generation check.
	Stop() bool
}

// Scheduler is the part of a loop that adapters depend on.
type Scheduler interface {
	Post(f func())
	AfterFunc(d time.Duration, f func()) Timer
}

// Loop is a Scheduler backed by a goroutine started with Run.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	done   chan struct{}
	closed bool
}

// New returns a loop that accepts work immediately and executes it once Run is called.
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Post queues f. It is safe to call from any goroutine, including the loop itself.
// Work posted after the loop stopped is dropped.
func (l *Loop) Post(f func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, f)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

type realTimer struct {
	t *time.Timer
}

func (r realTimer) Stop() bool {
	return r.t.Stop()
}

// AfterFunc posts f to the loop once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{t: time.AfterFunc(d, func() { l.Post(f) })}
}

// Call runs f on the loop and waits for it to finish.
func (l *Loop) Call(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		f()
	})

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run executes queued work until ctx is cancelled. Work still queued at that
// point is discarded.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	defer func() {
		l.mu.Lock()
		l.closed = true
		l.queue = nil
		l.mu.Unlock()
	}()

	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, f := range batch {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			run(f)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func run(f func()) {
	defer func() {
		if r := recover(); r != nil {
			log.For("eventloop").Errorf("recovered from panic in posted work: %v", r)
		}
	}()
	f()
}
