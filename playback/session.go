package playback

import (
	"errors"
	"fmt"

	"github.com/cinewatch/cinewatch/source"
)

// ErrClosed is returned when mounting on a closed session.
var ErrClosed = errors.New("session closed")

// MountFunc creates and mounts the adapter for src, reporting to r.
type MountFunc func(src source.VideoSource, r Reporter) (Adapter, error)

// Session keeps at most one adapter mounted. It must only be used from the event loop.
type Session struct {
	ctrl    *Controller
	mount   MountFunc
	current Adapter
	source  source.VideoSource
	closed  bool
}

// NewSession returns a session that mounts adapters with mount.
func NewSession(ctrl *Controller, mount MountFunc) *Session {
	return &Session{ctrl: ctrl, mount: mount}
}

// Controller returns the session's controller.
func (s *Session) Controller() *Controller {
	return s.ctrl
}

// Source returns the source of the mounted adapter, or nil.
func (s *Session) Source() source.VideoSource {
	return s.source
}

// Mount disposes the current adapter, then mounts one for src.
// A mount failure is reported on the controller state as well as returned.
func (s *Session) Mount(src source.VideoSource) error {
	if s.closed {
		return ErrClosed
	}

	s.release()
	s.ctrl.attach(nil)

	adapter, err := s.mount(src, s.ctrl)
	if err != nil {
		err = fmt.Errorf("mount %s: %w", src, err)
		s.ctrl.Failed(err)
		return err
	}

	s.current, s.source = adapter, src
	s.ctrl.adapter = adapter
	s.ctrl.notify()
	return nil
}

// Close disposes the mounted adapter. Later mounts fail with ErrClosed.
func (s *Session) Close() {
	s.release()
	s.closed = true
}

func (s *Session) release() {
	if s.current == nil {
		return
	}
	s.ctrl.detach()
	s.current.Dispose()
	s.current, s.source = nil, nil
}
