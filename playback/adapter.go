package playback

import "errors"

// ErrUnsupported is returned by adapters for operations their player cannot perform.
var ErrUnsupported = errors.New("operation not supported by this player")

// Adapter wraps one player technology. All methods run on the event loop.
type Adapter interface {
	Play() error
	Pause() error
	Seek(seconds float64) error
	SetVolume(fraction float64) error
	SetMuted(muted bool) error

	// Fullscreen reports the player's current fullscreen flag.
	Fullscreen() bool
	SetFullscreen(on bool) error

	// Transport reports whether play, pause, seek and volume are available.
	Transport() bool

	// Dispose releases the player. No callback is delivered afterwards.
	Dispose()
}

// Reporter receives normalized player events. Adapters call it on the event loop.
type Reporter interface {
	Paused(paused bool)
	Position(seconds float64)
	Duration(seconds float64)
	// Reloaded is called when the player switches to another source in place.
	Reloaded()
	Fullscreen(on bool)
	Failed(err error)
}
