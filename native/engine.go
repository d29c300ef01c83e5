package native

// EventKind names a player event.
type EventKind int

const (
	EventPause EventKind = iota
	EventPlay
	EventTimeUpdate
	EventDurationChange
	EventFullscreenChange
	EventError
	EventClosed
)

func (k EventKind) String() string {
	switch k {
	case EventPause:
		return "pause"
	case EventPlay:
		return "play"
	case EventTimeUpdate:
		return "timeupdate"
	case EventDurationChange:
		return "durationchange"
	case EventFullscreenChange:
		return "fullscreenchange"
	case EventError:
		return "error"
	case EventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Event is emitted by an engine.
type Event struct {
	Kind  EventKind
	Value float64
	On    bool
	Err   error
}

// Engine is a media player instance. Events are emitted in player order from
// any goroutine until Close returns.
type Engine interface {
	// Open creates the player instance and starts loading the first source.
	Open(opts Options, emit func(Event)) error
	// Load replaces the current source and restarts playback.
	Load(src SourceOption, autoplay bool) error
	// Resize applies new player dimensions.
	Resize(width, height int) error

	Play() error
	Pause() error
	Seek(seconds float64) error
	SetVolume(fraction float64) error
	SetMuted(muted bool) error
	SetFullscreen(on bool) error

	Close() error
}
