// Package playback owns the state the control overlay renders and turns user
// intents into calls on the mounted player adapter.
package playback

// DefaultVolume is the volume of a fresh session.
const DefaultVolume = 0.8

// State is the single source of truth for the overlay.
type State struct {
	Paused   bool    `json:"paused"`
	Muted    bool    `json:"muted"`
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
	Volume   float64 `json:"volume"`

	Fullscreen  bool `json:"fullscreen"`
	Initialized bool `json:"initialized"`

	// SubtitlesEnabled is presentation only; the player's text tracks are untouched.
	SubtitlesEnabled bool `json:"subtitles_enabled"`

	// Err is the user-visible failure of the mounted adapter.
	Err error `json:"-"`
}

// NewState returns the state of a freshly mounted session.
func NewState() State {
	return State{Volume: DefaultVolume}
}

// Progress returns the playback position as a fraction of the duration.
func (s State) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return clamp(s.Position/s.Duration, 0, 1)
}

// VolumePercent returns the volume on the overlay's 0-100 scale.
func (s State) VolumePercent() int {
	return int(s.Volume*100 + 0.5)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
