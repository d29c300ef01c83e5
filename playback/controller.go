package playback

import (
	"github.com/cinewatch/cinewatch/log"
	"github.com/sirupsen/logrus"
)

// Controls tells the overlay which controls accept input.
type Controls struct {
	PlayPause  bool
	Seek       bool
	Volume     bool
	Mute       bool
	Fullscreen bool
	Subtitles  bool
	Next       bool
	Back       bool
}

// Controller dispatches intents to the active adapter and keeps State.
// It must only be used from the event loop.
type Controller struct {
	state   State
	adapter Adapter
	subs    []func(State)
	back    func()
	logger  *logrus.Entry
}

// NewController returns a controller with default state and no adapter.
// back is invoked by GoBack and may be nil.
func NewController(back func()) *Controller {
	return &Controller{
		state:  NewState(),
		back:   back,
		logger: log.For("playback"),
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Subscribe registers fn to be called after every state change.
func (c *Controller) Subscribe(fn func(State)) {
	c.subs = append(c.subs, fn)
}

func (c *Controller) notify() {
	for _, fn := range c.subs {
		fn(c.state)
	}
}

// attach replaces the adapter and resets the state for a new mount.
func (c *Controller) attach(a Adapter) {
	c.adapter = a
	c.state = NewState()
	c.notify()
}

func (c *Controller) detach() {
	c.adapter = nil
}

// Controls reports the enabled controls for the current state.
func (c *Controller) Controls() Controls {
	ctrl := Controls{Back: true, Subtitles: true, Next: true}
	if c.adapter == nil {
		return ctrl
	}

	ctrl.Fullscreen = c.state.Err == nil
	if c.state.Err != nil || !c.adapter.Transport() {
		return ctrl
	}

	ctrl.PlayPause = true
	ctrl.Volume = true
	ctrl.Mute = true
	ctrl.Seek = c.state.Initialized
	return ctrl
}

// TogglePlayPause asks the adapter to pause or play. State changes only when
// the adapter reports the new paused flag.
func (c *Controller) TogglePlayPause() {
	if c.adapter == nil {
		return
	}

	var err error
	if c.state.Paused {
		err = c.adapter.Play()
	} else {
		err = c.adapter.Pause()
	}
	c.warn("play/pause", err)
}

// Seek forwards to the adapter unchanged. The new position arrives as a position report.
func (c *Controller) Seek(seconds float64) {
	if c.adapter == nil {
		return
	}
	c.warn("seek", c.adapter.Seek(seconds))
}

// SeekBy seeks relative to the current position.
func (c *Controller) SeekBy(delta float64) {
	c.Seek(c.state.Position + delta)
}

// SetVolume clamps fraction to [0,1], applies it and updates the state immediately.
// Adapters without transport keep the state untouched.
func (c *Controller) SetVolume(fraction float64) {
	fraction = clamp(fraction, 0, 1)
	if c.adapter != nil {
		if !c.adapter.Transport() {
			return
		}
		c.warn("volume", c.adapter.SetVolume(fraction))
	}
	c.state.Volume = fraction
	c.notify()
}

// SetVolumePercent maps the overlay's 0-100 slider onto SetVolume.
func (c *Controller) SetVolumePercent(percent int) {
	c.SetVolume(float64(percent) / 100)
}

// ToggleMute flips the muted flag and forwards it to the adapter.
func (c *Controller) ToggleMute() {
	if c.adapter != nil && !c.adapter.Transport() {
		return
	}
	c.state.Muted = !c.state.Muted
	if c.adapter != nil {
		c.warn("mute", c.adapter.SetMuted(c.state.Muted))
	}
	c.notify()
}

// ToggleFullscreen requests the inverse of the adapter's current flag.
// The state follows the adapter's fullscreen report.
func (c *Controller) ToggleFullscreen() {
	if c.adapter == nil {
		return
	}
	c.warn("fullscreen", c.adapter.SetFullscreen(!c.adapter.Fullscreen()))
}

// ToggleSubtitles flips the subtitles flag shown by the overlay.
func (c *Controller) ToggleSubtitles() {
	c.state.SubtitlesEnabled = !c.state.SubtitlesEnabled
	c.notify()
}

// GoBack navigates away from the watch view.
func (c *Controller) GoBack() {
	if c.back != nil {
		c.back()
	}
}

// Next is reserved for episode navigation and does nothing yet.
func (c *Controller) Next() {}

func (c *Controller) warn(intent string, err error) {
	if err != nil {
		c.logger.WithError(err).Warnf("%s rejected", intent)
	}
}

// Reporter implementation. Adapters have already normalized the values.

func (c *Controller) Paused(paused bool) {
	c.state.Paused = paused
	c.notify()
}

func (c *Controller) Position(seconds float64) {
	c.state.Position = seconds
	c.notify()
}

// Duration marks the player initialized. A position reported earlier is
// clamped to the new duration.
func (c *Controller) Duration(seconds float64) {
	c.state.Duration = seconds
	c.state.Initialized = true
	c.state.Position = clamp(c.state.Position, 0, seconds)
	c.notify()
}

// Reloaded forgets the timeline of the previous source.
func (c *Controller) Reloaded() {
	c.state.Position = 0
	c.state.Duration = 0
	c.state.Initialized = false
	c.notify()
}

func (c *Controller) Fullscreen(on bool) {
	c.state.Fullscreen = on
	c.notify()
}

func (c *Controller) Failed(err error) {
	c.logger.WithError(err).Error("playback failed")
	c.state.Err = err
	c.notify()
}

var _ Reporter = (*Controller)(nil)
