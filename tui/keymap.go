package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/cinewatch/cinewatch/playback"
)

// statefulKeymap defines the keyboard interactions available within each overlay state.
type statefulKeymap struct {
	state    state
	controls playback.Controls

	quit, forceQuit,
	playPause,
	seekBack, seekForward,
	volumeUp, volumeDown,
	mute, fullscreen,
	settings, next,
	confirm, back,
	up, down,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "-10s"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "+10s"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "volume up"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "volume down"),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fullscreen"),
		),
		settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
		next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "toggle"),
		),
		back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// sync enables only the bindings the controller currently accepts.
func (k *statefulKeymap) sync(c playback.Controls) {
	k.controls = c
	k.playPause.SetEnabled(c.PlayPause)
	k.seekBack.SetEnabled(c.Seek)
	k.seekForward.SetEnabled(c.Seek)
	k.volumeUp.SetEnabled(c.Volume)
	k.volumeDown.SetEnabled(c.Volume)
	k.mute.SetEnabled(c.Mute)
	k.fullscreen.SetEnabled(c.Fullscreen)
	k.settings.SetEnabled(c.Subtitles)
	k.next.SetEnabled(c.Next)
	k.back.SetEnabled(c.Back)
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	switch k.state {
	case loadingState:
		return h(k.forceQuit), h(k.forceQuit)
	case playingState:
		return h(k.playPause, k.seekBack, k.seekForward, k.volumeUp, k.volumeDown, k.showHelp, k.quit),
			h(k.playPause, k.seekBack, k.seekForward, k.volumeUp, k.volumeDown, k.mute, k.fullscreen, k.settings, k.next, k.back, k.quit)
	case settingsState:
		return h(k.confirm, k.back), h(k.confirm, k.up, k.down, k.back)
	case errorState:
		return h(k.back, k.quit), h(k.back, k.quit)
	default:
		return h(), h()
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:   k.up,
		CursorDown: k.down,
		Quit:       k.quit,
		ForceQuit:  k.forceQuit,
	}
}
