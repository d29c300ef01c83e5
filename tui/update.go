package tui

import (
	bubblesKey "github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cinewatch/cinewatch/internal/ui"
	"github.com/cinewatch/cinewatch/playback"
)

const (
	seekStep   = 10
	volumeStep = 5
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, cmd
	case noticeMsg:
		return b, tea.Batch(cmd, ui.Notify(string(msg)), b.waitForNotice())
	case backMsg:
		return b, tea.Quit
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	var next tea.Cmd
	switch b.state {
	case loadingState:
		next = b.updateLoading(msg)
	case playingState:
		next = b.updatePlaying(msg)
	case settingsState:
		next = b.updateSettings(msg)
	case errorState:
		next = b.updateError(msg)
	}

	return b, tea.Batch(cmd, next)
}

func (b *statefulBubble) updateLoading(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case startedMsg:
		b.player = msg.player
		b.setState(playingState)
		return tea.Batch(b.waitForState(), b.refresh())
	case startFailedMsg:
		if msg.player == nil {
			b.fatal = msg.err
			b.raiseError(msg.err)
			return nil
		}
		// the session exists and carries the error in its state
		b.player = msg.player
		b.setState(playingState)
		return tea.Batch(b.waitForState(), b.refresh())
	case error:
		b.fatal = msg
		b.raiseError(msg)
		return nil
	}

	var cmd tea.Cmd
	b.spinnerC, cmd = b.spinnerC.Update(msg)
	return cmd
}

func (b *statefulBubble) updatePlaying(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case stateMsg:
		return b.applyState(msg)
	case error:
		b.raiseError(msg)
		return nil
	case tea.KeyMsg:
		k := b.keymap
		switch {
		case bubblesKey.Matches(msg, k.quit):
			return tea.Quit
		case bubblesKey.Matches(msg, k.playPause):
			return b.do((*playback.Controller).TogglePlayPause)
		case bubblesKey.Matches(msg, k.seekBack):
			return b.do(func(c *playback.Controller) { c.SeekBy(-seekStep) })
		case bubblesKey.Matches(msg, k.seekForward):
			return b.do(func(c *playback.Controller) { c.SeekBy(seekStep) })
		case bubblesKey.Matches(msg, k.volumeUp):
			return b.do(func(c *playback.Controller) { c.SetVolumePercent(c.State().VolumePercent() + volumeStep) })
		case bubblesKey.Matches(msg, k.volumeDown):
			return b.do(func(c *playback.Controller) { c.SetVolumePercent(c.State().VolumePercent() - volumeStep) })
		case bubblesKey.Matches(msg, k.mute):
			return b.do((*playback.Controller).ToggleMute)
		case bubblesKey.Matches(msg, k.fullscreen):
			return b.do((*playback.Controller).ToggleFullscreen)
		case bubblesKey.Matches(msg, k.next):
			return b.do((*playback.Controller).Next)
		case bubblesKey.Matches(msg, k.settings):
			b.setState(settingsState)
			return nil
		case bubblesKey.Matches(msg, k.back):
			return b.do((*playback.Controller).GoBack)
		case bubblesKey.Matches(msg, k.showHelp):
			b.helpC.ShowAll = !b.helpC.ShowAll
			return nil
		}
	}
	return nil
}

func (b *statefulBubble) updateSettings(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case stateMsg:
		return b.applyState(msg)
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.setState(playingState)
			return nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			return b.toggleSelected()
		}
	}

	var cmd tea.Cmd
	b.settingsC, cmd = b.settingsC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit), bubblesKey.Matches(msg, b.keymap.back):
			return tea.Quit
		}
	}
	return nil
}
