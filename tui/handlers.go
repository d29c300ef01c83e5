package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cinewatch/cinewatch/internal/ui"
	"github.com/cinewatch/cinewatch/playback"
)

type (
	startedMsg struct{ player Player }
	startFailedMsg struct {
		player Player
		err    error
	}
	stateMsg struct {
		state    playback.State
		controls playback.Controls

		// watching is set on messages produced by waitForState, which must be re-armed.
		watching bool
	}
	backMsg struct{}
	noticeMsg string
)

// start mounts the session in the background.
func (b *statefulBubble) start() tea.Cmd {
	return func() tea.Msg {
		p, err := b.options.Start(b.ctx, func() { b.back() })
		if err != nil {
			return startFailedMsg{player: p, err: err}
		}
		return startedMsg{player: p}
	}
}

// waitForState blocks until the controller publishes a new state.
func (b *statefulBubble) waitForState() tea.Cmd {
	p := b.player
	return func() tea.Msg {
		select {
		case <-p.Updates():
		case <-b.ctx.Done():
			return nil
		}
		return b.snapshot(p, true)
	}
}

// refresh reads the state once without waiting for a change.
func (b *statefulBubble) refresh() tea.Cmd {
	p := b.player
	return func() tea.Msg {
		return b.snapshot(p, false)
	}
}

func (b *statefulBubble) snapshot(p Player, watching bool) tea.Msg {
	st, controls, err := p.Snapshot(b.ctx)
	if err != nil {
		return err
	}
	return stateMsg{state: st, controls: controls, watching: watching}
}

func (b *statefulBubble) waitForNotice() tea.Cmd {
	if b.options.Notices == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case n, ok := <-b.options.Notices:
			if !ok {
				return nil
			}
			return noticeMsg(n)
		case <-b.ctx.Done():
			return nil
		}
	}
}

// do runs fn on the controller. The resulting state arrives through waitForState.
func (b *statefulBubble) do(fn func(*playback.Controller)) tea.Cmd {
	p := b.player
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		if err := p.Do(b.ctx, fn); err != nil {
			return err
		}
		return nil
	}
}

// applyState stores msg and re-arms the watcher that produced it.
func (b *statefulBubble) applyState(msg stateMsg) tea.Cmd {
	b.playback = msg.state
	b.keymap.sync(msg.controls)

	for i, item := range b.settingsC.Items() {
		s := item.(*setting)
		s.current = s.enabled(msg.state)
		b.settingsC.SetItem(i, s)
	}

	if msg.watching {
		return b.waitForState()
	}
	return nil
}

func (b *statefulBubble) toggleSelected() tea.Cmd {
	s, ok := b.settingsC.SelectedItem().(*setting)
	if !ok {
		return nil
	}
	return tea.Batch(b.do(s.toggle), ui.Notify(s.name+" toggled"))
}

var _ list.Item = (*setting)(nil)
