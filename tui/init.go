package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the spinner and mounts the session.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, b.start(), b.waitForNotice())
}
