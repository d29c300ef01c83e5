// Package ui holds the transient notification line shown under the overlay.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cinewatch/cinewatch/style"
)

// Lifetime is how long a notification stays visible.
const Lifetime = 3 * time.Second

// Model tracks the current notification.
type Model struct {
	notification string
	seq          int
}

// NotificationMsg replaces the current notification.
type NotificationMsg string

// ClearNotificationMsg clears the notification it was scheduled for.
type ClearNotificationMsg struct{ seq int }

// Notify returns a command that shows text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg(text)
	}
}

func clearAfter(seq int) tea.Cmd {
	return tea.Tick(Lifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{seq: seq}
	})
}

// Text returns the visible notification, if any.
func (m *Model) Text() string {
	return m.notification
}

// Update processes incoming messages to modify the notification state.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.notification = string(msg)
		m.seq++
		return clearAfter(m.seq)
	case ClearNotificationMsg:
		// a newer notification owns the line
		if msg.seq == m.seq {
			m.notification = ""
		}
	}
	return nil
}

// View appends the notification to the last line of content.
func (m *Model) View(content string) string {
	if m.notification == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + style.Faint(m.notification)
	return strings.Join(lines, "\n")
}
