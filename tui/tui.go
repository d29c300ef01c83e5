// Package tui is the control overlay of a watch session.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cinewatch/cinewatch/playback"
)

// Player is the running session the overlay controls.
type Player interface {
	Updates() <-chan playback.State
	Do(ctx context.Context, fn func(*playback.Controller)) error
	Snapshot(ctx context.Context) (playback.State, playback.Controls, error)
}

// StartFunc mounts the session. back must be called when the user navigates
// away from the watch view, from any goroutine.
type StartFunc func(ctx context.Context, back func()) (Player, error)

// Options encapsulates the runtime configuration for the overlay.
type Options struct {
	Title    string
	Subtitle string

	// Start runs behind the loading screen.
	Start StartFunc

	// Notices are shown as transient notifications. May be nil.
	Notices <-chan string
}

// Run shows the overlay until the user quits or goes back.
func Run(ctx context.Context, options *Options) error {
	bubble := newBubble(ctx, options)

	program := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx))
	bubble.back = func() { program.Send(backMsg{}) }

	_, err := program.Run()
	if err != nil {
		return err
	}
	return bubble.fatal
}
