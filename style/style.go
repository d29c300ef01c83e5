// Package style renders CLI and overlay text with lipgloss.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/cinewatch/cinewatch/color"
)

// New returns an empty style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Colored returns a style with the given foreground and background.
func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a function painting text in c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(c, "").Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Title renders the overlay header banner.
var Title = func(s string) string {
	return Colored(Base, Mauve).Bold(true).Padding(0, 1).Render(s)
}

// ErrorTitle renders the banner of the error screen.
var ErrorTitle = func(s string) string {
	return Colored(Base, color.HiRed).Bold(true).Padding(0, 1).Render(s)
}
