package style

import "github.com/charmbracelet/lipgloss"

// Overlay palette.
var (
	Base  = lipgloss.Color("#1e1e2e")
	Text  = lipgloss.Color("#cdd6f4")
	Mauve = lipgloss.Color("#cba6f7")
	Red   = lipgloss.Color("#f38ba8")
	Green = lipgloss.Color("#a6e3a1")

	AccentColor  = Mauve
	SuccessColor = Green
	ErrorColor   = Red
)
