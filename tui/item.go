package tui

import (
	"fmt"

	"github.com/cinewatch/cinewatch/icon"
	"github.com/cinewatch/cinewatch/playback"
	"github.com/cinewatch/cinewatch/style"
)

// setting is an entry of the settings menu.
type setting struct {
	name    string
	icon    icon.Icon
	enabled func(playback.State) bool
	toggle  func(*playback.Controller)

	current bool
}

func (s *setting) Title() string {
	return fmt.Sprintf("%s %s", icon.Get(s.icon), s.name)
}

func (s *setting) Description() string {
	if s.current {
		return style.Fg(style.SuccessColor)("on")
	}
	return style.Faint("off")
}

func (s *setting) FilterValue() string {
	return s.name
}

var settings = []*setting{
	{
		name:    "Subtitles",
		icon:    icon.Subtitles,
		enabled: func(st playback.State) bool { return st.SubtitlesEnabled },
		toggle:  (*playback.Controller).ToggleSubtitles,
	},
}
