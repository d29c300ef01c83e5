package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cinewatch/cinewatch/icon"
	"github.com/cinewatch/cinewatch/style"
	"github.com/cinewatch/cinewatch/util"
	"github.com/muesli/reflow/wrap"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case playingState:
		output = b.viewPlaying()
	case settingsState:
		output = b.viewSettings()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) header() []string {
	lines := []string{style.Title(b.options.Title)}
	if b.options.Subtitle != "" {
		lines = append(lines, style.Faint(b.options.Subtitle))
	}
	return append(lines, "")
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(true, append(b.header(), b.spinnerC.View()+" Loading player..."))
}

func (b *statefulBubble) viewPlaying() string {
	st := b.playback
	controls := b.keymap.controls
	lines := b.header()

	if st.Err != nil {
		lines = append(lines,
			icon.Get(icon.Fail)+" "+style.Fg(style.ErrorColor)("Playback failed"),
			"",
			wrap.String(st.Err.Error(), b.wrapWidth()),
		)
		return b.renderLines(true, lines)
	}

	if !controls.PlayPause {
		lines = append(lines, style.Faint("Playing in the browser. Use the player's own controls there."))
		return b.renderLines(true, append(lines, "", b.statusLine()))
	}

	stateIcon := icon.Get(icon.Play)
	if st.Paused {
		stateIcon = icon.Get(icon.Pause)
	}

	position := util.FormatDuration(st.Position)
	duration := "--:--"
	if st.Initialized {
		duration = util.FormatDuration(st.Duration)
	}

	lines = append(lines,
		fmt.Sprintf("%s  %s / %s", stateIcon, style.Bold(position), duration),
		b.progressC.ViewAs(st.Progress()),
		"",
		b.statusLine(),
	)
	return b.renderLines(true, lines)
}

func (b *statefulBubble) statusLine() string {
	st := b.playback
	var parts []string

	if b.keymap.controls.Volume {
		if st.Muted {
			parts = append(parts, icon.Get(icon.Mute)+" muted")
		} else {
			parts = append(parts, fmt.Sprintf("%s %d%%", icon.Get(icon.Volume), st.VolumePercent()))
		}
	}

	if st.Fullscreen {
		parts = append(parts, icon.Get(icon.Fullscreen)+" fullscreen")
	}
	if st.SubtitlesEnabled {
		parts = append(parts, icon.Get(icon.Subtitles)+" subtitles")
	}

	return strings.Join(parts, style.Faint("  ·  "))
}

func (b *statefulBubble) viewSettings() string {
	return b.renderLines(true, append(b.header(), b.settingsC.View()))
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	errorBody := errorStyle.Render(b.lastError.Error())
	return b.renderLines(true, []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " An error occurred:",
		"",
		wrap.String(errorBody, b.wrapWidth()),
	})
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	h := strings.Count(l, "\n") + 1
	if addHelp {
		if b.height > h+1 {
			l += strings.Repeat("\n", b.height-h-1)
		}
		l += "\n" + b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

func (b *statefulBubble) wrapWidth() int {
	if b.width > 0 {
		return b.width
	}
	return 80
}
