package cmd

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/cinewatch/cinewatch/color"
	"github.com/cinewatch/cinewatch/constant"
	"github.com/cinewatch/cinewatch/icon"
	"github.com/cinewatch/cinewatch/player"
	"github.com/cinewatch/cinewatch/style"
	"github.com/spf13/cobra"
)

// checkPlayer reports whether the player for direct files and trailers is on PATH.
// A missing player is rendered as a boxed hint with an install command.
func checkPlayer(name string) bool {
	if player.Installed(name) {
		return true
	}
	if name == "" {
		name = player.MPVName
	}

	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install " + name
	case constant.Linux:
		installCmd = "sudo apt install " + name
	case constant.Windows:
		installCmd = "scoop install " + name
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(color.HiRed).Render(fmt.Sprintf("%s Missing player", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("'%s' was not found in your PATH.\nDirect files and trailers need it, embeds play in the browser.", name))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(lipgloss.JoinVertical(lipgloss.Left, title, "\n", body, suggestion)))
	return false
}

func completionPlayers(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return player.Available(), cobra.ShellCompDirectiveNoFileComp
}
