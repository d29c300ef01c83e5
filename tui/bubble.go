package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/cinewatch/cinewatch/internal/ui"
	"github.com/cinewatch/cinewatch/playback"
	"github.com/cinewatch/cinewatch/style"
	"github.com/cinewatch/cinewatch/util"
	"github.com/samber/lo"
)

// statefulBubble is the overlay model.
type statefulBubble struct {
	ctx     context.Context
	options *Options
	state   state
	keymap  *statefulKeymap

	spinnerC  spinner.Model
	settingsC list.Model
	progressC progress.Model
	helpC     help.Model
	notifier  *ui.Model

	player   Player
	playback playback.State
	back     func()

	// fatal is returned from Run after the program exits.
	fatal     error
	lastError error

	width, height int
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y
	b.progressC.Width = lo.Clamp(b.width, 10, 80)
	b.settingsC.SetSize(b.width, lo.Clamp(b.height-4, 4, 12))
	b.helpC.Width = b.width
}

func newBubble(ctx context.Context, options *Options) *statefulBubble {
	bubble := &statefulBubble{
		ctx:      ctx,
		options:  options,
		keymap:   newStatefulKeymap(),
		notifier: &ui.Model{},
		playback: playback.NewState(),
		back:     func() {},
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	items := make([]list.Item, 0, len(settings))
	for _, s := range settings {
		items = append(items, s)
	}

	bubble.settingsC = list.New(items, delegate, 0, 0)
	bubble.settingsC.Title = "Settings"
	bubble.settingsC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.Mauve).Padding(0, 1)
	bubble.settingsC.KeyMap = bubble.keymap.forList()
	bubble.settingsC.SetShowHelp(false)
	bubble.settingsC.SetShowStatusBar(false)
	bubble.settingsC.SetShowPagination(false)
	bubble.settingsC.SetFilteringEnabled(false)

	bubble.keymap.sync(playback.Controls{Back: true})
	bubble.setState(loadingState)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return bubble
}
