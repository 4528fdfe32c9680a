package tui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kptv-cli/kptv/catalog"
	"github.com/kptv-cli/kptv/input"
	"github.com/kptv-cli/kptv/internal/ui"
	"github.com/kptv-cli/kptv/key"
	"github.com/kptv-cli/kptv/playback"
	"github.com/kptv-cli/kptv/style"
	"github.com/kptv-cli/kptv/util"
	"github.com/spf13/viper"
)

const statusInterval = 500 * time.Millisecond

type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]
	loading       bool

	keymap *statefulKeymap

	spinnerC  spinner.Model
	seasonsC  list.Model
	episodesC list.Model
	helpC     help.Model

	item      *catalog.Item
	season    *catalog.Season
	status    playback.Status
	lastError error

	width, height int
	notifier      *ui.Model

	ctx      context.Context
	cancel   context.CancelFunc
	sessions sync.WaitGroup

	options *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s and remembers where it came from. Loading and playback are
// never returned to.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if b.state != loadingState && b.state != playingState && b.state != errorState {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if s, ok := b.statesHistory.Pop().Get(); ok {
		b.setState(s)
	}
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	b.seasonsC.SetSize(listWidth, listHeight)
	b.seasonsC.Help.Width = listWidth

	b.episodesC.SetSize(listWidth, listHeight)
	b.episodesC.Help.Width = listWidth

	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
}

func (b *statefulBubble) startLoading() tea.Cmd {
	b.loading = true
	return b.spinnerC.Tick
}

func (b *statefulBubble) stopLoading() {
	b.loading = false
}

// shutdown cancels a running session and waits for it to save its checkpoint.
func (b *statefulBubble) shutdown() {
	b.cancel()
	b.sessions.Wait()
}

func newBubble(ctx context.Context, options *Options) *statefulBubble {
	ctx, cancel := context.WithCancel(ctx)

	bubble := statefulBubble{
		keymap:   newStatefulKeymap(options.Keymap),
		notifier: &ui.Model{},
		ctx:      ctx,
		cancel:   cancel,
		options:  options,
	}

	makeList := func(title string, background lipgloss.Color) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(background).Padding(0, 1)
		listC.Styles.NoItems = paddingStyle
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)
		return listC
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.seasonsC = makeList("Seasons", style.Lavender)
	bubble.seasonsC.SetStatusBarItemName("season", "seasons")

	bubble.episodesC = makeList("Episodes", style.Peach)
	bubble.episodesC.SetStatusBarItemName("episode", "episodes")

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.setState(loadingState)
	return &bubble
}

// remoteButton resolves a key press to a remote button while a video plays.
func (b *statefulBubble) remoteButton(msg tea.KeyMsg) (input.Button, bool) {
	return b.options.Keymap.Button(msg).Get()
}
