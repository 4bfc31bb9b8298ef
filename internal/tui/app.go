// Package tui is the render and input loop. It reads application state
// through snapshots, turns key presses into state operations and redraws
// on every tick and on every completed fetch.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/fred/internal/config"
	"github.com/pders01/fred/internal/state"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// header (2) + separator + status + help
	chromeHeight = 5
	findHeight   = 3
)

type App struct {
	config     *config.Config
	state      *state.State
	keys       keyMap
	keyHandler *KeyHandler

	help      help.Model
	spinner   spinner.Model
	findInput textinput.Model
	viewport  viewport.Model
	finding   bool

	renderer       *detailRenderer
	pendingDetail  string
	renderedDetail string

	status     string
	statusKind StatusKind

	width  int
	height int
}

func NewApp(cfg *config.Config, st *state.State) *App {
	ApplyTheme(cfg.UI.Colors)

	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "find in items…"
	fi.CharLimit = 128

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(SpinnerStyle),
	)

	app := &App{
		config:    cfg,
		state:     st,
		keys:      newKeyMap(cfg),
		help:      help.New(),
		spinner:   sp,
		findInput: fi,
		viewport:  viewport.New(defaultWidth, defaultHeight-chromeHeight),
		renderer:  &detailRenderer{},
		width:     defaultWidth,
		height:    defaultHeight,
	}
	app.keyHandler = NewKeyHandler(app)

	return app
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tick(a.tickRate()),
		a.spinner.Tick,
	)
}

func (a *App) tickRate() time.Duration {
	if a.config.UI.TickRate > 0 {
		return a.config.UI.TickRate
	}
	return 250 * time.Millisecond
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)

	case tickMsg:
		cmds = append(cmds, tick(a.tickRate()))

	case FetchDoneMsg:
		a.onFetchDone(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case detailRenderedMsg:
		if msg.key == a.pendingDetail {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.renderedDetail = msg.key
		}

	case tea.KeyMsg:
		_, cmd := a.keyHandler.HandleKey(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, a.syncDetail())
	return a, tea.Batch(cmds...)
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.help.Width = width

	inputWidth := width - 8
	if inputWidth < 10 {
		inputWidth = width
	}
	a.findInput.Width = inputWidth

	a.viewport.Width = width
	a.viewport.Height = a.bodyHeight()
}

func (a *App) bodyHeight() int {
	h := a.height - chromeHeight
	if a.finding {
		h -= findHeight
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (a *App) onFetchDone(msg FetchDoneMsg) {
	if msg.Err != nil {
		// LastError carries the failure into the status bar.
		a.clearStatus()
		return
	}
	snap := a.state.Snapshot()
	if snap.ActiveFeed == msg.Request.FeedIndex {
		a.setStatus(MsgLoaded(snap.DocumentTitle, len(snap.Items)), StatusSuccess)
	}
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
}

// wrapWidth is the word-wrap width for the item detail at the current
// terminal width.
func (a *App) wrapWidth() int {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 120 {
		wordWrapWidth = 120
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}
	if a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}
	return wordWrapWidth
}

// syncDetail starts rendering the open item when it differs from what the
// viewport shows.
func (a *App) syncDetail() tea.Cmd {
	snap := a.state.Snapshot()
	if snap.Detail == nil {
		a.pendingDetail = ""
		a.renderedDetail = ""
		return nil
	}

	k := detailKey(snap.Detail, snap.ActiveFeed, a.width)
	if k == a.pendingDetail {
		return nil
	}
	a.pendingDetail = k
	return renderDetail(a.renderer, *snap.Detail, a.wrapWidth(), k)
}

func (a *App) View() string {
	snap := a.state.Snapshot()

	keys := a.keys
	keys.update(snap)

	bodyHeight := a.bodyHeight()
	var body string
	switch {
	case snap.Mode == state.ModeItems && snap.Detail != nil:
		body = a.viewDetail(bodyHeight)
	case snap.Mode == state.ModeItems:
		body = a.viewItems(snap, bodyHeight)
	default:
		body = a.viewFeeds(snap, bodyHeight)
	}

	parts := []string{a.viewHeader(snap), body}
	if a.finding {
		parts = append(parts, renderInputFrame(a.findInput.View(), true, a.findInput.Width))
	}
	parts = append(parts,
		renderSeparator(a.width),
		a.viewStatus(snap),
		a.help.View(keys),
	)

	return lipgloss.JoinVertical(lipgloss.Top, parts...)
}

func (a *App) viewHeader(snap state.Snapshot) string {
	switch snap.Mode {
	case state.ModeItems:
		title := snap.DocumentTitle
		if !snap.HasDocument {
			title = "no feed loaded"
		}
		subtitle := ""
		if src, ok := snap.Source(snap.ActiveFeed); ok {
			subtitle = truncateMiddle(src.URL, a.width-2)
		}
		if snap.Detail != nil {
			title = title + " › " + snap.Detail.Title
		}
		return renderHeader(CompactLogo+" items › "+title, subtitle, a.width)
	default:
		return renderHeader(CompactLogo+" feeds", fmt.Sprintf("%d sources", len(snap.Feeds)), a.width)
	}
}

func (a *App) viewFeeds(snap state.Snapshot, height int) string {
	if len(snap.Feeds) == 0 {
		return renderCentered(a.width, height, renderHelp(MsgNoFeeds))
	}

	rows := make([]listRow, len(snap.Feeds))
	for i, src := range snap.Feeds {
		url := truncateMiddle(src.URL, a.width/2)
		rows[i] = listRow{
			text:   fmt.Sprintf("%s  %s", src.Name, url),
			active: i == snap.ActiveFeed,
		}
	}
	return renderList(rows, snap.FeedCursor, a.width, height)
}

func (a *App) viewItems(snap state.Snapshot, height int) string {
	if !snap.HasDocument {
		return renderCentered(a.width, height, GetCompactBanner(MsgNoDocument))
	}
	if len(snap.Items) == 0 {
		return renderCentered(a.width, height, renderHelp(MsgEmptyFeed))
	}

	rows := make([]listRow, len(snap.Items))
	for i, item := range snap.Items {
		rows[i] = listRow{text: item.Title}
		if !item.Published.IsZero() {
			rows[i].meta = item.Published.Format("Jan 2, 15:04")
		}
	}
	return renderList(rows, snap.ItemCursor, a.width, height)
}

func (a *App) viewDetail(height int) string {
	if a.renderedDetail == "" || a.renderedDetail != a.pendingDetail {
		return renderCentered(a.width, height, renderMuted("Rendering item…"))
	}
	return a.viewport.View()
}

func (a *App) viewStatus(snap state.Snapshot) string {
	var text string
	switch {
	case snap.LastError != nil:
		text = StatusErrorStyle.Render("✗ " + MsgFetchFailed(snap.LastError))
	case snap.IsLoading || snap.Pending > 0:
		text = a.spinner.View() + " " + StatusInfoStyle.Render(MsgLoadingPending(snap.Pending))
	case a.status != "":
		text = a.statusKind.Style().Render(a.status)
	}
	return StatusBarStyle.Width(a.width).MaxHeight(1).Render(text)
}
