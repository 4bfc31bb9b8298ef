package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/fred/internal/debuglog"
	"github.com/pders01/fred/internal/state"
)

// KeyHandler turns key presses into state operations. Navigation errors
// never reach the user; they are logged at debug level.
type KeyHandler struct {
	app *App
}

func NewKeyHandler(app *App) *KeyHandler {
	return &KeyHandler{app: app}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := kh.app.keys

	if key.Matches(msg, keys.ForceQuit) {
		return kh.app, tea.Quit
	}

	if kh.app.finding {
		return kh.handleFindInput(msg)
	}

	kh.app.clearStatus()
	st := kh.app.state
	snap := st.Snapshot()
	inDetail := snap.Mode == state.ModeItems && snap.Detail != nil

	switch {
	case key.Matches(msg, keys.Quit):
		if st.QuitOrBack() {
			return kh.app, tea.Quit
		}
	case key.Matches(msg, keys.ToggleView):
		st.ToggleView()
	case key.Matches(msg, keys.Back):
		kh.ignore("back", st.Back())
	case inDetail:
		return kh.delegateToViewport(msg)
	case key.Matches(msg, keys.Next):
		st.Next()
	case key.Matches(msg, keys.Previous):
		st.Previous()
	case key.Matches(msg, keys.Unselect):
		st.Unselect()
	case key.Matches(msg, keys.Activate):
		kh.ignore("activate", st.Activate())
	case key.Matches(msg, keys.Find):
		return kh.enterFind(snap)
	}

	return kh.app, nil
}

// delegateToViewport lets the detail viewport handle scrolling keys.
func (kh *KeyHandler) delegateToViewport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	kh.app.viewport, cmd = kh.app.viewport.Update(msg)
	return kh.app, cmd
}

func (kh *KeyHandler) enterFind(snap state.Snapshot) (tea.Model, tea.Cmd) {
	if snap.Mode != state.ModeItems || !snap.CanFind {
		kh.app.setStatus(MsgCannotFind, StatusWarn)
		return kh.app, nil
	}
	kh.app.finding = true
	kh.app.findInput.Reset()
	kh.app.viewport.Height = kh.app.bodyHeight()
	return kh.app, kh.app.findInput.Focus()
}

func (kh *KeyHandler) exitFind() {
	kh.app.finding = false
	kh.app.findInput.Blur()
	kh.app.viewport.Height = kh.app.bodyHeight()
}

func (kh *KeyHandler) handleFindInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		kh.exitFind()
		return kh.app, nil

	case tea.KeyEnter:
		query := strings.TrimSpace(kh.app.findInput.Value())
		kh.exitFind()
		if query == "" {
			return kh.app, nil
		}
		err := kh.app.state.Find(query)
		switch {
		case err == nil:
			kh.app.clearStatus()
		case isNavigation(err):
			debuglog.Debugf("find %q: %v", query, err)
			kh.app.setStatus(MsgNoMatch(query), StatusWarn)
		default:
			debuglog.Warnf("find %q: %v", query, err)
			kh.app.setStatus(err.Error(), StatusError)
		}
		return kh.app, nil
	}

	var cmd tea.Cmd
	kh.app.findInput, cmd = kh.app.findInput.Update(msg)
	return kh.app, cmd
}

func (kh *KeyHandler) ignore(op string, err error) {
	if err == nil {
		return
	}
	if isNavigation(err) {
		debuglog.Debugf("%s ignored: %v", op, err)
		return
	}
	debuglog.Warnf("%s: %v", op, err)
	kh.app.setStatus(err.Error(), StatusError)
}
