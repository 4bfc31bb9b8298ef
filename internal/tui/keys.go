package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/pders01/fred/internal/config"
	"github.com/pders01/fred/internal/state"
)

// keyMap holds the configured bindings. It also drives the help bar, so
// bindings that cannot act on the current snapshot are disabled.
type keyMap struct {
	Quit       key.Binding
	ForceQuit  key.Binding
	ToggleView key.Binding
	Next       key.Binding
	Previous   key.Binding
	Unselect   key.Binding
	Activate   key.Binding
	Back       key.Binding
	Find       key.Binding
}

func newKeyMap(cfg *config.Config) keyMap {
	b := cfg.Keys.Bindings

	toggle := b.ToggleView
	if cfg.Keys.Modifier != "" {
		toggle = cfg.Keys.Modifier + "+" + toggle
	}

	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys(b.Quit),
			key.WithHelp(b.Quit, "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys(toggle),
			key.WithHelp(toggle, "feeds/items"),
		),
		Next: key.NewBinding(
			key.WithKeys(b.Next, "down"),
			key.WithHelp(b.Next+"/↓", "next"),
		),
		Previous: key.NewBinding(
			key.WithKeys(b.Previous, "up"),
			key.WithHelp(b.Previous+"/↑", "prev"),
		),
		Unselect: key.NewBinding(
			key.WithKeys(b.Unselect),
			key.WithHelp(b.Unselect, "unselect"),
		),
		Activate: key.NewBinding(
			key.WithKeys(b.Activate),
			key.WithHelp(b.Activate, "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Find: key.NewBinding(
			key.WithKeys(b.Find),
			key.WithHelp(b.Find, "find"),
		),
	}
}

// update enables the bindings that apply to snap and relabels the ones
// whose action depends on the mode.
func (k *keyMap) update(snap state.Snapshot) {
	inItems := snap.Mode == state.ModeItems

	k.Activate.SetEnabled(snap.CanActivate)
	if inItems {
		k.Activate.SetHelp(k.Activate.Help().Key, "read")
	} else {
		k.Activate.SetHelp(k.Activate.Help().Key, "load")
	}

	if snap.CanBack {
		k.Quit.SetHelp(k.Quit.Help().Key, "back")
	} else {
		k.Quit.SetHelp(k.Quit.Help().Key, "quit")
	}
	k.Back.SetEnabled(snap.CanBack)

	k.Find.SetEnabled(inItems && snap.CanFind && !snap.CanBack)
	k.Unselect.SetEnabled(!snap.CanBack)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Previous, k.Activate, k.Back, k.Find, k.ToggleView, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Previous, k.Unselect},
		{k.Activate, k.Back, k.Find},
		{k.ToggleView, k.Quit},
	}
}
