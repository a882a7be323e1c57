package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"tdui/config"
)

// keyMap holds the normal-mode bindings. Character keys come from the
// user config; structural keys (arrows, Tab, Enter, Esc) are fixed.
type keyMap struct {
	Quit      key.Binding
	NewTask   key.Binding
	Complete  key.Binding
	Delete    key.Binding
	Today     key.Binding
	NextPanel key.Binding
	SwitchTab key.Binding
	Move      key.Binding
	Edit      key.Binding
}

func newKeyMap(cfg config.Keymap) keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys(cfg.Quit, "esc", "ctrl+c"),
			key.WithHelp(cfg.Quit, "quit"),
		),
		NewTask: key.NewBinding(
			key.WithKeys(cfg.NewTask),
			key.WithHelp(cfg.NewTask, "new task"),
		),
		Complete: key.NewBinding(
			key.WithKeys(cfg.Complete),
			key.WithHelp(cfg.Complete, "complete"),
		),
		Delete: key.NewBinding(
			key.WithKeys(cfg.Delete),
			key.WithHelp(cfg.Delete, "delete"),
		),
		Today: key.NewBinding(
			key.WithKeys(cfg.Today),
			key.WithHelp(cfg.Today, "today"),
		),
		NextPanel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		SwitchTab: key.NewBinding(
			key.WithKeys("shift+left", "shift+right"),
			key.WithHelp("shift+←/→", "switch tab"),
		),
		Move: key.NewBinding(
			key.WithKeys("up", "down", "left", "right"),
			key.WithHelp("↑/↓/←/→", "move"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
	}
}

// ShortHelp implements help.KeyMap for the footer line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewTask, k.Edit, k.Complete, k.Delete, k.NextPanel, k.SwitchTab, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NewTask, k.Edit, k.Complete, k.Delete},
		{k.Move, k.NextPanel, k.SwitchTab},
		{k.Today, k.Quit},
	}
}
