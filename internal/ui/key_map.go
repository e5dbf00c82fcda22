package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	tab     key.Binding
	toggle  key.Binding
	save    key.Binding
	del     key.Binding
	clear   key.Binding
	search  key.Binding
	refresh key.Binding
	yes     key.Binding
	no      key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle favorite")),
		save:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save list")),
		del:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear all")),
		search:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "search")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:      key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.tab},
		{k.toggle, k.save, k.del, k.clear},
		{k.search, k.refresh, k.back, k.quit},
	}
}
