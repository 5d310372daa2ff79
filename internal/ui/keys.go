package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the application
type KeyMap struct {
	// Tabs
	WorkTab     key.Binding
	PersonalTab key.Binding
	NextTab     key.Binding

	// Navigation
	Up   key.Binding
	Down key.Binding

	// Task actions
	Add       key.Binding
	Toggle    key.Binding
	Important key.Binding
	CycleTag  key.Binding
	Rename    key.Binding
	Delete    key.Binding
	Move      key.Binding

	// View preferences
	ShowCompleted key.Binding
	SortImportant key.Binding
	CycleFilter   key.Binding

	// Tags
	NewTag    key.Binding
	DeleteTag key.Binding

	// Account
	SignIn  key.Binding
	SignUp  key.Binding
	SignOut key.Binding
	Sync    key.Binding

	// General
	Stats      key.Binding
	Reset      key.Binding
	Help       key.Binding
	ThemeCycle key.Binding
	Quit       key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		WorkTab: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "work"),
		),
		PersonalTab: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "personal"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch tab"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),

		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "done"),
		),
		Important: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "important"),
		),
		CycleTag: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tag"),
		),
		Rename: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "rename"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move"),
		),

		ShowCompleted: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "completed"),
		),
		SortImportant: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort important"),
		),
		CycleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),

		NewTag: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "new tag"),
		),
		DeleteTag: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "delete tag"),
		),

		SignIn: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "sign in"),
		),
		SignUp: key.NewBinding(
			key.WithKeys("U"),
			key.WithHelp("U", "sign up"),
		),
		SignOut: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "sign out"),
		),
		Sync: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "sync"),
		),

		Stats: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "stats"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ThemeCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.WorkTab, k.PersonalTab, k.NextTab, k.Up, k.Down},
		{k.Add, k.Toggle, k.Important, k.CycleTag, k.Rename, k.Delete, k.Move},
		{k.ShowCompleted, k.SortImportant, k.CycleFilter, k.NewTag, k.DeleteTag},
		{k.SignIn, k.SignUp, k.SignOut, k.Sync},
		{k.Stats, k.Reset, k.ThemeCycle, k.Help, k.Quit},
	}
}
