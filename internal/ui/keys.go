// Package ui provides the terminal user interface for taskpad.
// This file defines key bindings using the Bubble Tea key package for
// type-safe key matching and help text generation.
package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the list view.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	Add         key.Binding
	Toggle      key.Binding
	Delete      key.Binding
	Detail      key.Binding
	Description key.Binding
	Subtask     key.Binding
	Tag         key.Binding
	Reminder    key.Binding
	Pomodoro    key.Binding
	TimerToggle key.Binding
	TimerReset  key.Binding

	CycleFilter   key.Binding
	CycleSort     key.Binding
	CycleCategory key.Binding
	CyclePriority key.Binding

	ClearCompleted key.Binding
	Dismiss        key.Binding
	ToggleTheme    key.Binding

	Confirm key.Binding
	Cancel  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:   key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down: key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),

		Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Toggle:      key.NewBinding(key.WithKeys("d", " "), key.WithHelp("d/space", "toggle done")),
		Delete:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Detail:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Description: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit note")),
		Subtask:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "add subtask")),
		Tag:         key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "add tag")),
		Reminder:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "set reminder")),
		Pomodoro:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "set minutes")),
		TimerToggle: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "work timer")),
		TimerReset:  key.NewBinding(key.WithKeys("W"), key.WithHelp("W", "reset timer")),

		CycleFilter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		CycleSort:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort")),
		CycleCategory: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
		CyclePriority: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "priority")),

		ClearCompleted: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear done")),
		Dismiss:        key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "dismiss alert")),
		ToggleTheme:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "theme")),

		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
