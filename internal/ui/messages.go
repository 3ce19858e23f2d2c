// Package ui provides the terminal user interface for taskpad.
// This file defines the message types flowing through the Bubble Tea event
// loop. Store mutations are synchronous; messages carry external events.
package ui

import (
	"time"

	"taskpad/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// StateChangedMsg is sent whenever the store mutates, including mutations
// issued by the reminder scheduler. The model re-reads its snapshot.
type StateChangedMsg struct{}

// ReminderFiredMsg is sent by the scheduler hook when a reminder fires, with
// a copy of the todo at fire time.
type ReminderFiredMsg struct {
	Todo store.Todo
}

// tickMsg drives the once-a-second clock refresh for relative times.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// statusMsg clears a transient status line after its deadline.
type statusExpiredMsg struct{}

func statusExpireCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusExpiredMsg{}
	})
}
