package ui

import (
	"testing"

	"taskpad/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// setupTest prepares the test environment for deterministic rendering.
// The ASCII profile disables color codes so assertions see plain text.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// newTestApp builds an app over an in-memory store.
func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()
	setupTest(t)
	st := store.New(nil)
	app := NewApp(st, NewStyles(store.ThemeLight), "general")
	return app, st
}

// press sends a single key to the model.
func press(app *App, k string) {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	app.Update(msg)
}

// typeText enters a string one rune at a time, as the terminal would.
func typeText(app *App, text string) {
	for _, r := range text {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}
