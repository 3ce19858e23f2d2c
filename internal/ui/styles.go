package ui

import (
	"taskpad/internal/store"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds all application styles for the active theme.
type Styles struct {
	Theme store.Theme

	ColorPrimary lipgloss.Color
	ColorAccent  lipgloss.Color
	ColorMuted   lipgloss.Color
	ColorDanger  lipgloss.Color
	ColorWarning lipgloss.Color
	ColorSuccess lipgloss.Color

	TitleStyle    lipgloss.Style
	PaneStyle     lipgloss.Style
	SelectedStyle lipgloss.Style
	DoneStyle     lipgloss.Style
	PendingStyle  lipgloss.Style

	PriorityHighStyle   lipgloss.Style
	PriorityMediumStyle lipgloss.Style
	PriorityLowStyle    lipgloss.Style

	OverdueStyle  lipgloss.Style
	DueStyle      lipgloss.Style
	TagStyle      lipgloss.Style
	ReminderStyle lipgloss.Style

	TimerRunningStyle lipgloss.Style
	TimerPausedStyle  lipgloss.Style

	AlertStyle  lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style
	StatStyle   lipgloss.Style

	InputPromptStyle lipgloss.Style

	CheckboxDone    string
	CheckboxPending string
}

// NewStyles builds the style set for a theme.
func NewStyles(theme store.Theme) *Styles {
	s := &Styles{Theme: theme}

	if theme == store.ThemeDark {
		s.ColorPrimary = lipgloss.Color("#A78BFA")
		s.ColorAccent = lipgloss.Color("#34D399")
		s.ColorMuted = lipgloss.Color("#9CA3AF")
	} else {
		s.ColorPrimary = lipgloss.Color("#7C3AED")
		s.ColorAccent = lipgloss.Color("#10B981")
		s.ColorMuted = lipgloss.Color("#6B7280")
	}
	s.ColorDanger = lipgloss.Color("#EF4444")
	s.ColorWarning = lipgloss.Color("#F59E0B")
	s.ColorSuccess = s.ColorAccent

	s.TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(s.ColorPrimary)
	s.PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorMuted).
		Padding(0, 1)
	s.SelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(s.ColorPrimary)
	s.DoneStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(s.ColorMuted)
	s.PendingStyle = lipgloss.NewStyle()

	s.PriorityHighStyle = lipgloss.NewStyle().Foreground(s.ColorDanger).Bold(true)
	s.PriorityMediumStyle = lipgloss.NewStyle().Foreground(s.ColorWarning)
	s.PriorityLowStyle = lipgloss.NewStyle().Foreground(s.ColorSuccess)

	s.OverdueStyle = lipgloss.NewStyle().Foreground(s.ColorDanger)
	s.DueStyle = lipgloss.NewStyle().Foreground(s.ColorMuted)
	s.TagStyle = lipgloss.NewStyle().Foreground(s.ColorAccent)
	s.ReminderStyle = lipgloss.NewStyle().Foreground(s.ColorWarning)

	s.TimerRunningStyle = lipgloss.NewStyle().Bold(true).Foreground(s.ColorSuccess)
	s.TimerPausedStyle = lipgloss.NewStyle().Foreground(s.ColorMuted)

	s.AlertStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorWarning).
		Foreground(s.ColorWarning).
		Padding(0, 1)
	s.StatusStyle = lipgloss.NewStyle().Foreground(s.ColorMuted)
	s.ErrorStyle = lipgloss.NewStyle().Foreground(s.ColorDanger)
	s.HelpStyle = lipgloss.NewStyle().Foreground(s.ColorMuted)
	s.StatStyle = lipgloss.NewStyle().Foreground(s.ColorMuted)

	s.InputPromptStyle = lipgloss.NewStyle().Foreground(s.ColorPrimary)

	s.CheckboxDone = "[x]"
	s.CheckboxPending = "[ ]"

	return s
}

// PriorityStyle returns the badge style for a priority.
func (s *Styles) PriorityStyle(p store.Priority) lipgloss.Style {
	switch p {
	case store.PriorityHigh:
		return s.PriorityHighStyle
	case store.PriorityLow:
		return s.PriorityLowStyle
	default:
		return s.PriorityMediumStyle
	}
}
