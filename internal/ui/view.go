// Package ui provides the terminal user interface for taskpad.
// This file renders the list and detail views from the current snapshot.
package ui

import (
	"fmt"
	"strings"
	"time"

	"taskpad/internal/store"
)

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(a.styles.TitleStyle.Render("taskpad"))
	b.WriteString("  ")
	b.WriteString(a.styles.StatStyle.Render(a.now.Format("Mon Jan 2 15:04")))
	b.WriteString("\n")

	if banner := a.alertBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}

	if a.detail {
		b.WriteString(a.detailView())
	} else {
		b.WriteString(a.listView())
	}

	b.WriteString("\n")
	b.WriteString(a.statsLine())
	b.WriteString("\n")

	if a.mode != inputNone {
		b.WriteString(a.input.View())
		b.WriteString("\n")
	}

	if a.status != "" {
		style := a.styles.StatusStyle
		if a.statusErr {
			style = a.styles.ErrorStyle
		}
		b.WriteString(style.Render(a.status))
		b.WriteString("\n")
	}

	b.WriteString(a.helpLine())
	return b.String()
}

// alertBanner lists fired-but-undismissed reminders.
func (a *App) alertBanner() string {
	if len(a.snapshot.ActiveReminders) == 0 {
		return ""
	}
	var lines []string
	for _, r := range a.snapshot.ActiveReminders {
		title := "(deleted todo)"
		if t, ok := a.findTodo(r.TodoID); ok {
			title = t.Title
		}
		lines = append(lines, fmt.Sprintf("⏰ %s (%s)", title, r.FireTime.Local().Format("15:04")))
	}
	return a.styles.AlertStyle.Render(strings.Join(lines, "\n"))
}

func (a *App) listView() string {
	if len(a.visible) == 0 {
		return a.styles.StatStyle.Render("No todos. Press 'a' to add one.")
	}

	var lines []string
	for i, t := range a.visible {
		lines = append(lines, a.renderTodoLine(t, i == a.cursor))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderTodoLine(t store.Todo, selected bool) string {
	checkbox := a.styles.CheckboxPending
	titleStyle := a.styles.PendingStyle
	if t.Completed {
		checkbox = a.styles.CheckboxDone
		titleStyle = a.styles.DoneStyle
	}

	cursor := "  "
	if selected {
		cursor = "> "
		titleStyle = a.styles.SelectedStyle
	}

	var parts []string
	parts = append(parts, cursor+checkbox, a.styles.PriorityStyle(t.Priority).Render(priorityBadge(t.Priority)))
	parts = append(parts, titleStyle.Render(t.Title))

	if t.Category != "" && t.Category != store.DefaultCategory {
		parts = append(parts, a.styles.StatStyle.Render("#"+t.Category))
	}
	if t.DueDate != nil {
		style := a.styles.DueStyle
		if !t.Completed && t.DueDate.Before(startOfDay(a.now)) {
			style = a.styles.OverdueStyle
		}
		parts = append(parts, style.Render("due "+t.DueDate.Format("Jan 2")))
	}
	if t.Reminder != nil {
		parts = append(parts, a.styles.ReminderStyle.Render("🔔"))
	}
	if len(t.Subtasks) > 0 {
		done := 0
		for _, s := range t.Subtasks {
			if s.Completed {
				done++
			}
		}
		parts = append(parts, a.styles.StatStyle.Render(fmt.Sprintf("[%d/%d]", done, len(t.Subtasks))))
	}
	if len(t.Tags) > 0 {
		parts = append(parts, a.styles.TagStyle.Render(strings.Join(t.Tags, " ")))
	}
	if t.PomodoroMinutes > 0 {
		parts = append(parts, a.styles.StatStyle.Render(fmt.Sprintf("%dm", t.PomodoroMinutes)))
	}

	return strings.Join(parts, " ")
}

func (a *App) detailView() string {
	todo, ok := a.findTodo(a.detailID)
	if !ok {
		return a.styles.ErrorStyle.Render("Todo no longer exists.")
	}

	var b strings.Builder
	b.WriteString(a.renderTodoLine(todo, false))
	b.WriteString("\n")

	if todo.Description != "" {
		b.WriteString(a.styles.StatStyle.Render(todo.Description))
		b.WriteString("\n")
	}
	if todo.Reminder != nil {
		b.WriteString(a.styles.ReminderStyle.Render("Reminder: " + todo.Reminder.Local().Format(reminderLayout)))
		b.WriteString("\n")
	}
	if a.timer.armed(todo.ID) {
		icon, style := "⏸", a.styles.TimerPausedStyle
		if a.timer.running {
			icon, style = "▶", a.styles.TimerRunningStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %s", icon, formatCountdown(a.timer.remaining))))
		b.WriteString(a.styles.StatStyle.Render(fmt.Sprintf("  sessions %d · total %dm", a.timer.sessions, a.timer.minutes())))
		b.WriteString("\n")
	}

	if len(todo.Subtasks) == 0 {
		b.WriteString(a.styles.StatStyle.Render("No subtasks. Press 's' to add one."))
	} else {
		var lines []string
		for i, sub := range todo.Subtasks {
			checkbox := a.styles.CheckboxPending
			style := a.styles.PendingStyle
			if sub.Completed {
				checkbox = a.styles.CheckboxDone
				style = a.styles.DoneStyle
			}
			cursor := "  "
			if i == a.subCursor {
				cursor = "> "
				style = a.styles.SelectedStyle
			}
			lines = append(lines, fmt.Sprintf("%s%s %s", cursor, checkbox, style.Render(sub.Title)))
		}
		b.WriteString(strings.Join(lines, "\n"))
	}

	return a.styles.PaneStyle.Render(b.String())
}

// statsLine renders the footer aggregates.
func (a *App) statsLine() string {
	stats := store.ComputeStats(a.snapshot)
	adv := store.ComputeAdvancedStats(a.snapshot, a.now)

	parts := []string{
		fmt.Sprintf("%d total", stats.Total),
		fmt.Sprintf("%d active", stats.Active),
		fmt.Sprintf("%d done (%d%%)", stats.Completed, stats.CompletionRate),
	}
	if adv.Overdue > 0 {
		parts = append(parts, a.styles.OverdueStyle.Render(fmt.Sprintf("%d overdue", adv.Overdue)))
	}
	parts = append(parts, fmt.Sprintf("filter:%s", a.snapshot.Filter))
	parts = append(parts, fmt.Sprintf("sort:%s", a.snapshot.SortBy))
	if a.snapshot.SelectedCategory != "" {
		parts = append(parts, "#"+a.snapshot.SelectedCategory)
	}
	return a.styles.StatStyle.Render(strings.Join(parts, " · "))
}

func (a *App) helpLine() string {
	if a.detail {
		return a.styles.HelpStyle.Render("j/k move · space toggle · s subtask · t tag · u untag · w timer · W reset · x delete · esc back")
	}
	if !a.showHelp {
		return a.styles.HelpStyle.Render("a add · d done · enter details · f/o/c views · ? more · q quit")
	}
	lines := []string{
		"a add (title #category !priority ^2006-01-02)",
		"d/space toggle · x delete · enter details · P cycle priority",
		"e note · s subtask · t tag · r reminder · p minutes",
		"f filter · o sort · c category · C clear done · z dismiss alert · m theme",
	}
	return a.styles.HelpStyle.Render(strings.Join(lines, "\n"))
}

func priorityBadge(p store.Priority) string {
	switch p {
	case store.PriorityHigh:
		return "[!]"
	case store.PriorityLow:
		return "[.]"
	default:
		return "[-]"
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
