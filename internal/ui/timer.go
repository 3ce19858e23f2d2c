// Package ui provides the terminal user interface for taskpad.
// This file implements the per-todo work timer: a 25-minute countdown that
// commits its accumulated minutes to the todo when a session completes.
package ui

import (
	"fmt"
	"time"
)

// sessionLength is the countdown of a single work session.
const sessionLength = 25 * time.Minute

// workTimer tracks a countdown for one todo. spent accumulates across
// sessions and is seeded from the todo's recorded minutes, so a completed
// session commits the new total, not a delta.
type workTimer struct {
	todoID    string
	running   bool
	remaining time.Duration
	spent     time.Duration
	sessions  int
}

// armed reports whether the timer is attached to the given todo.
func (w *workTimer) armed(todoID string) bool {
	return w.todoID == todoID
}

// toggle starts or pauses the countdown for the todo. Switching to another
// todo abandons the previous session's uncommitted progress.
func (w *workTimer) toggle(todoID string, spentMinutes int) {
	if w.todoID != todoID {
		*w = workTimer{
			todoID:    todoID,
			remaining: sessionLength,
			spent:     time.Duration(spentMinutes) * time.Minute,
		}
	}
	w.running = !w.running
}

// reset stops the countdown and rewinds it to a full session. Accumulated
// time is kept.
func (w *workTimer) reset() {
	if w.todoID == "" {
		return
	}
	w.running = false
	w.remaining = sessionLength
}

// clear detaches the timer entirely.
func (w *workTimer) clear() {
	*w = workTimer{}
}

// advance moves a running countdown forward and reports whether a session
// just completed. On completion the countdown stops, rewound for the next
// session.
func (w *workTimer) advance(d time.Duration) bool {
	if !w.running {
		return false
	}
	w.remaining -= d
	w.spent += d
	if w.remaining > 0 {
		return false
	}
	w.running = false
	w.remaining = sessionLength
	w.sessions++
	return true
}

// minutes returns the accumulated time rounded to whole minutes.
func (w *workTimer) minutes() int {
	return int(w.spent.Round(time.Minute) / time.Minute)
}

// formatCountdown renders a countdown as MM:SS.
func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d - m*time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d", m, s)
}
