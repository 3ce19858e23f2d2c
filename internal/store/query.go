// This file contains the derived queries over a state snapshot. Pure and
// re-entrant: no function here mutates its input, and repeated calls with
// equal inputs yield value-equal results.
package store

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Stats holds the basic aggregate counts shown in the footer.
type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Active         int `json:"active"`
	CompletionRate int `json:"completion_rate"` // 0-100, 0 when Total is 0
}

// AdvancedStats extends Stats with the dashboard aggregates.
type AdvancedStats struct {
	Stats
	Overdue           int `json:"overdue"`
	HighPriority      int `json:"high_priority"`
	MediumPriority    int `json:"medium_priority"`
	LowPriority       int `json:"low_priority"`
	TotalSubtasks     int `json:"total_subtasks"`
	CompletedSubtasks int `json:"completed_subtasks"`
	PomodoroMinutes   int `json:"pomodoro_minutes"`
	AvgPerDay         int `json:"avg_per_day"` // ceil(total/7)
}

// FilteredTodos returns the todos visible under the snapshot's filter,
// category selection, and sort mode. The input is never modified; ties keep
// their relative order.
func FilteredTodos(st State) []Todo {
	filtered := make([]Todo, 0, len(st.Todos))
	for _, t := range st.Todos {
		switch st.Filter {
		case FilterActive:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		if st.SelectedCategory != "" && t.Category != st.SelectedCategory {
			continue
		}
		filtered = append(filtered, t.Clone())
	}

	switch st.SortBy {
	case SortByPriority:
		sort.SliceStable(filtered, func(i, j int) bool {
			return priorityRank(filtered[i].Priority) > priorityRank(filtered[j].Priority)
		})
	case SortByAlphabetic:
		// Collators carry an internal buffer, so one per call.
		c := collate.New(language.Und, collate.Loose)
		sort.SliceStable(filtered, func(i, j int) bool {
			return c.CompareString(filtered[i].Title, filtered[j].Title) < 0
		})
	default: // SortByDate: newest first
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	}

	return filtered
}

func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ComputeStats computes the basic aggregates.
func ComputeStats(st State) Stats {
	total := len(st.Todos)
	completed := 0
	for _, t := range st.Todos {
		if t.Completed {
			completed++
		}
	}
	stats := Stats{
		Total:     total,
		Completed: completed,
		Active:    total - completed,
	}
	if total > 0 {
		// Round half up, matching integer math on percentages.
		stats.CompletionRate = (completed*100 + total/2) / total
	}
	return stats
}

// ComputeAdvancedStats computes the dashboard aggregates. Overdue means the
// due date falls on a calendar day strictly before now's day and the todo is
// not completed.
func ComputeAdvancedStats(st State, now time.Time) AdvancedStats {
	adv := AdvancedStats{Stats: ComputeStats(st)}
	dayStart := startOfDay(now)

	for _, t := range st.Todos {
		switch t.Priority {
		case PriorityHigh:
			adv.HighPriority++
		case PriorityMedium:
			adv.MediumPriority++
		case PriorityLow:
			adv.LowPriority++
		}
		if t.DueDate != nil && !t.Completed && t.DueDate.Before(dayStart) {
			adv.Overdue++
		}
		adv.TotalSubtasks += len(t.Subtasks)
		for _, sub := range t.Subtasks {
			if sub.Completed {
				adv.CompletedSubtasks++
			}
		}
		adv.PomodoroMinutes += t.PomodoroMinutes
	}

	if adv.Total > 0 {
		adv.AvgPerDay = (adv.Total + 6) / 7
	}
	return adv
}

// Categories returns the distinct categories actually in use, in first-seen
// order, not the static configured list.
func Categories(st State) []string {
	seen := make(map[string]struct{}, len(st.Todos))
	var out []string
	for _, t := range st.Todos {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
