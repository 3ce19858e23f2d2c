package store

import "time"

// Priority represents todo priority levels
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p Priority) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Filter selects which todos appear in derived views.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// SortMode selects the ordering of derived views.
type SortMode string

const (
	SortByDate       SortMode = "date" // newest first (default)
	SortByPriority   SortMode = "priority"
	SortByAlphabetic SortMode = "alphabetic"
)

// Theme is the UI color scheme, persisted alongside the view state.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultCategory is assigned when a todo is created without one.
const DefaultCategory = "general"

// KnownCategories are the built-in category ids. The category field itself
// accepts any caller-supplied string.
var KnownCategories = []string{"work", "personal", "shopping", "health", "education", "general"}

// Todo represents a single tracked item
type Todo struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Completed       bool       `json:"completed"`
	Category        string     `json:"category"`
	Priority        Priority   `json:"priority"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	Description     string     `json:"description,omitempty"`
	Subtasks        []Subtask  `json:"subtasks,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	Reminder        *time.Time `json:"reminder,omitempty"`
	PomodoroMinutes int        `json:"pomodoro_minutes,omitempty"`
}

// Subtask is a nested checklist item belonging to exactly one Todo.
type Subtask struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// ActiveReminder is a fired-but-undismissed notification. It references its
// todo by id only; the todo may have been deleted since firing.
type ActiveReminder struct {
	TodoID   string    `json:"todo_id"`
	FireTime time.Time `json:"fire_time"`
}

// State is the full in-memory state owned by the Store. ActiveReminders are
// transient and not persisted; reminders are re-evaluated on reload.
type State struct {
	Todos            []Todo
	Filter           Filter
	SortBy           SortMode
	SelectedCategory string
	Theme            Theme
	ActiveReminders  []ActiveReminder
}

// TodoUpdate carries a partial update for UpdateTodo. Nil fields are left
// untouched on the target todo.
type TodoUpdate struct {
	Title           *string
	Completed       *bool
	Category        *string
	Priority        *Priority
	DueDate         **time.Time
	Description     *string
	PomodoroMinutes *int
}

// Clone returns a deep copy of the todo, including subtasks and tags.
func (t Todo) Clone() Todo {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.Reminder != nil {
		r := *t.Reminder
		c.Reminder = &r
	}
	if len(t.Subtasks) > 0 {
		c.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(c.Subtasks, t.Subtasks)
	}
	if len(t.Tags) > 0 {
		c.Tags = make([]string, len(t.Tags))
		copy(c.Tags, t.Tags)
	}
	return c
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	c := s
	if len(s.Todos) > 0 {
		c.Todos = make([]Todo, len(s.Todos))
		for i, t := range s.Todos {
			c.Todos[i] = t.Clone()
		}
	}
	if len(s.ActiveReminders) > 0 {
		c.ActiveReminders = make([]ActiveReminder, len(s.ActiveReminders))
		copy(c.ActiveReminders, s.ActiveReminders)
	}
	return c
}
