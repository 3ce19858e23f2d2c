// Package store owns the authoritative in-memory todo collection and view
// state. All mutations are synchronous, atomic, and hand a snapshot to the
// injected saver; derived views live in query.go as free functions over a
// snapshot.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// PersistedState is the durable form of the state document. ActiveReminders
// are deliberately absent: fired reminders are re-derived on reload.
type PersistedState struct {
	Version          int      `json:"version"`
	Todos            []Todo   `json:"todos"`
	Filter           Filter   `json:"filter,omitempty"`
	SortBy           SortMode `json:"sort_by,omitempty"`
	SelectedCategory string   `json:"selected_category,omitempty"`
	Theme            Theme    `json:"theme,omitempty"`
}

// SchemaVersion is written into every persisted document.
const SchemaVersion = 1

// Saver is the storage port. Save must not block the calling mutation;
// write failures are reported on the saver's own error path. seq is a
// monotonically increasing mutation counter stamped under the store lock:
// a delayed delivery of an older snapshot carries a lower seq, and the
// saver must discard it rather than clobber a newer state.
type Saver interface {
	Save(seq uint64, p PersistedState)
}

// Store is the single source of truth for todos and view state.
type Store struct {
	mu    sync.Mutex
	state State
	seq   uint64

	saver    Saver
	now      func() time.Time
	newID    func() string
	onChange func()
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for created/fired timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc overrides the id generator.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New creates an empty store backed by the given saver. A nil saver is
// allowed (in-memory only).
func New(saver Saver, opts ...Option) *Store {
	s := &Store{
		saver: saver,
		now:   time.Now,
		newID: uuid.NewString,
		state: State{
			Filter: FilterAll,
			SortBy: SortByDate,
			Theme:  ThemeLight,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetOnChange registers a callback invoked after every effective mutation,
// outside the store lock. Used by the reminder scheduler and the UI.
func (s *Store) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Load seeds the store from a persisted document. Zero-valued view-state
// fields fall back to defaults. It does not write back to storage.
func (s *Store) Load(p PersistedState) {
	s.mu.Lock()
	s.state.Todos = make([]Todo, len(p.Todos))
	for i, t := range p.Todos {
		s.state.Todos[i] = t.Clone()
	}
	s.state.Filter = p.Filter
	if s.state.Filter == "" {
		s.state.Filter = FilterAll
	}
	s.state.SortBy = p.SortBy
	if s.state.SortBy == "" {
		s.state.SortBy = SortByDate
	}
	s.state.Theme = p.Theme
	if s.state.Theme == "" {
		s.state.Theme = ThemeLight
	}
	s.state.SelectedCategory = p.SelectedCategory
	s.state.ActiveReminders = nil
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Snapshot returns a deep copy of the current state for derived queries.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// mutate runs fn under the lock. When fn reports a change, the resulting
// snapshot is handed to the saver and the change callback fires, both
// outside the lock so callbacks may re-enter the store. The sequence is
// stamped while the lock is still held: two mutations racing to Save
// deliver snapshots the saver can order even when the calls arrive
// out of order.
func (s *Store) mutate(fn func(st *State) bool) {
	s.mu.Lock()
	changed := fn(&s.state)
	var snap PersistedState
	var seq uint64
	var notify func()
	if changed {
		s.seq++
		seq = s.seq
		snap = s.persistedLocked()
		notify = s.onChange
	}
	s.mu.Unlock()
	if !changed {
		return
	}
	if s.saver != nil {
		s.saver.Save(seq, snap)
	}
	if notify != nil {
		notify()
	}
}

func (s *Store) persistedLocked() PersistedState {
	todos := make([]Todo, len(s.state.Todos))
	for i, t := range s.state.Todos {
		todos[i] = t.Clone()
	}
	return PersistedState{
		Version:          SchemaVersion,
		Todos:            todos,
		Filter:           s.state.Filter,
		SortBy:           s.state.SortBy,
		SelectedCategory: s.state.SelectedCategory,
		Theme:            s.state.Theme,
	}
}

func (s *State) todoIndex(id string) int {
	for i := range s.Todos {
		if s.Todos[i].ID == id {
			return i
		}
	}
	return -1
}

// AddTodo appends a new todo and returns it. The store accepts any title;
// non-empty validation is the caller's concern.
func (s *Store) AddTodo(title, category string, priority Priority, dueDate *time.Time) Todo {
	if category == "" {
		category = DefaultCategory
	}
	if !ValidPriority(priority) {
		priority = PriorityMedium
	}
	var created Todo
	s.mutate(func(st *State) bool {
		todo := Todo{
			ID:        s.newID(),
			Title:     title,
			Category:  category,
			Priority:  priority,
			CreatedAt: s.now(),
		}
		if dueDate != nil {
			d := *dueDate
			todo.DueDate = &d
		}
		st.Todos = append(st.Todos, todo)
		created = todo.Clone()
		return true
	})
	return created
}

// DeleteTodo removes the todo with the given id. Missing ids are a no-op.
func (s *Store) DeleteTodo(id string) {
	s.mutate(func(st *State) bool {
		i := st.todoIndex(id)
		if i < 0 {
			return false
		}
		st.Todos = append(st.Todos[:i], st.Todos[i+1:]...)
		return true
	})
}

// UpdateTodo merges the non-nil fields of upd into the todo. Unspecified
// fields are left untouched; missing ids are a no-op.
func (s *Store) UpdateTodo(id string, upd TodoUpdate) {
	s.mutate(func(st *State) bool {
		i := st.todoIndex(id)
		if i < 0 {
			return false
		}
		t := &st.Todos[i]
		if upd.Title != nil {
			t.Title = *upd.Title
		}
		if upd.Completed != nil {
			t.Completed = *upd.Completed
		}
		if upd.Category != nil {
			t.Category = *upd.Category
		}
		if upd.Priority != nil {
			t.Priority = *upd.Priority
		}
		if upd.DueDate != nil {
			if *upd.DueDate == nil {
				t.DueDate = nil
			} else {
				d := **upd.DueDate
				t.DueDate = &d
			}
		}
		if upd.Description != nil {
			t.Description = *upd.Description
		}
		if upd.PomodoroMinutes != nil {
			t.PomodoroMinutes = *upd.PomodoroMinutes
		}
		return true
	})
}

// ToggleComplete flips the completed flag. Missing ids are a no-op.
func (s *Store) ToggleComplete(id string) {
	s.mutate(func(st *State) bool {
		i := st.todoIndex(id)
		if i < 0 {
			return false
		}
		st.Todos[i].Completed = !st.Todos[i].Completed
		return true
	})
}

// AddSubtask appends a subtask to the todo and returns it. The second return
// is false when the parent todo does not exist.
func (s *Store) AddSubtask(todoID, title string) (Subtask, bool) {
	var created Subtask
	var ok bool
	s.mutate(func(st *State) bool {
		i := st.todoIndex(todoID)
		if i < 0 {
			return false
		}
		sub := Subtask{
			ID:        s.newID(),
			Title:     title,
			CreatedAt: s.now(),
		}
		st.Todos[i].Subtasks = append(st.Todos[i].Subtasks, sub)
		created, ok = sub, true
		return true
	})
	return created, ok
}

// ToggleSubtask flips a subtask's completed flag. Missing parent or child
// ids are a no-op.
func (s *Store) ToggleSubtask(todoID, subtaskID string) {
	s.mutate(func(st *State) bool {
		i := st.todoIndex(todoID)
		if i < 0 {
			return false
		}
		subs := st.Todos[i].Subtasks
		for j := range subs {
			if subs[j].ID == subtaskID {
				subs[j].Completed = !subs[j].Completed
				return true
			}
		}
		return false
	})
}

// DeleteSubtask removes a subtask. Missing parent or child ids are a no-op.
func (s *Store) DeleteSubtask(todoID, subtaskID string) {
	s.mutate(func(st *State) bool {
		i := st.todoIndex(todoID)
		if i < 0 {
			return false
		}
		subs := st.Todos[i].Subtasks
		for j := range subs {
			if subs[j].ID == subtaskID {
				st.Todos[i].Subtasks = append(subs[:j], subs[j+1:]...)
				return true
			}
		}
		return false
	})
}

// AddTag appends a tag unless it is already present (case-sensitive exact
// match), so repeated calls are idempotent.
func (s *Store) AddTag(todoID, tag string) {
	s.mutate(func(st *State) bool {
		i := st.todoIndex(todoID)
		if i < 0 {
			return false
		}
		for _, existing := range st.Todos[i].Tags {
			if existing == tag {
				return false
			}
		}
		st.Todos[i].Tags = append(st.Todos[i].Tags, tag)
		return true
	})
}

// RemoveTag removes a tag if present.
func (s *Store) RemoveTag(todoID, tag string) {
	s.mutate(func(st *State) bool {
		i := st.todoIndex(todoID)
		if i < 0 {
			return false
		}
		tags := st.Todos[i].Tags
		for j, existing := range tags {
			if existing == tag {
				st.Todos[i].Tags = append(tags[:j], tags[j+1:]...)
				return true
			}
		}
		return false
	})
}

// UpdateDescription replaces the free-text description.
func (s *Store) UpdateDescription(id, text string) {
	s.mutate(func(st *State) bool {
		i := st.todoIndex(id)
		if i < 0 {
			return false
		}
		st.Todos[i].Description = text
		return true
	})
}

// SetReminder arms or clears (nil) the todo's reminder timestamp.
func (s *Store) SetReminder(id string, at *time.Time) {
	s.mutate(func(st *State) bool {
		i := st.todoIndex(id)
		if i < 0 {
			return false
		}
		if at == nil {
			st.Todos[i].Reminder = nil
		} else {
			t := *at
			st.Todos[i].Reminder = &t
		}
		return true
	})
}

// SetPomodoroMinutes replaces the accumulated work-timer minutes.
func (s *Store) SetPomodoroMinutes(id string, minutes int) {
	s.mutate(func(st *State) bool {
		i := st.todoIndex(id)
		if i < 0 {
			return false
		}
		st.Todos[i].PomodoroMinutes = minutes
		return true
	})
}

// ClearCompleted removes every completed todo.
func (s *Store) ClearCompleted() {
	s.mutate(func(st *State) bool {
		kept := st.Todos[:0]
		for _, t := range st.Todos {
			if !t.Completed {
				kept = append(kept, t)
			}
		}
		if len(kept) == len(st.Todos) {
			return false
		}
		st.Todos = kept
		return true
	})
}

// DeleteAll empties the todo collection.
func (s *Store) DeleteAll() {
	s.mutate(func(st *State) bool {
		if len(st.Todos) == 0 {
			return false
		}
		st.Todos = nil
		return true
	})
}

// ImportTodos appends the given todos. A todo whose id is empty or collides
// with an existing one gets a freshly generated id, preserving the
// uniqueness invariant. Returns the number of todos appended.
func (s *Store) ImportTodos(todos []Todo) int {
	if len(todos) == 0 {
		return 0
	}
	count := 0
	s.mutate(func(st *State) bool {
		seen := make(map[string]struct{}, len(st.Todos)+len(todos))
		for _, t := range st.Todos {
			seen[t.ID] = struct{}{}
		}
		for _, t := range todos {
			c := t.Clone()
			if _, dup := seen[c.ID]; dup || c.ID == "" {
				c.ID = s.newID()
			}
			if c.CreatedAt.IsZero() {
				c.CreatedAt = s.now()
			}
			if c.Category == "" {
				c.Category = DefaultCategory
			}
			if !ValidPriority(c.Priority) {
				c.Priority = PriorityMedium
			}
			seen[c.ID] = struct{}{}
			st.Todos = append(st.Todos, c)
			count++
		}
		return count > 0
	})
	return count
}

// ExportTodos returns a deep copy of the full todo collection, suitable for
// serialization as a standalone document.
func (s *Store) ExportTodos() []Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	todos := make([]Todo, len(s.state.Todos))
	for i, t := range s.state.Todos {
		todos[i] = t.Clone()
	}
	return todos
}

// TodoByID returns a copy of the todo with the given id.
func (s *Store) TodoByID(id string) (Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.state.todoIndex(id)
	if i < 0 {
		return Todo{}, false
	}
	return s.state.Todos[i].Clone(), true
}

// AddActiveReminder records a fired reminder for the todo. At most one
// undismissed entry exists per todo id; duplicates are a no-op.
func (s *Store) AddActiveReminder(todoID string) {
	s.mutate(func(st *State) bool {
		return st.addActiveReminder(todoID, s.now())
	})
}

func (st *State) addActiveReminder(todoID string, at time.Time) bool {
	for _, r := range st.ActiveReminders {
		if r.TodoID == todoID {
			return false
		}
	}
	st.ActiveReminders = append(st.ActiveReminders, ActiveReminder{TodoID: todoID, FireTime: at})
	return true
}

// RemoveActiveReminder dismisses the fired reminder for the todo, if any.
func (s *Store) RemoveActiveReminder(todoID string) {
	s.mutate(func(st *State) bool {
		for i, r := range st.ActiveReminders {
			if r.TodoID == todoID {
				st.ActiveReminders = append(st.ActiveReminders[:i], st.ActiveReminders[i+1:]...)
				return true
			}
		}
		return false
	})
}

// FireReminder transitions an armed reminder to fired: it verifies the todo
// still exists and its reminder still equals at, then clears the reminder
// and records an ActiveReminder. Returns false when the reminder was
// cleared or changed in the meantime, so a concurrent SetReminder(nil) is
// never lost to an in-flight fire.
func (s *Store) FireReminder(id string, at time.Time) bool {
	fired := false
	s.mutate(func(st *State) bool {
		i := st.todoIndex(id)
		if i < 0 {
			return false
		}
		r := st.Todos[i].Reminder
		if r == nil || !r.Equal(at) {
			return false
		}
		st.Todos[i].Reminder = nil
		st.addActiveReminder(id, s.now())
		fired = true
		return true
	})
	return fired
}

// View-state setters.

// SetFilter sets the status filter applied by derived views.
func (s *Store) SetFilter(f Filter) {
	s.mutate(func(st *State) bool {
		if st.Filter == f {
			return false
		}
		st.Filter = f
		return true
	})
}

// SetSortBy sets the sort mode applied by derived views.
func (s *Store) SetSortBy(m SortMode) {
	s.mutate(func(st *State) bool {
		if st.SortBy == m {
			return false
		}
		st.SortBy = m
		return true
	})
}

// SetSelectedCategory sets the category filter; empty clears it.
func (s *Store) SetSelectedCategory(category string) {
	s.mutate(func(st *State) bool {
		if st.SelectedCategory == category {
			return false
		}
		st.SelectedCategory = category
		return true
	})
}

// SetTheme sets the UI theme.
func (s *Store) SetTheme(t Theme) {
	s.mutate(func(st *State) bool {
		if st.Theme == t {
			return false
		}
		st.Theme = t
		return true
	})
}

// ToggleTheme switches between light and dark.
func (s *Store) ToggleTheme() {
	s.mutate(func(st *State) bool {
		if st.Theme == ThemeDark {
			st.Theme = ThemeLight
		} else {
			st.Theme = ThemeDark
		}
		return true
	})
}
