package store

import (
	"fmt"
	"testing"
	"time"
)

// recordingSaver captures every snapshot handed to Save.
type recordingSaver struct {
	seqs  []uint64
	saved []PersistedState
}

func (r *recordingSaver) Save(seq uint64, p PersistedState) {
	r.seqs = append(r.seqs, seq)
	r.saved = append(r.saved, p)
}

// newTestStore creates a store with a deterministic clock and id sequence.
func newTestStore(t *testing.T, saver Saver) *Store {
	t.Helper()
	seq := 0
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return New(saver,
		WithClock(func() time.Time { return base }),
		WithIDFunc(func() string {
			seq++
			return fmt.Sprintf("id-%03d", seq)
		}),
	)
}

func TestAddTodo(t *testing.T) {
	tests := []struct {
		name         string
		title        string
		category     string
		priority     Priority
		wantCategory string
		wantPriority Priority
	}{
		{
			name:         "defaults applied",
			title:        "Buy groceries",
			wantCategory: DefaultCategory,
			wantPriority: PriorityMedium,
		},
		{
			name:         "explicit category and priority",
			title:        "Write tests",
			category:     "work",
			priority:     PriorityHigh,
			wantCategory: "work",
			wantPriority: PriorityHigh,
		},
		{
			name:         "invalid priority falls back to medium",
			title:        "Odd one",
			priority:     Priority("urgent"),
			wantCategory: DefaultCategory,
			wantPriority: PriorityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestStore(t, nil)

			todo := st.AddTodo(tt.title, tt.category, tt.priority, nil)

			if todo.Title != tt.title {
				t.Errorf("todo.Title = %q, want %q", todo.Title, tt.title)
			}
			if todo.Category != tt.wantCategory {
				t.Errorf("todo.Category = %q, want %q", todo.Category, tt.wantCategory)
			}
			if todo.Priority != tt.wantPriority {
				t.Errorf("todo.Priority = %q, want %q", todo.Priority, tt.wantPriority)
			}
			if todo.Completed {
				t.Error("todo.Completed = true, want false")
			}
			if todo.ID == "" {
				t.Error("todo.ID is empty")
			}
			if todo.CreatedAt.IsZero() {
				t.Error("todo.CreatedAt is zero")
			}
		})
	}
}

func TestAddTodo_UniqueIDs(t *testing.T) {
	st := New(nil)

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		todo := st.AddTodo(fmt.Sprintf("todo %d", i), "", PriorityMedium, nil)
		if _, dup := seen[todo.ID]; dup {
			t.Fatalf("duplicate id %q after %d adds", todo.ID, i+1)
		}
		seen[todo.ID] = struct{}{}
	}
}

func TestAddTodo_CopiesDueDate(t *testing.T) {
	st := newTestStore(t, nil)

	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	todo := st.AddTodo("pay rent", "", PriorityMedium, &due)

	// Mutating the caller's value must not leak into the store.
	due = due.AddDate(1, 0, 0)

	got, ok := st.TodoByID(todo.ID)
	if !ok {
		t.Fatal("TodoByID() not found")
	}
	if got.DueDate == nil || !got.DueDate.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("DueDate = %v, want 2026-09-01", got.DueDate)
	}
}

func TestDeleteTodo(t *testing.T) {
	st := newTestStore(t, nil)

	a := st.AddTodo("first", "", PriorityMedium, nil)
	b := st.AddTodo("second", "", PriorityMedium, nil)

	st.DeleteTodo(a.ID)

	if _, ok := st.TodoByID(a.ID); ok {
		t.Error("deleted todo still present")
	}
	if _, ok := st.TodoByID(b.ID); !ok {
		t.Error("unrelated todo removed")
	}

	// Deleting a missing id is a no-op.
	st.DeleteTodo("nope")
	if got := len(st.Snapshot().Todos); got != 1 {
		t.Errorf("len(todos) = %d, want 1", got)
	}
}

func TestToggleComplete(t *testing.T) {
	st := newTestStore(t, nil)
	todo := st.AddTodo("toggle me", "", PriorityMedium, nil)

	st.ToggleComplete(todo.ID)
	got, _ := st.TodoByID(todo.ID)
	if !got.Completed {
		t.Error("Completed = false after first toggle, want true")
	}

	// Toggling twice restores the original flag.
	st.ToggleComplete(todo.ID)
	got, _ = st.TodoByID(todo.ID)
	if got.Completed {
		t.Error("Completed = true after second toggle, want false")
	}
}

func TestUpdateTodo(t *testing.T) {
	st := newTestStore(t, nil)
	todo := st.AddTodo("original", "home", PriorityLow, nil)

	newTitle := "renamed"
	newPriority := PriorityHigh
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	duePtr := &due
	st.UpdateTodo(todo.ID, TodoUpdate{
		Title:    &newTitle,
		Priority: &newPriority,
		DueDate:  &duePtr,
	})

	got, _ := st.TodoByID(todo.ID)
	if got.Title != "renamed" {
		t.Errorf("Title = %q, want %q", got.Title, "renamed")
	}
	if got.Priority != PriorityHigh {
		t.Errorf("Priority = %q, want %q", got.Priority, PriorityHigh)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("DueDate = %v, want %v", got.DueDate, due)
	}
	// Untouched fields survive.
	if got.Category != "home" {
		t.Errorf("Category = %q, want %q", got.Category, "home")
	}

	// A nil inner pointer clears the due date.
	var cleared *time.Time
	st.UpdateTodo(todo.ID, TodoUpdate{DueDate: &cleared})
	got, _ = st.TodoByID(todo.ID)
	if got.DueDate != nil {
		t.Errorf("DueDate = %v after clear, want nil", got.DueDate)
	}
}

func TestSubtasks(t *testing.T) {
	st := newTestStore(t, nil)
	todo := st.AddTodo("parent", "", PriorityMedium, nil)

	sub, ok := st.AddSubtask(todo.ID, "child")
	if !ok {
		t.Fatal("AddSubtask() ok = false")
	}
	if sub.Title != "child" || sub.ID == "" {
		t.Errorf("subtask = %+v, want titled with non-empty id", sub)
	}

	if _, ok := st.AddSubtask("missing", "x"); ok {
		t.Error("AddSubtask() ok = true for missing parent")
	}

	st.ToggleSubtask(todo.ID, sub.ID)
	got, _ := st.TodoByID(todo.ID)
	if len(got.Subtasks) != 1 || !got.Subtasks[0].Completed {
		t.Errorf("subtask not toggled: %+v", got.Subtasks)
	}

	st.DeleteSubtask(todo.ID, sub.ID)
	got, _ = st.TodoByID(todo.ID)
	if len(got.Subtasks) != 0 {
		t.Errorf("len(subtasks) = %d after delete, want 0", len(got.Subtasks))
	}
}

func TestAddTag_Idempotent(t *testing.T) {
	st := newTestStore(t, nil)
	todo := st.AddTodo("tagged", "", PriorityMedium, nil)

	st.AddTag(todo.ID, "errand")
	st.AddTag(todo.ID, "errand")
	st.AddTag(todo.ID, "urgent")

	got, _ := st.TodoByID(todo.ID)
	if len(got.Tags) != 2 {
		t.Fatalf("len(tags) = %d, want 2: %v", len(got.Tags), got.Tags)
	}
	if got.Tags[0] != "errand" || got.Tags[1] != "urgent" {
		t.Errorf("tags = %v, want [errand urgent]", got.Tags)
	}

	st.RemoveTag(todo.ID, "errand")
	got, _ = st.TodoByID(todo.ID)
	if len(got.Tags) != 1 || got.Tags[0] != "urgent" {
		t.Errorf("tags = %v after remove, want [urgent]", got.Tags)
	}
}

func TestClearCompleted(t *testing.T) {
	st := newTestStore(t, nil)

	a := st.AddTodo("done one", "", PriorityMedium, nil)
	st.AddTodo("still open", "", PriorityMedium, nil)
	c := st.AddTodo("done two", "", PriorityMedium, nil)
	st.ToggleComplete(a.ID)
	st.ToggleComplete(c.ID)

	st.ClearCompleted()

	snap := st.Snapshot()
	if len(snap.Todos) != 1 {
		t.Fatalf("len(todos) = %d, want 1", len(snap.Todos))
	}
	if snap.Todos[0].Title != "still open" {
		t.Errorf("surviving todo = %q, want %q", snap.Todos[0].Title, "still open")
	}
}

func TestDeleteAll(t *testing.T) {
	st := newTestStore(t, nil)
	st.AddTodo("a", "", PriorityMedium, nil)
	st.AddTodo("b", "", PriorityMedium, nil)

	st.DeleteAll()

	if got := len(st.Snapshot().Todos); got != 0 {
		t.Errorf("len(todos) = %d, want 0", got)
	}
}

func TestImportTodos(t *testing.T) {
	st := newTestStore(t, nil)
	existing := st.AddTodo("existing", "", PriorityMedium, nil)

	imported := []Todo{
		{ID: existing.ID, Title: "collides"},
		{ID: "fresh-id", Title: "keeps id", Category: "work", Priority: PriorityHigh},
		{Title: "no id at all"},
	}

	count := st.ImportTodos(imported)
	if count != 3 {
		t.Fatalf("ImportTodos() = %d, want 3", count)
	}

	snap := st.Snapshot()
	if len(snap.Todos) != 4 {
		t.Fatalf("len(todos) = %d, want 4", len(snap.Todos))
	}

	seen := make(map[string]struct{})
	for _, todo := range snap.Todos {
		if todo.ID == "" {
			t.Errorf("todo %q has empty id", todo.Title)
		}
		if _, dup := seen[todo.ID]; dup {
			t.Errorf("duplicate id %q after import", todo.ID)
		}
		seen[todo.ID] = struct{}{}
		if todo.CreatedAt.IsZero() {
			t.Errorf("todo %q has zero CreatedAt", todo.Title)
		}
	}

	if _, ok := seen["fresh-id"]; !ok {
		t.Error("non-colliding imported id was not preserved")
	}

	// The collider must not overwrite the existing todo.
	orig, _ := st.TodoByID(existing.ID)
	if orig.Title != "existing" {
		t.Errorf("existing todo title = %q, want %q", orig.Title, "existing")
	}
}

func TestSetReminderAndFire(t *testing.T) {
	st := newTestStore(t, nil)
	todo := st.AddTodo("remind me", "", PriorityMedium, nil)

	at := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	st.SetReminder(todo.ID, &at)

	got, _ := st.TodoByID(todo.ID)
	if got.Reminder == nil || !got.Reminder.Equal(at) {
		t.Fatalf("Reminder = %v, want %v", got.Reminder, at)
	}

	if !st.FireReminder(todo.ID, at) {
		t.Fatal("FireReminder() = false, want true")
	}

	got, _ = st.TodoByID(todo.ID)
	if got.Reminder != nil {
		t.Error("Reminder not cleared after fire")
	}

	snap := st.Snapshot()
	if len(snap.ActiveReminders) != 1 || snap.ActiveReminders[0].TodoID != todo.ID {
		t.Fatalf("ActiveReminders = %+v, want one entry for %s", snap.ActiveReminders, todo.ID)
	}

	// A second fire against the same timestamp is stale.
	if st.FireReminder(todo.ID, at) {
		t.Error("FireReminder() = true on already-fired reminder")
	}
}

func TestFireReminder_StaleAfterClear(t *testing.T) {
	st := newTestStore(t, nil)
	todo := st.AddTodo("changed my mind", "", PriorityMedium, nil)

	at := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	st.SetReminder(todo.ID, &at)
	st.SetReminder(todo.ID, nil)

	if st.FireReminder(todo.ID, at) {
		t.Error("FireReminder() = true after the reminder was cleared")
	}
	if got := len(st.Snapshot().ActiveReminders); got != 0 {
		t.Errorf("len(ActiveReminders) = %d, want 0", got)
	}
}

func TestFireReminder_StaleAfterReschedule(t *testing.T) {
	st := newTestStore(t, nil)
	todo := st.AddTodo("moved", "", PriorityMedium, nil)

	at := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	later := at.Add(time.Hour)
	st.SetReminder(todo.ID, &at)
	st.SetReminder(todo.ID, &later)

	if st.FireReminder(todo.ID, at) {
		t.Error("FireReminder() = true against a rescheduled reminder")
	}
	got, _ := st.TodoByID(todo.ID)
	if got.Reminder == nil || !got.Reminder.Equal(later) {
		t.Errorf("Reminder = %v, want %v", got.Reminder, later)
	}
}

func TestActiveReminders_Dedupe(t *testing.T) {
	st := newTestStore(t, nil)
	todo := st.AddTodo("once", "", PriorityMedium, nil)

	st.AddActiveReminder(todo.ID)
	st.AddActiveReminder(todo.ID)

	if got := len(st.Snapshot().ActiveReminders); got != 1 {
		t.Fatalf("len(ActiveReminders) = %d, want 1", got)
	}

	st.RemoveActiveReminder(todo.ID)
	if got := len(st.Snapshot().ActiveReminders); got != 0 {
		t.Errorf("len(ActiveReminders) = %d after dismiss, want 0", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	st := newTestStore(t, nil)

	st.Load(PersistedState{
		Todos: []Todo{{ID: "x", Title: "loaded"}},
	})

	snap := st.Snapshot()
	if snap.Filter != FilterAll {
		t.Errorf("Filter = %q, want %q", snap.Filter, FilterAll)
	}
	if snap.SortBy != SortByDate {
		t.Errorf("SortBy = %q, want %q", snap.SortBy, SortByDate)
	}
	if snap.Theme != ThemeLight {
		t.Errorf("Theme = %q, want %q", snap.Theme, ThemeLight)
	}
	if len(snap.Todos) != 1 || snap.Todos[0].Title != "loaded" {
		t.Errorf("Todos = %+v, want the loaded todo", snap.Todos)
	}
	if len(snap.ActiveReminders) != 0 {
		t.Errorf("ActiveReminders = %+v, want empty after load", snap.ActiveReminders)
	}
}

func TestMutationsReachSaver(t *testing.T) {
	saver := &recordingSaver{}
	st := newTestStore(t, saver)

	todo := st.AddTodo("persist me", "", PriorityMedium, nil)
	st.ToggleComplete(todo.ID)

	if len(saver.saved) != 2 {
		t.Fatalf("saves = %d, want 2", len(saver.saved))
	}
	// Sequences order snapshots so a saver can detect a late delivery of an
	// older one; they must be strictly increasing per mutation.
	for i := 1; i < len(saver.seqs); i++ {
		if saver.seqs[i] <= saver.seqs[i-1] {
			t.Errorf("seqs = %v, want strictly increasing", saver.seqs)
		}
	}

	last := saver.saved[len(saver.saved)-1]
	if last.Version != SchemaVersion {
		t.Errorf("Version = %d, want %d", last.Version, SchemaVersion)
	}
	if len(last.Todos) != 1 || !last.Todos[0].Completed {
		t.Errorf("persisted todos = %+v, want one completed todo", last.Todos)
	}

	// Ineffective mutations must not save.
	st.DeleteTodo("missing")
	st.SetFilter(FilterAll) // already the current filter
	if len(saver.saved) != 2 {
		t.Errorf("saves = %d after no-ops, want 2", len(saver.saved))
	}
}

func TestOnChange_RunsOutsideLock(t *testing.T) {
	st := newTestStore(t, nil)

	var sawLen int
	st.SetOnChange(func() {
		// Re-entering the store from the callback must not deadlock.
		sawLen = len(st.Snapshot().Todos)
	})

	st.AddTodo("observe", "", PriorityMedium, nil)
	if sawLen != 1 {
		t.Errorf("callback saw %d todos, want 1", sawLen)
	}
}

func TestViewStateSetters(t *testing.T) {
	st := newTestStore(t, nil)

	st.SetFilter(FilterCompleted)
	st.SetSortBy(SortByPriority)
	st.SetSelectedCategory("work")
	st.SetTheme(ThemeDark)

	snap := st.Snapshot()
	if snap.Filter != FilterCompleted || snap.SortBy != SortByPriority {
		t.Errorf("filter/sort = %q/%q, want completed/priority", snap.Filter, snap.SortBy)
	}
	if snap.SelectedCategory != "work" {
		t.Errorf("SelectedCategory = %q, want %q", snap.SelectedCategory, "work")
	}
	if snap.Theme != ThemeDark {
		t.Errorf("Theme = %q, want %q", snap.Theme, ThemeDark)
	}

	st.ToggleTheme()
	if got := st.Snapshot().Theme; got != ThemeLight {
		t.Errorf("Theme = %q after toggle, want %q", got, ThemeLight)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	st := newTestStore(t, nil)
	todo := st.AddTodo("isolated", "", PriorityMedium, nil)
	st.AddSubtask(todo.ID, "sub")

	snap := st.Snapshot()
	snap.Todos[0].Title = "mutated"
	snap.Todos[0].Subtasks[0].Completed = true

	got, _ := st.TodoByID(todo.ID)
	if got.Title != "isolated" {
		t.Error("snapshot mutation leaked into store title")
	}
	if got.Subtasks[0].Completed {
		t.Error("snapshot mutation leaked into store subtasks")
	}
}
