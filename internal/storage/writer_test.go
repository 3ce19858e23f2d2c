package storage

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"taskpad/internal/store"
)

func snapshotWithTitle(title string) store.PersistedState {
	return store.PersistedState{
		Version: store.SchemaVersion,
		Todos:   []store.Todo{{ID: "a", Title: title}},
	}
}

func TestWriter_FlushesOnClose(t *testing.T) {
	fs := createTestStore(t)
	w := NewWriter(fs, nil)

	w.Save(1, snapshotWithTitle("flushed"))
	w.Close()

	state, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(state.Todos) != 1 || state.Todos[0].Title != "flushed" {
		t.Errorf("todos = %+v, want the flushed snapshot", state.Todos)
	}
}

func TestWriter_LastWriteWins(t *testing.T) {
	fs := createTestStore(t)
	w := NewWriter(fs, nil)

	// A burst of saves converges to the newest snapshot.
	for i := 0; i < 100; i++ {
		w.Save(uint64(i+1), snapshotWithTitle("stale"))
	}
	w.Save(101, snapshotWithTitle("latest"))
	w.Close()

	state, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if state.Todos[0].Title != "latest" {
		t.Errorf("persisted title = %q, want %q", state.Todos[0].Title, "latest")
	}
}

func TestWriter_DiscardsStaleSequence(t *testing.T) {
	fs := createTestStore(t)
	w := NewWriter(fs, nil)

	// Two mutations save out of order: the earlier snapshot (lower seq) is
	// delivered after the later one, modeling a goroutine preempted between
	// stamping its sequence and calling Save. The stale snapshot must not
	// reach disk.
	w.Save(2, snapshotWithTitle("second"))
	w.Save(1, snapshotWithTitle("first"))
	w.Close()

	state, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if state.Todos[0].Title != "second" {
		t.Errorf("persisted title = %q, want %q (stale snapshot clobbered the newer state)",
			state.Todos[0].Title, "second")
	}
}

func TestWriter_DelayedStoreSaveDoesNotClobber(t *testing.T) {
	fs := createTestStore(t)
	w := NewWriter(fs, nil)

	// Drive the writer through a real store, replaying the saver calls in
	// reverse delivery order: the first mutation's Save is held until after
	// the second mutation's Save has landed.
	rec := &replaySaver{}
	st := store.New(rec)
	st.AddTodo("first", "", store.PriorityMedium, nil)
	st.AddTodo("second", "", store.PriorityMedium, nil)

	if len(rec.calls) != 2 {
		t.Fatalf("saver calls = %d, want 2", len(rec.calls))
	}
	w.Save(rec.calls[1].seq, rec.calls[1].state)
	w.Save(rec.calls[0].seq, rec.calls[0].state)
	w.Close()

	state, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(state.Todos) != 2 {
		t.Fatalf("persisted todos = %d, want both todos to survive the delayed save", len(state.Todos))
	}
	if state.Todos[0].Title != "first" || state.Todos[1].Title != "second" {
		t.Errorf("persisted titles = [%q %q], want [first second]",
			state.Todos[0].Title, state.Todos[1].Title)
	}
}

// replaySaver records saver calls so a test can re-deliver them in any order.
type replaySaver struct {
	calls []struct {
		seq   uint64
		state store.PersistedState
	}
}

func (r *replaySaver) Save(seq uint64, p store.PersistedState) {
	r.calls = append(r.calls, struct {
		seq   uint64
		state store.PersistedState
	}{seq, p})
}

func TestWriter_ConcurrentSaves(t *testing.T) {
	fs := createTestStore(t)
	w := NewWriter(fs, nil)

	var seq atomic.Uint64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				w.Save(seq.Add(1), snapshotWithTitle("racer"))
			}
		}()
	}
	wg.Wait()
	w.Close()

	state, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(state.Todos) != 1 || state.Todos[0].Title != "racer" {
		t.Errorf("todos = %+v, want a single racer todo", state.Todos)
	}
}

func TestWriter_ReportsErrorOncePerStreak(t *testing.T) {
	dir := t.TempDir()
	fs, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var mu sync.Mutex
	var errors []string
	w := NewWriter(fs, func(err error) {
		mu.Lock()
		errors = append(errors, err.Error())
		mu.Unlock()
	})

	// Replace the state file with a directory so every write fails.
	os.Remove(fs.Path())
	os.Remove(fs.Path() + ".bak")
	if err := os.Mkdir(fs.Path(), 0700); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	w.Save(1, snapshotWithTitle("doomed"))
	w.Save(2, snapshotWithTitle("also doomed"))
	w.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(errors) != 1 {
		t.Fatalf("error reports = %d, want 1 per streak: %v", len(errors), errors)
	}
	if !strings.Contains(errors[0], StateFile) {
		t.Errorf("error = %q, want mention of %s", errors[0], StateFile)
	}
}

func TestWriter_RecoversAfterFailure(t *testing.T) {
	dir := t.TempDir()
	fs, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	failed := make(chan struct{}, 1)
	w := NewWriter(fs, func(error) {
		failed <- struct{}{}
	})

	// Break writes, then heal the directory.
	os.Remove(fs.Path())
	os.Remove(fs.Path() + ".bak")
	if err := os.Mkdir(fs.Path(), 0700); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}
	w.Save(1, snapshotWithTitle("fails"))

	// Wait for the failing flush to land before healing.
	<-failed

	if err := os.Remove(fs.Path()); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	w.Save(2, snapshotWithTitle("heals"))
	w.Close()

	state, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if state.Todos[0].Title != "heals" {
		t.Errorf("persisted title = %q, want %q", state.Todos[0].Title, "heals")
	}

	if _, err := os.Stat(filepath.Join(dir, StateFile)); err != nil {
		t.Errorf("state file missing after recovery: %v", err)
	}
}
