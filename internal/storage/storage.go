// Package storage persists the application state as a single human-readable
// JSON document, with atomic writes, a best-effort .bak, and recovery from
// corrupt or empty files.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"taskpad/internal/fsutil"
	"taskpad/internal/store"
)

// StateFile is the name of the state document inside the data directory.
const StateFile = "state.json"

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600
)

// FileStore reads and writes the state document in a data directory.
type FileStore struct {
	dataDir string
}

// New creates a FileStore rooted at dataDir, creating the directory and an
// empty state document if needed.
func New(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	fs := &FileStore{dataDir: dataDir}
	if _, err := os.Stat(fs.Path()); os.IsNotExist(err) {
		if err := fs.Write(store.PersistedState{Version: store.SchemaVersion, Todos: []store.Todo{}}); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

// DataDir returns the data directory path.
func (f *FileStore) DataDir() string {
	return f.dataDir
}

// Path returns the full path of the state document.
func (f *FileStore) Path() string {
	return filepath.Join(f.dataDir, StateFile)
}

// Load reads the state document. Unknown fields are ignored so newer
// documents load in older builds. A corrupt or empty file is recovered from
// the .bak when possible, otherwise quarantined and reset; in both cases
// Load returns usable state alongside a descriptive error.
func (f *FileStore) Load() (store.PersistedState, error) {
	state := store.PersistedState{Version: store.SchemaVersion, Todos: []store.Todo{}}
	path := f.Path()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, f.Write(state)
		}
		return state, fmt.Errorf("read %s: %w", StateFile, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return state, f.recover(&state, fmt.Errorf("%s is empty", StateFile))
	}
	if err := json.Unmarshal(data, &state); err != nil {
		state = store.PersistedState{Version: store.SchemaVersion, Todos: []store.Todo{}}
		return state, f.recover(&state, fmt.Errorf("parse %s: %w", StateFile, err))
	}
	return state, nil
}

// Write replaces the state document on disk, keeping a .bak of the previous
// contents.
func (f *FileStore) Write(p store.PersistedState) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", StateFile, err)
	}
	fsutil.BestEffortBackup(f.Path(), dataFilePerm)
	if err := fsutil.WriteFileAtomic(f.Path(), data, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", StateFile, err)
	}
	return nil
}

func (f *FileStore) recover(state *store.PersistedState, cause error) error {
	path := f.Path()

	// Try the backup first.
	if bak, err := os.ReadFile(path + ".bak"); err == nil && len(bytes.TrimSpace(bak)) > 0 {
		if err := json.Unmarshal(bak, state); err == nil {
			f.quarantine(path)
			_ = f.Write(*state)
			return fmt.Errorf("%s (recovered from %s.bak)", cause.Error(), StateFile)
		}
	}

	// No usable backup: preserve the broken file and reset.
	corrupt := f.quarantine(path)
	*state = store.PersistedState{Version: store.SchemaVersion, Todos: []store.Todo{}}
	_ = f.Write(*state)
	return fmt.Errorf("%s (reset to defaults; original moved to %s)", cause.Error(), corrupt)
}

func (f *FileStore) quarantine(path string) string {
	corrupt := fmt.Sprintf("%s.corrupt.%s", path, time.Now().Format("20060102-150405"))
	_ = os.Rename(path, corrupt)
	return corrupt
}
