// Package backup provides backup and restore functionality for the taskpad
// state document. Backups are timestamped directories holding a copy of the
// document plus a manifest.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"taskpad/internal/fsutil"
	"taskpad/internal/storage"
	"taskpad/internal/store"
)

// Version constants for the backup format.
const (
	ManifestVersion = "1.0"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"
)

const backupPerm os.FileMode = 0600

// Manager handles backup and restore operations over a data directory.
type Manager struct {
	dataDir    string
	backupDir  string
	appVersion string
}

// Manifest contains metadata about a backup.
type Manifest struct {
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	AppVersion string    `json:"app_version"`
	TodoCount  int       `json:"todo_count"`
}

// Info summarizes a backup for listings.
type Info struct {
	Name      string
	Path      string
	CreatedAt time.Time
	TodoCount int
}

// NewManager creates a backup manager for the given data directory.
func NewManager(dataDir, appVersion string) *Manager {
	return &Manager{
		dataDir:    dataDir,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
	}
}

// Create copies the state document into a new timestamped backup directory
// and returns the backup name.
func (m *Manager) Create() (string, error) {
	src := filepath.Join(m.dataDir, storage.StateFile)
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read state document: %w", err)
	}

	var doc store.PersistedState
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("state document is not valid JSON: %w", err)
	}

	now := time.Now()
	name := fmt.Sprintf("%s_%03d", now.Format("2006-01-02_150405"), now.Nanosecond()/1e6)
	dir := filepath.Join(m.backupDir, name)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	if err := fsutil.WriteFileAtomic(filepath.Join(dir, storage.StateFile), data, backupPerm); err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("failed to copy state document: %w", err)
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
		TodoCount:  len(doc.Todos),
	}
	raw, err := json.MarshalIndent(manifest, "", "  ")
	if err == nil {
		err = fsutil.WriteFileAtomic(filepath.Join(dir, ManifestFile), raw, backupPerm)
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return name, nil
}

// List returns available backups, newest first.
func (m *Manager) List() ([]Info, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []Info{}, nil
	}
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info := Info{
			Name: entry.Name(),
			Path: filepath.Join(m.backupDir, entry.Name()),
		}
		var manifest Manifest
		if raw, err := os.ReadFile(filepath.Join(info.Path, ManifestFile)); err == nil && json.Unmarshal(raw, &manifest) == nil {
			info.CreatedAt = manifest.CreatedAt
			info.TodoCount = manifest.TodoCount
		} else {
			createdAt, parseErr := parseBackupName(entry.Name())
			if parseErr != nil {
				continue // not one of ours
			}
			info.CreatedAt = createdAt
		}
		backups = append(backups, info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Restore copies the state document from the named backup into the data
// directory. A safety backup of the current state is created first.
func (m *Manager) Restore(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}

	src := filepath.Join(m.backupDir, name, storage.StateFile)
	data, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("backup not found: %s", name)
		}
		return fmt.Errorf("failed to read backup: %w", err)
	}
	var doc store.PersistedState
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("backup %s is not valid JSON: %w", name, err)
	}

	safety, err := m.Create()
	if err != nil {
		return fmt.Errorf("failed to create safety backup: %w", err)
	}

	dst := filepath.Join(m.dataDir, storage.StateFile)
	if err := fsutil.WriteFileAtomic(dst, data, backupPerm); err != nil {
		return fmt.Errorf("failed to restore state document (safety backup: %s): %w", safety, err)
	}
	return nil
}

// RestoreLatest restores from the most recent backup.
func (m *Manager) RestoreLatest() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups available")
	}
	return m.Restore(backups[0].Name)
}

// Delete removes a specific backup.
func (m *Manager) Delete(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}
	path := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}
	return os.RemoveAll(path)
}

// Prune removes old backups, keeping only the keepCount most recent.
func (m *Manager) Prune(keepCount int) (int, error) {
	if keepCount < 0 {
		return 0, fmt.Errorf("keepCount must be non-negative")
	}
	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, b := range backups[min(keepCount, len(backups)):] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// validateBackupName rejects names that could escape the backups directory.
func validateBackupName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid backup name: %s", name)
	}
	return nil
}

// parseBackupName extracts the timestamp from a backup directory name like
// 2025-12-15_143022_123.
func parseBackupName(name string) (time.Time, error) {
	base := name
	if i := strings.LastIndex(name, "_"); i > len("2006-01-02") {
		base = name[:i]
	}
	return time.ParseInLocation("2006-01-02_150405", base, time.Local)
}
