// Package importer provides import functionality for bringing todo
// collections into the store from exported documents.
package importer

import (
	"io"

	"taskpad/internal/store"
)

// ImportResult contains statistics about an import operation.
type ImportResult struct {
	Imported int      // Number of successfully imported todos
	Skipped  int      // Number of skipped records (blank titles, etc.)
	Errors   []string // Error messages for failed records
}

// Importer defines the interface for import implementations.
type Importer interface {
	// Import reads todos from the reader and appends them to the store.
	// Ids colliding with existing todos are regenerated by the store.
	Import(reader io.Reader, st *store.Store) (*ImportResult, error)

	// Preview reads todos from the reader without importing.
	Preview(reader io.Reader) ([]store.Todo, error)

	// Name returns the importer name (e.g., "json", "csv").
	Name() string
}

// ForFormat returns the importer for the given format, or nil for an
// unknown one.
func ForFormat(format string) Importer {
	switch format {
	case "json":
		return &JSONImporter{}
	case "csv":
		return &CSVImporter{}
	default:
		return nil
	}
}

// SupportedFormats returns the list of supported import formats.
func SupportedFormats() []string {
	return []string{"json", "csv"}
}
