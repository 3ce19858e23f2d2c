// Package importer provides import functionality for taskpad.
// This file implements JSON import: either a bare todo array (the export
// format) or a full state document.
package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"taskpad/internal/store"
)

// JSONImporter handles importing from taskpad JSON exports.
type JSONImporter struct{}

// Name returns the importer name.
func (j *JSONImporter) Name() string {
	return "json"
}

// Import reads todos from JSON and appends them to the store.
func (j *JSONImporter) Import(reader io.Reader, st *store.Store) (*ImportResult, error) {
	todos, err := j.parse(reader)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	keep := todos[:0]
	for _, t := range todos {
		if strings.TrimSpace(t.Title) == "" {
			result.Skipped++
			continue
		}
		keep = append(keep, t)
	}
	result.Imported = st.ImportTodos(keep)
	return result, nil
}

// Preview returns the todos that would be imported.
func (j *JSONImporter) Preview(reader io.Reader) ([]store.Todo, error) {
	return j.parse(reader)
}

// parse accepts either a bare array of todos or a wrapped state document
// with a "todos" field.
func (j *JSONImporter) parse(reader io.Reader) ([]store.Todo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("empty input")
	}

	if strings.HasPrefix(trimmed, "[") {
		var todos []store.Todo
		if err := json.Unmarshal(data, &todos); err != nil {
			return nil, fmt.Errorf("failed to parse todo array: %w", err)
		}
		return todos, nil
	}

	var doc struct {
		Todos []store.Todo `json:"todos"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.Todos == nil {
		return nil, fmt.Errorf("document has no todos field")
	}
	return doc.Todos, nil
}
