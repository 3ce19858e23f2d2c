// Package importer provides import functionality for taskpad.
// This file implements CSV import with a header row. Recognized columns:
// title, category, priority, due_date (YYYY-MM-DD), completed, description.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"taskpad/internal/store"
)

// CSVImporter handles importing from CSV exports of other todo tools.
type CSVImporter struct{}

// Name returns the importer name.
func (c *CSVImporter) Name() string {
	return "csv"
}

// Import reads todos from CSV and appends them to the store.
func (c *CSVImporter) Import(reader io.Reader, st *store.Store) (*ImportResult, error) {
	todos, err := c.parse(reader)
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
func (c *CSVImporter) Preview(reader io.Reader) ([]store.Todo, error) {
	return c.parse(reader)
}

func (c *CSVImporter) parse(reader io.Reader) ([]store.Todo, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["title"]; !ok {
		return nil, fmt.Errorf("CSV header has no title column")
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var todos []store.Todo
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		todo := store.Todo{
			Title:       field(record, "title"),
			Category:    field(record, "category"),
			Description: field(record, "description"),
		}
		if p := store.Priority(strings.ToLower(field(record, "priority"))); store.ValidPriority(p) {
			todo.Priority = p
		}
		if due := field(record, "due_date"); due != "" {
			if d, err := time.ParseInLocation("2006-01-02", due, time.Local); err == nil {
				todo.DueDate = &d
			}
		}
		switch strings.ToLower(field(record, "completed")) {
		case "true", "yes", "1", "done":
			todo.Completed = true
		}
		todos = append(todos, todo)
	}
	return todos, nil
}
