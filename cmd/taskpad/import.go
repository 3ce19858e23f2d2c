// Package main is the entry point for the taskpad application.
// This file contains the import subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"taskpad/internal/config"
	"taskpad/internal/importer"
	"taskpad/internal/storage"
	"taskpad/internal/store"
)

// importHelpText is the help message for the import subcommand.
const importHelpText = `taskpad import - Import todos from other sources

USAGE:
    taskpad import [OPTIONS] <format> <file>

FORMATS:
    json    A JSON array of todos, or a document with a "todos" array
            (taskpad exports are in this format)
    csv     A CSV file with a header row; recognized columns are
            title, category, priority, due_date, completed, description

OPTIONS:
    --dry-run      Preview the import without making changes
    -h, --help     Show this help message

DESCRIPTION:
    Reads todos from the given file and appends them to your collection.
    Records without a title are skipped. Imported todos keep their ids
    unless an id collides with an existing todo, in which case a fresh
    id is generated.

EXAMPLES:
    # Import a previous taskpad export
    taskpad import json taskpad-export-2026-08-30.json

    # Import from a spreadsheet export
    taskpad import csv todos.csv

    # Preview before importing
    taskpad import --dry-run csv todos.csv
`

// runImport handles the "taskpad import" subcommand.
func runImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	dryRunFlag := fs.Bool("dry-run", false, "preview import without making changes")
	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, importHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(importHelpText)
		os.Exit(0)
	}

	// Need at least format and file
	if fs.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "Error: missing arguments\n\n")
		fmt.Fprintf(os.Stderr, "Usage: taskpad import <format> <file>\n")
		fmt.Fprintf(os.Stderr, "Formats: %s\n", strings.Join(importer.SupportedFormats(), ", "))
		fmt.Fprintf(os.Stderr, "\nRun 'taskpad import --help' for more information.\n")
		os.Exit(1)
	}

	format := strings.ToLower(fs.Arg(0))
	filePath := fs.Arg(1)

	imp := importer.ForFormat(format)
	if imp == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", format)
		fmt.Fprintf(os.Stderr, "Supported formats: %s\n", strings.Join(importer.SupportedFormats(), ", "))
		os.Exit(1)
	}

	file, err := os.Open(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	if *dryRunFlag {
		runImportDryRun(imp, file)
	} else {
		runImportActual(imp, file)
	}
}

// runImportDryRun previews the import without making changes.
func runImportDryRun(imp importer.Importer, file *os.File) {
	todos, err := imp.Preview(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing file: %v\n", err)
		os.Exit(1)
	}

	if len(todos) == 0 {
		fmt.Println("No todos found to import.")
		os.Exit(0)
	}

	fmt.Printf("Preview: %d todos to import\n", len(todos))
	fmt.Println("────────────────────────────")

	// Show first 20 todos
	showCount := len(todos)
	if showCount > 20 {
		showCount = 20
	}

	for i := 0; i < showCount; i++ {
		todo := todos[i]
		fmt.Printf("  %s", todo.Title)

		var details []string
		if todo.Category != "" {
			details = append(details, "#"+todo.Category)
		}
		if todo.Priority != "" {
			details = append(details, string(todo.Priority))
		}
		if todo.DueDate != nil {
			details = append(details, "due "+todo.DueDate.Format("2006-01-02"))
		}
		if todo.Completed {
			details = append(details, "done")
		}
		if len(details) > 0 {
			fmt.Printf("  (%s)", strings.Join(details, ", "))
		}
		fmt.Println()
	}

	if len(todos) > showCount {
		fmt.Printf("  ... and %d more\n", len(todos)-showCount)
	}

	fmt.Println()
	fmt.Println("Run without --dry-run to import.")
}

// runImportActual performs the import and persists the result.
func runImportActual(imp importer.Importer, file *os.File) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	fileStore, err := storage.New(cfg.GetDataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	persisted, err := fileStore.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	writer := storage.NewWriter(fileStore, func(err error) {
		fmt.Fprintf(os.Stderr, "Error saving state: %v\n", err)
	})

	st := store.New(writer)
	st.Load(persisted)

	result, err := imp.Import(file, st)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		os.Exit(1)
	}

	// Flush the pending write before reporting
	writer.Close()

	fmt.Printf("✓ Imported %d todos\n", result.Imported)
	if result.Skipped > 0 {
		fmt.Printf("  Skipped: %d\n", result.Skipped)
	}
	for _, msg := range result.Errors {
		fmt.Printf("  Warning: %s\n", msg)
	}
}
