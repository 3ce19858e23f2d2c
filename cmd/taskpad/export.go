// Package main is the entry point for the taskpad application.
// This file contains the export subcommand handler.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"taskpad/internal/config"
	"taskpad/internal/fsutil"
	"taskpad/internal/storage"
)

// exportHelpText is the help message for the export subcommand.
const exportHelpText = `taskpad export - Export all todos as JSON

USAGE:
    taskpad export [OPTIONS]

OPTIONS:
    -o, --output FILE  Write to FILE instead of the default dated file
    --stdout           Write to standard output
    -h, --help         Show this help message

DESCRIPTION:
    Exports every todo (across all categories, completed or not) as a JSON
    array. By default the export is written to taskpad-export-YYYY-MM-DD.json
    in the current directory. The output can be re-imported with
    'taskpad import json'.

EXAMPLES:
    # Export to taskpad-export-2026-08-30.json
    taskpad export

    # Export to a specific file
    taskpad export -o todos.json

    # Pipe the export
    taskpad export --stdout | jq '.[].title'
`

// runExport handles the "taskpad export" subcommand.
func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	outputFlag := fs.String("output", "", "write to file")
	fs.StringVar(outputFlag, "o", "", "write to file (shorthand)")

	stdoutFlag := fs.Bool("stdout", false, "write to standard output")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, exportHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(exportHelpText)
		os.Exit(0)
	}

	// Load config and the state file
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

	state, err := fileStore.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	data, err := json.MarshalIndent(state.Todos, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding todos: %v\n", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if *stdoutFlag {
		os.Stdout.Write(data)
		return
	}

	path := *outputFlag
	if path == "" {
		path = fmt.Sprintf("taskpad-export-%s.json", time.Now().Format("2006-01-02"))
	}

	if err := fsutil.WriteFileAtomic(path, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing export: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Exported %d todos to %s\n", len(state.Todos), path)
}
