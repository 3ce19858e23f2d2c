// Package main is the entry point for the taskpad application.
// It loads configuration, initializes storage, and starts the TUI.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskpad/internal/config"
	"taskpad/internal/notify"
	"taskpad/internal/reminder"
	"taskpad/internal/storage"
	"taskpad/internal/store"
	"taskpad/internal/ui"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const helpText = `taskpad - A keyboard-driven todo manager for your terminal

USAGE:
    taskpad [OPTIONS]
    taskpad <command> [ARGS]

COMMANDS:
    export           Export all todos as JSON
    import           Import todos from a JSON or CSV file
    backup           Create a backup of your data
    backup --list    List available backups
    restore NAME     Restore from a specific backup
    restore --latest Restore from the most recent backup

OPTIONS:
    -h, --help       Show this help message
    -v, --version    Show version information

DESCRIPTION:
    taskpad is a terminal todo manager with categories, priorities, due
    dates, subtasks, tags, and reminders. All data lives in a single plain
    JSON file on your machine.

KEYBINDINGS:
    j/k, ↓/↑     Navigate
    a            Add todo (supports #category !priority ^YYYY-MM-DD)
    d/Space      Toggle done
    x            Delete todo
    Enter        Open detail view
    f / o / c    Cycle filter / sort / category
    r            Set reminder (YYYY-MM-DD HH:MM)
    C            Clear completed
    m            Toggle light/dark theme
    ?            Show all keybindings
    q            Quit

DATA STORAGE:
    All data is stored in ~/.taskpad/state.json as plain JSON.

CONFIGURATION:
    Optional config file: ~/.config/taskpad/config.yaml

EXAMPLES:
    # Start the app
    taskpad

    # Export todos to a dated JSON file
    taskpad export

    # Import a previous export
    taskpad import json taskpad-export-2026-08-30.json

    # Create a backup, then list backups
    taskpad backup
    taskpad backup --list

    # Show version
    taskpad --version
`

func main() {
	// Check for subcommands first (before flag parsing)
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "export":
			runExport(os.Args[2:])
			return
		case "import":
			runImport(os.Args[2:])
			return
		case "backup":
			runBackup(os.Args[2:])
			return
		case "restore":
			runRestore(os.Args[2:])
			return
		}
	}

	// Define flags
	showVersion := flag.Bool("version", false, "show version information")
	flag.BoolVar(showVersion, "v", false, "show version information (shorthand)")

	showHelp := flag.Bool("help", false, "show help message")
	flag.BoolVar(showHelp, "h", false, "show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpText)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("taskpad version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	if *showHelp {
		fmt.Print(helpText)
		os.Exit(0)
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown arguments: %v\n\n", flag.Args())
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration (from ~/.config/taskpad/config.yaml or defaults)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Initialize the state file
	fs, err := storage.New(cfg.GetDataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	persisted, err := fs.Load()
	if err != nil {
		// Recovery already produced a usable state; warn and continue.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	writer := storage.NewWriter(fs, func(err error) {
		fmt.Fprintf(os.Stderr, "Warning: saving state failed: %v\n", err)
	})

	st := store.New(writer)
	st.Load(persisted)

	// The persisted theme wins; config only seeds a fresh state file.
	if persisted.Theme == "" && cfg.Theme == string(store.ThemeDark) {
		st.SetTheme(store.ThemeDark)
	}

	snap := st.Snapshot()
	styles := ui.NewStyles(snap.Theme)
	app := ui.NewApp(st, styles, cfg.DefaultCategory)
	p := tea.NewProgram(app, tea.WithAltScreen())

	notifier := notify.New()
	sched := reminder.New(st,
		reminder.WithPollInterval(time.Duration(cfg.Reminder.PollSeconds)*time.Second),
		reminder.WithOnFired(func(t store.Todo) {
			p.Send(ui.ReminderFiredMsg{Todo: t})
			if cfg.Notifications.Enabled && notifier.IsSupported() {
				var nerr error
				if cfg.Notifications.Sound {
					nerr = notifier.SendWithSound("Taskpad reminder", t.Title)
				} else {
					nerr = notifier.Send("Taskpad reminder", t.Title)
				}
				if nerr != nil {
					fmt.Fprintf(os.Stderr, "Warning: notification failed: %v\n", nerr)
				}
			}
		}),
	)

	// Mutations re-arm the scheduler and refresh the view. The send runs on
	// its own goroutine because mutations can originate inside Update, where
	// a synchronous Send would block the event loop on itself.
	st.SetOnChange(func() {
		sched.Sync()
		go p.Send(ui.StateChangedMsg{})
	})
	sched.Sync()

	_, runErr := p.Run()

	sched.Stop()
	writer.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", runErr)
		os.Exit(1)
	}
}
