// Package main is the entry point for the worklog application.
// It dispatches subcommands and defaults to serving the web dashboard.
package main

import (
	"flag"
	"fmt"
	"os"

	"worklog/internal/config"
	"worklog/internal/dates"
	"worklog/internal/storage"
	"worklog/internal/sync"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const helpText = `worklog - A personal work-hour and task tracker

USAGE:
    worklog [OPTIONS]
    worklog <command> [ARGS]

COMMANDS:
    serve            Start the web dashboard (default)
    tui              Open the terminal dashboard
    report           Generate a work report (Markdown or JSON)
    import FILE      Import a timesheet CSV
    backup           Create a backup of the work data
    backup --list    List available backups
    restore NAME     Restore from a specific backup
    restore --latest Restore from the most recent backup
    sync             Sync the data directory with git (commit + push)
    sync --init      Initialize git repo in the data directory
    sync --status    Show git sync status

OPTIONS:
    -h, --help       Show this help message
    -v, --version    Show version information

DESCRIPTION:
    worklog tracks the hours you put into your projects. Group projects,
    tag them, set hour goals with deadlines, log timed sessions or whole
    blocks of hours, and keep a small per-project task list. The web
    dashboard is the main interface; the terminal dashboard covers the
    start/stop-timer workflow without leaving the shell.

DATA STORAGE:
    All data lives in a single JSON document:
        ~/.worklog/work_data.json

    Backups are stored under ~/.worklog/backups/.

CONFIGURATION:
    Optional config file: ~/.config/worklog/config.yaml
    Settings cover the data directory, listen address, calendar
    (persian or gregorian), theme, key bindings, git sync,
    notifications, and backup retention.

EXAMPLES:
    # Start the web dashboard on the configured address
    worklog

    # Open the terminal dashboard
    worklog tui

    # This month's hours for one group, as Markdown
    worklog report --group Clients --from 2025-06-01 --to 2025-06-30

    # Import a timesheet
    worklog import timesheet.csv

    # Create a backup
    worklog backup

    # Show version
    worklog --version
`

func main() {
	// Check for subcommands first (before flag parsing)
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "serve":
			runServe(os.Args[2:])
			return
		case "tui":
			runTUI(os.Args[2:])
			return
		case "report":
			runReport(os.Args[2:])
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
		case "sync":
			runSync(os.Args[2:])
			return
		}
	}

	showVersion := flag.Bool("version", false, "show version information")
	flag.BoolVar(showVersion, "v", false, "show version information (shorthand)")

	showHelp := flag.Bool("help", false, "show help message")
	flag.BoolVar(showHelp, "h", false, "show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpText)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("worklog version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	if *showHelp {
		fmt.Print(helpText)
		os.Exit(0)
	}

	// Reject unknown arguments
	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown command: %v\n\n", flag.Args())
		flag.Usage()
		os.Exit(1)
	}

	// No subcommand: serve the web dashboard
	runServe(nil)
}

// fatalf prints an error to stderr and exits with status 1.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// openStorage loads configuration and opens the work document store with the
// configured calendar. Exits the process on failure.
func openStorage() (*config.Config, *storage.Storage) {
	cfg, err := config.Load()
	if err != nil {
		fatalf("Error loading config: %v", err)
	}

	cal, err := dates.New(cfg.Calendar)
	if err != nil {
		fatalf("Error: %v", err)
	}

	store, err := storage.New(cfg.GetDataDir(), cal)
	if err != nil {
		fatalf("Error initializing storage: %v", err)
	}
	return cfg, store
}

// setupSync wires git auto-commit into the store when sync is enabled.
// Returns nil when sync is disabled or git is not installed.
func setupSync(cfg *config.Config, store *storage.Storage) *sync.GitSync {
	if !cfg.Sync.Enabled || !sync.IsGitInstalled() {
		return nil
	}
	gs := newGitSync(cfg)

	// Pull on startup if configured and the repo exists
	if cfg.Sync.PullOnStartup && gs.IsRepo() {
		if err := gs.Pull(); err != nil {
			// Warn but continue - local data is still valid
			fmt.Fprintf(os.Stderr, "Warning: sync pull failed: %v\n", err)
		}
	}

	// Register the auto-commit hook so saves carry semantic context
	if cfg.Sync.AutoCommit && gs.IsRepo() {
		store.SetOnSaveWithContext(gs.OnSavedWithContext)
	}
	return gs
}
