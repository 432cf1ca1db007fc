// Package main is the entry point for the worklog application.
// This file contains the tui subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"

	"worklog/internal/tui"
)

// tuiHelpText is the help message for the tui subcommand.
const tuiHelpText = `worklog tui - Open the terminal dashboard

USAGE:
    worklog tui [OPTIONS]

OPTIONS:
    -h, --help     Show this help message

DESCRIPTION:
    A keyboard-driven dashboard for the timer workflow: every project with
    its accumulated hours, a running indicator with live elapsed time, and
    start/stop without leaving the terminal. Stopping a timer raises a
    desktop notification with the logged hours when notifications are
    enabled in the config.

KEYBINDINGS:
    Space/Enter  Start or stop the selected timer
    a            Add a project
    j/k, ↓/↑     Move selection
    g/G          Jump to top/bottom
    ?            Help overlay
    q            Quit

EXAMPLES:
    # Open the dashboard
    worklog tui
`

// runTUI handles the "worklog tui" subcommand.
func runTUI(args []string) {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, tuiHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(tuiHelpText)
		os.Exit(0)
	}

	cfg, store := openStorage()
	gitSync := setupSync(cfg, store)

	styles := tui.NewStylesFromTheme(&cfg.Theme)
	opts := tui.Options{
		Keys:          &cfg.Keys,
		Notifications: cfg.Notifications,
	}

	if err := tui.Run(store, styles, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}

	// Flush any pending git commits before exit
	if gitSync != nil {
		gitSync.Flush()
	}
}
