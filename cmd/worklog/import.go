// Package main is the entry point for the worklog application.
// This file contains the import subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"

	"worklog/internal/config"
	"worklog/internal/dates"
	"worklog/internal/importer"
)

// importHelpText is the help message for the import subcommand.
const importHelpText = `worklog import - Import a timesheet CSV

USAGE:
    worklog import [OPTIONS] FILE

OPTIONS:
    --dry-run    Preview the import without making changes
    -h, --help   Show this help message

FILE FORMAT:
    A CSV with one timed entry per row:

        date,start,end,project
        2025-06-16,09:00,10:30,acme
        2025-06-16,13:00,17:00,website

    A literal header row is optional, lines starting with # are skipped,
    and clock values accept HH:MM or HH:MM:SS. Dates use the calendar
    configured for worklog.

DESCRIPTION:
    Appends each row as a time log on the named project. Projects that do
    not exist yet are created in the default group. Rows identical to an
    entry already in the document are skipped, so re-importing the same
    timesheet is safe. Bad rows are reported per line and do not abort
    the rest of the import.

EXAMPLES:
    # Preview before importing
    worklog import --dry-run timesheet.csv

    # Import
    worklog import timesheet.csv
`

// runImport handles the "worklog import" subcommand.
func runImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	dryRunFlag := fs.Bool("dry-run", false, "preview the import without making changes")
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

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: missing file argument\n\n")
		fmt.Fprintf(os.Stderr, "Usage: worklog import [OPTIONS] FILE\n")
		fmt.Fprintf(os.Stderr, "\nRun 'worklog import --help' for the file format.\n")
		os.Exit(1)
	}

	filePath := fs.Arg(0)
	file, err := os.Open(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	if *dryRunFlag {
		runImportDryRun(file)
	} else {
		runImportActual(file)
	}
}

// runImportDryRun previews the import without making changes.
func runImportDryRun(file *os.File) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cal, err := dates.New(cfg.Calendar)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	entries, rowErrs, err := importer.Preview(file, cal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing file: %v\n", err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Println("No entries found to import.")
	} else {
		fmt.Printf("Preview: %d entries to import\n", len(entries))
		fmt.Println("────────────────────────────")

		showCount := len(entries)
		if showCount > 20 {
			showCount = 20
		}
		for _, e := range entries[:showCount] {
			fmt.Printf("  %s  %s-%s  %s (%.2f h)\n", e.Date, e.Start, e.End, e.Project, e.Hours)
		}
		if len(entries) > 20 {
			fmt.Printf("  ... and %d more\n", len(entries)-20)
		}
	}

	if len(rowErrs) > 0 {
		fmt.Printf("\n%d row(s) would be skipped:\n", len(rowErrs))
		for _, e := range rowErrs {
			fmt.Printf("  - %s\n", e)
		}
	}

	fmt.Println()
	fmt.Println("Run without --dry-run to import.")
}

// runImportActual performs the actual import.
func runImportActual(file *os.File) {
	_, store := openStorage()

	result, err := importer.Import(file, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Import complete!\n")
	fmt.Printf("  Imported: %d time logs\n", result.Imported)
	if result.Skipped > 0 {
		fmt.Printf("  Skipped:  %d duplicates\n", result.Skipped)
	}
	if len(result.Errors) > 0 {
		fmt.Printf("  Errors:   %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}
}
