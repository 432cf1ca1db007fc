// Package main is the entry point for the worklog application.
// This file contains the report subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"worklog/internal/fsutil"
	"worklog/internal/reports"
)

// reportHelpText is the help message for the report subcommand.
const reportHelpText = `worklog report - Generate a work report

USAGE:
    worklog report [OPTIONS]

OPTIONS:
    -g, --group NAME   Only include one group
    -p, --project NAME Only include one project
    -t, --tag TAG      Only include projects carrying a tag
    --from DATE        Only include entries on or after DATE
    --to DATE          Only include entries on or before DATE
    -f, --format FMT   Output format: markdown (default) or json
    -o, --output FILE  Write to file instead of stdout
    -h, --help         Show this help message

DESCRIPTION:
    Walks every group and project and reports the timed entries with
    per-project, per-group, and grand totals. Dates use the configured
    calendar. All filters combine; an empty filter reports everything.

EXAMPLES:
    # Everything, as Markdown
    worklog report

    # One client's June, saved to a file
    worklog report --group Clients --from 2025-06-01 --to 2025-06-30 -o june.md

    # Machine-readable
    worklog report --format json

    # Everything tagged "billable"
    worklog report --tag billable
`

// runReport handles the "worklog report" subcommand.
func runReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)

	groupFlag := fs.String("group", "", "only include one group")
	fs.StringVar(groupFlag, "g", "", "only include one group (shorthand)")

	projectFlag := fs.String("project", "", "only include one project")
	fs.StringVar(projectFlag, "p", "", "only include one project (shorthand)")

	tagFlag := fs.String("tag", "", "only include projects carrying a tag")
	fs.StringVar(tagFlag, "t", "", "only include projects carrying a tag (shorthand)")

	fromFlag := fs.String("from", "", "only include entries on or after this date")
	toFlag := fs.String("to", "", "only include entries on or before this date")

	formatFlag := fs.String("format", "markdown", "output format: markdown or json")
	fs.StringVar(formatFlag, "f", "markdown", "output format (shorthand)")

	outputFlag := fs.String("output", "", "write to file instead of stdout")
	fs.StringVar(outputFlag, "o", "", "write to file (shorthand)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, reportHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(reportHelpText)
		os.Exit(0)
	}

	format := *formatFlag
	if format == "md" {
		format = "markdown"
	}
	if format != "markdown" && format != "json" {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q. Use 'markdown' or 'json'.\n", format)
		os.Exit(1)
	}

	_, store := openStorage()

	// Date bounds must be valid dates in the configured calendar.
	for _, d := range []string{*fromFlag, *toFlag} {
		if d == "" {
			continue
		}
		if err := store.Calendar().Validate(d); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid date %q: %v\n", d, err)
			os.Exit(1)
		}
	}

	gen := reports.NewGenerator(store)
	rep := gen.Generate(reports.Filter{
		Group:    *groupFlag,
		Project:  *projectFlag,
		Tag:      *tagFlag,
		DateFrom: *fromFlag,
		DateTo:   *toFlag,
	})

	var output string
	if format == "json" {
		data, err := reports.FormatJSON(rep)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting JSON: %v\n", err)
			os.Exit(1)
		}
		output = string(data)
	} else {
		output = reports.FormatMarkdown(rep)
	}

	if *outputFlag != "" {
		if dir := filepath.Dir(*outputFlag); dir != "." {
			if err := os.MkdirAll(dir, 0700); err != nil {
				fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
				os.Exit(1)
			}
		}
		if err := fsutil.WriteFileAtomic(*outputFlag, []byte(output), 0600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report written to %s\n", *outputFlag)
	} else {
		fmt.Print(output)
	}
}
