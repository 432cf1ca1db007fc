// Package importer loads timesheet CSV files into the work document. Rows
// are `date,start,end,project`; unknown projects are created on the fly and
// rows that already exist as time logs are skipped.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"worklog/internal/dates"
	"worklog/internal/storage"
)

// Result summarizes an import run.
type Result struct {
	Imported int      // rows written as time logs
	Skipped  int      // rows already present in the document
	Errors   []string // per-row problems, each prefixed with its line number
}

// Entry is one parsed timesheet row. Clock values are normalized to
// HH:MM:SS so they compare equal to stored time logs.
type Entry struct {
	Date    string
	Start   string
	End     string
	Project string
	Hours   float64
}

// Preview parses a timesheet without touching storage. It returns the valid
// entries, a per-row error report for the rest, and an error only when the
// input itself is unreadable.
func Preview(r io.Reader, cal dates.Calendar) ([]Entry, []string, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	// Field counts are checked per row so one bad line cannot abort the run.
	reader.FieldsPerRecord = -1

	var entries []Entry
	var rowErrs []string
	var rows int

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if perr, ok := err.(*csv.ParseError); ok {
				rowErrs = append(rowErrs, fmt.Sprintf("line %d: %v", perr.Line, perr.Err))
				continue
			}
			return nil, nil, fmt.Errorf("failed to read timesheet: %w", err)
		}

		line, _ := reader.FieldPos(0)
		rows++

		// A literal header row is allowed anywhere but typically first.
		if isHeaderRow(record) {
			continue
		}

		entry, err := parseRow(record, cal)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		entries = append(entries, entry)
	}

	if rows == 0 {
		return nil, nil, fmt.Errorf("empty input")
	}
	return entries, rowErrs, nil
}

// Import parses a timesheet and appends its rows to storage as time logs.
// Projects named in the file are created when missing, and rows matching an
// existing log of the same project are counted as skipped.
func Import(r io.Reader, store *storage.Storage) (*Result, error) {
	entries, rowErrs, err := Preview(r, store.Calendar())
	if err != nil {
		return nil, err
	}
	result := &Result{Errors: rowErrs}

	doc, err := store.Load()
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(doc.Projects))
	seen := make(map[string]bool)
	for name, p := range doc.Projects {
		known[name] = true
		for _, tl := range p.TimeLogs {
			seen[logKey(name, tl.Date, tl.StartTime, tl.EndTime)] = true
		}
	}

	for _, e := range entries {
		key := logKey(e.Project, e.Date, e.Start, e.End)
		if seen[key] {
			result.Skipped++
			continue
		}

		if !known[e.Project] {
			if err := store.AddProject(e.Project, "", nil); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", e.Project, err))
				continue
			}
			known[e.Project] = true
		}

		if _, err := store.AddTimeLog(e.Project, e.Date, e.Start, e.End); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s %s: %v", e.Project, e.Date, err))
			continue
		}
		seen[key] = true
		result.Imported++
	}

	return result, nil
}

func isHeaderRow(record []string) bool {
	return len(record) == 4 &&
		strings.EqualFold(strings.TrimSpace(record[0]), "date") &&
		strings.EqualFold(strings.TrimSpace(record[1]), "start")
}

func parseRow(record []string, cal dates.Calendar) (Entry, error) {
	if len(record) != 4 {
		return Entry{}, fmt.Errorf("expected 4 fields (date,start,end,project), got %d", len(record))
	}

	date := strings.TrimSpace(record[0])
	if date == "" {
		return Entry{}, fmt.Errorf("missing date")
	}
	if err := cal.Validate(date); err != nil {
		return Entry{}, fmt.Errorf("invalid date %q: %v", date, err)
	}

	start, err := normalizeClock(record[1])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid start time %q", strings.TrimSpace(record[1]))
	}
	end, err := normalizeClock(record[2])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid end time %q", strings.TrimSpace(record[2]))
	}
	if end < start {
		return Entry{}, fmt.Errorf("end time %s is before start time %s", end, start)
	}

	project := strings.TrimSpace(record[3])
	if project == "" {
		return Entry{}, fmt.Errorf("missing project")
	}

	return Entry{
		Date:    date,
		Start:   start,
		End:     end,
		Project: project,
		Hours:   clockHours(start, end),
	}, nil
}

// normalizeClock accepts HH:MM or HH:MM:SS and returns the zero-padded
// HH:MM:SS form time logs are stored in.
func normalizeClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("invalid clock %q", s)
}

func clockHours(start, end string) float64 {
	s, _ := time.Parse("15:04:05", start)
	e, _ := time.Parse("15:04:05", end)
	return math.Round(e.Sub(s).Hours()*100) / 100
}

func logKey(project, date, start, end string) string {
	return project + "|" + date + "|" + start + "|" + end
}
