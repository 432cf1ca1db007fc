// Package dates provides the calendar primitive behind all work dates: today's
// date as a fixed-width YYYY-MM-DD string, day differences between two such
// dates, and the last day of the current month. Dates are compared
// lexicographically elsewhere in the app, so every implementation must produce
// zero-padded fields.
//
// Two calendars are available: Persian (the default, matching the dates users
// of this tool actually plan by) and Gregorian.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Calendar converts between wall-clock time and calendar date strings.
type Calendar interface {
	// Today returns the current date as YYYY-MM-DD.
	Today() string

	// DateOf returns the calendar date of the given instant as YYYY-MM-DD.
	DateOf(t time.Time) string

	// DaysBetween returns the signed number of calendar days from one date
	// to another. It returns an error if either date fails to parse.
	DaysBetween(from, to string) (int, error)

	// LastOfMonth returns the last day of the current calendar month.
	LastOfMonth() string

	// Validate reports whether the given string is a well-formed date in
	// this calendar.
	Validate(date string) error
}

// New returns the calendar named in configuration. An empty name selects the
// Persian calendar.
func New(name string) (Calendar, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "persian":
		return NewPersian(), nil
	case "gregorian":
		return NewGregorian(), nil
	default:
		return nil, fmt.Errorf("unknown calendar: %q", name)
	}
}

// parseYMD splits a YYYY-MM-DD string into numeric fields. It rejects
// anything that is not exactly three dash-separated runs of digits.
func parseYMD(s string) (year, month, day int, err error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid date: %q", s)
	}
	nums := make([]int, 3)
	for i, part := range parts {
		if part == "" || !isDigits(part) {
			return 0, 0, 0, fmt.Errorf("invalid date: %q", s)
		}
		n, convErr := strconv.Atoi(part)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("invalid date: %q", s)
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func formatYMD(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// dayDiff counts whole calendar days between two instants anchored at noon.
// The noon anchor keeps historical DST shifts from tipping the division.
func dayDiff(from, to time.Time) int {
	hours := to.Sub(from).Hours()
	if hours >= 0 {
		return int(hours/24 + 0.5)
	}
	return -int(-hours/24 + 0.5)
}
