package tui

import (
	"time"

	"worklog/internal/storage"
)

// ============================================================================
// Messages
// ============================================================================
// Bubble Tea messages carry the results of storage operations back into the
// update loop. Each message has an err field; the update loop surfaces errors
// in the status bar instead of crashing.

// documentLoadedMsg carries a freshly loaded work document.
type documentLoadedMsg struct {
	doc *storage.Document
	err error
}

// sessionStartedMsg reports the result of starting a timer.
type sessionStartedMsg struct {
	project string
	err     error
}

// sessionStoppedMsg reports the result of stopping a timer, including the
// hours that were logged.
type sessionStoppedMsg struct {
	project string
	hours   float64
	err     error
}

// projectAddedMsg reports the result of creating a project.
type projectAddedMsg struct {
	name string
	err  error
}

// tickMsg fires once per second to refresh elapsed times.
type tickMsg time.Time
