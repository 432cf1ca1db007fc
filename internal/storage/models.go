// Package storage persists the work document and implements every operation
// that reads or mutates it. The document is a single JSON file; each
// operation loads it fresh, normalizes it, applies one change, and writes the
// whole document back.
package storage

import (
	"encoding/json"
	"time"
)

// DefaultGroup is the sentinel group every document carries. It can never be
// renamed or deleted; projects with no usable group land here.
const DefaultGroup = "Ungrouped"

// Document is the root of the persisted state: an ordered list of group
// names and a map of projects keyed by name.
type Document struct {
	Groups   []string            `json:"groups"`
	Projects map[string]*Project `json:"projects"`
}

// NewDocument returns an empty document containing only the default group.
func NewDocument() *Document {
	return &Document{
		Groups:   []string{DefaultGroup},
		Projects: map[string]*Project{},
	}
}

// Project is a trackable unit of work. The first four fields are the current
// schema; the rest are legacy fields kept loadable across schema versions.
type Project struct {
	Tags           []string     `json:"tags"`
	Group          string       `json:"group"`
	TimeLogs       []TimeLog    `json:"time_logs"`
	CurrentSession *OpenSession `json:"current_session,omitempty"`

	Goal          float64              `json:"goal,omitempty"`
	WorkdaysCount int                  `json:"workdays_count,omitempty"`
	Deadline      string               `json:"deadline,omitempty"`
	Tasks         []Task               `json:"tasks,omitempty"`
	Log           map[string]WorkEntry `json:"log,omitempty"`
}

// newProjectShell returns a minimal project in the default group.
func newProjectShell() *Project {
	return &Project{
		Tags:     []string{},
		Group:    DefaultGroup,
		TimeLogs: []TimeLog{},
	}
}

// TimeLog is a completed, immutable timed interval. Times are wall-clock
// HH:MM:SS strings; the date is a calendar date string; duration is hours
// rounded to two decimals and never negative.
type TimeLog struct {
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Duration  float64 `json:"duration"`
}

// OpenSession is a running timer: the instant it started and the calendar
// date it started on. At most one exists per project, and it persists across
// restarts until stopped.
type OpenSession struct {
	StartTime time.Time `json:"start_time"`
	Date      string    `json:"date"`
}

// Task is a legacy-schema to-do item. Ids are string-encoded integers unique
// across the whole document, not per project.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// WorkEntry is a legacy flat-log record for one date. Old files stored it as
// either a bare number of hours or an {hours, description} object; the
// canonical form is always the object.
type WorkEntry struct {
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
}

// HasGroup reports whether the named group exists in the document.
func (d *Document) HasGroup(name string) bool {
	for _, g := range d.Groups {
		if g == name {
			return true
		}
	}
	return false
}

// EnsureGroup appends the named group if it is not already present.
func (d *Document) EnsureGroup(name string) {
	if !d.HasGroup(name) {
		d.Groups = append(d.Groups, name)
	}
}

// ResolvedGroup returns the group a project belongs to for display and
// aggregation, falling back to the default group when the recorded group is
// not in the document.
func (d *Document) ResolvedGroup(p *Project) string {
	if p != nil && d.HasGroup(p.Group) {
		return p.Group
	}
	return DefaultGroup
}

// HasTag reports whether the project carries the given tag.
func (p *Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// empty reports whether the project holds no data at all. Used by the
// legacy-schema pruning rule.
func (p *Project) empty() bool {
	return len(p.Log) == 0 &&
		p.Goal == 0 &&
		len(p.Tasks) == 0 &&
		len(p.TimeLogs) == 0 &&
		p.CurrentSession == nil
}

// Marshal serializes the document in its canonical indented form.
func (d *Document) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
