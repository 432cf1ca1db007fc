package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"worklog/internal/dates"
	"worklog/internal/fsutil"
)

// SaveContext describes a completed mutation for save hooks. Git sync uses
// it to build commit messages like "Stop session: acme (2025-06-16)".
type SaveContext struct {
	Operation string // "add project", "stop session", "log work", ...
	Project   string // project name, when the operation targets one
	Detail    string // extra human-readable detail ("1.50h", a group name)
}

// Storage owns the work document file. Every operation goes through a full
// load-mutate-save cycle; there is no cached state between calls.
type Storage struct {
	dataDir           string
	cal               dates.Calendar
	onSave            func(filename string)
	onSaveWithContext func(ctx SaveContext)
	now               func() time.Time // injectable clock for deterministic tests
}

const (
	// DataFileName is the document's file name inside the data directory.
	DataFileName = "work_data.json"

	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600

	maxNameLen  = 100
	maxTagLen   = 50
	maxTitleLen = 200
	maxDescLen  = 500
)

// New creates a Storage rooted at dataDir, creating the directory and an
// empty document file if they do not exist. The calendar supplies every
// date the storage records.
func New(dataDir string, cal dates.Calendar) (*Storage, error) {
	if cal == nil {
		return nil, fmt.Errorf("storage requires a calendar")
	}
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{dataDir: dataDir, cal: cal, now: time.Now}

	if !fileExists(s.DataFile()) {
		if err := s.Save(NewDocument()); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// SetNowFunc overrides the clock used by time-dependent operations.
// Passing nil resets it to time.Now.
func (s *Storage) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Now returns the current time according to the storage clock.
func (s *Storage) Now() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Calendar returns the calendar the storage records dates with.
func (s *Storage) Calendar() dates.Calendar {
	return s.cal
}

// SetOnSave registers a callback invoked with the file name after each save.
func (s *Storage) SetOnSave(fn func(filename string)) {
	s.onSave = fn
}

// SetOnSaveWithContext registers a callback that receives semantic
// information about each mutation, for git sync commit messages.
func (s *Storage) SetOnSaveWithContext(fn func(ctx SaveContext)) {
	s.onSaveWithContext = fn
}

// GetDataDir returns the path to the data directory.
func (s *Storage) GetDataDir() string {
	return s.dataDir
}

// DataFile returns the full path of the document file.
func (s *Storage) DataFile() string {
	return filepath.Join(s.dataDir, DataFileName)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// Load reads and normalizes the document. It always returns a usable
// document: a missing file yields a fresh one, and a corrupt file is
// recovered from its .bak sibling or reset to defaults. The returned error
// is informational (what recovery happened); callers may log it and proceed.
func (s *Storage) Load() (*Document, error) {
	path := s.DataFile()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			doc := NewDocument()
			if saveErr := s.Save(doc); saveErr != nil {
				return doc, saveErr
			}
			return doc, nil
		}
		return NewDocument(), fmt.Errorf("read %s: %w", DataFileName, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s.recoverCorrupt(fmt.Errorf("%s is empty", DataFileName))
	}
	if !json.Valid(data) || !looksLikeDocument(data) {
		return s.recoverCorrupt(fmt.Errorf("%s is not a JSON object", DataFileName))
	}

	doc := Decode(data)
	return doc, nil
}

// looksLikeDocument reports whether the payload starts like a JSON object.
// Anything else goes through backup recovery instead of being silently
// replaced by an empty document.
func looksLikeDocument(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// recoverCorrupt tries the .bak sibling, moves the broken file aside with a
// timestamped name, and rewrites a usable document. The returned document is
// always valid; the error describes what happened.
func (s *Storage) recoverCorrupt(cause error) (*Document, error) {
	path := s.DataFile()

	corruptPath := fmt.Sprintf("%s.corrupt.%s", path, s.Now().Format("20060102-150405"))
	_ = os.Rename(path, corruptPath)

	bakData, bakErr := os.ReadFile(path + ".bak")
	if bakErr == nil && json.Valid(bakData) && looksLikeDocument(bakData) {
		doc := Decode(bakData)
		_ = s.Save(doc)
		return doc, fmt.Errorf("%s (recovered from %s.bak)", cause.Error(), DataFileName)
	}

	doc := NewDocument()
	_ = s.Save(doc)
	return doc, fmt.Errorf("%s (reset to defaults; original moved to %s)", cause.Error(), corruptPath)
}

// Save writes the full document atomically, keeping a best-effort .bak of
// the previous contents.
func (s *Storage) Save(doc *Document) error {
	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("serialize %s: %w", DataFileName, err)
	}

	path := s.DataFile()
	fsutil.BestEffortBackup(path, dataFilePerm)

	if err := fsutil.WriteFileAtomic(path, data, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", DataFileName, err)
	}

	if s.onSave != nil {
		s.onSave(DataFileName)
	}
	return nil
}

// saveWith persists the document and fires the context-aware hook.
func (s *Storage) saveWith(doc *Document, ctx SaveContext) error {
	if err := s.Save(doc); err != nil {
		return err
	}
	if s.onSaveWithContext != nil {
		s.onSaveWithContext(ctx)
	}
	return nil
}

// Today returns the current calendar date according to the storage clock.
func (s *Storage) Today() string {
	return s.today()
}

func (s *Storage) today() string {
	return s.cal.DateOf(s.Now())
}

// truncateForContext shortens a string for use in commit messages.
func truncateForContext(v string, maxLen int) string {
	if len(v) <= maxLen {
		return v
	}
	return v[:maxLen-1] + "…"
}
