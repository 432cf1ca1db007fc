// Package backup manages timestamped snapshots of the work document. Each
// snapshot is a directory under the data dir holding a copy of the document
// plus a manifest describing when it was taken and what it contains.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"worklog/internal/fsutil"
	"worklog/internal/storage"
)

const (
	ManifestVersion = "1.0"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"
)

// stampLayout is the timestamp half of a backup directory name; a
// millisecond suffix follows it.
const stampLayout = "2006-01-02_150405"

// Manager handles backup and restore operations for one data directory.
type Manager struct {
	dataDir    string
	backupDir  string
	appVersion string
}

// Manifest is the metadata file written into every backup directory.
type Manifest struct {
	Version    string         `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	AppVersion string         `json:"app_version"`
	Files      []string       `json:"files"`
	Stats      map[string]int `json:"stats"`
}

// BackupInfo is a summary of one backup as returned by List.
type BackupInfo struct {
	Name      string
	Path      string
	CreatedAt time.Time
	Stats     map[string]int
}

// NewManager creates a manager rooted at dataDir. Backups live in
// dataDir/backups.
func NewManager(dataDir, appVersion string) *Manager {
	return &Manager{
		dataDir:    dataDir,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
	}
}

// Create snapshots the current document and returns the backup name. The
// name is the creation timestamp with a millisecond suffix so rapid
// successive backups stay distinct.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := time.Now()
	name := fmt.Sprintf("%s_%03d", now.Format(stampLayout), now.Nanosecond()/1e6)
	dir := filepath.Join(m.backupDir, name)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	abort := func(err error) (string, error) {
		os.RemoveAll(dir)
		return "", err
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
		Stats:      map[string]int{},
	}

	// A document that does not exist yet is fine; the manifest alone
	// records the empty state.
	data, err := os.ReadFile(filepath.Join(m.dataDir, storage.DataFileName))
	if err != nil && !os.IsNotExist(err) {
		return abort(fmt.Errorf("failed to read %s: %w", storage.DataFileName, err))
	}
	if err == nil {
		dst := filepath.Join(dir, storage.DataFileName)
		if err := fsutil.WriteFileAtomic(dst, data, 0600); err != nil {
			return abort(fmt.Errorf("failed to copy %s: %w", storage.DataFileName, err))
		}
		manifest.Files = []string{storage.DataFileName}
		manifest.Stats = snapshotStats(data)
	}

	if err := writeManifest(dir, manifest); err != nil {
		return abort(fmt.Errorf("failed to write manifest: %w", err))
	}
	return name, nil
}

// List returns all backups, newest first. Directories without a readable
// manifest still list as long as their name parses as a timestamp.
func (m *Manager) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if info, ok := m.describe(entry.Name()); ok {
			backups = append(backups, info)
		}
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Restore copies a backup's files back into the data directory. A safety
// backup of the current state is taken first, and the restored document is
// validated afterwards; both failure messages name the safety backup so the
// previous state stays reachable.
func (m *Manager) Restore(name string) error {
	dir, err := m.locate(name)
	if err != nil {
		return err
	}

	var manifest Manifest
	if err := readManifest(dir, &manifest); err != nil {
		manifest.Files = []string{storage.DataFileName}
	}

	safetyName, err := m.Create()
	if err != nil {
		return fmt.Errorf("failed to create safety backup: %w", err)
	}

	for _, filename := range manifest.Files {
		data, err := os.ReadFile(filepath.Join(dir, filename))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s (safety backup: %s): %w", filename, safetyName, err)
		}
		dst := filepath.Join(m.dataDir, filename)
		if err := fsutil.WriteFileAtomic(dst, data, 0600); err != nil {
			return fmt.Errorf("failed to restore %s (safety backup: %s): %w", filename, safetyName, err)
		}
	}

	for _, filename := range manifest.Files {
		if err := checkJSON(filepath.Join(m.dataDir, filename)); err != nil {
			return fmt.Errorf("restored file %s is invalid (safety backup: %s): %w", filename, safetyName, err)
		}
	}
	return nil
}

// RestoreLatest restores the most recent backup.
func (m *Manager) RestoreLatest() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups available")
	}
	return m.Restore(backups[0].Name)
}

// Delete removes one backup.
func (m *Manager) Delete(name string) error {
	dir, err := m.locate(name)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// Prune deletes old backups, keeping the keep most recent. Keep of zero or
// less keeps everything, matching the backup.keep config semantics. Returns
// how many were deleted.
func (m *Manager) Prune(keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keep:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// GetBackup returns information about one backup.
func (m *Manager) GetBackup(name string) (*BackupInfo, error) {
	if _, err := m.locate(name); err != nil {
		return nil, err
	}
	info, ok := m.describe(name)
	if !ok {
		return nil, fmt.Errorf("invalid backup: %s", name)
	}
	return &info, nil
}

// locate validates a user-supplied backup name and resolves it to an
// existing backup directory.
func (m *Manager) locate(name string) (string, error) {
	if err := validateBackupName(name); err != nil {
		return "", err
	}
	dir := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return "", fmt.Errorf("backup not found: %s", name)
	}
	return dir, nil
}

// describe reads one backup's manifest into a BackupInfo. When the manifest
// is missing or damaged the timestamp encoded in the directory name stands
// in; a name that parses as neither is not a backup at all.
func (m *Manager) describe(name string) (BackupInfo, bool) {
	dir := filepath.Join(m.backupDir, name)

	var manifest Manifest
	if err := readManifest(dir, &manifest); err != nil {
		createdAt, parseErr := parseBackupName(name)
		if parseErr != nil {
			return BackupInfo{}, false
		}
		manifest.CreatedAt = createdAt
		manifest.Stats = map[string]int{}
	}

	return BackupInfo{
		Name:      name,
		Path:      dir,
		CreatedAt: manifest.CreatedAt,
		Stats:     manifest.Stats,
	}, true
}

// snapshotStats counts what a document snapshot holds. Decoding runs the
// same normalization as a real load, so damaged snapshots still count as
// whatever survives it.
func snapshotStats(data []byte) map[string]int {
	doc := storage.Decode(data)

	timeLogs, tasks := 0, 0
	for _, p := range doc.Projects {
		timeLogs += len(p.TimeLogs)
		tasks += len(p.Tasks)
	}
	return map[string]int{
		"groups":    len(doc.Groups),
		"projects":  len(doc.Projects),
		"time_logs": timeLogs,
		"tasks":     tasks,
	}
}

// validateBackupName rejects anything that is not a plain timestamped
// directory name; backup names come from user input on the CLI.
func validateBackupName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("backup name is required")
	case name != filepath.Base(name), strings.ContainsAny(name, `/\`):
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseBackupName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

func writeManifest(dir string, manifest Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(filepath.Join(dir, ManifestFile), data, 0600)
}

func readManifest(dir string, manifest *Manifest) error {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, manifest)
}

// checkJSON verifies a restored file parses as JSON. Absent files pass;
// Restore skips manifest entries that were never copied.
func checkJSON(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var v any
	return json.Unmarshal(data, &v)
}

// parseBackupName recovers the timestamp from a backup directory name, with
// or without the millisecond suffix.
func parseBackupName(name string) (time.Time, error) {
	base, millis := name, ""
	if len(name) == len(stampLayout)+4 && name[len(stampLayout)] == '_' {
		base, millis = name[:len(stampLayout)], name[len(stampLayout)+1:]
	}

	t, err := time.Parse(stampLayout, base)
	if err != nil {
		return time.Time{}, err
	}
	if millis != "" {
		ms, err := strconv.Atoi(millis)
		if err != nil || ms < 0 || ms > 999 {
			return time.Time{}, fmt.Errorf("invalid milliseconds")
		}
		t = t.Add(time.Duration(ms) * time.Millisecond)
	}
	return t, nil
}
