// Package fsutil holds the low-level file plumbing the rest of worklog
// builds on: crash-safe writes and pre-overwrite backups.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// WriteFileAtomic replaces the file at path with data without ever leaving
// a half-written file behind: the data goes to a temp file in the same
// directory, is fsynced, and is renamed into place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	name := tmp.Name()

	err = func() error {
		if err := tmp.Chmod(perm); err != nil {
			return fmt.Errorf("chmod %s: %w", name, err)
		}
		if _, err := tmp.Write(data); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		if err := tmp.Sync(); err != nil {
			return fmt.Errorf("fsync %s: %w", name, err)
		}
		return nil
	}()
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", name, cerr)
	}
	if err != nil {
		_ = os.Remove(name)
		return err
	}

	if err := rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("rename %s -> %s: %w", name, path, err)
	}
	return syncDir(dir)
}

// rename moves the temp file into place. Rename only replaces an existing
// destination atomically on Unix; Windows refuses outright, so the
// destination is removed first there. That window is not atomic but is the
// best the platform offers.
func rename(from, to string) error {
	err := os.Rename(from, to)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}
	if _, statErr := os.Stat(to); statErr != nil {
		return err
	}
	if rmErr := os.Remove(to); rmErr != nil {
		return err
	}
	return os.Rename(from, to)
}

// BestEffortBackup copies the current contents of path to path+".bak".
// It runs right before an overwrite and never fails the caller; a missing
// or unreadable file simply produces no backup.
func BestEffortBackup(path string, perm os.FileMode) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = WriteFileAtomic(path+".bak", data, perm)
}

// syncDir flushes the directory entry so the rename itself survives a
// crash. Errors are ignored; not every filesystem supports syncing a
// directory handle.
func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return nil
	}
	defer f.Close()
	_ = f.Sync()
	return nil
}
