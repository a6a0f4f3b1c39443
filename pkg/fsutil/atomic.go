// Package fsutil provides filesystem helpers for the small side files task
// rewrites in place (config, language settings, agent instruction files).
// The task log itself is never rewritten.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TmpPrefix prefixes the temporary files created by AtomicWrite.
const TmpPrefix = ".task-tmp-"

// AtomicWrite replaces path with data via a temp file in the same directory,
// fsync and rename. Config, language settings and agent instruction files
// are rewritten whole, so a reader must see either the old or the new
// content; a crash leaves at most a TmpPrefix file, which doctor reports.
// The task log only ever grows by single-line appends and does not use this.
// The parent directory must already exist.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, TmpPrefix+"*")
	if err != nil {
		return fmt.Errorf("atomic write create tmp: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("atomic write: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("atomic write chmod: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("atomic write fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("atomic write close: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("atomic write rename: %w", err)
	}
	if err := FsyncDir(dir); err != nil {
		return fmt.Errorf("atomic write fsync dir: %w", err)
	}

	success = true
	return nil
}

// FsyncDir makes a completed rename in dirPath durable.
func FsyncDir(dirPath string) error {
	d, err := os.Open(dirPath)
	if err != nil {
		return fmt.Errorf("fsync dir open: %w", err)
	}
	defer d.Close()
	return d.Sync()
}

// IsTmpName reports whether a base file name was produced by AtomicWrite.
func IsTmpName(name string) bool {
	return strings.HasPrefix(name, TmpPrefix)
}
