package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ticktock/internal/tracker"
)

// OSFilesystem is the real filesystem implementation of tracker.Filesystem.
type OSFilesystem struct {
	perm os.FileMode
}

// NewOSFilesystem creates a filesystem that writes files with mode 0644.
func NewOSFilesystem() *OSFilesystem {
	return &OSFilesystem{perm: 0o644}
}

// ReadFile reads the whole file at path.
func (f *OSFilesystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a temp file in the target directory and renames
// it over path, so readers never observe a partial file.
func (f *OSFilesystem) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, f.perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Exists reports whether path exists. Errors other than not-exist are
// returned.
func (f *OSFilesystem) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}

// Rename moves oldPath to newPath.
func (f *OSFilesystem) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// Compile-time check that OSFilesystem implements tracker.Filesystem
var _ tracker.Filesystem = (*OSFilesystem)(nil)
