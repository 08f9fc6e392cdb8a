package vault

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ticktock/internal/tracker"
)

// ErrNotFound is returned when a named backup does not exist.
var ErrNotFound = errors.New("backup not found")

// FileSystemVault is a filesystem-based implementation of the BackupVault
// interface. Backups are flat files in a single directory:
//
//	<root>/
//	  tick_tock_projects_backup_20240115_103000.json
//	  tick_tock_projects_dev_backup_20240115_103000.json
type FileSystemVault struct {
	root string
}

// NewFileSystemVault creates a new filesystem vault rooted at the given path.
func NewFileSystemVault(root string) (*FileSystemVault, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	return &FileSystemVault{root: root}, nil
}

// Root returns the backup directory.
func (v *FileSystemVault) Root() string {
	return v.root
}

// PutBackup stores a backup under name, replacing any existing one.
func (v *FileSystemVault) PutBackup(name string, r io.Reader, size int64) error {
	if err := validateName(name); err != nil {
		return err
	}
	return v.writeFile(filepath.Join(v.root, name), r, size)
}

// GetBackup retrieves a backup by name and writes it to w.
func (v *FileSystemVault) GetBackup(name string, w io.Writer) error {
	if err := validateName(name); err != nil {
		return err
	}
	f, err := os.Open(filepath.Join(v.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	return nil
}

// ListBackups returns the names of regular files starting with prefix,
// sorted ascending. Temp files from interrupted writes are skipped.
func (v *FileSystemVault) ListBackups(prefix string) ([]string, error) {
	entries, err := os.ReadDir(v.root)
	if err != nil {
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".tmp-") || !strings.HasPrefix(name, prefix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DeleteBackup removes a backup. Deleting a missing backup is an error.
func (v *FileSystemVault) DeleteBackup(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(v.root, name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return fmt.Errorf("failed to delete backup: %w", err)
	}
	return nil
}

// ValidateSetup verifies that the backup directory is accessible.
func (v *FileSystemVault) ValidateSetup() error {
	info, err := os.Stat(v.root)
	if err != nil {
		return fmt.Errorf("backup directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("backup path is not a directory: %s", v.root)
	}
	return nil
}

// writeFile writes data from r to the specified path using atomic write (temp file + rename).
func (v *FileSystemVault) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	// Create temp file in the same directory to ensure atomic rename works
	tmpFile, err := os.CreateTemp(v.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// validateName rejects names that would escape the vault.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name %q", name)
	}
	return nil
}

// Compile-time check that FileSystemVault implements tracker.BackupVault interface
var _ tracker.BackupVault = (*FileSystemVault)(nil)
