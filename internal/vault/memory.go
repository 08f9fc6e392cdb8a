package vault

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"ticktock/internal/tracker"
)

// MemoryVault is an in-memory implementation of the BackupVault interface.
// It is useful for testing and for running without touching disk.
// This implementation is safe for concurrent use.
type MemoryVault struct {
	backups map[string][]byte
	mu      sync.RWMutex
}

// NewMemoryVault creates a new, empty in-memory vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{backups: make(map[string][]byte)}
}

// PutBackup stores a backup under name.
func (m *MemoryVault) PutBackup(name string, r io.Reader, size int64) error {
	if err := validateName(name); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.backups[name] = data
	return nil
}

// GetBackup retrieves a backup by name.
func (m *MemoryVault) GetBackup(name string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.backups[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	return nil
}

// ListBackups returns the stored names starting with prefix, sorted ascending.
func (m *MemoryVault) ListBackups(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	for name := range m.backups {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// DeleteBackup removes a backup.
func (m *MemoryVault) DeleteBackup(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.backups[name]; !ok {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	delete(m.backups, name)
	return nil
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

// Compile-time check that MemoryVault implements tracker.BackupVault interface
var _ tracker.BackupVault = (*MemoryVault)(nil)
