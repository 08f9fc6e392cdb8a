package testutil

import (
	"fmt"
	"io/fs"
	"sort"
	"sync"
)

// MockFilesystem is an in-memory tracker.Filesystem for testing. It counts
// writes and can be told to fail them. Safe for concurrent use.
type MockFilesystem struct {
	mu     sync.Mutex
	files  map[string][]byte
	writes int

	// WriteErr, when set, is returned by every WriteFile call and the
	// file is left unchanged.
	WriteErr error
}

// NewMockFilesystem creates an empty mock filesystem.
func NewMockFilesystem() *MockFilesystem {
	return &MockFilesystem{files: make(map[string][]byte)}
}

// AddFile adds a file to the mock filesystem.
func (m *MockFilesystem) AddFile(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), content...)
}

// File returns the content of path and whether it exists.
func (m *MockFilesystem) File(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	return append([]byte(nil), data...), ok
}

// Paths returns every stored path, sorted.
func (m *MockFilesystem) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Writes returns the number of successful WriteFile calls.
func (m *MockFilesystem) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MockFilesystem) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

func (m *MockFilesystem) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.files[path] = append([]byte(nil), data...)
	m.writes++
	return nil
}

func (m *MockFilesystem) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok, nil
}

func (m *MockFilesystem) Rename(oldPath, newPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[oldPath]
	if !ok {
		return fmt.Errorf("rename %s: %w", oldPath, fs.ErrNotExist)
	}
	m.files[newPath] = data
	delete(m.files, oldPath)
	return nil
}
