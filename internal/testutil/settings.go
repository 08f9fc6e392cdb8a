package testutil

import (
	"path/filepath"
	"sync"
	"time"

	"ticktock/internal/config"
)

// StubSettings is a mutable tracker.Settings for tests. Data files live
// under Dir as "<environment>.json". Safe for concurrent use.
type StubSettings struct {
	mu sync.Mutex

	Dir      string
	Env      config.Environment
	Interval time.Duration
	Backups  bool
	Keep     int
	Locked   bool
}

// NewStubSettings returns development settings rooted at dir with backups
// on, ten backups kept and a five minute autosave interval.
func NewStubSettings(dir string) *StubSettings {
	return &StubSettings{
		Dir:      dir,
		Env:      config.Development,
		Interval: 300 * time.Second,
		Backups:  true,
		Keep:     10,
	}
}

func (s *StubSettings) Environment() config.Environment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Env
}

func (s *StubSettings) SetEnvironment(env config.Environment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Locked {
		return config.ErrLocked
	}
	s.Env = env
	return nil
}

func (s *StubSettings) DataFile(env config.Environment) string {
	return filepath.Join(s.Dir, string(env)+".json")
}

func (s *StubSettings) AutoSaveInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Interval
}

func (s *StubSettings) BackupEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Backups
}

func (s *StubSettings) MaxBackups() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Keep
}
