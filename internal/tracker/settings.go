package tracker

import (
	"time"

	"ticktock/internal/config"
)

// Settings is the configuration the store consumes. *config.Config
// implements it; tests use testutil.StubSettings.
type Settings interface {
	// Environment returns the active environment.
	Environment() config.Environment

	// SetEnvironment changes the active environment. Locked configurations
	// refuse with config.ErrLocked.
	SetEnvironment(env config.Environment) error

	// DataFile returns the backing file path for an environment.
	DataFile(env config.Environment) string

	// AutoSaveInterval is the minimum time between unforced saves.
	AutoSaveInterval() time.Duration

	// BackupEnabled reports whether saves copy the previous file to the vault.
	BackupEnabled() bool

	// MaxBackups is the number of backups kept per data file. Values below
	// one keep every backup.
	MaxBackups() int
}
