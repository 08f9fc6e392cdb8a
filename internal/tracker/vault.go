package tracker

import "io"

// BackupVault stores copies of the data file. Names are flat file names
// such as "tick_tock_projects_backup_20240115_103000.json".
type BackupVault interface {
	// PutBackup stores a backup under name, replacing any existing one.
	// size is the number of bytes that will be read from r.
	PutBackup(name string, r io.Reader, size int64) error

	// GetBackup writes the named backup to w.
	GetBackup(name string, w io.Writer) error

	// ListBackups returns the names starting with prefix in ascending order.
	ListBackups(prefix string) ([]string, error)

	// DeleteBackup removes the named backup.
	DeleteBackup(name string) error

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
