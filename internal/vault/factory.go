package vault

import (
	"fmt"

	"ticktock/internal/config"
	"ticktock/internal/tracker"
)

// NewVaultFromConfig creates a BackupVault implementation based on the
// backup config type. dir is the resolved backup directory used by the
// filesystem vault.
func NewVaultFromConfig(cfg config.BackupConfig, dir string) (tracker.BackupVault, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryVault(), nil
	case "s3":
		v, err := NewS3Vault(cfg)
		if err != nil {
			return nil, err
		}
		return v, nil
	case "filesystem", "":
		if dir == "" {
			return nil, fmt.Errorf("filesystem backup requires a backup directory")
		}
		v, err := NewFileSystemVault(dir)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown backup type: %s", cfg.Type)
	}
}
