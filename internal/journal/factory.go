package journal

import (
	"fmt"
	"os"
	"path/filepath"

	"ticktock/internal/config"
	"ticktock/internal/tracker"
)

// NewJournalFromConfig creates a Journal implementation based on the
// journal config type. Type "none" returns a nil Journal and no error.
func NewJournalFromConfig(cfg config.JournalConfig) (tracker.Journal, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite journal")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
		return openSQLite(filepath.Join(cfg.DataDir, "journal.db"))
	case "memory":
		return openSQLite(":memory:")
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown journal type: %s", cfg.Type)
	}
}

// openSQLite keeps a failed open from becoming a non-nil Journal.
func openSQLite(path string) (tracker.Journal, error) {
	j, err := NewSQLiteJournal(path)
	if err != nil {
		return nil, err
	}
	return j, nil
}
