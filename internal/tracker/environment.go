package tracker

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"ticktock/internal/config"
	"ticktock/internal/model"
)

// SwitchEnvironment stops every timer, force-saves the current environment,
// changes the active environment and loads its data file. If the save
// fails nothing is switched. A target with no data file starts empty.
func (s *Store) SwitchEnvironment(env config.Environment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.settings.Environment()
	s.stopAllLocked(s.clock.Now())
	if _, err := s.saveLocked(true); err != nil {
		return fmt.Errorf("failed to save before switching environment: %w", err)
	}
	if err := s.settings.SetEnvironment(env); err != nil {
		return err
	}

	s.dataFile = s.settings.DataFile(env)
	s.lastSave = time.Time{}
	s.logger.Info("switched environment", "from", from, "to", env, "path", s.dataFile)

	if _, err := s.loadLocked(); err != nil {
		return err
	}
	return nil
}

// MigrateDataFile copies the data file of src over the data file of dst.
// An existing target is stored in the vault first. A missing source fails
// with ErrSourceMissing and leaves the target untouched. When dst is the
// active environment the store reloads from the new file.
func (s *Store) MigrateDataFile(src, dst config.Environment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.migrateLocked(src, dst)
}

// CopyDataToEnvironment force-saves the active environment and migrates
// its data file to target.
func (s *Store) CopyDataToEnvironment(target config.Environment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.saveLocked(true); err != nil {
		return err
	}
	return s.migrateLocked(s.settings.Environment(), target)
}

func (s *Store) migrateLocked(src, dst config.Environment) error {
	if src == dst {
		return ErrSameEnvironment
	}
	srcPath := s.settings.DataFile(src)
	dstPath := s.settings.DataFile(dst)

	exists, err := s.files.Exists(srcPath)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%s: %w", srcPath, ErrSourceMissing)
	}

	targetExists, err := s.files.Exists(dstPath)
	if err != nil {
		return err
	}
	if targetExists {
		if s.vault == nil {
			return fmt.Errorf("refusing to overwrite %s: %w", dstPath, ErrNoVault)
		}
		name := backupName(dstPath, s.clock.Now())
		if err := s.putFileInVaultLocked(dstPath, name); err != nil {
			return err
		}
		s.logger.Info("existing data backed up", "path", dstPath, "backup", name)
	}

	data, err := s.files.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", srcPath, err)
	}
	if err := s.files.WriteFile(dstPath, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", dstPath, err)
	}
	s.logger.Info("data migrated", "from", src, "to", dst)

	if dst == s.settings.Environment() {
		if _, err := s.loadLocked(); err != nil {
			return err
		}
	}
	return nil
}

// Backups returns the names of this data file's backups, oldest first.
func (s *Store) Backups() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vault == nil {
		return nil, ErrNoVault
	}
	return s.listBackupsLocked(backupPrefix(s.dataFile))
}

// RestoreBackup replaces the data file with a backup and reloads it. The
// current file is saved (and so backed up) first. The backup must belong
// to this data file and must parse.
func (s *Store) RestoreBackup(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vault == nil {
		return ErrNoVault
	}
	if !strings.HasPrefix(name, backupPrefix(s.dataFile)) {
		return fmt.Errorf("backup %q does not belong to %s", name, s.dataFile)
	}

	var buf bytes.Buffer
	if err := s.vault.GetBackup(name, &buf); err != nil {
		return fmt.Errorf("failed to read backup %s: %w", name, err)
	}
	if _, err := model.Unmarshal(buf.Bytes()); err != nil {
		return fmt.Errorf("backup %s is not a valid data file: %w", name, err)
	}

	s.stopAllLocked(s.clock.Now())
	if _, err := s.saveLocked(true); err != nil {
		return err
	}
	if err := s.files.WriteFile(s.dataFile, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.dataFile, err)
	}
	s.logger.Info("backup restored", "name", name, "path", s.dataFile)

	_, err := s.loadLocked()
	return err
}
