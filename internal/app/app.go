package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ticktock/internal/config"
	"ticktock/internal/fs"
	"ticktock/internal/journal"
	"ticktock/internal/tracker"
	"ticktock/internal/vault"
)

// ErrJournalDisabled is returned by History when no journal is configured.
var ErrJournalDisabled = errors.New("session journal is disabled")

// Compile-time check that *config.Config implements tracker.Settings
var _ tracker.Settings = (*config.Config)(nil)

// App is the application layer between the CLI and the tracker Store.
// It constructs all dependencies from config, loads the active data file,
// and writes it back on Close when the command changed something.
type App struct {
	cfg     *config.Config
	cfgPath string
	store   *tracker.Store
	vault   tracker.BackupVault
	journal tracker.Journal
	logger  *slog.Logger
	op      *Operation
	logFile *os.File
	loadErr error
}

// New creates a fully wired App from the given config and loads the data
// file of the active environment. cfgPath is where environment switches
// are persisted; it may be empty. operation names the CLI command being
// run (e.g. "StartTimer", "Status"). The caller must call Close when done.
//
// A data file that cannot be parsed does not fail New: the store starts
// empty and the error is available from LoadErr.
func New(cfg *config.Config, cfgPath string, operation string) (*App, error) {
	op := NewOperation(operation)

	logDir := cfg.LogDir
	if logDir == "" {
		logDir = filepath.Join(cfg.BaseDir, "log")
	}
	logger, logFile, err := newLogger(logDir, op.ID, cfg.IsDebug())
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	backupCfg := cfg.Backup
	if cfg.Locked {
		backupCfg = config.BackupConfig{Type: "filesystem"}
	}
	v, err := vault.NewVaultFromConfig(backupCfg, cfg.BackupDirectory())
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating backup vault: %w", err)
	}

	j, err := journal.NewJournalFromConfig(cfg.Journal)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating journal: %w", err)
	}

	store := tracker.NewStore(cfg, fs.NewOSFilesystem(), v, j, &slogAdapter{l: logger}, tracker.RealClock{}, tracker.UUIDGenerator{})
	a := &App{
		cfg:     cfg,
		cfgPath: cfgPath,
		store:   store,
		vault:   v,
		journal: j,
		logger:  logger,
		op:      op,
		logFile: logFile,
	}

	logger.Debug("operation started", "operation", op.Name, "environment", cfg.Environment())
	if _, err := store.Load(); err != nil {
		a.loadErr = err
		logger.Error("could not load projects", "error", err)
	}
	return a, nil
}

// Store returns the underlying store for read access.
func (a *App) Store() *tracker.Store { return a.store }

// Config returns the effective configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Operation returns the operation this App was opened for.
func (a *App) Operation() *Operation { return a.op }

// LoadErr returns the error from loading the data file, if any.
func (a *App) LoadErr() error { return a.loadErr }

// AddProject creates a project. A blank alias defaults to the name.
func (a *App) AddProject(name, reference, alias string, seedDefault bool) (*tracker.Project, error) {
	a.op.Dirty = true
	return a.store.AddProject(name, reference, alias, seedDefault)
}

// RemoveProject deletes a project and its records.
func (a *App) RemoveProject(alias string) error {
	a.op.Dirty = true
	return a.store.RemoveProject(alias)
}

// UpdateProject edits a project's name, reference and alias.
func (a *App) UpdateProject(alias, name, reference, newAlias string) error {
	a.op.Dirty = true
	return a.store.UpdateProject(alias, name, reference, newAlias)
}

// AddSubActivity adds a sub-activity to a project.
func (a *App) AddSubActivity(projectAlias, name, alias string) (*tracker.SubActivity, error) {
	a.op.Dirty = true
	return a.store.AddSubActivity(projectAlias, name, alias)
}

// RemoveSubActivity deletes a sub-activity.
func (a *App) RemoveSubActivity(projectAlias, alias string) error {
	a.op.Dirty = true
	return a.store.RemoveSubActivity(projectAlias, alias)
}

// Select changes the selection. An empty projectAlias keeps the current
// project; subAlias is then applied to it, and an empty subAlias clears
// the sub-activity.
func (a *App) Select(projectAlias, subAlias string) error {
	a.op.Dirty = true
	if projectAlias != "" {
		if err := a.store.SetCurrentProject(projectAlias); err != nil {
			return err
		}
	}
	return a.store.SetCurrentSubActivity(subAlias)
}

// Start optionally selects a project and sub-activity, then starts the
// timer of the current selection.
func (a *App) Start(projectAlias, subAlias string) error {
	if projectAlias != "" || subAlias != "" {
		if err := a.Select(projectAlias, subAlias); err != nil {
			return err
		}
	}
	a.op.Dirty = true
	return a.store.StartCurrentTimer()
}

// Stop stops every running timer and returns how many were stopped.
func (a *App) Stop() int {
	a.op.Dirty = true
	return a.store.StopAllTimers()
}

// Status returns the current selection and its live totals.
func (a *App) Status() tracker.Status {
	return a.store.Status()
}

// Save writes the data file now.
func (a *App) Save() error {
	_, err := a.store.Save(true)
	return err
}

// Tick runs one autosave cycle and reports whether the file was written.
// Saves within the autosave interval of the last one are skipped.
func (a *App) Tick() (bool, error) {
	return a.store.Save(false)
}

// Watch calls render with the current status and then once per interval,
// running an autosave cycle before each call, until ctx is done. It then
// force-saves. A failed autosave is logged and handed to render but does
// not stop the loop; the next cycle retries it.
func (a *App) Watch(ctx context.Context, interval time.Duration, render func(tracker.Status, error)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	render(a.Status(), nil)
	for {
		select {
		case <-ctx.Done():
			return a.Save()
		case <-ticker.C:
			_, err := a.Tick()
			if err != nil {
				a.logger.Warn("autosave failed", "error", err)
			}
			render(a.Status(), err)
		}
	}
}

// SwitchEnvironment saves the current environment, switches to name and
// persists the choice in the config file. The choice is persisted even
// when the target file fails to load, since the store has switched by then.
func (a *App) SwitchEnvironment(name string) error {
	env, err := config.ParseEnvironment(name)
	if err != nil {
		return err
	}
	switchErr := a.store.SwitchEnvironment(env)
	if a.store.Environment() != env {
		return switchErr
	}
	if err := a.persistEnvironment(env); err != nil {
		return errors.Join(switchErr, fmt.Errorf("environment switched but not saved to config: %w", err))
	}
	return switchErr
}

// persistEnvironment rewrites only the environment key of the stored
// config, so that process-only overrides are never written back.
func (a *App) persistEnvironment(env config.Environment) error {
	if a.cfgPath == "" {
		return nil
	}
	stored, err := config.ReadFromFile(a.cfgPath)
	if err != nil {
		return err
	}
	stored.Env = env
	return config.Save(a.cfgPath, stored)
}

// Migrate copies the data file of one environment over another.
func (a *App) Migrate(src, dst string) error {
	srcEnv, err := config.ParseEnvironment(src)
	if err != nil {
		return err
	}
	dstEnv, err := config.ParseEnvironment(dst)
	if err != nil {
		return err
	}
	return a.store.MigrateDataFile(srcEnv, dstEnv)
}

// Promote copies the development data over production.
func (a *App) Promote() error {
	return a.store.MigrateDataFile(config.Development, config.Production)
}

// DevCopy copies the production data over development.
func (a *App) DevCopy() error {
	return a.store.MigrateDataFile(config.Production, config.Development)
}

// CopyTo saves the active environment and copies its data file to target.
func (a *App) CopyTo(target string) error {
	env, err := config.ParseEnvironment(target)
	if err != nil {
		return err
	}
	return a.store.CopyDataToEnvironment(env)
}

// Backups lists the backups of the active data file, oldest first.
func (a *App) Backups() ([]string, error) {
	return a.store.Backups()
}

// RestoreBackup replaces the active data file with a backup.
func (a *App) RestoreBackup(name string) error {
	return a.store.RestoreBackup(name)
}

// MonthlyReport totals the given month as of now.
func (a *App) MonthlyReport(year int, month time.Month) *tracker.MonthlyTotals {
	return a.store.Snapshot().Monthly(year, month)
}

// History returns up to limit journal sessions, newest first.
func (a *App) History(limit int) ([]*tracker.Session, error) {
	if a.journal == nil {
		return nil, ErrJournalDisabled
	}
	return a.journal.ListSessions(limit)
}

// Close finalizes the operation and closes all resources. Dirty
// operations force-save the data file first.
func (a *App) Close() error {
	var firstErr error

	if a.op.Dirty {
		if _, err := a.store.Save(true); err != nil {
			a.op.Fail()
			firstErr = fmt.Errorf("saving projects: %w", err)
		}
	}
	a.logger.Debug("operation finished", "operation", a.op.Name, "status", a.op.Status)

	if a.journal != nil {
		if err := a.journal.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing journal: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
