package tracker

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"ticktock/internal/model"
)

// backupTimeLayout sorts lexically in time order.
const backupTimeLayout = "20060102_150405"

// Load replaces the in-memory graph with the contents of the data file and
// reports whether a file was loaded. A missing file leaves an empty graph
// and no error. A file that cannot be parsed is moved aside to
// "<path>.corrupt", the graph is left empty and the parse error is returned.
func (s *Store) Load() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (bool, error) {
	s.resetLocked()

	data, err := s.files.ReadFile(s.dataFile)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info("no data file, starting fresh", "path", s.dataFile)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", s.dataFile, err)
	}

	doc, err := model.Unmarshal(data)
	if err == nil {
		err = s.applyDocumentLocked(doc)
	}
	if err != nil {
		s.resetLocked()
		s.logger.Error("data file is unreadable, starting with no projects", "path", s.dataFile, "error", err)
		s.quarantineLocked()
		return false, fmt.Errorf("failed to load %s: %w", s.dataFile, err)
	}

	s.logger.Info("projects loaded", "path", s.dataFile, "count", len(s.projects))
	return true, nil
}

// quarantineLocked moves an unparsable data file aside so the next save
// does not overwrite it.
func (s *Store) quarantineLocked() {
	dst := s.dataFile + ".corrupt"
	if err := s.files.Rename(s.dataFile, dst); err != nil {
		s.logger.Warn("could not move corrupt data file aside", "path", s.dataFile, "error", err)
		return
	}
	s.logger.Warn("corrupt data file moved aside", "path", dst)
}

// Save writes the graph to the data file. Unless force is set, a save
// within the autosave interval of the previous successful save is skipped
// and reports false. When backups are enabled the existing file is copied
// to the vault first; backup failures are logged and do not stop the save.
func (s *Store) Save(force bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(force)
}

func (s *Store) saveLocked(force bool) (bool, error) {
	now := s.clock.Now()
	if !force && !s.lastSave.IsZero() && now.Sub(s.lastSave) < s.settings.AutoSaveInterval() {
		return false, nil
	}

	data, err := model.Marshal(s.documentLocked(now))
	if err != nil {
		return false, err
	}

	if s.settings.BackupEnabled() && s.vault != nil {
		if err := s.backupLocked(now); err != nil {
			s.logger.Warn("could not create backup", "path", s.dataFile, "error", err)
		}
	}

	if err := s.files.WriteFile(s.dataFile, data); err != nil {
		s.logger.Error("failed to save projects", "path", s.dataFile, "error", err)
		return false, fmt.Errorf("failed to write %s: %w", s.dataFile, err)
	}

	s.lastSave = now
	s.logger.Debug("projects saved", "path", s.dataFile)
	return true, nil
}

// backupLocked copies the current data file, if any, into the vault and
// prunes old backups of the same file.
func (s *Store) backupLocked(now time.Time) error {
	exists, err := s.files.Exists(s.dataFile)
	if err != nil || !exists {
		return err
	}

	name := backupName(s.dataFile, now)
	if err := s.putFileInVaultLocked(s.dataFile, name); err != nil {
		return err
	}
	s.logger.Debug("backup created", "name", name)

	s.pruneBackupsLocked(backupPrefix(s.dataFile))
	return nil
}

func (s *Store) putFileInVaultLocked(path, name string) error {
	data, err := s.files.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := s.vault.PutBackup(name, bytes.NewReader(data), int64(len(data))); err != nil {
		return fmt.Errorf("failed to store backup %s: %w", name, err)
	}
	return nil
}

// pruneBackupsLocked deletes the oldest backups until MaxBackups remain.
// Failures are logged only.
func (s *Store) pruneBackupsLocked(prefix string) {
	keep := s.settings.MaxBackups()
	if keep < 1 {
		return
	}

	names, err := s.listBackupsLocked(prefix)
	if err != nil {
		s.logger.Warn("could not list backups", "error", err)
		return
	}
	if len(names) <= keep {
		return
	}
	for _, name := range names[:len(names)-keep] {
		if err := s.vault.DeleteBackup(name); err != nil {
			s.logger.Warn("could not remove old backup", "name", name, "error", err)
			continue
		}
		s.logger.Debug("removed old backup", "name", name)
	}
}

func (s *Store) listBackupsLocked(prefix string) ([]string, error) {
	names, err := s.vault.ListBackups(prefix)
	if err != nil {
		return nil, err
	}
	names = slices.DeleteFunc(names, func(n string) bool { return !strings.HasSuffix(n, ".json") })
	slices.Sort(names)
	return names, nil
}

func backupPrefix(dataFile string) string {
	base := filepath.Base(dataFile)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_backup_"
}

func backupName(dataFile string, now time.Time) string {
	return backupPrefix(dataFile) + now.Format(backupTimeLayout) + ".json"
}

func (s *Store) documentLocked(now time.Time) *model.Document {
	doc := &model.Document{
		Projects:    make([]model.Project, 0, len(s.projects)),
		LastSaved:   model.FormatTime(now),
		Environment: string(s.settings.Environment()),
	}
	if s.currentProject != "" {
		alias := s.currentProject
		doc.CurrentProjectAlias = &alias
	}
	if s.currentSub != "" {
		alias := s.currentSub
		doc.CurrentSubActivityAlias = &alias
	}

	for _, p := range s.projects {
		mp := model.Project{
			Name:          p.Name,
			DZNumber:      p.Reference,
			Alias:         p.Alias,
			SubActivities: make([]model.SubActivity, 0, len(p.subActivities)),
			TimeRecords:   recordsToModel(&p.recordSet),
		}
		for _, sub := range p.subActivities {
			mp.SubActivities = append(mp.SubActivities, model.SubActivity{
				Name:        sub.Name,
				Alias:       sub.Alias,
				TimeRecords: recordsToModel(&sub.recordSet),
			})
		}
		doc.Projects = append(doc.Projects, mp)
	}
	return doc
}

func recordsToModel(rs *recordSet) map[string]model.TimeRecord {
	out := make(map[string]model.TimeRecord, len(rs.records))
	for date, r := range rs.records {
		mr := model.TimeRecord{
			Date:               r.Date,
			TotalSeconds:       r.TotalSeconds,
			IsRunning:          r.IsRunning(),
			SubActivitySeconds: make(map[string]int64, len(r.SubActivitySeconds)),
		}
		if r.RunningSince != nil {
			started := model.FormatTime(*r.RunningSince)
			mr.LastStarted = &started
		}
		for k, v := range r.SubActivitySeconds {
			mr.SubActivitySeconds[k] = v
		}
		out[date] = mr
	}
	return out
}

// applyDocumentLocked builds the graph from a decoded document. Selection
// pointers that do not resolve are cleared.
func (s *Store) applyDocumentLocked(doc *model.Document) error {
	projects := make([]*Project, 0, len(doc.Projects))
	seen := make(map[string]bool, len(doc.Projects))
	for _, mp := range doc.Projects {
		if seen[mp.Alias] {
			return fmt.Errorf("%w: duplicate project alias %q", model.ErrInvalidDocument, mp.Alias)
		}
		seen[mp.Alias] = true

		p := NewProject(mp.Name, mp.DZNumber, mp.Alias)
		if err := recordsFromModel(&p.recordSet, mp.TimeRecords); err != nil {
			return fmt.Errorf("project %q: %w", mp.Alias, err)
		}
		for _, ms := range mp.SubActivities {
			sub, err := p.AddSubActivity(ms.Name, ms.Alias)
			if err != nil {
				return fmt.Errorf("%w: %v", model.ErrInvalidDocument, err)
			}
			if err := recordsFromModel(&sub.recordSet, ms.TimeRecords); err != nil {
				return fmt.Errorf("sub-activity %q of project %q: %w", ms.Alias, mp.Alias, err)
			}
		}
		projects = append(projects, p)
	}

	s.projects = projects
	if doc.CurrentProjectAlias != nil && s.projectLocked(*doc.CurrentProjectAlias) != nil {
		s.currentProject = *doc.CurrentProjectAlias
		if doc.CurrentSubActivityAlias != nil && s.projectLocked(s.currentProject).SubActivity(*doc.CurrentSubActivityAlias) != nil {
			s.currentSub = *doc.CurrentSubActivityAlias
		}
	}
	return nil
}

// recordsFromModel fills rs from decoded records. A record flagged running
// without a start time is loaded as stopped.
func recordsFromModel(rs *recordSet, records map[string]model.TimeRecord) error {
	for date, mr := range records {
		if mr.TotalSeconds < 0 {
			return fmt.Errorf("%w: negative total on %s", model.ErrInvalidDocument, date)
		}
		r := NewTimeRecord(date)
		r.TotalSeconds = mr.TotalSeconds
		for k, v := range mr.SubActivitySeconds {
			r.SubActivitySeconds[k] = v
		}
		if mr.IsRunning && mr.LastStarted != nil {
			started, err := model.ParseTime(*mr.LastStarted)
			if err != nil {
				return fmt.Errorf("%w: %v", model.ErrInvalidDocument, err)
			}
			r.RunningSince = &started
		}
		rs.SetRecord(r)
	}
	return nil
}
