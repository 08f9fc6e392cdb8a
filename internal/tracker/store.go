package tracker

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"ticktock/internal/config"
)

// autoCreateAliases are the sub-activity aliases SetCurrentSubActivity
// creates on demand. Any other unknown alias is rejected.
var autoCreateAliases = []string{"sub1", "sub2", "sub3", "dev", "test", "debug"}

// Store owns the project graph of one environment. It is the only mutator
// of projects, sub-activities and records, and the only writer of the data
// file. All methods are safe for concurrent use; projects returned by the
// store must only be read while no other goroutine mutates the store.
type Store struct {
	mu sync.Mutex

	settings Settings
	files    Filesystem
	vault    BackupVault
	journal  Journal
	logger   Logger
	clock    Clock
	idgen    IDGenerator

	dataFile       string
	projects       []*Project
	currentProject string
	currentSub     string
	lastSave       time.Time
}

// NewStore creates an empty store backed by the data file of the active
// environment. vault and journal may be nil, in which case backups and the
// session history are skipped. Call Load to read the data file.
func NewStore(settings Settings, files Filesystem, vault BackupVault, journal Journal, logger Logger, clock Clock, idgen IDGenerator) *Store {
	return &Store{
		settings: settings,
		files:    files,
		vault:    vault,
		journal:  journal,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
		dataFile: settings.DataFile(settings.Environment()),
	}
}

// DataFile returns the path of the backing file.
func (s *Store) DataFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataFile
}

// Environment returns the active environment.
func (s *Store) Environment() config.Environment {
	return s.settings.Environment()
}

// Projects returns the projects in insertion order.
func (s *Store) Projects() []*Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.projects)
}

// ProjectAliases returns the project aliases in insertion order.
func (s *Store) ProjectAliases() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	aliases := make([]string, len(s.projects))
	for i, p := range s.projects {
		aliases[i] = p.Alias
	}
	return aliases
}

// Project returns the project with the given alias, or nil.
func (s *Store) Project(alias string) *Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectLocked(alias)
}

// CurrentProjectAlias returns the selected project alias, or "".
func (s *Store) CurrentProjectAlias() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentProject
}

// CurrentSubActivityAlias returns the selected sub-activity alias, or "".
func (s *Store) CurrentSubActivityAlias() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSub
}

// CurrentProject returns the selected project, or nil.
func (s *Store) CurrentProject() *Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentProjectLocked()
}

// CurrentSubActivity returns the selected sub-activity, or nil.
func (s *Store) CurrentSubActivity() *SubActivity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSubLocked()
}

// AddProject appends a new project. A blank alias defaults to the name.
// seedDefault adds a "Sub Activity 1" (alias "sub1") sub-activity.
func (s *Store) AddProject(name, reference, alias string, seedDefault bool) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(alias) == "" {
		alias = name
	}
	if strings.TrimSpace(alias) == "" {
		return nil, fmt.Errorf("project: %w", ErrInvalidAlias)
	}
	if s.projectLocked(alias) != nil {
		return nil, fmt.Errorf("project %q: %w", alias, ErrDuplicateAlias)
	}

	p := NewProject(name, reference, alias)
	if seedDefault {
		if _, err := p.AddSubActivity("Sub Activity 1", "sub1"); err != nil {
			return nil, err
		}
	}
	s.projects = append(s.projects, p)
	s.logger.Info("project added", "alias", alias)
	return p, nil
}

// RemoveProject deletes a project. Its running records are stopped first,
// and the selection is cleared if it pointed at the project.
func (s *Store) RemoveProject(alias string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.projectIndexLocked(alias)
	if i < 0 {
		return fmt.Errorf("project %q: %w", alias, ErrProjectNotFound)
	}
	s.stopProjectLocked(s.projects[i], s.clock.Now())
	s.projects = slices.Delete(s.projects, i, i+1)
	if s.currentProject == alias {
		s.currentProject = ""
		s.currentSub = ""
	}
	s.logger.Info("project removed", "alias", alias)
	return nil
}

// UpdateProject changes a project's name, reference and alias. An empty
// newAlias keeps the current alias. The selection follows an alias change.
func (s *Store) UpdateProject(alias, name, reference, newAlias string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.projectLocked(alias)
	if p == nil {
		return fmt.Errorf("project %q: %w", alias, ErrProjectNotFound)
	}
	if strings.TrimSpace(newAlias) == "" {
		newAlias = alias
	}
	if newAlias != alias && s.projectLocked(newAlias) != nil {
		return fmt.Errorf("project %q: %w", newAlias, ErrDuplicateAlias)
	}

	p.Name = name
	p.Reference = reference
	p.Alias = newAlias
	if s.currentProject == alias {
		s.currentProject = newAlias
	}
	s.logger.Info("project updated", "alias", alias, "new_alias", newAlias)
	return nil
}

// AddSubActivity adds a sub-activity to the named project.
func (s *Store) AddSubActivity(projectAlias, name, alias string) (*SubActivity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.projectLocked(projectAlias)
	if p == nil {
		return nil, fmt.Errorf("project %q: %w", projectAlias, ErrProjectNotFound)
	}
	sub, err := p.AddSubActivity(name, alias)
	if err != nil {
		return nil, err
	}
	s.logger.Info("sub-activity added", "project", projectAlias, "alias", sub.Alias)
	return sub, nil
}

// RemoveSubActivity deletes a sub-activity, stopping it if it runs and
// clearing the sub-activity selection if it pointed at it.
func (s *Store) RemoveSubActivity(projectAlias, alias string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.projectLocked(projectAlias)
	if p == nil {
		return fmt.Errorf("project %q: %w", projectAlias, ErrProjectNotFound)
	}
	sub := p.SubActivity(alias)
	if sub == nil {
		return fmt.Errorf("sub-activity %q in project %q: %w", alias, projectAlias, ErrSubActivityNotFound)
	}
	if r := sub.RunningRecord(); r != nil {
		s.stopRecordLocked(r, projectAlias, alias, s.clock.Now())
	}
	p.RemoveSubActivity(alias)
	if s.currentProject == projectAlias && s.currentSub == alias {
		s.currentSub = ""
	}
	s.logger.Info("sub-activity removed", "project", projectAlias, "alias", alias)
	return nil
}

// UpdateSubActivity renames a sub-activity. An empty newAlias keeps the
// current alias. The selection follows an alias change.
func (s *Store) UpdateSubActivity(projectAlias, alias, name, newAlias string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.projectLocked(projectAlias)
	if p == nil {
		return fmt.Errorf("project %q: %w", projectAlias, ErrProjectNotFound)
	}
	sub := p.SubActivity(alias)
	if sub == nil {
		return fmt.Errorf("sub-activity %q in project %q: %w", alias, projectAlias, ErrSubActivityNotFound)
	}
	if strings.TrimSpace(newAlias) == "" {
		newAlias = alias
	}
	if newAlias != alias && p.SubActivity(newAlias) != nil {
		return fmt.Errorf("sub-activity %q in project %q: %w", newAlias, projectAlias, ErrDuplicateAlias)
	}

	sub.Name = name
	sub.Alias = newAlias
	if s.currentProject == projectAlias && s.currentSub == alias {
		s.currentSub = newAlias
	}
	return nil
}

// SetCurrentProject selects a project and always clears the sub-activity
// selection.
func (s *Store) SetCurrentProject(alias string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.projectLocked(alias) == nil {
		return fmt.Errorf("project %q: %w", alias, ErrProjectNotFound)
	}
	s.currentProject = alias
	s.currentSub = ""
	return nil
}

// SetCurrentSubActivity selects a sub-activity of the current project.
// An empty alias clears the selection. Unknown aliases are rejected unless
// they are one of the well-known aliases sub1, sub2, sub3, dev, test and
// debug, which are created on demand.
func (s *Store) SetCurrentSubActivity(alias string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if alias == "" {
		s.currentSub = ""
		return nil
	}

	p := s.currentProjectLocked()
	if p == nil {
		return ErrNoCurrentProject
	}
	if p.SubActivity(alias) == nil {
		if !slices.Contains(autoCreateAliases, alias) {
			return fmt.Errorf("sub-activity %q in project %q: %w", alias, p.Alias, ErrUnknownSubActivity)
		}
		if _, err := p.AddSubActivity("Sub Activity "+alias, alias); err != nil {
			return err
		}
		s.logger.Debug("sub-activity auto-created", "project", p.Alias, "alias", alias)
	}
	s.currentSub = alias
	return nil
}

// StartCurrentTimer stops every running timer and then starts today's
// record of the current project and, if one is selected, of the current
// sub-activity. Both run together; sub-activity time is a narrower view of
// the project's work.
func (s *Store) StartCurrentTimer() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.currentProjectLocked()
	if p == nil {
		return ErrNoCurrentProject
	}

	now := s.clock.Now()
	s.stopAllLocked(now)

	p.TodayRecord(now).StartTiming(now)
	if sub := s.currentSubLocked(); sub != nil {
		sub.TodayRecord(now).StartTiming(now)
	}
	s.logger.Info("timer started", "project", p.Alias, "sub_activity", s.currentSub)
	return nil
}

// StopAllTimers stops every running record in the graph, whatever its date,
// and returns how many were stopped. It is idempotent.
func (s *Store) StopAllTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopAllLocked(s.clock.Now())
}

// IsRunning reports whether any record in the graph is running.
func (s *Store) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if p.RunningRecord() != nil {
			return true
		}
		for _, sub := range p.subActivities {
			if sub.RunningRecord() != nil {
				return true
			}
		}
	}
	return false
}

// Status is a point-in-time view of the selection for live displays.
type Status struct {
	Environment        config.Environment
	ProjectAlias       string
	SubActivityAlias   string
	Running            bool
	ProjectSeconds     int64
	SubActivitySeconds int64
}

// Status returns the selection and its live totals. A run that crossed
// midnight is reported against the day it started.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	st := Status{
		Environment:      s.settings.Environment(),
		ProjectAlias:     s.currentProject,
		SubActivityAlias: s.currentSub,
	}
	if p := s.currentProjectLocked(); p != nil {
		r := p.RunningRecord()
		st.Running = r != nil
		if r == nil {
			r = p.TodayRecord(now)
		}
		st.ProjectSeconds = r.CurrentTotalSeconds(now)
	}
	if sub := s.currentSubLocked(); sub != nil {
		r := sub.RunningRecord()
		if r == nil {
			r = sub.TodayRecord(now)
		}
		st.SubActivitySeconds = r.CurrentTotalSeconds(now)
	}
	return st
}

func (s *Store) projectIndexLocked(alias string) int {
	return slices.IndexFunc(s.projects, func(p *Project) bool { return p.Alias == alias })
}

func (s *Store) projectLocked(alias string) *Project {
	if i := s.projectIndexLocked(alias); i >= 0 {
		return s.projects[i]
	}
	return nil
}

func (s *Store) currentProjectLocked() *Project {
	if s.currentProject == "" {
		return nil
	}
	return s.projectLocked(s.currentProject)
}

func (s *Store) currentSubLocked() *SubActivity {
	p := s.currentProjectLocked()
	if p == nil || s.currentSub == "" {
		return nil
	}
	return p.SubActivity(s.currentSub)
}

func (s *Store) stopAllLocked(now time.Time) int {
	stopped := 0
	for _, p := range s.projects {
		stopped += s.stopProjectLocked(p, now)
	}
	return stopped
}

// stopProjectLocked stops the running records of a project and its
// sub-activities.
func (s *Store) stopProjectLocked(p *Project, now time.Time) int {
	stopped := 0
	for _, d := range p.Dates() {
		if r := p.Record(d); r.IsRunning() {
			s.stopRecordLocked(r, p.Alias, "", now)
			stopped++
		}
	}
	for _, sub := range p.subActivities {
		for _, d := range sub.Dates() {
			if r := sub.Record(d); r.IsRunning() {
				s.stopRecordLocked(r, p.Alias, sub.Alias, now)
				stopped++
			}
		}
	}
	return stopped
}

// stopRecordLocked stops one record and appends the run to the journal.
// Journal failures are logged and never undo the stop.
func (s *Store) stopRecordLocked(r *TimeRecord, projectAlias, subAlias string, now time.Time) {
	started := *r.RunningSince
	seconds := r.StopTiming(now)
	s.logger.Debug("timer stopped", "project", projectAlias, "sub_activity", subAlias, "seconds", seconds)

	if s.journal == nil {
		return
	}
	session := &Session{
		ID:               s.idgen.New(),
		Environment:      string(s.settings.Environment()),
		ProjectAlias:     projectAlias,
		SubActivityAlias: subAlias,
		Date:             r.Date,
		StartedAt:        started,
		StoppedAt:        now,
		Seconds:          seconds,
	}
	if err := s.journal.RecordSession(session); err != nil {
		s.logger.Warn("could not record session", "project", projectAlias, "error", err)
	}
}

func (s *Store) resetLocked() {
	s.projects = nil
	s.currentProject = ""
	s.currentSub = ""
}
