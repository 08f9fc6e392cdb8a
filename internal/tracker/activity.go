package tracker

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// recordSet holds the per-day records of a project or sub-activity.
type recordSet struct {
	records map[string]*TimeRecord
}

func newRecordSet() recordSet {
	return recordSet{records: make(map[string]*TimeRecord)}
}

// TodayRecord returns the record for the calendar day of now, creating an
// empty one if the day has none yet.
func (rs *recordSet) TodayRecord(now time.Time) *TimeRecord {
	key := DateKey(now)
	r, ok := rs.records[key]
	if !ok {
		r = NewTimeRecord(key)
		rs.records[key] = r
	}
	return r
}

// Record returns the record for a date key, or nil.
func (rs *recordSet) Record(date string) *TimeRecord {
	return rs.records[date]
}

// SetRecord stores r under its own date, replacing any existing record.
func (rs *recordSet) SetRecord(r *TimeRecord) {
	rs.records[r.Date] = r
}

// Dates returns the recorded date keys in ascending order.
func (rs *recordSet) Dates() []string {
	dates := make([]string, 0, len(rs.records))
	for d := range rs.records {
		dates = append(dates, d)
	}
	slices.Sort(dates)
	return dates
}

// RunningRecord returns the running record on any date, or nil.
// A run that crossed midnight stays on the day it started.
func (rs *recordSet) RunningRecord() *TimeRecord {
	for _, d := range rs.Dates() {
		if r := rs.records[d]; r.IsRunning() {
			return r
		}
	}
	return nil
}

// IsRunningToday reports whether today's record is running.
func (rs *recordSet) IsRunningToday(now time.Time) bool {
	return rs.TodayRecord(now).IsRunning()
}

// TotalTodayFormatted returns today's live total as HH:MM:SS.
func (rs *recordSet) TotalTodayFormatted(now time.Time) string {
	return rs.TodayRecord(now).Formatted(now)
}

func (rs *recordSet) cloneRecords() recordSet {
	c := newRecordSet()
	for d, r := range rs.records {
		c.records[d] = r.clone()
	}
	return c
}

// SubActivity is a named child timer of a Project.
type SubActivity struct {
	Name  string
	Alias string
	recordSet
}

// NewSubActivity creates a sub-activity with no records.
func NewSubActivity(name, alias string) *SubActivity {
	return &SubActivity{Name: name, Alias: alias, recordSet: newRecordSet()}
}

// Project is a named parent timer with its own general records and an
// ordered list of sub-activities.
type Project struct {
	Name      string
	Reference string // free-form external identifier, e.g. a ticket number
	Alias     string
	recordSet

	subActivities []*SubActivity
}

// NewProject creates a project with no records and no sub-activities.
func NewProject(name, reference, alias string) *Project {
	return &Project{
		Name:      name,
		Reference: reference,
		Alias:     alias,
		recordSet: newRecordSet(),
	}
}

// SubActivities returns the sub-activities in insertion order.
func (p *Project) SubActivities() []*SubActivity {
	return slices.Clone(p.subActivities)
}

// SubActivity returns the sub-activity with the given alias, or nil.
func (p *Project) SubActivity(alias string) *SubActivity {
	for _, sub := range p.subActivities {
		if sub.Alias == alias {
			return sub
		}
	}
	return nil
}

// AddSubActivity appends a new sub-activity. A blank alias defaults to the
// name. Aliases must be unique within the project.
func (p *Project) AddSubActivity(name, alias string) (*SubActivity, error) {
	if strings.TrimSpace(alias) == "" {
		alias = name
	}
	if strings.TrimSpace(alias) == "" {
		return nil, fmt.Errorf("sub-activity in project %q: %w", p.Alias, ErrInvalidAlias)
	}
	if p.SubActivity(alias) != nil {
		return nil, fmt.Errorf("sub-activity %q in project %q: %w", alias, p.Alias, ErrDuplicateAlias)
	}
	sub := NewSubActivity(name, alias)
	p.subActivities = append(p.subActivities, sub)
	return sub, nil
}

// RemoveSubActivity removes the sub-activity with the given alias and
// reports whether it was found.
func (p *Project) RemoveSubActivity(alias string) bool {
	for i, sub := range p.subActivities {
		if sub.Alias == alias {
			p.subActivities = slices.Delete(p.subActivities, i, i+1)
			return true
		}
	}
	return false
}

func (p *Project) clone() *Project {
	c := &Project{
		Name:      p.Name,
		Reference: p.Reference,
		Alias:     p.Alias,
		recordSet: p.cloneRecords(),
	}
	for _, sub := range p.subActivities {
		c.subActivities = append(c.subActivities, &SubActivity{
			Name:      sub.Name,
			Alias:     sub.Alias,
			recordSet: sub.cloneRecords(),
		})
	}
	return c
}
