package tracker

import (
	"time"

	"ticktock/internal/config"
)

// Snapshot is a deep copy of the graph taken at one instant. Running
// records are banked as of TakenAt, so totals read from a snapshot never
// change while a live timer keeps going.
type Snapshot struct {
	TakenAt                 time.Time
	Environment             config.Environment
	CurrentProjectAlias     string
	CurrentSubActivityAlias string
	Projects                []*Project
}

// Snapshot returns a frozen copy of the graph for aggregation.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	snap := &Snapshot{
		TakenAt:                 now,
		Environment:             s.settings.Environment(),
		CurrentProjectAlias:     s.currentProject,
		CurrentSubActivityAlias: s.currentSub,
		Projects:                make([]*Project, 0, len(s.projects)),
	}
	for _, p := range s.projects {
		c := p.clone()
		freezeRecords(&c.recordSet, now)
		for _, sub := range c.subActivities {
			freezeRecords(&sub.recordSet, now)
		}
		snap.Projects = append(snap.Projects, c)
	}
	return snap
}

func freezeRecords(rs *recordSet, now time.Time) {
	for _, r := range rs.records {
		r.TotalSeconds = r.CurrentTotalSeconds(now)
		r.RunningSince = nil
	}
}

// SubActivityTotals holds one sub-activity's seconds per day of a month.
type SubActivityTotals struct {
	Alias string
	Name  string
	Daily []int64
	Total int64
}

// ProjectTotals holds one project's seconds per day of a month. General is
// time booked on the project itself; Daily adds the sub-activity time.
type ProjectTotals struct {
	Alias         string
	Name          string
	Reference     string
	General       []int64
	GeneralTotal  int64
	SubActivities []SubActivityTotals
	Daily         []int64
	Total         int64
}

// MonthlyTotals aggregates a snapshot over one calendar month. Slices are
// indexed by day of month minus one.
type MonthlyTotals struct {
	Year        int
	Month       time.Month
	Days        int
	Projects    []ProjectTotals
	DailyTotals []int64
	GrandTotal  int64
}

// Monthly sums the snapshot's records for the given month.
func (snap *Snapshot) Monthly(year int, month time.Month) *MonthlyTotals {
	days := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	m := &MonthlyTotals{
		Year:        year,
		Month:       month,
		Days:        days,
		Projects:    make([]ProjectTotals, 0, len(snap.Projects)),
		DailyTotals: make([]int64, days),
	}

	for _, p := range snap.Projects {
		pt := ProjectTotals{
			Alias:     p.Alias,
			Name:      p.Name,
			Reference: p.Reference,
			General:   dailySeconds(&p.recordSet, year, month, days),
			Daily:     make([]int64, days),
		}
		for d, v := range pt.General {
			pt.GeneralTotal += v
			pt.Daily[d] += v
		}
		for _, sub := range p.subActivities {
			st := SubActivityTotals{
				Alias: sub.Alias,
				Name:  sub.Name,
				Daily: dailySeconds(&sub.recordSet, year, month, days),
			}
			for d, v := range st.Daily {
				st.Total += v
				pt.Daily[d] += v
			}
			pt.SubActivities = append(pt.SubActivities, st)
		}
		for d, v := range pt.Daily {
			pt.Total += v
			m.DailyTotals[d] += v
		}
		m.GrandTotal += pt.Total
		m.Projects = append(m.Projects, pt)
	}
	return m
}

func dailySeconds(rs *recordSet, year int, month time.Month, days int) []int64 {
	out := make([]int64, days)
	for day := 1; day <= days; day++ {
		key := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(DateLayout)
		if r := rs.Record(key); r != nil {
			out[day-1] = r.TotalSeconds
		}
	}
	return out
}
