package tracker

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the layout of the per-day record keys.
const DateLayout = "2006-01-02"

// DateKey returns the record key for the calendar day of t in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// TimeRecord accumulates elapsed time for one calendar day.
// A record is running exactly when RunningSince is set.
type TimeRecord struct {
	Date         string
	TotalSeconds int64
	RunningSince *time.Time

	// SubActivitySeconds is carried through load/save unchanged for older files.
	SubActivitySeconds map[string]int64
}

// NewTimeRecord creates an empty, stopped record for the given day.
func NewTimeRecord(date string) *TimeRecord {
	return &TimeRecord{
		Date:               date,
		SubActivitySeconds: map[string]int64{},
	}
}

// IsRunning reports whether the record is currently timing.
func (r *TimeRecord) IsRunning() bool {
	return r.RunningSince != nil
}

// StartTiming marks the record as running from now. Starting a running
// record is a no-op.
func (r *TimeRecord) StartTiming(now time.Time) {
	if r.IsRunning() {
		return
	}
	started := now
	r.RunningSince = &started
}

// StopTiming banks the elapsed time since the record started and returns
// the number of seconds added. Stopping a stopped record returns 0.
func (r *TimeRecord) StopTiming(now time.Time) int64 {
	if !r.IsRunning() {
		return 0
	}
	elapsed := elapsedSeconds(*r.RunningSince, now)
	r.TotalSeconds += elapsed
	r.RunningSince = nil
	return elapsed
}

// CurrentTotalSeconds returns the banked total plus the live elapsed time
// of a running record. It does not modify the record.
func (r *TimeRecord) CurrentTotalSeconds(now time.Time) int64 {
	if !r.IsRunning() {
		return r.TotalSeconds
	}
	return r.TotalSeconds + elapsedSeconds(*r.RunningSince, now)
}

// Formatted renders CurrentTotalSeconds as HH:MM:SS.
func (r *TimeRecord) Formatted(now time.Time) string {
	return FormatSeconds(r.CurrentTotalSeconds(now))
}

func (r *TimeRecord) clone() *TimeRecord {
	c := &TimeRecord{
		Date:               r.Date,
		TotalSeconds:       r.TotalSeconds,
		SubActivitySeconds: make(map[string]int64, len(r.SubActivitySeconds)),
	}
	if r.RunningSince != nil {
		started := *r.RunningSince
		c.RunningSince = &started
	}
	for k, v := range r.SubActivitySeconds {
		c.SubActivitySeconds[k] = v
	}
	return c
}

// elapsedSeconds rounds the run length to whole seconds with a floor of one,
// so that very short runs are never dropped.
func elapsedSeconds(since, now time.Time) int64 {
	return max(1, int64(math.Round(now.Sub(since).Seconds())))
}

// FormatSeconds formats seconds as HH:MM:SS. Hours are not wrapped at 24.
func FormatSeconds(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
