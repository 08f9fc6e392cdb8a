package journal

import (
	"path/filepath"
	"testing"
	"time"

	"ticktock/internal/tracker"
)

// newTestJournal creates a new in-memory journal with schema applied.
func newTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()

	j, err := NewSQLiteJournal(":memory:")
	if err != nil {
		t.Fatalf("failed to create journal: %v", err)
	}
	t.Cleanup(func() {
		j.Close()
	})
	return j
}

func session(id string, stopped time.Time, seconds int64) *tracker.Session {
	return &tracker.Session{
		ID:           id,
		Environment:  "development",
		ProjectAlias: "alpha",
		Date:         stopped.Format(tracker.DateLayout),
		StartedAt:    stopped.Add(-time.Duration(seconds) * time.Second),
		StoppedAt:    stopped,
		Seconds:      seconds,
	}
}

func TestSQLiteJournal_RecordAndList(t *testing.T) {
	j := newTestJournal(t)
	base := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	first := session("s-1", base, 60)
	second := session("s-2", base.Add(time.Hour), 120)
	second.SubActivityAlias = "dev"

	for _, s := range []*tracker.Session{first, second} {
		if err := j.RecordSession(s); err != nil {
			t.Fatalf("RecordSession(%s) error = %v", s.ID, err)
		}
	}

	got, err := j.ListSessions(10)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(ListSessions()) = %d, want 2", len(got))
	}
	if got[0].ID != "s-2" || got[1].ID != "s-1" {
		t.Errorf("ListSessions() order = [%s %s], want [s-2 s-1]", got[0].ID, got[1].ID)
	}
	if got[0].SubActivityAlias != "dev" {
		t.Errorf("SubActivityAlias = %q, want %q", got[0].SubActivityAlias, "dev")
	}
	if got[0].Seconds != 120 {
		t.Errorf("Seconds = %d, want 120", got[0].Seconds)
	}
	if !got[1].StoppedAt.Equal(base) {
		t.Errorf("StoppedAt = %v, want %v", got[1].StoppedAt, base)
	}
	if !got[1].StartedAt.Equal(base.Add(-time.Minute)) {
		t.Errorf("StartedAt = %v, want %v", got[1].StartedAt, base.Add(-time.Minute))
	}
	if got[1].Date != "2024-01-15" {
		t.Errorf("Date = %q, want %q", got[1].Date, "2024-01-15")
	}
}

func TestSQLiteJournal_ListLimit(t *testing.T) {
	j := newTestJournal(t)
	base := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		if err := j.RecordSession(session(id, base.Add(time.Duration(i)*time.Minute), 1)); err != nil {
			t.Fatalf("RecordSession() error = %v", err)
		}
	}

	t.Run("limit caps results", func(t *testing.T) {
		got, err := j.ListSessions(2)
		if err != nil {
			t.Fatalf("ListSessions() error = %v", err)
		}
		if len(got) != 2 || got[0].ID != "c" {
			t.Errorf("ListSessions(2) = %d sessions starting %v, want 2 starting c", len(got), got)
		}
	})

	t.Run("zero returns all", func(t *testing.T) {
		got, err := j.ListSessions(0)
		if err != nil {
			t.Fatalf("ListSessions() error = %v", err)
		}
		if len(got) != 3 {
			t.Errorf("len(ListSessions(0)) = %d, want 3", len(got))
		}
	})
}

func TestSQLiteJournal_DuplicateID(t *testing.T) {
	j := newTestJournal(t)
	s := session("dup", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), 5)

	if err := j.RecordSession(s); err != nil {
		t.Fatalf("first RecordSession() error = %v", err)
	}
	if err := j.RecordSession(s); err == nil {
		t.Error("second RecordSession() expected primary key violation")
	}
}

func TestSQLiteJournal_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := NewSQLiteJournal(path)
	if err != nil {
		t.Fatalf("NewSQLiteJournal() error = %v", err)
	}
	if err := j.RecordSession(session("s-1", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), 30)); err != nil {
		t.Fatalf("RecordSession() error = %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSQLiteJournal(path)
	if err != nil {
		t.Fatalf("reopen NewSQLiteJournal() error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.ListSessions(0)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "s-1" {
		t.Errorf("ListSessions() after reopen = %v, want [s-1]", got)
	}
}
