package tracker_test

import (
	"testing"
	"time"
)

func TestStore_Snapshot(t *testing.T) {
	f := newFixture(t)
	alpha := mustAdd(t, f.store, "Alpha", "alpha")
	if err := f.store.SetCurrentProject("alpha"); err != nil {
		t.Fatal(err)
	}
	if err := f.store.SetCurrentSubActivity("dev"); err != nil {
		t.Fatal(err)
	}
	if err := f.store.StartCurrentTimer(); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(45 * time.Second)

	snap := f.store.Snapshot()
	if !snap.TakenAt.Equal(f.clock.Now()) {
		t.Errorf("TakenAt = %v, want %v", snap.TakenAt, f.clock.Now())
	}
	if snap.CurrentProjectAlias != "alpha" || snap.CurrentSubActivityAlias != "dev" {
		t.Errorf("selection = %s/%s, want alpha/dev", snap.CurrentProjectAlias, snap.CurrentSubActivityAlias)
	}

	r := snap.Projects[0].Record("2024-01-15")
	if r.IsRunning() || r.TotalSeconds != 45 {
		t.Errorf("snapshot record = %+v, want frozen at 45 seconds", r)
	}

	f.clock.Advance(time.Minute)
	if r.CurrentTotalSeconds(f.clock.Now()) != 45 {
		t.Error("snapshot total moved with the clock")
	}
	if !alpha.Record("2024-01-15").IsRunning() {
		t.Error("live record stopped by Snapshot()")
	}
}

func TestSnapshot_Monthly(t *testing.T) {
	f := newFixture(t)
	mustAdd(t, f.store, "Alpha", "alpha")
	mustAdd(t, f.store, "Beta", "beta")

	f.clock.Set(time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC))
	if err := f.store.SetCurrentProject("beta"); err != nil {
		t.Fatal(err)
	}
	if err := f.store.StartCurrentTimer(); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(100 * time.Second)
	f.store.StopAllTimers()

	f.clock.Set(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
	if err := f.store.SetCurrentProject("alpha"); err != nil {
		t.Fatal(err)
	}
	if err := f.store.SetCurrentSubActivity("dev"); err != nil {
		t.Fatal(err)
	}
	if err := f.store.StartCurrentTimer(); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(45 * time.Second)

	snap := f.store.Snapshot()

	t.Run("current month", func(t *testing.T) {
		m := snap.Monthly(2024, time.January)
		if m.Days != 31 || len(m.DailyTotals) != 31 {
			t.Fatalf("Days = %d, len(DailyTotals) = %d, want 31", m.Days, len(m.DailyTotals))
		}
		if len(m.Projects) != 2 {
			t.Fatalf("len(Projects) = %d, want 2", len(m.Projects))
		}

		alpha := m.Projects[0]
		if alpha.Alias != "alpha" || alpha.General[14] != 45 || alpha.GeneralTotal != 45 {
			t.Errorf("alpha general = %d (total %d), want 45", alpha.General[14], alpha.GeneralTotal)
		}
		if len(alpha.SubActivities) != 1 || alpha.SubActivities[0].Alias != "dev" || alpha.SubActivities[0].Total != 45 {
			t.Errorf("alpha sub-activities = %+v, want dev with 45", alpha.SubActivities)
		}
		if alpha.Daily[14] != 90 || alpha.Total != 90 {
			t.Errorf("alpha daily = %d, total = %d, want 90", alpha.Daily[14], alpha.Total)
		}

		if m.Projects[1].Total != 0 {
			t.Errorf("beta Total = %d, want 0", m.Projects[1].Total)
		}
		if m.DailyTotals[14] != 90 || m.GrandTotal != 90 {
			t.Errorf("DailyTotals[14] = %d, GrandTotal = %d, want 90", m.DailyTotals[14], m.GrandTotal)
		}
	})

	t.Run("previous month", func(t *testing.T) {
		m := snap.Monthly(2023, time.December)
		beta := m.Projects[1]
		if beta.General[30] != 100 || beta.Total != 100 {
			t.Errorf("beta Dec 31 = %d, total = %d, want 100", beta.General[30], beta.Total)
		}
		if m.GrandTotal != 100 {
			t.Errorf("GrandTotal = %d, want 100", m.GrandTotal)
		}
	})

	t.Run("february in a leap year", func(t *testing.T) {
		if m := snap.Monthly(2024, time.February); m.Days != 29 {
			t.Errorf("Days = %d, want 29", m.Days)
		}
	})
}
