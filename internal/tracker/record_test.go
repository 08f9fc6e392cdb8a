package tracker

import (
	"testing"
	"time"
)

var day = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func TestTimeRecord_StartStop(t *testing.T) {
	t.Run("sum of runs", func(t *testing.T) {
		runs := []time.Duration{
			2 * time.Second,
			1500 * time.Millisecond, // rounds to 2
			1400 * time.Millisecond, // rounds to 1
			100 * time.Millisecond,  // floored to 1
			0,                       // floored to 1
			90 * time.Minute,
		}
		var want int64 = 2 + 2 + 1 + 1 + 1 + 5400

		r := NewTimeRecord(DateKey(day))
		now := day
		for _, d := range runs {
			r.StartTiming(now)
			now = now.Add(d)
			r.StopTiming(now)
			now = now.Add(time.Minute)
		}

		if r.TotalSeconds != want {
			t.Errorf("TotalSeconds = %d, want %d", r.TotalSeconds, want)
		}
		if r.IsRunning() {
			t.Error("IsRunning() = true after stop")
		}
	})

	t.Run("stop returns banked seconds", func(t *testing.T) {
		r := NewTimeRecord(DateKey(day))
		r.StartTiming(day)
		if got := r.StopTiming(day.Add(3 * time.Second)); got != 3 {
			t.Errorf("StopTiming() = %d, want 3", got)
		}
	})

	t.Run("stop when stopped is a no-op", func(t *testing.T) {
		r := NewTimeRecord(DateKey(day))
		r.TotalSeconds = 10
		if got := r.StopTiming(day); got != 0 {
			t.Errorf("StopTiming() = %d, want 0", got)
		}
		if r.TotalSeconds != 10 {
			t.Errorf("TotalSeconds = %d, want 10", r.TotalSeconds)
		}
	})

	t.Run("start when running keeps original start", func(t *testing.T) {
		r := NewTimeRecord(DateKey(day))
		r.StartTiming(day)
		r.StartTiming(day.Add(time.Hour))
		if !r.RunningSince.Equal(day) {
			t.Errorf("RunningSince = %v, want %v", r.RunningSince, day)
		}
	})
}

func TestTimeRecord_CurrentTotalSeconds(t *testing.T) {
	r := NewTimeRecord(DateKey(day))
	r.TotalSeconds = 100
	if got := r.CurrentTotalSeconds(day); got != 100 {
		t.Errorf("stopped CurrentTotalSeconds() = %d, want 100", got)
	}

	r.StartTiming(day)
	if got := r.CurrentTotalSeconds(day.Add(20 * time.Second)); got != 120 {
		t.Errorf("running CurrentTotalSeconds() = %d, want 120", got)
	}
	if r.TotalSeconds != 100 {
		t.Errorf("TotalSeconds = %d, want unchanged 100", r.TotalSeconds)
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{61, "00:01:01"},
		{3600, "01:00:00"},
		{86399, "23:59:59"},
		{90000, "25:00:00"},
		{360000, "100:00:00"},
	}
	for _, tt := range tests {
		if got := FormatSeconds(tt.seconds); got != tt.want {
			t.Errorf("FormatSeconds(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestTimeRecord_Formatted(t *testing.T) {
	r := NewTimeRecord(DateKey(day))
	r.TotalSeconds = 3599
	r.StartTiming(day)
	if got := r.Formatted(day.Add(2 * time.Second)); got != "01:00:01" {
		t.Errorf("Formatted() = %q, want %q", got, "01:00:01")
	}
}
