package clock_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/Tiliavir/work-hours-tracker/internal/clock"
)

func TestIntervalSpec(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{time.Second, "@every 1s"},
		{1500 * time.Millisecond, "@every 1s"},
		{30 * time.Second, "@every 30s"},
		{time.Millisecond, "@every 1s"},
	}
	for _, tt := range tests {
		if got := clock.IntervalSpec(tt.in); got != tt.want {
			t.Errorf("IntervalSpec(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEveryRejectsNonPositive(t *testing.T) {
	s := clock.NewScheduler(time.UTC)
	if _, err := s.Every(0, func() {}); err == nil {
		t.Error("expected error for zero interval")
	}
}

func TestEveryRunsJob(t *testing.T) {
	s := clock.NewScheduler(time.UTC)
	var runs atomic.Int32
	if _, err := s.Every(time.Second, func() { runs.Add(1) }); err != nil {
		t.Fatal(err)
	}
	s.Start()
	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	s.Stop()
	if runs.Load() == 0 {
		t.Error("job never ran")
	}
}
