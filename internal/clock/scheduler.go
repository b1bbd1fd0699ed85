package clock

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs periodic jobs for the live clock display.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler returns a second-resolution scheduler in loc.
func NewScheduler(loc *time.Location) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
	}
}

// Every registers job to run at the given interval, rounded down to whole
// seconds (minimum one second).
func (s *Scheduler) Every(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	return s.cron.AddFunc(IntervalSpec(interval), job)
}

// IntervalSpec converts an interval into a cron "@every" spec.
func IntervalSpec(interval time.Duration) string {
	seconds := int(interval / time.Second)
	if seconds <= 0 {
		seconds = 1
	}
	return fmt.Sprintf("@every %ds", seconds)
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
