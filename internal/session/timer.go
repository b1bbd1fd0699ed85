package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/work-hours-tracker/internal/log"
	"github.com/Tiliavir/work-hours-tracker/internal/model"
	"github.com/Tiliavir/work-hours-tracker/internal/timecalc"
)

var (
	// ErrInvalidState is returned by Start while running and by Stop while idle.
	ErrInvalidState = errors.New("invalid state")
	// ErrValidation is returned when required user input is missing.
	ErrValidation = errors.New("validation failed")
)

// State is the timer state.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Store persists the running session and closes it into a work session.
// *storage.Ledger satisfies it.
type Store interface {
	OpenSession(ctx context.Context) (*model.OpenSession, error)
	BeginSession(ctx context.Context, open model.OpenSession) error
	CloseSession(ctx context.Context, s model.WorkSession) (model.WorkSession, error)
}

// Timer tracks at most one open work interval.
type Timer struct {
	store Store
	now   func() time.Time
	log   *log.Logger
}

// Option configures a Timer.
type Option func(*Timer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) { t.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(t *Timer) { t.log = l }
}

// NewTimer returns a timer persisting through store.
func NewTimer(store Store, opts ...Option) *Timer {
	t := &Timer{store: store, now: time.Now, log: log.Discard()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State reports whether a session is running and, if so, which.
func (t *Timer) State(ctx context.Context) (State, *model.OpenSession, error) {
	open, err := t.store.OpenSession(ctx)
	if err != nil {
		return Idle, nil, err
	}
	if open == nil {
		return Idle, nil, nil
	}
	return Running, open, nil
}

// Start opens a session for emp at the current time. Both employee fields
// are required. Starting while running is rejected; the first start time is
// kept.
func (t *Timer) Start(ctx context.Context, emp model.Employee) (time.Time, error) {
	emp.ID = strings.TrimSpace(emp.ID)
	emp.Name = strings.TrimSpace(emp.Name)
	if emp.ID == "" || emp.Name == "" {
		return time.Time{}, fmt.Errorf("%w: employee id and name are required", ErrValidation)
	}

	state, open, err := t.State(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if state == Running {
		return time.Time{}, fmt.Errorf("%w: session already running since %s",
			ErrInvalidState, open.Start.Format(model.TimeLayout))
	}

	start := t.now().Truncate(time.Second)
	if err := t.store.BeginSession(ctx, model.OpenSession{Start: start, Employee: emp}); err != nil {
		return time.Time{}, err
	}
	t.log.Info("session started", "start", start.Format(model.TimeLayout), "employee_id", emp.ID)
	return start, nil
}

// Stop closes the running session and records it under the stop date.
func (t *Timer) Stop(ctx context.Context) (model.WorkSession, error) {
	state, open, err := t.State(ctx)
	if err != nil {
		return model.WorkSession{}, err
	}
	if state == Idle {
		return model.WorkSession{}, fmt.Errorf("%w: no running session to stop", ErrInvalidState)
	}

	end := t.now()
	start := open.Start.In(end.Location())
	ws := model.WorkSession{
		Start: start.Format(model.TimeLayout),
		End:   end.Format(model.TimeLayout),
		Date:  end.Format(model.DateLayout),
		Hours: timecalc.ElapsedHours(start, end),
	}
	ws, err = t.store.CloseSession(ctx, ws)
	if err != nil {
		return model.WorkSession{}, err
	}
	t.log.Info("session stopped", "date", ws.Date, "hours", ws.Hours)
	return ws, nil
}
