package session_test

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tiliavir/work-hours-tracker/internal/model"
	"github.com/Tiliavir/work-hours-tracker/internal/session"
	"github.com/Tiliavir/work-hours-tracker/internal/storage"
)

// fakeClock returns the queued instants in order.
type fakeClock struct {
	times []time.Time
}

func (c *fakeClock) now() time.Time {
	t := c.times[0]
	if len(c.times) > 1 {
		c.times = c.times[1:]
	}
	return t
}

func at(day, h, m, s int) time.Time {
	return time.Date(2026, 2, day, h, m, s, 0, time.UTC)
}

var erika = model.Employee{ID: "4711", Name: "Erika Muster"}

func newTimer(t *testing.T, times ...time.Time) (*session.Timer, *storage.Ledger) {
	t.Helper()
	l, err := storage.Open(filepath.Join(t.TempDir(), storage.FileName), nil)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	clock := &fakeClock{times: times}
	return session.NewTimer(l, session.WithClock(clock.now)), l
}

func TestStartStopRecordsSession(t *testing.T) {
	ctx := context.Background()
	timer, ledger := newTimer(t, at(27, 9, 0, 0), at(27, 17, 30, 0))

	if _, err := timer.Start(ctx, erika); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ws, err := timer.Stop(ctx)
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}

	want := model.WorkSession{ID: ws.ID, Start: "09:00:00", End: "17:30:00", Date: "2026-02-27", Hours: 8.5}
	if ws != want {
		t.Errorf("Stop = %+v, want %+v", ws, want)
	}

	sessions, err := ledger.ListSessions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0] != want {
		t.Errorf("ledger sessions = %+v, want [%+v]", sessions, want)
	}

	state, _, err := timer.State(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state != session.Idle {
		t.Errorf("state after stop = %v, want idle", state)
	}
}

func TestElapsedAccurateToTheSecond(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		start, end time.Time
	}{
		{at(27, 0, 0, 0), at(27, 23, 59, 59)},
		{at(27, 8, 15, 7), at(27, 8, 15, 8)},
		{at(27, 12, 0, 0), at(27, 12, 44, 33)},
	}
	for _, tt := range tests {
		timer, _ := newTimer(t, tt.start, tt.end)
		if _, err := timer.Start(ctx, erika); err != nil {
			t.Fatal(err)
		}
		ws, err := timer.Stop(ctx)
		if err != nil {
			t.Fatal(err)
		}
		want := tt.end.Sub(tt.start).Seconds() / 3600
		if math.Abs(ws.Hours-want) > 1e-9 {
			t.Errorf("%s-%s: hours = %v, want %v", ws.Start, ws.End, ws.Hours, want)
		}
	}
}

func TestStopWithoutStart(t *testing.T) {
	ctx := context.Background()
	timer, ledger := newTimer(t, at(27, 9, 0, 0))

	_, err := timer.Stop(ctx)
	if !errors.Is(err, session.ErrInvalidState) {
		t.Fatalf("Stop while idle: err = %v, want ErrInvalidState", err)
	}
	n, err := ledger.CountSessions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("session count = %d, want 0", n)
	}
}

func TestDoubleStartKeepsFirstStart(t *testing.T) {
	ctx := context.Background()
	timer, _ := newTimer(t, at(27, 9, 0, 0), at(27, 10, 0, 0), at(27, 11, 0, 0))

	if _, err := timer.Start(ctx, erika); err != nil {
		t.Fatal(err)
	}
	if _, err := timer.Start(ctx, erika); !errors.Is(err, session.ErrInvalidState) {
		t.Fatalf("second Start: err = %v, want ErrInvalidState", err)
	}
	ws, err := timer.Stop(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ws.Start != "09:00:00" {
		t.Errorf("Start = %q, want first start 09:00:00", ws.Start)
	}
}

func TestStartRequiresEmployee(t *testing.T) {
	ctx := context.Background()
	tests := []model.Employee{
		{},
		{ID: "4711"},
		{Name: "Erika"},
		{ID: "  ", Name: "Erika"},
	}
	for _, emp := range tests {
		timer, _ := newTimer(t, at(27, 9, 0, 0))
		if _, err := timer.Start(ctx, emp); !errors.Is(err, session.ErrValidation) {
			t.Errorf("Start(%+v): err = %v, want ErrValidation", emp, err)
		}
		state, _, err := timer.State(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if state != session.Idle {
			t.Errorf("Start(%+v) left timer %v", emp, state)
		}
	}
}

func TestStopAcrossMidnightUsesStopDate(t *testing.T) {
	ctx := context.Background()
	timer, _ := newTimer(t, at(27, 22, 0, 0), at(28, 2, 0, 0))

	if _, err := timer.Start(ctx, erika); err != nil {
		t.Fatal(err)
	}
	ws, err := timer.Stop(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ws.Date != "2026-02-28" {
		t.Errorf("Date = %q, want stop date 2026-02-28", ws.Date)
	}
	if ws.Hours != 4 {
		t.Errorf("Hours = %v, want 4", ws.Hours)
	}
}

func TestRunningSessionSurvivesNewTimer(t *testing.T) {
	ctx := context.Background()
	l, err := storage.Open(filepath.Join(t.TempDir(), storage.FileName), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	first := session.NewTimer(l, session.WithClock(func() time.Time { return at(27, 9, 0, 0) }))
	if _, err := first.Start(ctx, erika); err != nil {
		t.Fatal(err)
	}

	second := session.NewTimer(l, session.WithClock(func() time.Time { return at(27, 12, 0, 0) }))
	state, open, err := second.State(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state != session.Running || open.Employee != erika {
		t.Fatalf("State = %v %+v, want running for %+v", state, open, erika)
	}
	ws, err := second.Stop(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ws.Hours != 3 {
		t.Errorf("Hours = %v, want 3", ws.Hours)
	}
}
