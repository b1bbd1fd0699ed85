package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tiliavir/work-hours-tracker/internal/backup"
	"github.com/Tiliavir/work-hours-tracker/internal/model"
	"github.com/Tiliavir/work-hours-tracker/internal/msgraph"
	"github.com/Tiliavir/work-hours-tracker/internal/report"
	"github.com/Tiliavir/work-hours-tracker/internal/session"
)

type steppingClock struct {
	t time.Time
}

func (c *steppingClock) now() time.Time { return c.t }

func openApp(t *testing.T, clock *steppingClock) *App {
	t.Helper()
	a, err := Open(context.Background(), Options{Home: t.TempDir(), Now: clock.now})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

var erika = model.Employee{ID: "4711", Name: "Erika Muster"}

func TestSessionWorkflowBacksUp(t *testing.T) {
	ctx := context.Background()
	clock := &steppingClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	a := openApp(t, clock)
	backupDir := t.TempDir()
	if err := a.SetBackupDir(backupDir); err != nil {
		t.Fatal(err)
	}

	if _, err := a.StartSession(ctx, model.Employee{ID: " 4711 ", Name: "Erika Muster"}); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if got := a.Config().Employee(); got != erika {
		t.Errorf("remembered employee = %+v, want %+v", got, erika)
	}

	clock.t = clock.t.Add(8*time.Hour + 30*time.Minute)
	ws, warn, err := a.StopSession(ctx)
	if err != nil || warn != nil {
		t.Fatalf("StopSession: err=%v warn=%v", err, warn)
	}
	if ws.Hours != 8.5 || ws.Start != "09:00:00" || ws.End != "17:30:00" {
		t.Errorf("session = %+v", ws)
	}

	if _, err := os.Stat(filepath.Join(backupDir, backup.FileName)); err != nil {
		t.Errorf("backup not written after stop: %v", err)
	}

	st, err := a.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.State != session.Idle || st.TodayHours != 8.5 || st.Sessions != 1 {
		t.Errorf("status = %+v", st)
	}
}

func TestStopWithoutStartLeavesNoBackup(t *testing.T) {
	ctx := context.Background()
	a := openApp(t, &steppingClock{t: time.Now()})
	backupDir := t.TempDir()
	if err := a.SetBackupDir(backupDir); err != nil {
		t.Fatal(err)
	}

	if _, _, err := a.StopSession(ctx); !errors.Is(err, session.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	if _, err := os.Stat(filepath.Join(backupDir, backup.FileName)); !os.IsNotExist(err) {
		t.Error("backup written for a failed stop")
	}
}

func TestAnnotateBackupAndHighlights(t *testing.T) {
	ctx := context.Background()
	a := openApp(t, &steppingClock{t: time.Now()})
	backupDir := t.TempDir()
	if err := a.SetLocation(backupDir); err != nil {
		t.Fatal(err)
	}

	written, warn, err := a.Annotate(ctx, "2024-06-01", "Doctor visit", true, "genehmigt")
	if err != nil || warn != nil || !written {
		t.Fatalf("Annotate: written=%v warn=%v err=%v", written, warn, err)
	}
	if _, err := os.Stat(filepath.Join(backupDir, backup.FileName)); err != nil {
		t.Errorf("backup not written after annotate: %v", err)
	}

	hs, err := a.Highlights(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(hs) != 1 || hs[0].Date != "2024-06-01" || hs[0].Status != model.StatusApproved || hs[0].Label != "Urlaub genehmigt" {
		t.Errorf("highlights = %+v", hs)
	}
}

func TestExportUsesConfiguredDirectory(t *testing.T) {
	ctx := context.Background()
	clock := &steppingClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	a := openApp(t, clock)

	if _, err := a.Export(ctx, erika, report.Options{}); !errors.Is(err, report.ErrMissingConfig) {
		t.Fatalf("Export without dir: err = %v, want ErrMissingConfig", err)
	}

	dir := t.TempDir()
	if err := a.SetExportDir(dir); err != nil {
		t.Fatal(err)
	}
	path, err := a.Export(ctx, erika, report.Options{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if path != filepath.Join(dir, "Arbeitszeitbericht_2026_03.csv") {
		t.Errorf("path = %q", path)
	}
}

type fakeCalendar struct {
	events []msgraph.CalendarEvent
}

func (f fakeCalendar) GetCalendarView(ctx context.Context, from, to time.Time, timezone string) ([]msgraph.CalendarEvent, error) {
	return f.events, nil
}

func TestImportFromUsesConfiguredStatus(t *testing.T) {
	ctx := context.Background()
	a := openApp(t, &steppingClock{t: time.Now()})
	src := fakeCalendar{events: []msgraph.CalendarEvent{{
		ID:      "ext-1",
		Subject: "Urlaub",
		ShowAs:  "oof",
		Start:   msgraph.GraphTime{DateTime: "2026-02-27T00:00:00"},
		End:     msgraph.GraphTime{DateTime: "2026-02-28T00:00:00"},
	}}}

	result, err := a.importFrom(ctx, src, ImportOptions{
		From: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("importFrom: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Imported = %d, want 1", result.Imported)
	}
	notes, err := a.Notes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 || notes[0].Status != model.StatusRequested || !notes[0].Vacation {
		t.Errorf("notes = %+v, want one requested vacation day", notes)
	}
}
