// Package app wires configuration, the ledger and the tracker components
// into one controller used by the command line.
package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Tiliavir/work-hours-tracker/internal/annotation"
	"github.com/Tiliavir/work-hours-tracker/internal/backup"
	"github.com/Tiliavir/work-hours-tracker/internal/config"
	"github.com/Tiliavir/work-hours-tracker/internal/log"
	"github.com/Tiliavir/work-hours-tracker/internal/model"
	"github.com/Tiliavir/work-hours-tracker/internal/msgraph"
	"github.com/Tiliavir/work-hours-tracker/internal/report"
	"github.com/Tiliavir/work-hours-tracker/internal/session"
	"github.com/Tiliavir/work-hours-tracker/internal/storage"
)

// Options configure Open.
type Options struct {
	// Home is the data directory holding config.json and the ledger.
	Home   string
	Logger *log.Logger
	// Now replaces time.Now for the timer and the exporter.
	Now func() time.Time
}

// App owns the configuration, the ledger and every component built on them.
type App struct {
	home        string
	cfg         *config.Store
	ledger      *storage.Ledger
	timer       *session.Timer
	annotations *annotation.Service
	exporter    *report.Exporter
	backup      *backup.Agent
	log         *log.Logger
	now         func() time.Time
}

// Open loads the config and opens the ledger. A ledger that cannot be
// opened is a fatal storage error.
func Open(ctx context.Context, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	cfg, err := config.Load(opts.Home)
	if err != nil {
		return nil, err
	}
	ledger, err := storage.Open(filepath.Join(opts.Home, storage.FileName), logger.WithComponent(log.ComponentStorage))
	if err != nil {
		return nil, err
	}

	a := &App{
		home:   opts.Home,
		cfg:    cfg,
		ledger: ledger,
		log:    logger,
		now:    now,
	}
	a.timer = session.NewTimer(ledger,
		session.WithClock(now),
		session.WithLogger(logger.WithComponent(log.ComponentSession)))
	a.annotations = annotation.NewService(ledger, logger.WithComponent(log.ComponentAnnotation))
	a.exporter = report.NewExporter(ledger, logger.WithComponent(log.ComponentReport))
	a.backup = backup.NewAgent(ledger.Path(),
		func() string { return a.cfg.Config().BackupPath },
		logger.WithComponent(log.ComponentBackup))
	return a, nil
}

// Close releases the ledger.
func (a *App) Close() error {
	return a.ledger.Close()
}

// Home returns the data directory.
func (a *App) Home() string {
	return a.home
}

// Config returns the current configuration.
func (a *App) Config() config.Config {
	return a.cfg.Config()
}

// ConfigPath returns the config file location.
func (a *App) ConfigPath() string {
	return a.cfg.Path()
}

// LedgerPath returns the ledger file location.
func (a *App) LedgerPath() string {
	return a.ledger.Path()
}

// afterWrite runs the backup agent. A failed backup does not undo the write;
// it is logged and returned as a warning.
func (a *App) afterWrite() error {
	if _, _, err := a.backup.BackupNow(); err != nil {
		a.log.Warn("backup failed", "error", err)
		return fmt.Errorf("backup failed: %w", err)
	}
	return nil
}

// Status describes the timer and today's totals.
type Status struct {
	State      session.State
	Open       *model.OpenSession
	TodayHours float64
	Sessions   int
}

// Status reports the timer state and the hours recorded today.
func (a *App) Status(ctx context.Context) (Status, error) {
	state, open, err := a.timer.State(ctx)
	if err != nil {
		return Status{}, err
	}
	sessions, err := a.ledger.ListSessions(ctx)
	if err != nil {
		return Status{}, err
	}
	st := Status{State: state, Open: open, Sessions: len(sessions)}
	today := a.now().Format(model.DateLayout)
	for _, s := range sessions {
		if s.Date == today {
			st.TodayHours += s.Hours
		}
	}
	return st, nil
}

// StartSession starts the timer for emp and remembers emp for exports.
func (a *App) StartSession(ctx context.Context, emp model.Employee) (time.Time, error) {
	emp.ID = strings.TrimSpace(emp.ID)
	emp.Name = strings.TrimSpace(emp.Name)
	start, err := a.timer.Start(ctx, emp)
	if err != nil {
		return time.Time{}, err
	}
	if err := a.cfg.SetEmployee(emp); err != nil {
		a.log.Warn("could not remember employee", "error", err)
	}
	return start, nil
}

// StopSession closes the running session. warn is non-nil when the session
// was recorded but the backup failed.
func (a *App) StopSession(ctx context.Context) (ws model.WorkSession, warn error, err error) {
	ws, err = a.timer.Stop(ctx)
	if err != nil {
		return model.WorkSession{}, nil, err
	}
	return ws, a.afterWrite(), nil
}

// Annotate stores a note for date. written is false for a blank note.
func (a *App) Annotate(ctx context.Context, date, note string, isVacation bool, status string) (written bool, warn error, err error) {
	written, err = a.annotations.Annotate(ctx, date, note, isVacation, status)
	if err != nil || !written {
		return written, nil, err
	}
	return true, a.afterWrite(), nil
}

// Highlights returns the calendar highlight instructions.
func (a *App) Highlights(ctx context.Context) ([]model.Highlight, error) {
	return a.annotations.RefreshView(ctx)
}

// Notes returns all annotations ordered by date.
func (a *App) Notes(ctx context.Context) ([]model.DayAnnotation, error) {
	return a.annotations.List(ctx)
}

// Sessions returns all work sessions ordered by date.
func (a *App) Sessions(ctx context.Context) ([]model.WorkSession, error) {
	return a.ledger.ListSessions(ctx)
}

// Export writes the monthly report into the configured export directory.
func (a *App) Export(ctx context.Context, emp model.Employee, opts report.Options) (string, error) {
	return a.exporter.ExportMonth(ctx, a.cfg.Config().ExportPath, emp, a.now(), opts)
}

// SetBackupDir persists the backup directory.
func (a *App) SetBackupDir(dir string) error {
	return a.cfg.SetBackupPath(dir)
}

// SetExportDir persists the export directory.
func (a *App) SetExportDir(dir string) error {
	return a.cfg.SetExportPath(dir)
}

// SetLocation uses dir for both backups and exports.
func (a *App) SetLocation(dir string) error {
	if err := a.cfg.SetBackupPath(dir); err != nil {
		return err
	}
	return a.cfg.SetExportPath(dir)
}

// Backup copies the ledger now.
func (a *App) Backup() (string, bool, error) {
	return a.backup.BackupNow()
}

// ImportOptions configure ImportVacations.
type ImportOptions struct {
	From, To time.Time
	DryRun   bool
	Status   string // empty = configured default
	Timezone string // empty = configured default
	Out      io.Writer
}

// ImportVacations signs in to Microsoft Graph and imports out-of-office days.
func (a *App) ImportVacations(ctx context.Context, opts ImportOptions) (msgraph.SyncResult, error) {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	oc := a.cfg.Config().Outlook
	auth := msgraph.NewAuthenticator(oc.TenantID, oc.ClientID,
		msgraph.NewTokenCache(a.home), opts.Out, a.log.WithComponent(log.ComponentOutlook))
	ts, err := auth.TokenSource(ctx)
	if err != nil {
		return msgraph.SyncResult{}, fmt.Errorf("authentication failed: %w", err)
	}
	client := msgraph.NewClient(ctx, ts)
	return a.importFrom(ctx, client, opts)
}

// CalendarSource fetches calendar events. *msgraph.Client satisfies it.
type CalendarSource interface {
	GetCalendarView(ctx context.Context, from, to time.Time, timezone string) ([]msgraph.CalendarEvent, error)
}

func (a *App) importFrom(ctx context.Context, src CalendarSource, opts ImportOptions) (msgraph.SyncResult, error) {
	oc := a.cfg.Config().Outlook
	if opts.Status == "" {
		opts.Status = oc.VacationStatus
	}
	if opts.Timezone == "" {
		opts.Timezone = oc.Timezone
	}

	events, err := src.GetCalendarView(ctx, opts.From, opts.To, opts.Timezone)
	if err != nil {
		return msgraph.SyncResult{}, fmt.Errorf("fetching calendar events: %w", err)
	}
	logger := a.log.WithComponent(log.ComponentOutlook)
	logger.Info("calendar events fetched", "count", len(events), "from", opts.From, "to", opts.To)

	result, err := msgraph.SyncEvents(ctx, events, a.ledger, a.annotations, msgraph.SyncOptions{
		From:     opts.From,
		To:       opts.To,
		DryRun:   opts.DryRun,
		Status:   opts.Status,
		Timezone: opts.Timezone,
		Out:      opts.Out,
	})
	if err != nil {
		return result, err
	}
	if result.Imported > 0 && !opts.DryRun {
		if warn := a.afterWrite(); warn != nil {
			return result, warn
		}
	}
	return result, nil
}
