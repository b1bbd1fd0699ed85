package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Tiliavir/work-hours-tracker/internal/log"
	"github.com/Tiliavir/work-hours-tracker/internal/model"
)

// FileName is the ledger database inside the data directory.
const FileName = "arbeitszeiten.db"

// ErrStorage classifies every failure of the backing store.
var ErrStorage = errors.New("storage error")

// Error wraps a database failure with the operation that caused it.
// errors.Is(err, ErrStorage) holds for every *Error.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("storage error %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrStorage }

func fault(op string, err error) error {
	return &Error{Op: op, Err: err}
}

// Ledger is the durable store for work sessions and day annotations.
// It is meant for a single process; calls are not safe for concurrent use
// from more than one process.
type Ledger struct {
	db   *sql.DB
	path string
	log  *log.Logger
}

// Open opens (creating if needed) the ledger at path and migrates its schema.
func Open(path string, logger *log.Logger) (*Ledger, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fault("creating directories", err)
	}

	// Rollback journal (not WAL): after each commit the main file alone holds
	// all data, so the backup agent can copy it as-is.
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(DELETE)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fault("opening database", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fault("opening database", err)
	}
	if err := runMigrations(path); err != nil {
		db.Close()
		return nil, fault("migrating schema", err)
	}

	logger.Debug("ledger opened", "path", path)
	return &Ledger{db: db, path: path, log: logger}, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Path returns the backing file.
func (l *Ledger) Path() string {
	return l.path
}

// RecordSession appends a work session and returns it with its assigned ID.
func (l *Ledger) RecordSession(ctx context.Context, s model.WorkSession) (model.WorkSession, error) {
	id, err := insertSession(ctx, l.db, s)
	if err != nil {
		return model.WorkSession{}, err
	}
	s.ID = id
	l.log.Info("session recorded", "id", s.ID, "date", s.Date, "hours", s.Hours)
	return s, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertSession(ctx context.Context, db execer, s model.WorkSession) (int64, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO arbeitszeiten (startzeit, endzeit, datum, ueberstunden) VALUES (?, ?, ?, ?)`,
		s.Start, s.End, s.Date, s.Hours)
	if err != nil {
		return 0, fault("inserting session", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fault("reading session id", err)
	}
	return id, nil
}

// UpsertAnnotation stores the annotation for its date, replacing note, flag
// and status of any previous one.
func (l *Ledger) UpsertAnnotation(ctx context.Context, a model.DayAnnotation) error {
	var status any
	if a.Vacation && a.Status != model.StatusNone {
		status = string(a.Status)
	}
	vacation := 0
	if a.Vacation {
		vacation = 1
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO notizen (datum, notiz, urlaubstag, urlaubsstatus) VALUES (?, ?, ?, ?)
		 ON CONFLICT(datum) DO UPDATE SET
		   notiz = excluded.notiz,
		   urlaubstag = excluded.urlaubstag,
		   urlaubsstatus = excluded.urlaubsstatus`,
		a.Date, a.Note, vacation, status)
	if err != nil {
		return fault("upserting annotation", err)
	}
	l.log.Info("annotation stored", "date", a.Date, "vacation", a.Vacation, "status", string(a.Status))
	return nil
}

// ListVacationDays returns (date, status) for every vacation-flagged
// annotation, ordered by date.
func (l *Ledger) ListVacationDays(ctx context.Context) ([]model.VacationDay, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT datum, urlaubsstatus FROM notizen WHERE urlaubstag = 1 ORDER BY datum`)
	if err != nil {
		return nil, fault("listing vacation days", err)
	}
	defer rows.Close()

	var days []model.VacationDay
	for rows.Next() {
		var (
			d      model.VacationDay
			status sql.NullString
		)
		if err := rows.Scan(&d.Date, &status); err != nil {
			return nil, fault("scanning vacation day", err)
		}
		d.Status = model.VacationStatus(status.String)
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fault("listing vacation days", err)
	}
	return days, nil
}

// ListAnnotations returns every annotation ordered by date.
func (l *Ledger) ListAnnotations(ctx context.Context) ([]model.DayAnnotation, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT datum, notiz, urlaubstag, urlaubsstatus FROM notizen ORDER BY datum`)
	if err != nil {
		return nil, fault("listing annotations", err)
	}
	defer rows.Close()

	var out []model.DayAnnotation
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fault("listing annotations", err)
	}
	return out, nil
}

// AnnotationFor returns the annotation for date, or nil if there is none.
func (l *Ledger) AnnotationFor(ctx context.Context, date string) (*model.DayAnnotation, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT datum, notiz, urlaubstag, urlaubsstatus FROM notizen WHERE datum = ?`, date)
	a, err := scanAnnotation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnnotation(sc scanner) (model.DayAnnotation, error) {
	var (
		a        model.DayAnnotation
		note     sql.NullString
		vacation sql.NullInt64
		status   sql.NullString
	)
	if err := sc.Scan(&a.Date, &note, &vacation, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, err
		}
		return a, fault("scanning annotation", err)
	}
	a.Note = note.String
	a.Vacation = vacation.Int64 == 1
	if a.Vacation {
		a.Status = model.VacationStatus(status.String)
	}
	return a, nil
}

// ListSessions returns every work session ordered by date, start and ID.
func (l *Ledger) ListSessions(ctx context.Context) ([]model.WorkSession, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, startzeit, endzeit, datum, ueberstunden FROM arbeitszeiten ORDER BY datum, startzeit, id`)
	if err != nil {
		return nil, fault("listing sessions", err)
	}
	defer rows.Close()

	var out []model.WorkSession
	for rows.Next() {
		var (
			s          model.WorkSession
			start, end sql.NullString
			hours      sql.NullFloat64
		)
		if err := rows.Scan(&s.ID, &start, &end, &s.Date, &hours); err != nil {
			return nil, fault("scanning session", err)
		}
		s.Start, s.End, s.Hours = start.String, end.String, hours.Float64
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fault("listing sessions", err)
	}
	return out, nil
}

// CountSessions returns the number of recorded sessions.
func (l *Ledger) CountSessions(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM arbeitszeiten`).Scan(&n); err != nil {
		return 0, fault("counting sessions", err)
	}
	return n, nil
}

// OpenSession returns the running session, or nil when idle.
func (l *Ledger) OpenSession(ctx context.Context) (*model.OpenSession, error) {
	var (
		started string
		open    model.OpenSession
	)
	err := l.db.QueryRowContext(ctx,
		`SELECT started_at, employee_id, employee_name FROM open_session WHERE id = 1`).
		Scan(&started, &open.Employee.ID, &open.Employee.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fault("reading open session", err)
	}
	open.Start, err = time.Parse(time.RFC3339, started)
	if err != nil {
		return nil, fault("parsing open session start", err)
	}
	return &open, nil
}

// BeginSession stores the running session, replacing any previous one.
func (l *Ledger) BeginSession(ctx context.Context, open model.OpenSession) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO open_session (id, started_at, employee_id, employee_name) VALUES (1, ?, ?, ?)`,
		open.Start.Format(time.RFC3339), open.Employee.ID, open.Employee.Name)
	if err != nil {
		return fault("storing open session", err)
	}
	l.log.Debug("session opened", "start", open.Start.Format(time.RFC3339))
	return nil
}

// CloseSession records s and clears the running session in one transaction.
func (l *Ledger) CloseSession(ctx context.Context, s model.WorkSession) (model.WorkSession, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return model.WorkSession{}, fault("beginning transaction", err)
	}
	defer tx.Rollback()

	id, err := insertSession(ctx, tx, s)
	if err != nil {
		return model.WorkSession{}, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM open_session WHERE id = 1`); err != nil {
		return model.WorkSession{}, fault("clearing open session", err)
	}
	if err := tx.Commit(); err != nil {
		return model.WorkSession{}, fault("committing session", err)
	}
	s.ID = id
	l.log.Info("session recorded", "id", s.ID, "date", s.Date, "hours", s.Hours)
	return s, nil
}
