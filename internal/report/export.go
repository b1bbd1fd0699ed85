package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/work-hours-tracker/internal/log"
	"github.com/Tiliavir/work-hours-tracker/internal/model"
	"github.com/Tiliavir/work-hours-tracker/internal/timecalc"
)

// ErrMissingConfig is returned when no export directory is configured.
var ErrMissingConfig = errors.New("no export path configured")

// Header is the first row of every report.
var Header = []string{
	"Personalnummer", "Name", "Datum", "Startzeit", "Endzeit",
	"Arbeitsstunden", "Notiz", "Urlaubsstatus",
}

// Store is the part of the ledger the exporter reads.
type Store interface {
	ListSessions(ctx context.Context) ([]model.WorkSession, error)
	ListAnnotations(ctx context.Context) ([]model.DayAnnotation, error)
}

// Row is one report line.
type Row struct {
	EmployeeID   string
	EmployeeName string
	Date         string
	Start        string
	End          string
	Hours        string
	Note         string
	Status       string
}

func (r Row) record() []string {
	return []string{r.EmployeeID, r.EmployeeName, r.Date, r.Start, r.End, r.Hours, r.Note, r.Status}
}

// Options tune an export.
type Options struct {
	// OnlyMonth keeps only sessions dated in the export month.
	OnlyMonth bool
}

// Exporter writes monthly CSV reports.
type Exporter struct {
	store Store
	log   *log.Logger
}

// NewExporter returns an Exporter reading from store.
func NewExporter(store Store, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.Discard()
	}
	return &Exporter{store: store, log: logger}
}

// FileName returns the report name for the month containing now.
func FileName(now time.Time) string {
	return "Arbeitszeitbericht_" + timecalc.MonthLabel(now) + ".csv"
}

// Rows joins every session with the annotation for its date.
func (e *Exporter) Rows(ctx context.Context, emp model.Employee, now time.Time, opts Options) ([]Row, error) {
	sessions, err := e.store.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	annotations, err := e.store.ListAnnotations(ctx)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]model.DayAnnotation, len(annotations))
	for _, a := range annotations {
		byDate[a.Date] = a
	}

	rows := make([]Row, 0, len(sessions))
	for _, s := range sessions {
		if opts.OnlyMonth && !timecalc.InMonth(s.Date, now) {
			continue
		}
		row := Row{
			EmployeeID:   emp.ID,
			EmployeeName: emp.Name,
			Date:         s.Date,
			Start:        s.Start,
			End:          s.End,
			Hours:        timecalc.FormatHours(s.Hours),
		}
		if a, ok := byDate[s.Date]; ok {
			row.Note = a.Note
			row.Status = string(a.Status)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ExportMonth writes <dir>/Arbeitszeitbericht_<YYYY_MM>.csv and returns its
// path. A blank dir fails with ErrMissingConfig before any file is touched.
func (e *Exporter) ExportMonth(ctx context.Context, dir string, emp model.Employee, now time.Time, opts Options) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", ErrMissingConfig
	}
	rows, err := e.Rows(ctx, emp, now, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(now))
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating report: %w", err)
	}
	if err := Write(f, rows); err != nil {
		f.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("closing report: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("saving report: %w", err)
	}

	e.log.Info("report exported", "path", path, "rows", len(rows))
	return path, nil
}

// Write encodes the header and rows as CSV.
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return fmt.Errorf("writing report row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Read parses a report produced by Write.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("parsing report: missing header")
	}
	for i, h := range Header {
		if records[0][i] != h {
			return nil, fmt.Errorf("parsing report: unexpected header column %d %q", i, records[0][i])
		}
	}
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if _, err := strconv.ParseFloat(rec[5], 64); err != nil {
			return nil, fmt.Errorf("parsing report: hours %q: %w", rec[5], err)
		}
		rows = append(rows, Row{
			EmployeeID: rec[0], EmployeeName: rec[1], Date: rec[2], Start: rec[3],
			End: rec[4], Hours: rec[5], Note: rec[6], Status: rec[7],
		})
	}
	return rows, nil
}
