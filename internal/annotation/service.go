package annotation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/work-hours-tracker/internal/log"
	"github.com/Tiliavir/work-hours-tracker/internal/model"
	"github.com/Tiliavir/work-hours-tracker/internal/session"
	"github.com/Tiliavir/work-hours-tracker/internal/timecalc"
)

// Store is the part of the ledger the service needs.
type Store interface {
	UpsertAnnotation(ctx context.Context, a model.DayAnnotation) error
	ListVacationDays(ctx context.Context) ([]model.VacationDay, error)
	ListAnnotations(ctx context.Context) ([]model.DayAnnotation, error)
}

// ErrValidation is returned for malformed dates. It is the same sentinel
// the session timer uses.
var ErrValidation = session.ErrValidation

// Highlight colours and labels per vacation status.
var highlights = map[model.VacationStatus]struct{ label, color string }{
	model.StatusRequested: {"Urlaub beantragt", "orange"},
	model.StatusApproved:  {"Urlaub genehmigt", "lightgreen"},
	model.StatusRejected:  {"Urlaub abgelehnt", "red"},
}

// Service maps calendar dates to notes and vacation states.
type Service struct {
	store Store
	log   *log.Logger
}

// NewService returns a Service writing to store.
func NewService(store Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Discard()
	}
	return &Service{store: store, log: logger}
}

// Normalize resolves the status to store for an annotation: none unless it
// is a vacation day, requested unless a valid status was given.
func Normalize(isVacation bool, requested string) model.VacationStatus {
	if !isVacation {
		return model.StatusNone
	}
	if st, ok := model.ParseStatus(requested); ok {
		return st
	}
	return model.StatusRequested
}

// Annotate writes the note for date, replacing whatever was stored for it.
// A blank note writes nothing and reports false.
func (s *Service) Annotate(ctx context.Context, date, note string, isVacation bool, requestedStatus string) (bool, error) {
	if strings.TrimSpace(note) == "" {
		s.log.Debug("empty note, nothing written", "date", date)
		return false, nil
	}
	d, err := timecalc.ParseDate(date, time.Local)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	a := model.DayAnnotation{
		Date:     d.Format(model.DateLayout),
		Note:     note,
		Vacation: isVacation,
		Status:   Normalize(isVacation, requestedStatus),
	}
	if err := s.store.UpsertAnnotation(ctx, a); err != nil {
		return false, err
	}
	return true, nil
}

// RefreshView returns one highlight per vacation day, ordered by date.
func (s *Service) RefreshView(ctx context.Context) ([]model.Highlight, error) {
	days, err := s.store.ListVacationDays(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Highlight, 0, len(days))
	for _, d := range days {
		h, ok := highlights[d.Status]
		if !ok {
			continue
		}
		out = append(out, model.Highlight{Date: d.Date, Status: d.Status, Label: h.label, Color: h.color})
	}
	return out, nil
}

// List returns all annotations ordered by date.
func (s *Service) List(ctx context.Context) ([]model.DayAnnotation, error) {
	return s.store.ListAnnotations(ctx)
}
