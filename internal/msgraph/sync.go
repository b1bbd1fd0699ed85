package msgraph

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Tiliavir/work-hours-tracker/internal/model"
	"github.com/Tiliavir/work-hours-tracker/internal/timecalc"
)

// Annotator writes day annotations. *annotation.Service satisfies it.
type Annotator interface {
	Annotate(ctx context.Context, date, note string, isVacation bool, requestedStatus string) (bool, error)
}

// Lookup finds the annotation stored for a date. *storage.Ledger satisfies it.
type Lookup interface {
	AnnotationFor(ctx context.Context, date string) (*model.DayAnnotation, error)
}

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	From     time.Time
	To       time.Time
	DryRun   bool
	Status   string // vacation status for imported days
	Timezone string
	Out      io.Writer
}

// privateNote replaces the subject of private events.
const privateNote = "Abwesend"

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	// Try RFC3339 first (includes timezone offset).
	if t, err := time.Parse(time.RFC3339, dt); err == nil {
		return t, nil
	}
	// Try RFC3339Nano.
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	// Graph returns fractional seconds: "2026-02-27T09:00:00.0000000"
	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// IsVacationEvent reports whether the event marks the user as out of office.
func IsVacationEvent(event CalendarEvent) bool {
	if event.IsCancelled {
		return false
	}
	if event.ShowAs != "oof" {
		return false
	}
	return event.Start.DateTime != "" && event.End.DateTime != ""
}

// NoteFor returns the annotation note for an event.
func NoteFor(event CalendarEvent) string {
	if event.Sensitivity == "private" || event.Subject == "" {
		return privateNote
	}
	return event.Subject
}

// VacationDays lists the YYYY-MM-DD dates an event covers. The end is
// exclusive when it falls exactly on midnight, as it does for all-day events.
func VacationDays(event CalendarEvent, timezone string) ([]string, error) {
	start, err := parseGraphTime(event.Start.DateTime, timezone)
	if err != nil {
		return nil, fmt.Errorf("parsing start time: %w", err)
	}
	end, err := parseGraphTime(event.End.DateTime, timezone)
	if err != nil {
		return nil, fmt.Errorf("parsing end time: %w", err)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("event ends before it starts")
	}
	bound := end
	if !end.Equal(timecalc.StartOfDay(end)) {
		bound = timecalc.StartOfDay(end).AddDate(0, 0, 1)
	}
	return timecalc.DaysBetween(start, bound), nil
}

// SyncEvents annotates every day covered by an out-of-office event as a
// vacation day. Days outside [From, To] and days that already carry an
// annotation are skipped; existing notes are never overwritten.
func SyncEvents(ctx context.Context, events []CalendarEvent, lookup Lookup, ann Annotator, opts SyncOptions) (SyncResult, error) {
	var result SyncResult
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	from := opts.From.Format(model.DateLayout)
	to := opts.To.Format(model.DateLayout)
	seen := map[string]bool{}

	for _, event := range events {
		if !IsVacationEvent(event) {
			continue
		}
		days, err := VacationDays(event, opts.Timezone)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}
		note := NoteFor(event)

		for _, day := range days {
			if day < from || day > to {
				continue
			}
			if seen[day] {
				fmt.Fprintf(out, "  – Skipped:  %s %s (already imported)\n", day, note)
				result.Skipped++
				continue
			}
			seen[day] = true

			existing, err := lookup.AnnotationFor(ctx, day)
			if err != nil {
				fmt.Fprintf(out, "  ! Error reading %s: %v\n", day, err)
				result.Errors++
				continue
			}
			if existing != nil {
				fmt.Fprintf(out, "  – Skipped:  %s %s (note exists: %q)\n", day, note, existing.Note)
				result.Skipped++
				continue
			}

			if !opts.DryRun {
				if _, err := ann.Annotate(ctx, day, note, true, opts.Status); err != nil {
					fmt.Fprintf(out, "  ! Error saving %s: %v\n", day, err)
					result.Errors++
					continue
				}
			}
			fmt.Fprintf(out, "  ✓ Imported: %s %s\n", day, note)
			result.Imported++
		}
	}

	return result, nil
}
