package model

import (
	"strings"
	"time"
)

// Layouts used for the stored date and time-of-day strings.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// WorkSession is one closed start-to-stop interval.
type WorkSession struct {
	ID    int64   `json:"id"`
	Start string  `json:"start"` // HH:MM:SS
	End   string  `json:"end"`   // HH:MM:SS
	Date  string  `json:"date"`  // YYYY-MM-DD, the day the session was stopped
	Hours float64 `json:"hours"`
}

// VacationStatus is the approval state of a vacation day.
type VacationStatus string

const (
	StatusNone      VacationStatus = ""
	StatusRequested VacationStatus = "beantragt"
	StatusApproved  VacationStatus = "genehmigt"
	StatusRejected  VacationStatus = "abgelehnt"
)

var statusAliases = map[string]VacationStatus{
	"beantragt": StatusRequested,
	"requested": StatusRequested,
	"genehmigt": StatusApproved,
	"approved":  StatusApproved,
	"abgelehnt": StatusRejected,
	"rejected":  StatusRejected,
}

// ParseStatus maps a user supplied status (German or English, any case) to a
// VacationStatus. ok is false for anything else, including the empty string.
func ParseStatus(s string) (VacationStatus, bool) {
	st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}

// English returns the English name of the status, or "none".
func (s VacationStatus) English() string {
	switch s {
	case StatusRequested:
		return "requested"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	}
	return "none"
}

// DayAnnotation is the note attached to one calendar date.
type DayAnnotation struct {
	Date     string         `json:"date"`
	Note     string         `json:"note"`
	Vacation bool           `json:"vacation"`
	Status   VacationStatus `json:"status"`
}

// VacationDay is a (date, status) pair for every vacation-flagged annotation.
type VacationDay struct {
	Date   string
	Status VacationStatus
}

// Employee identifies who a session and a report belong to.
type Employee struct {
	ID   string `json:"employee_id"`
	Name string `json:"employee_name"`
}

// OpenSession is the running session, if any.
type OpenSession struct {
	Start    time.Time
	Employee Employee
}

// Highlight tells the calendar view how to paint one vacation day.
type Highlight struct {
	Date   string
	Status VacationStatus
	Label  string
	Color  string
}
