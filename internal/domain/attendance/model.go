package attendance

import (
	"errors"
	"strings"
	"time"
)

// Recording source constants
const (
	SourceSelf  = "self"  // student check-in page
	SourceStaff = "staff" // staff manual entry
	SourceKiosk = "kiosk" // kiosk tablet
)

// ValidSources contains all valid recording sources.
var ValidSources = []string{SourceSelf, SourceStaff, SourceKiosk}

// MaxBackdateDays bounds how far back staff manual entry may record a
// check-in. Future dates are never accepted.
const MaxBackdateDays = 14

// Domain errors
var (
	ErrEmptyStudentID = errors.New("entry must be associated with a student")
	ErrEmptyCenterID  = errors.New("entry must be associated with a center")
	ErrInvalidDate    = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidSource  = errors.New("source must be one of: self, staff, kiosk")
	ErrFutureDate     = errors.New("check-in date cannot be in the future")
	ErrTooFarBack     = errors.New("check-in date is outside the backdating window")
)

// Entry is a single check-in event in the attendance ledger. The ledger is
// append-only; at most one entry exists per (student, center, date).
type Entry struct {
	ID          string
	StudentID   string
	CenterID    string
	Date        string // YYYY-MM-DD, the calendar day of the check-in
	Time        string // HH:MM, when the check-in was submitted
	ProgramItem string // name of the active dagskrárliður, if any
	Source      string // self, staff, kiosk
	StaffID     string // recording staff account, empty for self-service
	CreatedAt   time.Time
}

// Validate checks if the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.StudentID) == "" {
		return ErrEmptyStudentID
	}
	if strings.TrimSpace(e.CenterID) == "" {
		return ErrEmptyCenterID
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return ErrInvalidDate
	}
	if !isValidSource(e.Source) {
		return ErrInvalidSource
	}
	return nil
}

// CheckDateBounds verifies the entry date against the backdating window.
// The boundary day itself (exactly MaxBackdateDays ago) is accepted.
// PRE: Date has passed Validate; today is the server's calendar day
// POST: Returns nil when Date is within [today-14d, today]
func (e *Entry) CheckDateBounds(today time.Time) error {
	d, err := time.Parse("2006-01-02", e.Date)
	if err != nil {
		return ErrInvalidDate
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(day) {
		return ErrFutureDate
	}
	if d.Before(day.AddDate(0, 0, -MaxBackdateDays)) {
		return ErrTooFarBack
	}
	return nil
}

func isValidSource(source string) bool {
	for _, s := range ValidSources {
		if s == source {
			return true
		}
	}
	return false
}
