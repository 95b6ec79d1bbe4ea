package midstig

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyCenterID = errors.New("midstig entry must be associated with a center")
	ErrEmptySchool   = errors.New("midstig entry must name a school")
	ErrInvalidDate   = errors.New("date must be in YYYY-MM-DD format")
	ErrNegativeCount = errors.New("headcounts cannot be negative")
	ErrEmptyEntry    = errors.New("at least one grade must have a headcount")
)

// Entry is an aggregate headcount for grades 5-7, recorded per
// center/school/date. No individual student identity is stored.
type Entry struct {
	ID        string
	CenterID  string
	School    string
	Date      string // YYYY-MM-DD
	Grade5    int
	Grade6    int
	Grade7    int
	StaffID   string
	CreatedAt time.Time
}

// Validate checks if the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.CenterID) == "" {
		return ErrEmptyCenterID
	}
	if strings.TrimSpace(e.School) == "" {
		return ErrEmptySchool
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return ErrInvalidDate
	}
	if e.Grade5 < 0 || e.Grade6 < 0 || e.Grade7 < 0 {
		return ErrNegativeCount
	}
	if e.Grade5 == 0 && e.Grade6 == 0 && e.Grade7 == 0 {
		return ErrEmptyEntry
	}
	return nil
}

// Total returns the combined headcount across all midstig grades.
// INVARIANT: Entry fields are not mutated
func (e *Entry) Total() int {
	return e.Grade5 + e.Grade6 + e.Grade7
}
