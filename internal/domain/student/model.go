package student

import (
	"errors"
	"strings"
)

// Grade bounds for students tracked by the app. Grades 5-7 ("miðstig")
// are counted in aggregate; grades 8-10 check in individually.
const (
	MinGrade        = 5
	MaxGrade        = 10
	MinIndividGrade = 8
)

// Domain errors
var (
	ErrEmptyID      = errors.New("student ID cannot be empty")
	ErrEmptyName    = errors.New("student name cannot be empty")
	ErrEmptySchool  = errors.New("student school cannot be empty")
	ErrInvalidGrade = errors.New("grade must be between 5 and 10")
	ErrTopGrade     = errors.New("student is already in the top grade")
)

// Student holds state for a registered student.
// ID is the stable external identifier (kennitala-style), never reissued.
type Student struct {
	ID       string
	Name     string
	School   string
	Grade    int
	CenterID string // home center
	Active   bool
}

// Validate checks if the Student has valid data.
// PRE: Student struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Student) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(s.School) == "" {
		return ErrEmptySchool
	}
	if s.Grade < MinGrade || s.Grade > MaxGrade {
		return ErrInvalidGrade
	}
	return nil
}

// IsMidstig returns true if the student is in the aggregate-tracked grades.
// INVARIANT: Student fields are not mutated
func (s *Student) IsMidstig() bool {
	return s.Grade < MinIndividGrade
}

// Promote moves the student up one grade. Students finishing the top grade
// are deactivated instead of promoted.
// PRE: Student is active
// POST: Grade incremented, or Active cleared when already in MaxGrade
func (s *Student) Promote() {
	if s.Grade >= MaxGrade {
		s.Active = false
		return
	}
	s.Grade++
}
