package projections

import (
	"context"

	studentStore "fjorlistinn/internal/adapters/storage/student"
	"fjorlistinn/internal/domain/attendance"
	"fjorlistinn/internal/domain/student"
)

// TodayLedgerStore defines the ledger store interface for the daily list.
type TodayLedgerStore interface {
	ListByCenterAndDate(ctx context.Context, centerID string, date string) ([]attendance.Entry, error)
}

// TodayStudentStore defines the student store interface for the daily list.
type TodayStudentStore interface {
	List(ctx context.Context, filter studentStore.ListFilter) ([]student.Student, error)
}

// TodayEntry is a ledger row denormalized with student details for the
// staff daily list.
type TodayEntry struct {
	EntryID     string
	StudentID   string
	Name        string
	School      string
	Grade       int
	Time        string
	ProgramItem string
	Source      string
}

// AttendanceTodayDeps holds dependencies for QueryAttendanceToday.
type AttendanceTodayDeps struct {
	LedgerStore  TodayLedgerStore
	StudentStore TodayStudentStore
}

// QueryAttendanceToday lists a center's check-ins for one day, joined with
// student names for display. Entries whose student is unknown (purged)
// still appear, with an empty name.
// PRE: centerID non-empty; date is YYYY-MM-DD
// POST: Entries in ledger order with student details attached
func QueryAttendanceToday(ctx context.Context, centerID string, date string, deps AttendanceTodayDeps) ([]TodayEntry, error) {
	entries, err := deps.LedgerStore.ListByCenterAndDate(ctx, centerID, date)
	if err != nil {
		return nil, err
	}

	// Join against the full roster: the unique key is (student, center,
	// date), so a student may legally check in away from their home center.
	students, err := deps.StudentStore.List(ctx, studentStore.ListFilter{})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]student.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}

	results := make([]TodayEntry, 0, len(entries))
	for _, e := range entries {
		row := TodayEntry{
			EntryID:     e.ID,
			StudentID:   e.StudentID,
			Time:        e.Time,
			ProgramItem: e.ProgramItem,
			Source:      e.Source,
		}
		if s, ok := byID[e.StudentID]; ok {
			row.Name = s.Name
			row.School = s.School
			row.Grade = s.Grade
		}
		results = append(results, row)
	}
	return results, nil
}
