package projections

import (
	"context"
	"testing"

	studentStore "fjorlistinn/internal/adapters/storage/student"
	"fjorlistinn/internal/domain/attendance"
	"fjorlistinn/internal/domain/student"
)

// mockTodayLedgerStore implements TodayLedgerStore for testing.
type mockTodayLedgerStore struct {
	entries []attendance.Entry
}

func (m *mockTodayLedgerStore) ListByCenterAndDate(_ context.Context, centerID string, date string) ([]attendance.Entry, error) {
	var matched []attendance.Entry
	for _, e := range m.entries {
		if e.CenterID == centerID && e.Date == date {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// mockTodayStudentStore implements TodayStudentStore for testing.
type mockTodayStudentStore struct {
	students []student.Student
}

func (m *mockTodayStudentStore) List(_ context.Context, filter studentStore.ListFilter) ([]student.Student, error) {
	var matched []student.Student
	for _, s := range m.students {
		if filter.CenterID != "" && s.CenterID != filter.CenterID {
			continue
		}
		matched = append(matched, s)
	}
	return matched, nil
}

// TestQueryAttendanceToday tests the denormalized daily list.
func TestQueryAttendanceToday(t *testing.T) {
	ledger := &mockTodayLedgerStore{entries: []attendance.Entry{
		{ID: "e1", StudentID: "stu-1", CenterID: "AKURFELO", Date: "2026-03-02", Time: "14:05", ProgramItem: "Opið hús", Source: attendance.SourceSelf},
		{ID: "e2", StudentID: "stu-2", CenterID: "AKURFELO", Date: "2026-03-02", Time: "14:30", Source: attendance.SourceStaff},
		{ID: "e3", StudentID: "stu-1", CenterID: "AKURFELO", Date: "2026-03-01", Time: "15:00", Source: attendance.SourceSelf},
		{ID: "e4", StudentID: "stu-1", CenterID: "STAPAFELO", Date: "2026-03-02", Time: "15:00", Source: attendance.SourceSelf},
	}}
	students := &mockTodayStudentStore{students: []student.Student{
		{ID: "stu-1", Name: "Anna", School: "Akurskóli", Grade: 8, CenterID: "AKURFELO", Active: true},
		{ID: "stu-2", Name: "Bjarni", School: "Akurskóli", Grade: 9, CenterID: "AKURFELO", Active: true},
	}}

	results, err := QueryAttendanceToday(context.Background(), "AKURFELO", "2026-03-02",
		AttendanceTodayDeps{LedgerStore: ledger, StudentStore: students})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 rows for the center and day, got %d", len(results))
	}
	if results[0].Name != "Anna" || results[0].Time != "14:05" {
		t.Errorf("unexpected first row: %+v", results[0])
	}
	if results[1].Name != "Bjarni" {
		t.Errorf("unexpected second row: %+v", results[1])
	}
}

// TestQueryAttendanceToday_UnknownStudentKept tests that ledger rows for
// purged students still appear.
func TestQueryAttendanceToday_UnknownStudentKept(t *testing.T) {
	ledger := &mockTodayLedgerStore{entries: []attendance.Entry{
		{ID: "e1", StudentID: "stu-gone", CenterID: "AKURFELO", Date: "2026-03-02", Time: "14:05", Source: attendance.SourceSelf},
	}}

	results, err := QueryAttendanceToday(context.Background(), "AKURFELO", "2026-03-02",
		AttendanceTodayDeps{LedgerStore: ledger, StudentStore: &mockTodayStudentStore{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 row, got %d", len(results))
	}
	if results[0].Name != "" || results[0].StudentID != "stu-gone" {
		t.Errorf("unexpected row: %+v", results[0])
	}
}

// TestQueryAttendanceToday_VisitingStudentNamed tests that a check-in away
// from the student's home center still resolves a name.
func TestQueryAttendanceToday_VisitingStudentNamed(t *testing.T) {
	ledger := &mockTodayLedgerStore{entries: []attendance.Entry{
		{ID: "e1", StudentID: "stu-9", CenterID: "AKURFELO", Date: "2026-03-02", Time: "14:05", Source: attendance.SourceStaff},
	}}
	students := &mockTodayStudentStore{students: []student.Student{
		{ID: "stu-9", Name: "Sunna", School: "Stapaskóli", Grade: 10, CenterID: "STAPAFELO", Active: true},
	}}

	results, err := QueryAttendanceToday(context.Background(), "AKURFELO", "2026-03-02",
		AttendanceTodayDeps{LedgerStore: ledger, StudentStore: students})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 row, got %d", len(results))
	}
	if results[0].Name != "Sunna" || results[0].School != "Stapaskóli" {
		t.Errorf("visiting student not resolved: %+v", results[0])
	}
}

// TestQueryAttendanceToday_EmptyDay tests the empty list shape.
func TestQueryAttendanceToday_EmptyDay(t *testing.T) {
	results, err := QueryAttendanceToday(context.Background(), "AKURFELO", "2026-03-02",
		AttendanceTodayDeps{LedgerStore: &mockTodayLedgerStore{}, StudentStore: &mockTodayStudentStore{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty list, got %d rows", len(results))
	}
}
