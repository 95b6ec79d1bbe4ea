package attendance_test

import (
	"testing"
	"time"

	"fjorlistinn/internal/domain/attendance"
)

// TestEntry_Validate tests validation of ledger entries.
func TestEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entry   attendance.Entry
		wantErr error
	}{
		{
			name:  "valid self check-in",
			entry: attendance.Entry{ID: "1", StudentID: "1234567890", CenterID: "AKURFELO", Date: "2026-03-02", Time: "15:30", ProgramItem: "Opið hús", Source: attendance.SourceSelf},
		},
		{
			name:  "valid staff entry with staff id",
			entry: attendance.Entry{ID: "2", StudentID: "1234567890", CenterID: "AKURFELO", Date: "2026-03-02", Source: attendance.SourceStaff, StaffID: "staff-1"},
		},
		{
			name:    "missing student",
			entry:   attendance.Entry{ID: "3", CenterID: "AKURFELO", Date: "2026-03-02", Source: attendance.SourceSelf},
			wantErr: attendance.ErrEmptyStudentID,
		},
		{
			name:    "missing center",
			entry:   attendance.Entry{ID: "4", StudentID: "1234567890", Date: "2026-03-02", Source: attendance.SourceSelf},
			wantErr: attendance.ErrEmptyCenterID,
		},
		{
			name:    "bad date",
			entry:   attendance.Entry{ID: "5", StudentID: "1234567890", CenterID: "AKURFELO", Date: "02.03.2026", Source: attendance.SourceSelf},
			wantErr: attendance.ErrInvalidDate,
		},
		{
			name:    "bad source",
			entry:   attendance.Entry{ID: "6", StudentID: "1234567890", CenterID: "AKURFELO", Date: "2026-03-02", Source: "phone"},
			wantErr: attendance.ErrInvalidSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestEntry_CheckDateBounds tests the 14-day backdating window boundaries.
func TestEntry_CheckDateBounds(t *testing.T) {
	today := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		date    string
		wantErr error
	}{
		{name: "today", date: "2026-03-16"},
		{name: "yesterday", date: "2026-03-15"},
		{name: "exactly 14 days back", date: "2026-03-02"},
		{name: "15 days back", date: "2026-03-01", wantErr: attendance.ErrTooFarBack},
		{name: "tomorrow", date: "2026-03-17", wantErr: attendance.ErrFutureDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := attendance.Entry{StudentID: "1", CenterID: "AKURFELO", Date: tt.date, Source: attendance.SourceStaff}
			err := e.CheckDateBounds(today)
			if err != tt.wantErr {
				t.Errorf("CheckDateBounds(%s) error = %v, want %v", tt.date, err, tt.wantErr)
			}
		})
	}
}
