package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	attendanceStore "fjorlistinn/internal/adapters/storage/attendance"
	"fjorlistinn/internal/domain/attendance"
	"fjorlistinn/internal/domain/gamification"
	"fjorlistinn/internal/domain/student"
)

// CheckInStudentStore defines the student store interface needed for check-in.
type CheckInStudentStore interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
}

// CheckInLedgerStore defines the ledger store interface needed for check-in.
type CheckInLedgerStore interface {
	Insert(ctx context.Context, e attendance.Entry) error
	CountByStudentID(ctx context.Context, studentID string) (int, error)
}

// MilestoneAwardStore defines the milestone store interface needed for check-in.
type MilestoneAwardStore interface {
	Award(ctx context.Context, m gamification.StudentMilestone) error
}

// RecordCheckInInput carries input for the check-in orchestrator.
// Date and Time default to now when empty.
type RecordCheckInInput struct {
	StudentID   string
	CenterID    string
	Date        string // YYYY-MM-DD, optional
	Time        string // HH:MM, optional
	ProgramItem string
	Source      string // self, staff, kiosk
	StaffID     string // recording staff account, empty for self-service
}

// RecordCheckInResult carries the outcome of a check-in attempt.
// Duplicate is a recognized outcome: the entry already existed and
// nothing was written.
type RecordCheckInResult struct {
	Duplicate  bool
	TotalCount int // ledger count after this call
}

// RecordCheckInDeps holds dependencies for RecordCheckIn.
type RecordCheckInDeps struct {
	StudentStore   CheckInStudentStore
	LedgerStore    CheckInLedgerStore
	MilestoneStore MilestoneAwardStore
	Now            func() time.Time // nil means time.Now
	GenerateID     func() string    // nil means uuid.New
}

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrStudentInactive = errors.New("student is not active")
	ErrStudentMidstig  = errors.New("midstig students are counted in aggregate, not individually")
)

// ExecuteRecordCheckIn appends one entry to the attendance ledger.
// The insert is atomic insert-if-absent: under concurrent submissions for
// the same (student, center, date), exactly one caller gets accepted and
// the rest get Duplicate. Reaching a milestone count awards the milestone
// row here, so the next stats read can claim it.
// PRE: StudentID and CenterID are non-empty; Source is a valid source
// POST: At most one ledger row exists for (student, center, date)
// INVARIANT: Backdating is bounded at 14 days; future dates are rejected
func ExecuteRecordCheckIn(ctx context.Context, input RecordCheckInInput, deps RecordCheckInDeps) (RecordCheckInResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	generateID := func() string { return uuid.New().String() }
	if deps.GenerateID != nil {
		generateID = deps.GenerateID
	}

	if input.Date == "" {
		input.Date = now().Format("2006-01-02")
	}
	if input.Time == "" {
		input.Time = now().Format("15:04")
	}

	entry := attendance.Entry{
		ID:          generateID(),
		StudentID:   input.StudentID,
		CenterID:    input.CenterID,
		Date:        input.Date,
		Time:        input.Time,
		ProgramItem: input.ProgramItem,
		Source:      input.Source,
		StaffID:     input.StaffID,
		CreatedAt:   now(),
	}
	if err := entry.Validate(); err != nil {
		return RecordCheckInResult{}, err
	}
	if err := entry.CheckDateBounds(now()); err != nil {
		return RecordCheckInResult{}, err
	}

	// Verify the student exists and checks in individually
	s, err := deps.StudentStore.GetByID(ctx, input.StudentID)
	if err != nil {
		return RecordCheckInResult{}, ErrStudentNotFound
	}
	if !s.Active {
		return RecordCheckInResult{}, ErrStudentInactive
	}
	if s.IsMidstig() {
		return RecordCheckInResult{}, ErrStudentMidstig
	}

	if err := deps.LedgerStore.Insert(ctx, entry); err != nil {
		if errors.Is(err, attendanceStore.ErrDuplicate) {
			count, countErr := deps.LedgerStore.CountByStudentID(ctx, input.StudentID)
			if countErr != nil {
				return RecordCheckInResult{}, countErr
			}
			slog.Info("checkin_event", "event", "duplicate_check_in", "student_id", input.StudentID, "center_id", input.CenterID, "date", input.Date)
			return RecordCheckInResult{Duplicate: true, TotalCount: count}, nil
		}
		return RecordCheckInResult{}, err
	}

	count, err := deps.LedgerStore.CountByStudentID(ctx, input.StudentID)
	if err != nil {
		return RecordCheckInResult{}, err
	}

	// Award fires only on the transition: the count includes the row just
	// inserted, and Award is idempotent per (student, threshold).
	if deps.MilestoneStore != nil && gamification.IsMilestone(count) {
		m := gamification.StudentMilestone{
			ID:        generateID(),
			StudentID: input.StudentID,
			Threshold: count,
			ReachedAt: now(),
		}
		if err := deps.MilestoneStore.Award(ctx, m); err != nil {
			slog.Error("checkin_event", "event", "milestone_award_failed", "student_id", input.StudentID, "threshold", count, "error", err)
		}
	}

	slog.Info("checkin_event", "event", "student_checked_in", "student_id", input.StudentID, "center_id", input.CenterID, "date", input.Date, "source", input.Source, "total_count", count)
	return RecordCheckInResult{TotalCount: count}, nil
}
