package orchestrators

import (
	"context"
	"log/slog"

	"fjorlistinn/internal/domain/student"
)

// StudentDeleteStore defines the store interface for student removal.
type StudentDeleteStore interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
	Deactivate(ctx context.Context, id string) error
}

// ExecuteDeleteStudent removes a student from the roster by deactivating
// them. Ledger rows are kept: attendance history survives until the
// year-end retention purge, so statistics over past periods stay correct.
// PRE: studentID names an existing student
// POST: Student is inactive; ledger and milestone rows untouched
func ExecuteDeleteStudent(ctx context.Context, studentID string, deps StudentDeleteStore) error {
	s, err := deps.GetByID(ctx, studentID)
	if err != nil {
		return ErrStudentNotFound
	}
	if err := deps.Deactivate(ctx, studentID); err != nil {
		return err
	}
	slog.Info("student_event", "event", "student_deleted", "student_id", studentID, "center_id", s.CenterID)
	return nil
}
