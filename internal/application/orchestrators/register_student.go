package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"fjorlistinn/internal/domain/student"
)

// StudentWriteStore defines the student store interface needed for registration.
type StudentWriteStore interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
	Save(ctx context.Context, s student.Student) error
}

// RegisterStudentInput carries input for student registration.
// ID is the external kennitala-style identifier supplied by staff.
type RegisterStudentInput struct {
	ID       string
	Name     string
	School   string
	Grade    int
	CenterID string
}

// RegisterStudentDeps holds dependencies for RegisterStudent.
type RegisterStudentDeps struct {
	StudentStore StudentWriteStore
}

var ErrStudentExists = errors.New("a student with this ID is already registered")

// ExecuteRegisterStudent registers a new student at a center.
// PRE: ID, Name, School non-empty; Grade within 5-10
// POST: Student stored as active; existing IDs are rejected, never overwritten
func ExecuteRegisterStudent(ctx context.Context, input RegisterStudentInput, deps RegisterStudentDeps) error {
	s := student.Student{
		ID:       input.ID,
		Name:     input.Name,
		School:   input.School,
		Grade:    input.Grade,
		CenterID: input.CenterID,
		Active:   true,
	}
	if err := s.Validate(); err != nil {
		return err
	}

	if _, err := deps.StudentStore.GetByID(ctx, input.ID); err == nil {
		return ErrStudentExists
	}

	if err := deps.StudentStore.Save(ctx, s); err != nil {
		return err
	}

	slog.Info("student_event", "event", "student_registered", "student_id", input.ID, "center_id", input.CenterID, "grade", input.Grade)
	return nil
}
