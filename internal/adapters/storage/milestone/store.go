package milestone

import (
	"context"

	domain "fjorlistinn/internal/domain/gamification"
)

// Store persists awarded student milestones.
type Store interface {
	// Award records a reached milestone; awarding the same threshold twice
	// is a no-op, so milestone detection is idempotent.
	Award(ctx context.Context, value domain.StudentMilestone) error
	ListByStudentID(ctx context.Context, studentID string) ([]domain.StudentMilestone, error)
	// ClaimUnnotified atomically returns the oldest unnotified milestone for
	// the student and marks it notified, or nil when there is none. This is
	// what makes milestoneJustReached fire exactly once.
	ClaimUnnotified(ctx context.Context, studentID string) (*domain.StudentMilestone, error)
}
