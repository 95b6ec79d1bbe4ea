package comment

import (
	"context"

	domain "fjorlistinn/internal/domain/comment"
)

// Store persists staff comments. Append-only: no update or delete path.
type Store interface {
	Insert(ctx context.Context, value domain.Comment) error
	ListByStudentID(ctx context.Context, studentID string) ([]domain.Comment, error)
}
