package student

import (
	"context"

	domain "fjorlistinn/internal/domain/student"
)

// Store persists Student state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Student, error)
	Save(ctx context.Context, value domain.Student) error
	List(ctx context.Context, filter ListFilter) ([]domain.Student, error)
	Deactivate(ctx context.Context, id string) error
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	CenterID   string // empty matches all centers
	ActiveOnly bool
}
