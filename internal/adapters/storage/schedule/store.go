package schedule

import (
	"context"

	domain "fjorlistinn/internal/domain/schedule"
)

// Store persists schedule items.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Item, error)
	Save(ctx context.Context, value domain.Item) error
	Delete(ctx context.Context, id string) error
	ListByCenter(ctx context.Context, centerID string) ([]domain.Item, error)
	ListByCenterAndDay(ctx context.Context, centerID string, day string) ([]domain.Item, error)
}
