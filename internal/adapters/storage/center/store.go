package center

import (
	"context"

	domain "fjorlistinn/internal/domain/center"
)

// Store persists Center reference data.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Center, error)
	Save(ctx context.Context, value domain.Center) error
	List(ctx context.Context) ([]domain.Center, error)
	Count(ctx context.Context) (int, error)
}
