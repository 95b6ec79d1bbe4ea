package account

import (
	"context"

	domain "fjorlistinn/internal/domain/account"
)

// Store persists Account state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	List(ctx context.Context) ([]domain.Account, error)
	Delete(ctx context.Context, username string) error
	Count(ctx context.Context) (int, error)
}
