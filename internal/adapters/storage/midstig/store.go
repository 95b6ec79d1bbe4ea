package midstig

import (
	"context"

	domain "fjorlistinn/internal/domain/midstig"
)

// Store persists aggregate midstig headcount entries.
type Store interface {
	Insert(ctx context.Context, value domain.Entry) error
	ListByCenterAndDate(ctx context.Context, centerID string, date string) ([]domain.Entry, error)
	ListByDateRange(ctx context.Context, centerID string, startDate string, endDate string) ([]domain.Entry, error)
	DeleteOlderThan(ctx context.Context, cutoffDate string) (int, error)
}
