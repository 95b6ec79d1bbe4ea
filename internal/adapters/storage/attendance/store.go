package attendance

import (
	"context"
	"errors"

	domain "fjorlistinn/internal/domain/attendance"
)

// ErrDuplicate signals that an entry already exists for the same
// (student, center, date). A recognized outcome, not a failure.
var ErrDuplicate = errors.New("attendance entry already recorded for this student and date")

// Store persists ledger entries. The ledger is append-only: there is no
// update path, and Insert never overwrites.
type Store interface {
	Insert(ctx context.Context, value domain.Entry) error
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	ListByStudentID(ctx context.Context, studentID string) ([]domain.Entry, error)
	ListByCenterAndDate(ctx context.Context, centerID string, date string) ([]domain.Entry, error)
	ListByDateRange(ctx context.Context, filter RangeFilter) ([]domain.Entry, error)
	CountByStudentID(ctx context.Context, studentID string) (int, error)
	LastDateByStudentID(ctx context.Context, studentID string) (string, error)
	DeleteOlderThan(ctx context.Context, cutoffDate string) (int, error)
}

// RangeFilter bounds a date-range query; CenterID may be empty for all centers.
type RangeFilter struct {
	CenterID  string
	StartDate string // YYYY-MM-DD inclusive
	EndDate   string // YYYY-MM-DD inclusive
}
