package projections

import (
	"context"

	studentStore "fjorlistinn/internal/adapters/storage/student"
	"fjorlistinn/internal/domain/center"
	"fjorlistinn/internal/domain/schedule"
	"fjorlistinn/internal/domain/student"
)

// CenterListStore defines the center store interface for listing.
type CenterListStore interface {
	List(ctx context.Context) ([]center.Center, error)
}

// QueryCenters lists all centers.
func QueryCenters(ctx context.Context, store CenterListStore) ([]center.Center, error) {
	centers, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	if centers == nil {
		centers = []center.Center{}
	}
	return centers, nil
}

// StudentListStore defines the student store interface for listing.
type StudentListStore interface {
	List(ctx context.Context, filter studentStore.ListFilter) ([]student.Student, error)
}

// QueryStudents lists students, optionally filtered to one center's
// active roster.
func QueryStudents(ctx context.Context, store StudentListStore, centerID string, activeOnly bool) ([]student.Student, error) {
	students, err := store.List(ctx, studentStore.ListFilter{CenterID: centerID, ActiveOnly: activeOnly})
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []student.Student{}
	}
	return students, nil
}

// QuerySchedule lists a center's schedule items in insertion order.
func QuerySchedule(ctx context.Context, store ScheduleReadStore, centerID string) ([]schedule.Item, error) {
	items, err := store.ListByCenter(ctx, centerID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []schedule.Item{}
	}
	return items, nil
}
