package projections

import (
	"context"
	"time"

	"fjorlistinn/internal/domain/schedule"
)

// ScheduleReadStore defines the schedule store interface for reads.
type ScheduleReadStore interface {
	ListByCenter(ctx context.Context, centerID string) ([]schedule.Item, error)
	ListByCenterAndDay(ctx context.Context, centerID string, day string) ([]schedule.Item, error)
}

// ScheduleNowResult reports the program item active at a moment, or an
// explicit closed signal when nothing is on.
type ScheduleNowResult struct {
	Open bool
	Item *schedule.Item
}

// ScheduleNowDeps holds dependencies for QueryScheduleNow.
type ScheduleNowDeps struct {
	ScheduleStore ScheduleReadStore
}

// QueryScheduleNow finds the schedule item whose window contains the given
// moment. Windows are inclusive at both ends; when several items match,
// the first in insertion order wins.
// PRE: centerID is non-empty
// POST: Open=false with nil Item when no window contains the moment
func QueryScheduleNow(ctx context.Context, centerID string, at time.Time, deps ScheduleNowDeps) (ScheduleNowResult, error) {
	day := schedule.DayOf(at)
	clock := at.Format("15:04")

	items, err := deps.ScheduleStore.ListByCenterAndDay(ctx, centerID, day)
	if err != nil {
		return ScheduleNowResult{}, err
	}

	for i := range items {
		if items[i].ContainsTime(clock) {
			return ScheduleNowResult{Open: true, Item: &items[i]}, nil
		}
	}
	return ScheduleNowResult{Open: false}, nil
}
