package orchestrators

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"fjorlistinn/internal/domain/schedule"
)

// ScheduleWriteStore defines the schedule store interface for edits.
type ScheduleWriteStore interface {
	Save(ctx context.Context, item schedule.Item) error
	Delete(ctx context.Context, id string) error
	ListByCenterAndDay(ctx context.Context, centerID string, day string) ([]schedule.Item, error)
}

// SaveScheduleItemInput carries input for schedule edits. An empty ID
// creates a new item; a set ID replaces the existing one.
type SaveScheduleItemInput struct {
	ID        string
	CenterID  string
	Day       string
	Name      string
	StartTime string // HH:MM
	EndTime   string // HH:MM
	Category  string
}

// SaveScheduleItemDeps holds dependencies for SaveScheduleItem.
type SaveScheduleItemDeps struct {
	ScheduleStore ScheduleWriteStore
	GenerateID    func() string
}

// ExecuteSaveScheduleItem validates and stores a schedule item. Overlap
// with another item on the same center and weekday is rejected at write
// time; touching endpoints are allowed.
// PRE: Times are HH:MM with end after start
// POST: Item stored; no two items on a center+day overlap
func ExecuteSaveScheduleItem(ctx context.Context, input SaveScheduleItemInput, deps SaveScheduleItemDeps) (string, error) {
	generateID := func() string { return uuid.New().String() }
	if deps.GenerateID != nil {
		generateID = deps.GenerateID
	}

	item := schedule.Item{
		ID:        input.ID,
		CenterID:  input.CenterID,
		Day:       input.Day,
		Name:      input.Name,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Category:  input.Category,
	}
	if item.ID == "" {
		item.ID = generateID()
	}
	if err := item.Validate(); err != nil {
		return "", err
	}

	existing, err := deps.ScheduleStore.ListByCenterAndDay(ctx, item.CenterID, item.Day)
	if err != nil {
		return "", err
	}
	for i := range existing {
		if existing[i].ID == item.ID {
			continue
		}
		if item.Overlaps(&existing[i]) {
			return "", schedule.ErrOverlap
		}
	}

	if err := deps.ScheduleStore.Save(ctx, item); err != nil {
		return "", err
	}

	slog.Info("schedule_event", "event", "item_saved", "item_id", item.ID, "center_id", item.CenterID, "day", item.Day, "name", item.Name)
	return item.ID, nil
}

// ExecuteDeleteScheduleItem removes a schedule item.
// PRE: ID is non-empty
// POST: Item removed if it existed
func ExecuteDeleteScheduleItem(ctx context.Context, id string, deps SaveScheduleItemDeps) error {
	if err := deps.ScheduleStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("schedule_event", "event", "item_deleted", "item_id", id)
	return nil
}
