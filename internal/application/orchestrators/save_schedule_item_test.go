package orchestrators

import (
	"context"
	"errors"
	"testing"

	"fjorlistinn/internal/domain/schedule"
)

// mockScheduleStore implements ScheduleWriteStore for testing.
type mockScheduleStore struct {
	items []schedule.Item
}

func (m *mockScheduleStore) Save(_ context.Context, item schedule.Item) error {
	for i := range m.items {
		if m.items[i].ID == item.ID {
			m.items[i] = item
			return nil
		}
	}
	m.items = append(m.items, item)
	return nil
}

func (m *mockScheduleStore) Delete(_ context.Context, id string) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockScheduleStore) ListByCenterAndDay(_ context.Context, centerID string, day string) ([]schedule.Item, error) {
	var matched []schedule.Item
	for _, item := range m.items {
		if item.CenterID == centerID && item.Day == day {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// TestExecuteSaveScheduleItem_Valid tests creating a new item.
func TestExecuteSaveScheduleItem_Valid(t *testing.T) {
	store := &mockScheduleStore{}
	id, err := ExecuteSaveScheduleItem(context.Background(), SaveScheduleItemInput{
		CenterID: "AKURFELO", Day: schedule.Monday, Name: "Opið hús",
		StartTime: "14:00", EndTime: "16:00", Category: "opid",
	}, SaveScheduleItemDeps{ScheduleStore: store, GenerateID: fixedID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "test-id-001" {
		t.Errorf("expected generated ID, got %s", id)
	}
	if len(store.items) != 1 {
		t.Errorf("expected 1 stored item, got %d", len(store.items))
	}
}

// TestExecuteSaveScheduleItem_OverlapRejected tests write-time overlap
// checking: overlapping windows fail, touching endpoints do not.
func TestExecuteSaveScheduleItem_OverlapRejected(t *testing.T) {
	store := &mockScheduleStore{items: []schedule.Item{{
		ID: "existing", CenterID: "AKURFELO", Day: schedule.Monday,
		Name: "Opið hús", StartTime: "14:00", EndTime: "16:00",
	}}}
	deps := SaveScheduleItemDeps{ScheduleStore: store, GenerateID: sequenceID()}

	_, err := ExecuteSaveScheduleItem(context.Background(), SaveScheduleItemInput{
		CenterID: "AKURFELO", Day: schedule.Monday, Name: "Bíókvöld",
		StartTime: "15:00", EndTime: "17:00",
	}, deps)
	if !errors.Is(err, schedule.ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}

	// Back-to-back slots are fine
	if _, err := ExecuteSaveScheduleItem(context.Background(), SaveScheduleItemInput{
		CenterID: "AKURFELO", Day: schedule.Monday, Name: "Bíókvöld",
		StartTime: "16:00", EndTime: "18:00",
	}, deps); err != nil {
		t.Fatalf("unexpected error for touching endpoints: %v", err)
	}

	// Same window on another day is fine
	if _, err := ExecuteSaveScheduleItem(context.Background(), SaveScheduleItemInput{
		CenterID: "AKURFELO", Day: schedule.Tuesday, Name: "Bíókvöld",
		StartTime: "15:00", EndTime: "17:00",
	}, deps); err != nil {
		t.Fatalf("unexpected error for different day: %v", err)
	}
}

// TestExecuteSaveScheduleItem_UpdateSkipsSelf tests that editing an item
// does not collide with its own window.
func TestExecuteSaveScheduleItem_UpdateSkipsSelf(t *testing.T) {
	store := &mockScheduleStore{items: []schedule.Item{{
		ID: "existing", CenterID: "AKURFELO", Day: schedule.Monday,
		Name: "Opið hús", StartTime: "14:00", EndTime: "16:00",
	}}}

	_, err := ExecuteSaveScheduleItem(context.Background(), SaveScheduleItemInput{
		ID: "existing", CenterID: "AKURFELO", Day: schedule.Monday,
		Name: "Opið hús", StartTime: "14:30", EndTime: "16:30",
	}, SaveScheduleItemDeps{ScheduleStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.items[0].StartTime != "14:30" {
		t.Errorf("expected item updated, got %+v", store.items[0])
	}
}

// TestExecuteSaveScheduleItem_InvalidTimes tests time validation.
func TestExecuteSaveScheduleItem_InvalidTimes(t *testing.T) {
	store := &mockScheduleStore{}
	_, err := ExecuteSaveScheduleItem(context.Background(), SaveScheduleItemInput{
		CenterID: "AKURFELO", Day: schedule.Monday, Name: "Opið hús",
		StartTime: "16:00", EndTime: "14:00",
	}, SaveScheduleItemDeps{ScheduleStore: store, GenerateID: fixedID})
	if !errors.Is(err, schedule.ErrEndBeforeStart) {
		t.Errorf("expected ErrEndBeforeStart, got %v", err)
	}
}
