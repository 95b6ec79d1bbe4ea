package orchestrators

import (
	"context"
	"errors"
	"testing"

	"fjorlistinn/internal/domain/midstig"
)

// mockMidstigStore implements MidstigStore for testing.
type mockMidstigStore struct {
	entries []midstig.Entry
}

func (m *mockMidstigStore) Insert(_ context.Context, e midstig.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

// TestExecuteRecordMidstig_Valid tests the happy path with a defaulted date.
func TestExecuteRecordMidstig_Valid(t *testing.T) {
	store := &mockMidstigStore{}
	err := ExecuteRecordMidstig(context.Background(), RecordMidstigInput{
		CenterID: "AKURFELO", School: "Akurskóli",
		Grade5: 8, Grade6: 12, Grade7: 5, StaffID: "staff-1",
	}, RecordMidstigDeps{MidstigStore: store, Now: fixedNow, GenerateID: fixedID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(store.entries))
	}
	e := store.entries[0]
	if e.Date != "2026-03-02" {
		t.Errorf("expected date defaulted to today, got %s", e.Date)
	}
	if e.Total() != 25 {
		t.Errorf("expected total 25, got %d", e.Total())
	}
}

// TestExecuteRecordMidstig_Rejections tests validation failures.
func TestExecuteRecordMidstig_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		input   RecordMidstigInput
		wantErr error
	}{
		{"all zero", RecordMidstigInput{CenterID: "AKURFELO", School: "Akurskóli"}, midstig.ErrEmptyEntry},
		{"negative count", RecordMidstigInput{CenterID: "AKURFELO", School: "Akurskóli", Grade5: -1, Grade6: 2}, midstig.ErrNegativeCount},
		{"missing school", RecordMidstigInput{CenterID: "AKURFELO", Grade5: 3}, midstig.ErrEmptySchool},
		{"missing center", RecordMidstigInput{School: "Akurskóli", Grade5: 3}, midstig.ErrEmptyCenterID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockMidstigStore{}
			err := ExecuteRecordMidstig(context.Background(), tt.input,
				RecordMidstigDeps{MidstigStore: store, Now: fixedNow, GenerateID: fixedID})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(store.entries) != 0 {
				t.Error("expected nothing stored on rejection")
			}
		})
	}
}
