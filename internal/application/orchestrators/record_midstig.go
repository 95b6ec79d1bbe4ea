package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fjorlistinn/internal/domain/midstig"
)

// MidstigStore defines the store interface for aggregate headcounts.
type MidstigStore interface {
	Insert(ctx context.Context, e midstig.Entry) error
}

// RecordMidstigInput carries input for the midstig headcount orchestrator.
type RecordMidstigInput struct {
	CenterID string
	School   string
	Date     string // YYYY-MM-DD, optional, defaults to today
	Grade5   int
	Grade6   int
	Grade7   int
	StaffID  string
}

// RecordMidstigDeps holds dependencies for RecordMidstig.
type RecordMidstigDeps struct {
	MidstigStore MidstigStore
	Now          func() time.Time
	GenerateID   func() string
}

// ExecuteRecordMidstig records an aggregate grade 5-7 headcount. Unlike the
// individual ledger there is no uniqueness key: a second submission for the
// same day is a separate batch, and statistics sum them.
// PRE: CenterID and School are non-empty; at least one headcount is positive
// POST: One headcount row appended
func ExecuteRecordMidstig(ctx context.Context, input RecordMidstigInput, deps RecordMidstigDeps) error {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	generateID := func() string { return uuid.New().String() }
	if deps.GenerateID != nil {
		generateID = deps.GenerateID
	}

	if input.Date == "" {
		input.Date = now().Format("2006-01-02")
	}

	entry := midstig.Entry{
		ID:        generateID(),
		CenterID:  input.CenterID,
		School:    input.School,
		Date:      input.Date,
		Grade5:    input.Grade5,
		Grade6:    input.Grade6,
		Grade7:    input.Grade7,
		StaffID:   input.StaffID,
		CreatedAt: now(),
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	if err := deps.MidstigStore.Insert(ctx, entry); err != nil {
		return err
	}

	slog.Info("checkin_event", "event", "midstig_recorded", "center_id", input.CenterID, "school", input.School, "date", input.Date, "total", entry.Total())
	return nil
}
