package maintenance

import "context"

// YearEndResult reports what the rollover touched.
type YearEndResult struct {
	Promoted        int // students moved up one grade
	Deactivated     int // finishing 10th graders
	PurgedEntries   int // attendance rows removed
	PurgedHeadcount int // midstig rows removed
}

// Store runs cross-table maintenance operations that must be atomic.
type Store interface {
	// YearEndCleanup performs the annual rollover in a single transaction:
	// deactivate finishing 10th graders, bump every other active grade, and
	// purge ledger and headcount rows older than the retention cutoff.
	// All of it commits or none of it does.
	YearEndCleanup(ctx context.Context, retentionCutoff string) (YearEndResult, error)
}
