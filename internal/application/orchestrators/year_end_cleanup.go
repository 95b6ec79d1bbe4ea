package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fjorlistinn/internal/adapters/storage/maintenance"
)

// RetentionSchoolYears is how many school years of ledger and headcount
// rows survive the annual cleanup.
const RetentionSchoolYears = 2

// MaintenanceStore runs the atomic year-end rollover.
type MaintenanceStore interface {
	YearEndCleanup(ctx context.Context, retentionCutoff string) (maintenance.YearEndResult, error)
}

// YearEndCleanupInput carries input for the year-end orchestrator.
// The operation is gated on the admin password, re-checked here even for
// authenticated callers.
type YearEndCleanupInput struct {
	AdminPassword string
}

// YearEndCleanupResult reports what the rollover touched.
type YearEndCleanupResult struct {
	Promoted        int
	Deactivated     int
	PurgedEntries   int
	PurgedHeadcount int
}

// YearEndCleanupDeps holds dependencies for YearEndCleanup.
type YearEndCleanupDeps struct {
	AccountStore     AccountStoreForLogin
	MaintenanceStore MaintenanceStore
	Now              func() time.Time
}

// retentionCutoff returns August 1 of the school year RetentionSchoolYears
// back. School years run August through July, so a cleanup in May 2026
// keeps rows from 2024-08-01 onward.
func retentionCutoff(now time.Time) string {
	year := now.Year()
	if now.Month() < time.August {
		year--
	}
	return fmt.Sprintf("%04d-08-01", year-RetentionSchoolYears)
}

// ExecuteYearEndCleanup runs the annual rollover: every active student
// moves up a grade, finishing 10th graders are deactivated, and ledger and
// headcount rows past the retention window are purged. All of it commits
// in one transaction or none of it does.
// PRE: AdminPassword matches the admin account
// POST: Rollover committed atomically; counts returned
func ExecuteYearEndCleanup(ctx context.Context, input YearEndCleanupInput, deps YearEndCleanupDeps) (YearEndCleanupResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	admin, err := deps.AccountStore.GetByUsername(ctx, "admin")
	if err != nil {
		return YearEndCleanupResult{}, ErrInvalidCredentials
	}
	if err := admin.CheckPassword(input.AdminPassword); err != nil {
		slog.Info("auth_event", "event", "year_end_denied", "reason", "wrong_password")
		return YearEndCleanupResult{}, ErrInvalidCredentials
	}

	cutoff := retentionCutoff(now())
	result, err := deps.MaintenanceStore.YearEndCleanup(ctx, cutoff)
	if err != nil {
		return YearEndCleanupResult{}, err
	}

	slog.Info("maintenance_event", "event", "year_end_cleanup",
		"promoted", result.Promoted, "deactivated", result.Deactivated,
		"purged_entries", result.PurgedEntries, "purged_headcount", result.PurgedHeadcount,
		"retention_cutoff", cutoff)

	return YearEndCleanupResult{
		Promoted:        result.Promoted,
		Deactivated:     result.Deactivated,
		PurgedEntries:   result.PurgedEntries,
		PurgedHeadcount: result.PurgedHeadcount,
	}, nil
}
