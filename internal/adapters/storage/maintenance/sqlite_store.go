package maintenance

import (
	"context"

	"fjorlistinn/internal/adapters/storage"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new maintenance store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// YearEndCleanup performs the annual rollover in a single transaction.
// Order matters: finishing 10th graders are deactivated before the grade
// bump so they are not pushed past the top grade.
// PRE: retentionCutoff is YYYY-MM-DD
// POST: All statements committed together, or the database is unchanged
func (s *SQLiteStore) YearEndCleanup(ctx context.Context, retentionCutoff string) (YearEndResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return YearEndResult{}, err
	}
	defer tx.Rollback()

	var result YearEndResult

	res, err := tx.ExecContext(ctx, "UPDATE student SET active = 0 WHERE active = 1 AND grade = 10")
	if err != nil {
		return YearEndResult{}, err
	}
	if n, err := res.RowsAffected(); err == nil {
		result.Deactivated = int(n)
	}

	res, err = tx.ExecContext(ctx, "UPDATE student SET grade = grade + 1 WHERE active = 1 AND grade < 10")
	if err != nil {
		return YearEndResult{}, err
	}
	if n, err := res.RowsAffected(); err == nil {
		result.Promoted = int(n)
	}

	res, err = tx.ExecContext(ctx, "DELETE FROM attendance WHERE date < ?", retentionCutoff)
	if err != nil {
		return YearEndResult{}, err
	}
	if n, err := res.RowsAffected(); err == nil {
		result.PurgedEntries = int(n)
	}

	res, err = tx.ExecContext(ctx, "DELETE FROM midstig_entry WHERE date < ?", retentionCutoff)
	if err != nil {
		return YearEndResult{}, err
	}
	if n, err := res.RowsAffected(); err == nil {
		result.PurgedHeadcount = int(n)
	}

	if err := tx.Commit(); err != nil {
		return YearEndResult{}, err
	}
	return result, nil
}
