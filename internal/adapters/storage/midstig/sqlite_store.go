package midstig

import (
	"context"
	"database/sql"
	"time"

	"fjorlistinn/internal/adapters/storage"
	domain "fjorlistinn/internal/domain/midstig"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new midstig store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const entryColumns = "id, center_id, school, date, grade5, grade6, grade7, staff_id, created_at"

// Insert appends a headcount entry. Multiple entries per center/school/date
// are allowed; aggregation sums them.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Insert(ctx context.Context, entity domain.Entry) error {
	var staffID any
	if entity.StaffID != "" {
		staffID = entity.StaffID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO midstig_entry (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entity.ID, entity.CenterID, entity.School, entity.Date,
		entity.Grade5, entity.Grade6, entity.Grade7, staffID,
		entity.CreatedAt.Format(time.RFC3339Nano))
	return err
}

// ListByCenterAndDate retrieves a center's headcount entries for one day.
// PRE: centerID is non-empty, date is YYYY-MM-DD
// POST: Returns matching entries
func (s *SQLiteStore) ListByCenterAndDate(ctx context.Context, centerID string, date string) ([]domain.Entry, error) {
	return s.list(ctx,
		"SELECT "+entryColumns+" FROM midstig_entry WHERE center_id = ? AND date = ? ORDER BY school",
		centerID, date)
}

// ListByDateRange retrieves headcount entries within an inclusive range,
// optionally restricted to one center.
// PRE: dates are YYYY-MM-DD
// POST: Returns matching entries ordered by date
func (s *SQLiteStore) ListByDateRange(ctx context.Context, centerID string, startDate string, endDate string) ([]domain.Entry, error) {
	query := "SELECT " + entryColumns + " FROM midstig_entry WHERE date >= ? AND date <= ?"
	args := []any{startDate, endDate}
	if centerID != "" {
		query += " AND center_id = ?"
		args = append(args, centerID)
	}
	query += " ORDER BY date"
	return s.list(ctx, query, args...)
}

// DeleteOlderThan purges headcount rows before the cutoff date.
// PRE: cutoffDate is YYYY-MM-DD
// POST: Returns the number of deleted rows
func (s *SQLiteStore) DeleteOlderThan(ctx context.Context, cutoffDate string) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM midstig_entry WHERE date < ?", cutoffDate)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Entry
	for rows.Next() {
		var entity domain.Entry
		var staffID sql.NullString
		var createdStr string
		if err := rows.Scan(&entity.ID, &entity.CenterID, &entity.School, &entity.Date,
			&entity.Grade5, &entity.Grade6, &entity.Grade7, &staffID, &createdStr); err != nil {
			return nil, err
		}
		if staffID.Valid {
			entity.StaffID = staffID.String
		}
		if parsed, err := time.Parse(time.RFC3339Nano, createdStr); err == nil {
			entity.CreatedAt = parsed
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
