package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"fjorlistinn/internal/adapters/storage"
	domain "fjorlistinn/internal/domain/attendance"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new attendance store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const entryColumns = "id, student_id, center_id, date, time, program_item, source, staff_id, created_at"

// Insert appends a ledger entry if none exists for the same
// (student, center, date). The uniqueness check and the write are a single
// atomic statement, so concurrent submissions cannot both commit.
// PRE: entity has been validated
// POST: Exactly one row exists for the key; ErrDuplicate when it already did
func (s *SQLiteStore) Insert(ctx context.Context, entity domain.Entry) error {
	var staffID any
	if entity.StaffID != "" {
		staffID = entity.StaffID
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO attendance (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(student_id, center_id, date) DO NOTHING`,
		entity.ID, entity.StudentID, entity.CenterID, entity.Date, entity.Time,
		entity.ProgramItem, entity.Source, staffID, entity.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDuplicate
	}
	return nil
}

// GetByID retrieves an Entry by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM attendance WHERE id = ?", id)
	entity, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return domain.Entry{}, fmt.Errorf("attendance entry not found: %w", err)
	}
	return entity, err
}

// ListByStudentID retrieves all ledger entries for a student, newest first.
// PRE: studentID is non-empty
// POST: Returns entries for the given student across all centers
func (s *SQLiteStore) ListByStudentID(ctx context.Context, studentID string) ([]domain.Entry, error) {
	return s.list(ctx,
		"SELECT "+entryColumns+" FROM attendance WHERE student_id = ? ORDER BY date DESC, time DESC",
		studentID)
}

// ListByCenterAndDate retrieves a center's entries for one calendar day.
// PRE: centerID is non-empty, date is YYYY-MM-DD
// POST: Returns matching entries ordered by check-in time
func (s *SQLiteStore) ListByCenterAndDate(ctx context.Context, centerID string, date string) ([]domain.Entry, error) {
	return s.list(ctx,
		"SELECT "+entryColumns+" FROM attendance WHERE center_id = ? AND date = ? ORDER BY time",
		centerID, date)
}

// ListByDateRange retrieves entries within an inclusive date range,
// optionally restricted to one center.
// PRE: filter dates are YYYY-MM-DD
// POST: Returns matching entries ordered by date
func (s *SQLiteStore) ListByDateRange(ctx context.Context, filter RangeFilter) ([]domain.Entry, error) {
	query := "SELECT " + entryColumns + " FROM attendance WHERE date >= ? AND date <= ?"
	args := []any{filter.StartDate, filter.EndDate}
	if filter.CenterID != "" {
		query += " AND center_id = ?"
		args = append(args, filter.CenterID)
	}
	query += " ORDER BY date, time"
	return s.list(ctx, query, args...)
}

// CountByStudentID returns the lifetime entry count for a student.
// PRE: studentID is non-empty
// POST: Returns count >= 0
func (s *SQLiteStore) CountByStudentID(ctx context.Context, studentID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM attendance WHERE student_id = ?", studentID).Scan(&n)
	return n, err
}

// LastDateByStudentID returns the most recent attendance date, or "" when
// the student has never checked in.
// PRE: studentID is non-empty
// POST: Returns YYYY-MM-DD or ""
func (s *SQLiteStore) LastDateByStudentID(ctx context.Context, studentID string) (string, error) {
	var date sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(date) FROM attendance WHERE student_id = ?", studentID).Scan(&date)
	if err != nil {
		return "", err
	}
	if !date.Valid {
		return "", nil
	}
	return date.String, nil
}

// DeleteOlderThan purges ledger rows before the cutoff date. Used only by
// year-end cleanup.
// PRE: cutoffDate is YYYY-MM-DD
// POST: Returns the number of deleted rows
func (s *SQLiteStore) DeleteOlderThan(ctx context.Context, cutoffDate string) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM attendance WHERE date < ?", cutoffDate)
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
		entity, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.Entry, error) {
	var entity domain.Entry
	var staffID sql.NullString
	var createdStr string
	err := row.Scan(
		&entity.ID,
		&entity.StudentID,
		&entity.CenterID,
		&entity.Date,
		&entity.Time,
		&entity.ProgramItem,
		&entity.Source,
		&staffID,
		&createdStr,
	)
	if err != nil {
		return domain.Entry{}, err
	}
	if staffID.Valid {
		entity.StaffID = staffID.String
	}
	entity.CreatedAt, err = parseStoredTime(createdStr)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return entity, nil
}

func parseStoredTime(value string) (time.Time, error) {
	if idx := strings.Index(value, " m="); idx != -1 {
		value = value[:idx]
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %q", value)
}
