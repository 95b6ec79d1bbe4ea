package milestone

import (
	"context"
	"database/sql"
	"time"

	"fjorlistinn/internal/adapters/storage"
	domain "fjorlistinn/internal/domain/gamification"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new milestone store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Award records a reached milestone. A second award for the same
// (student, threshold) is silently ignored.
// PRE: value has non-empty StudentID and a positive Threshold
// POST: Exactly one row exists for (student, threshold)
func (s *SQLiteStore) Award(ctx context.Context, value domain.StudentMilestone) error {
	notified := 0
	if value.Notified {
		notified = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO student_milestone (id, student_id, threshold, reached_at, notified)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(student_id, threshold) DO NOTHING`,
		value.ID, value.StudentID, value.Threshold,
		value.ReachedAt.Format(time.RFC3339Nano), notified)
	return err
}

// ListByStudentID retrieves a student's awarded milestones by ascending threshold.
// PRE: studentID is non-empty
// POST: Returns awarded milestones
func (s *SQLiteStore) ListByStudentID(ctx context.Context, studentID string) ([]domain.StudentMilestone, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, student_id, threshold, reached_at, notified FROM student_milestone WHERE student_id = ? ORDER BY threshold",
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.StudentMilestone
	for rows.Next() {
		entity, err := scanMilestone(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// ClaimUnnotified returns the oldest unnotified milestone and marks it
// notified in one transaction.
// PRE: studentID is non-empty
// POST: Returned milestone (if any) will not be returned again
func (s *SQLiteStore) ClaimUnnotified(ctx context.Context, studentID string) (*domain.StudentMilestone, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, student_id, threshold, reached_at, notified FROM student_milestone
		WHERE student_id = ? AND notified = 0 ORDER BY threshold LIMIT 1`, studentID)
	entity, err := scanMilestone(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE student_milestone SET notified = 1 WHERE id = ?", entity.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	entity.Notified = true
	return &entity, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMilestone(row rowScanner) (domain.StudentMilestone, error) {
	var entity domain.StudentMilestone
	var reachedStr string
	var notified int
	err := row.Scan(&entity.ID, &entity.StudentID, &entity.Threshold, &reachedStr, &notified)
	if err != nil {
		return domain.StudentMilestone{}, err
	}
	if parsed, err := time.Parse(time.RFC3339Nano, reachedStr); err == nil {
		entity.ReachedAt = parsed
	}
	entity.Notified = notified != 0
	return entity, nil
}
