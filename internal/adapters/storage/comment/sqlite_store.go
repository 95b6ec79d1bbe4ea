package comment

import (
	"context"
	"time"

	"fjorlistinn/internal/adapters/storage"
	domain "fjorlistinn/internal/domain/comment"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new comment store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Insert appends a comment.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Insert(ctx context.Context, entity domain.Comment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comment (id, student_id, content, author, created_at) VALUES (?, ?, ?, ?, ?)`,
		entity.ID, entity.StudentID, entity.Content, entity.Author,
		entity.CreatedAt.Format(time.RFC3339Nano))
	return err
}

// ListByStudentID retrieves a student's comments, newest first.
// PRE: studentID is non-empty
// POST: Returns comments for the given student
func (s *SQLiteStore) ListByStudentID(ctx context.Context, studentID string) ([]domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, student_id, content, author, created_at FROM comment WHERE student_id = ? ORDER BY created_at DESC",
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Comment
	for rows.Next() {
		var entity domain.Comment
		var createdStr string
		if err := rows.Scan(&entity.ID, &entity.StudentID, &entity.Content, &entity.Author, &createdStr); err != nil {
			return nil, err
		}
		if parsed, err := time.Parse(time.RFC3339Nano, createdStr); err == nil {
			entity.CreatedAt = parsed
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
