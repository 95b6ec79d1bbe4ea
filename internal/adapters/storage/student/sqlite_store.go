package student

import (
	"context"
	"database/sql"
	"fmt"

	"fjorlistinn/internal/adapters/storage"
	domain "fjorlistinn/internal/domain/student"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new student store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Student by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Student, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, school, grade, center_id, active FROM student WHERE id = ?", id)

	var entity domain.Student
	var active int
	err := row.Scan(&entity.ID, &entity.Name, &entity.School, &entity.Grade, &entity.CenterID, &active)
	if err == sql.ErrNoRows {
		return domain.Student{}, fmt.Errorf("student not found: %w", err)
	}
	if err != nil {
		return domain.Student{}, err
	}
	entity.Active = active != 0
	return entity, nil
}

// Save persists a Student (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Student) error {
	active := 0
	if entity.Active {
		active = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO student (id, name, school, grade, center_id, active) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, school=excluded.school, grade=excluded.grade, center_id=excluded.center_id, active=excluded.active`,
		entity.ID, entity.Name, entity.School, entity.Grade, entity.CenterID, active)
	return err
}

// List retrieves students matching the filter, ordered by name.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Student, error) {
	query := "SELECT id, name, school, grade, center_id, active FROM student"
	var conds []string
	var args []any
	if filter.CenterID != "" {
		conds = append(conds, "center_id = ?")
		args = append(args, filter.CenterID)
	}
	if filter.ActiveOnly {
		conds = append(conds, "active = 1")
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Student
	for rows.Next() {
		var entity domain.Student
		var active int
		if err := rows.Scan(&entity.ID, &entity.Name, &entity.School, &entity.Grade, &entity.CenterID, &active); err != nil {
			return nil, err
		}
		entity.Active = active != 0
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Deactivate clears the active flag without deleting history.
// PRE: id is non-empty
// POST: Student remains with active=0; ledger rows untouched
func (s *SQLiteStore) Deactivate(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE student SET active = 0 WHERE id = ?", id)
	return err
}
