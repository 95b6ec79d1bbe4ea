package center

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"fjorlistinn/internal/adapters/storage"
	domain "fjorlistinn/internal/domain/center"
)

// schoolSeparator joins the affiliated-school list into a single column.
const schoolSeparator = "|"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new center store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Center by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Center, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, color, schools FROM center WHERE id = ?", id)

	var entity domain.Center
	var schools string
	err := row.Scan(&entity.ID, &entity.Name, &entity.Color, &schools)
	if err == sql.ErrNoRows {
		return domain.Center{}, fmt.Errorf("center not found: %w", err)
	}
	if err != nil {
		return domain.Center{}, err
	}
	entity.Schools = splitSchools(schools)
	return entity, nil
}

// Save persists a Center (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Center) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO center (id, name, color, schools) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, color=excluded.color, schools=excluded.schools`,
		entity.ID, entity.Name, entity.Color, strings.Join(entity.Schools, schoolSeparator))
	return err
}

// List retrieves all centers ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Center, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, color, schools FROM center ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Center
	for rows.Next() {
		var entity domain.Center
		var schools string
		if err := rows.Scan(&entity.ID, &entity.Name, &entity.Color, &schools); err != nil {
			return nil, err
		}
		entity.Schools = splitSchools(schools)
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the number of stored centers.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM center").Scan(&n)
	return n, err
}

func splitSchools(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, schoolSeparator)
}
