package schedule

import (
	"context"
	"database/sql"
	"fmt"

	"fjorlistinn/internal/adapters/storage"
	domain "fjorlistinn/internal/domain/schedule"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new schedule store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a schedule item by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Item, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, center_id, day, name, start_time, end_time, category FROM schedule_item WHERE id = ?", id)

	var entity domain.Item
	err := row.Scan(&entity.ID, &entity.CenterID, &entity.Day, &entity.Name, &entity.StartTime, &entity.EndTime, &entity.Category)
	if err == sql.ErrNoRows {
		return domain.Item{}, fmt.Errorf("schedule item not found: %w", err)
	}
	return entity, err
}

// Save persists a schedule item. New items are appended after existing
// ones so ties at query time resolve by insertion order.
// PRE: entity has been validated
// POST: Entity is persisted with a stable position
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO schedule_item (id, center_id, day, name, start_time, end_time, category, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM schedule_item))
		ON CONFLICT(id) DO UPDATE SET center_id=excluded.center_id, day=excluded.day, name=excluded.name,
			start_time=excluded.start_time, end_time=excluded.end_time, category=excluded.category`,
		entity.ID, entity.CenterID, entity.Day, entity.Name, entity.StartTime, entity.EndTime, entity.Category)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a schedule item.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM schedule_item WHERE id = ?", id)
	return err
}

// ListByCenter retrieves all schedule items for a center in insertion order.
// PRE: centerID is non-empty
// POST: Returns items for the given center
func (s *SQLiteStore) ListByCenter(ctx context.Context, centerID string) ([]domain.Item, error) {
	return s.list(ctx,
		"SELECT id, center_id, day, name, start_time, end_time, category FROM schedule_item WHERE center_id = ? ORDER BY position",
		centerID)
}

// ListByCenterAndDay retrieves a center's items for one weekday in insertion order.
// PRE: centerID and day are non-empty
// POST: Returns matching items; ties resolve deterministically by position
func (s *SQLiteStore) ListByCenterAndDay(ctx context.Context, centerID string, day string) ([]domain.Item, error) {
	return s.list(ctx,
		"SELECT id, center_id, day, name, start_time, end_time, category FROM schedule_item WHERE center_id = ? AND day = ? ORDER BY position",
		centerID, day)
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Item
	for rows.Next() {
		var entity domain.Item
		if err := rows.Scan(&entity.ID, &entity.CenterID, &entity.Day, &entity.Name, &entity.StartTime, &entity.EndTime, &entity.Category); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
