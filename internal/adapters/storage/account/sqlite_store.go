package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fjorlistinn/internal/adapters/storage"
	domain "fjorlistinn/internal/domain/account"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const accountColumns = "id, username, display_name, role, center_id, password_hash, created_at, failed_logins, locked_until"

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM account WHERE id = ?", id)
	return scanAccount(row)
}

// GetByUsername retrieves an Account by its unique username.
// PRE: username is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM account WHERE username = ?", username)
	return scanAccount(row)
}

// Save persists an Account (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	var lockedUntil any
	if !entity.LockedUntil.IsZero() {
		lockedUntil = entity.LockedUntil.Format(time.RFC3339Nano)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET username=excluded.username, display_name=excluded.display_name,
			role=excluded.role, center_id=excluded.center_id, password_hash=excluded.password_hash,
			failed_logins=excluded.failed_logins, locked_until=excluded.locked_until`,
		entity.ID, entity.Username, entity.DisplayName, entity.Role, entity.CenterID,
		entity.PasswordHash, entity.CreatedAt.Format(time.RFC3339Nano),
		entity.FailedLogins, lockedUntil)
	return err
}

// List retrieves all accounts ordered by username.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+accountColumns+" FROM account ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Account
	for rows.Next() {
		entity, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Delete removes an account by username.
// PRE: username is non-empty
// POST: The account row is gone; deleting a missing username is a no-op
func (s *SQLiteStore) Delete(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM account WHERE username = ?", username)
	return err
}

// Count returns the number of stored accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&n)
	return n, err
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var entity domain.Account
	var createdStr string
	var lockedUntil sql.NullString
	err := row.Scan(
		&entity.ID,
		&entity.Username,
		&entity.DisplayName,
		&entity.Role,
		&entity.CenterID,
		&entity.PasswordHash,
		&createdStr,
		&entity.FailedLogins,
		&lockedUntil,
	)
	if err == sql.ErrNoRows {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	if err != nil {
		return domain.Account{}, err
	}
	if parsed, err := time.Parse(time.RFC3339Nano, createdStr); err == nil {
		entity.CreatedAt = parsed
	}
	if lockedUntil.Valid {
		if parsed, err := time.Parse(time.RFC3339Nano, lockedUntil.String); err == nil {
			entity.LockedUntil = parsed
		}
	}
	return entity, nil
}
