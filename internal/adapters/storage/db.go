package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS center (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		schools TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS student (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		school TEXT NOT NULL,
		grade INTEGER NOT NULL,
		center_id TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		FOREIGN KEY (center_id) REFERENCES center(id)
	);

	CREATE TABLE IF NOT EXISTS schedule_item (
		id TEXT PRIMARY KEY,
		center_id TEXT NOT NULL,
		day TEXT NOT NULL,
		name TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (center_id) REFERENCES center(id)
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		center_id TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL DEFAULT '',
		program_item TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL,
		staff_id TEXT,
		created_at TEXT NOT NULL,
		UNIQUE (student_id, center_id, date),
		FOREIGN KEY (student_id) REFERENCES student(id),
		FOREIGN KEY (center_id) REFERENCES center(id)
	);

	CREATE TABLE IF NOT EXISTS midstig_entry (
		id TEXT PRIMARY KEY,
		center_id TEXT NOT NULL,
		school TEXT NOT NULL,
		date TEXT NOT NULL,
		grade5 INTEGER NOT NULL DEFAULT 0,
		grade6 INTEGER NOT NULL DEFAULT 0,
		grade7 INTEGER NOT NULL DEFAULT 0,
		staff_id TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (center_id) REFERENCES center(id)
	);

	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		center_id TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS comment (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		content TEXT NOT NULL,
		author TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (student_id) REFERENCES student(id)
	);

	CREATE TABLE IF NOT EXISTS student_milestone (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		threshold INTEGER NOT NULL,
		reached_at TEXT NOT NULL,
		notified INTEGER NOT NULL DEFAULT 0,
		UNIQUE (student_id, threshold),
		FOREIGN KEY (student_id) REFERENCES student(id)
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_student ON attendance(student_id, date);
	CREATE INDEX IF NOT EXISTS idx_attendance_center_date ON attendance(center_id, date);
	CREATE INDEX IF NOT EXISTS idx_midstig_center_date ON midstig_entry(center_id, date);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
