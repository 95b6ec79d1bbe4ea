package storage

import (
	"database/sql"
	"sort"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// expectedTables is the sorted list of tables after InitDB.
var expectedTables = []string{
	"account",
	"attendance",
	"center",
	"comment",
	"midstig_entry",
	"schedule_item",
	"student",
	"student_milestone",
}

// TestInitDB_CreatesSchema verifies all tables exist after initialization.
func TestInitDB_CreatesSchema(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	got := getTableNames(t, db)
	if len(got) != len(expectedTables) {
		t.Fatalf("expected %d tables, got %d: %v", len(expectedTables), len(got), got)
	}
	for i, name := range expectedTables {
		if got[i] != name {
			t.Errorf("table %d: expected %q, got %q", i, name, got[i])
		}
	}
}

// TestInitDB_Idempotent verifies InitDB can run twice without error.
func TestInitDB_Idempotent(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("first InitDB failed: %v", err)
	}
	if err := InitDB(db); err != nil {
		t.Fatalf("second InitDB failed: %v", err)
	}
}

// TestInitDB_AttendanceUniqueness verifies the ledger's uniqueness key is
// declared on (student_id, center_id, date).
func TestInitDB_AttendanceUniqueness(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	var ddl string
	err := db.QueryRow("SELECT sql FROM sqlite_master WHERE type='table' AND name='attendance'").Scan(&ddl)
	if err != nil {
		t.Fatalf("failed to read attendance DDL: %v", err)
	}
	normalized := strings.Join(strings.Fields(ddl), " ")
	if !strings.Contains(normalized, "UNIQUE (student_id, center_id, date)") {
		t.Errorf("attendance table missing uniqueness constraint, DDL: %s", normalized)
	}
}
