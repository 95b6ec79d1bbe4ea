package attendance_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"fjorlistinn/internal/adapters/storage"
	attendanceStore "fjorlistinn/internal/adapters/storage/attendance"
	domain "fjorlistinn/internal/domain/attendance"
)

// openStoreDB creates a file-backed test database so concurrent
// connections from the pool see the same data.
func openStoreDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	seedRefData(t, db)
	return db
}

// seedRefData inserts the center and student rows the FK constraints need.
func seedRefData(t *testing.T, db *sql.DB) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO center (id, name) VALUES ('AKURFELO', 'Fjör Akur')`); err != nil {
		t.Fatalf("failed to seed center: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO student (id, name, school, grade, center_id, active)
		VALUES ('stu-1', 'Anna Jónsdóttir', 'Akurskóli', 8, 'AKURFELO', 1)`); err != nil {
		t.Fatalf("failed to seed student: %v", err)
	}
}

func testEntry(id, date string) domain.Entry {
	return domain.Entry{
		ID:          id,
		StudentID:   "stu-1",
		CenterID:    "AKURFELO",
		Date:        date,
		Time:        "15:30",
		ProgramItem: "Opið hús",
		Source:      domain.SourceSelf,
		CreatedAt:   time.Now(),
	}
}

// TestInsert_DuplicateSignalled verifies the at-most-once invariant: the
// second insert for the same (student, center, date) reports ErrDuplicate
// and leaves exactly one row.
func TestInsert_DuplicateSignalled(t *testing.T) {
	db := openStoreDB(t)
	store := attendanceStore.NewSQLiteStore(db)
	ctx := context.Background()

	if err := store.Insert(ctx, testEntry("a-1", "2026-03-02")); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	err := store.Insert(ctx, testEntry("a-2", "2026-03-02"))
	if !errors.Is(err, attendanceStore.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	n, err := store.CountByStudentID(ctx, "stu-1")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly 1 stored row, got %d", n)
	}
}

// TestInsert_ConcurrentSubmissions races N inserts for the same key;
// exactly one must commit.
func TestInsert_ConcurrentSubmissions(t *testing.T) {
	db := openStoreDB(t)
	store := attendanceStore.NewSQLiteStore(db)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted, duplicates := 0, 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			entry := testEntry("", "2026-03-02")
			entry.ID = "race-" + string(rune('a'+n))
			err := store.Insert(ctx, entry)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, attendanceStore.ErrDuplicate):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if accepted != 1 {
		t.Errorf("expected exactly 1 accepted insert, got %d", accepted)
	}
	if duplicates != workers-1 {
		t.Errorf("expected %d duplicates, got %d", workers-1, duplicates)
	}

	n, err := store.CountByStudentID(ctx, "stu-1")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly 1 stored row, got %d", n)
	}
}

// TestListAndLastDate verifies ordering and the last-date lookup.
func TestListAndLastDate(t *testing.T) {
	db := openStoreDB(t)
	store := attendanceStore.NewSQLiteStore(db)
	ctx := context.Background()

	for i, date := range []string{"2026-03-02", "2026-03-04", "2026-03-03"} {
		e := testEntry("a-"+string(rune('1'+i)), date)
		if err := store.Insert(ctx, e); err != nil {
			t.Fatalf("insert %s failed: %v", date, err)
		}
	}

	entries, err := store.ListByStudentID(ctx, "stu-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Date != "2026-03-04" {
		t.Errorf("expected newest entry first, got %s", entries[0].Date)
	}

	last, err := store.LastDateByStudentID(ctx, "stu-1")
	if err != nil {
		t.Fatalf("last date failed: %v", err)
	}
	if last != "2026-03-04" {
		t.Errorf("expected last date 2026-03-04, got %s", last)
	}

	// Unknown student has no last date
	last, err = store.LastDateByStudentID(ctx, "nobody")
	if err != nil {
		t.Fatalf("last date for unknown student failed: %v", err)
	}
	if last != "" {
		t.Errorf("expected empty last date, got %q", last)
	}
}

// TestDeleteOlderThan verifies retention purging keeps the cutoff day.
func TestDeleteOlderThan(t *testing.T) {
	db := openStoreDB(t)
	store := attendanceStore.NewSQLiteStore(db)
	ctx := context.Background()

	for i, date := range []string{"2024-05-01", "2025-08-01", "2026-03-02"} {
		if err := store.Insert(ctx, testEntry("a-"+string(rune('1'+i)), date)); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	purged, err := store.DeleteOlderThan(ctx, "2025-08-01")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if purged != 1 {
		t.Errorf("expected 1 purged row, got %d", purged)
	}

	n, _ := store.CountByStudentID(ctx, "stu-1")
	if n != 2 {
		t.Errorf("expected 2 remaining rows, got %d", n)
	}
}
