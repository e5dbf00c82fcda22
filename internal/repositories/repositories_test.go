package repositories

import (
	"database/sql"
	"testing"

	"github.com/desertthunder/cinefav/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestEntries(t *testing.T) {
	t.Run("Missing Key", func(t *testing.T) {
		db := setupTestDB(t)

		if _, err := getEntry(db, "nope"); err != errNoEntry {
			t.Errorf("expected errNoEntry, got %v", err)
		}
	})

	t.Run("Upsert Overwrites", func(t *testing.T) {
		db := setupTestDB(t)

		if err := putEntries(db, map[string]string{"k": "1"}); err != nil {
			t.Fatalf("failed to put: %v", err)
		}
		if err := putEntries(db, map[string]string{"k": "2"}); err != nil {
			t.Fatalf("failed to put: %v", err)
		}

		v, err := getEntry(db, "k")
		if err != nil || v != "2" {
			t.Errorf("expected 2, got %q (%v)", v, err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM mirror_entries").Scan(&count); err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 1 {
			t.Errorf("expected one row, got %d", count)
		}
	})

	t.Run("Delete Missing Is Fine", func(t *testing.T) {
		db := setupTestDB(t)

		if err := deleteEntries(db, "a", "b"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
