package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

// newTestDB returns a fresh migrated in-memory database closed at test end.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *DB, name string) bool {
	t.Helper()
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	if err != nil {
		t.Fatalf("tableExists query failed: %v", err)
	}
	return n > 0
}

func TestNew_CreatesSchema(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"users", "meals", "kv", "goose_db_version"} {
		if !tableExists(t, db, table) {
			t.Errorf("expected table %q to exist after migrations", table)
		}
	}
}

func TestNew_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ganfan.db")

	first, err := New(path)
	if err != nil {
		t.Fatalf("New (first) error: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	second, err := New(path)
	if err != nil {
		t.Fatalf("New (second) should reuse the migrated schema, got: %v", err)
	}
	defer second.Close()

	if err := second.PingContext(context.Background()); err != nil {
		t.Fatalf("PingContext error: %v", err)
	}
}
