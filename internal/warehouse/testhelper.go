package warehouse

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// OpenTestWarehouse opens a SQLite database in t.TempDir() and registers
// cleanup. SQLite speaks the same subset of SQL the compiler emits
// (LEFT JOIN, GROUP BY, COUNT(DISTINCT), ? placeholders), so tests run
// without a DuckDB build.
//
// Callers are expected to create and seed their own star-schema tables.
func OpenTestWarehouse(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "warehouse.sqlite")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open test warehouse: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := db.Ping(); err != nil {
		t.Fatalf("ping test warehouse: %v", err)
	}
	return db
}
