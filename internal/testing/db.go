// Package testing provides test helpers shared by the factorlens packages.
package testing

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aristath/factorlens/internal/database"
)

// NewTestDB creates a file-backed database in a temporary directory with its
// schema applied, using the production driver and PRAGMA profile.
// The database is closed when the test ends.
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	profile := database.ProfileStandard
	if name == database.NameCache {
		profile = database.ProfileCache
	}

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: profile,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}
	t.Cleanup(func() {
		// Tests may close the database themselves
		_ = db.Close()
	})

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	return db
}

// NewMemoryDB creates an in-memory database with the named schema applied.
// It is limited to one connection because every connection to ":memory:"
// opens a separate database.
func NewMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := database.ApplySchema(db, name); err != nil {
		t.Fatalf("Failed to apply %s schema: %v", name, err)
	}

	return db
}
