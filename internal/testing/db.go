// Package testing provides testing utilities and helpers for the OI sentinel.
package testing

import (
	"path/filepath"
	"testing"

	"github.com/aristath/oi-sentinel/internal/database"
)

// NewTestDB creates a temporary file-backed SQLite database with its embedded
// schema applied. The database is closed automatically when the test ends.
//
// Supported schema names:
//   - "snapshots" - applies snapshots_schema.sql
//   - Unknown names - creates empty database (no schema applied)
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "test_"+name+".db"),
		Name: name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	})

	return db
}
