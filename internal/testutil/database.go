// Package testutil provides shared fixtures for pointage tests: an archived
// SQLite store and a fluent builder for punch tables.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/pointage/internal/model"
	"github.com/Veraticus/pointage/internal/storage"
)

// TestDB wraps a migrated in-memory archive.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory archive. It automatically handles
// migrations and cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &TestDB{Storage: store, t: t}
}

// MustSaveRun archives rows under a new run and returns it.
func (db *TestDB) MustSaveRun(sources []string, rows []model.LedgerRow) *model.Run {
	db.t.Helper()

	run := &model.Run{
		Sources:  sources,
		RowCount: len(rows),
	}
	for _, row := range rows {
		if row.NeedsVerification() {
			run.VerifyCount++
		}
	}
	if len(rows) > 0 {
		run.Range = model.DateRange{Start: rows[0].DateText, End: rows[len(rows)-1].DateText}
	}

	if err := db.Storage.SaveRun(context.Background(), run, rows); err != nil {
		db.t.Fatalf("failed to save run: %v", err)
	}
	return run
}
