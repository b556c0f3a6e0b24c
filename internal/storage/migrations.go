package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS runs (
					id TEXT PRIMARY KEY,
					created_at DATETIME NOT NULL,
					sources TEXT NOT NULL DEFAULT '[]',
					range_start TEXT NOT NULL,
					range_end TEXT NOT NULL,
					row_count INTEGER NOT NULL DEFAULT 0,
					verify_count INTEGER NOT NULL DEFAULT 0,
					skipped_count INTEGER NOT NULL DEFAULT 0
				)`,
				`CREATE TABLE IF NOT EXISTS ledger_rows (
					run_id TEXT NOT NULL,
					position INTEGER NOT NULL,
					source_row INTEGER NOT NULL,
					employee_id TEXT NOT NULL,
					name TEXT NOT NULL DEFAULT '',
					department TEXT NOT NULL DEFAULT '',
					date TEXT NOT NULL,
					date_text TEXT NOT NULL,
					entry TEXT NOT NULL DEFAULT '',
					exit TEXT NOT NULL DEFAULT '',
					break_start TEXT NOT NULL DEFAULT '',
					break_end TEXT NOT NULL DEFAULT '',
					break_duration TEXT NOT NULL DEFAULT '',
					standard_break TEXT NOT NULL DEFAULT '',
					work_duration TEXT NOT NULL DEFAULT '',
					standard_work TEXT NOT NULL DEFAULT '',
					shortfall TEXT NOT NULL DEFAULT '',
					overtime TEXT NOT NULL DEFAULT '',
					cumulative_shortfall TEXT NOT NULL DEFAULT '',
					cumulative_overtime TEXT NOT NULL DEFAULT '',
					total_shortfall TEXT NOT NULL DEFAULT '',
					observation TEXT NOT NULL DEFAULT '',
					PRIMARY KEY (run_id, position),
					FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
				)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Add lookup indexes for history queries",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
				`CREATE INDEX IF NOT EXISTS idx_ledger_rows_employee ON ledger_rows(employee_id, date)`,
			)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Migrate applies every migration newer than the database's user_version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := s.schemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Debug("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.schemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("%w: schema version mismatch: expected %d, got %d", ErrSchemaMismatch, ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	return version, err
}
