package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/pointage/internal/common"
	"github.com/Veraticus/pointage/internal/model"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// isoDate is the layout of the TEXT column ledger_rows.date.
const isoDate = "2006-01-02"

const ledgerColumns = `position, source_row, employee_id, name, department, date, date_text,
	entry, exit, break_start, break_end, break_duration, standard_break,
	work_duration, standard_work, shortfall, overtime,
	cumulative_shortfall, cumulative_overtime, total_shortfall, observation`

// SaveRun stores a run and its ledger rows atomically. A missing ID or
// creation time is filled in on run.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *model.Run, rows []model.LedgerRow) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run, rows); err != nil {
		return err
	}

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	sources, err := json.Marshal(run.Sources)
	if err != nil {
		return fmt.Errorf("failed to encode sources: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, sources, range_start, range_end, row_count, verify_count, skipped_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC(), string(sources), run.Range.Start, run.Range.End,
		run.RowCount, run.VerifyCount, run.SkippedCount)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return fmt.Errorf("%w: run %s", common.ErrDuplicateEntry, run.ID)
		}
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO ledger_rows (run_id, `+ledgerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range rows {
		_, err := stmt.ExecContext(ctx,
			run.ID, i, row.Row, row.EmployeeID, row.Name, row.Department,
			row.Date.Format(isoDate), row.DateText,
			row.Entry, row.Exit, row.BreakStart, row.BreakEnd, row.BreakDuration, row.StandardBreak,
			row.WorkDuration, row.StandardWork, row.Shortfall, row.Overtime,
			row.CumulativeShortfall, row.CumulativeOvertime, row.TotalShortfall, row.Observation)
		if err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun returns one archived run.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, sources, range_start, range_end, row_count, verify_count, skipped_count
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetRuns returns the most recent runs first. A non-positive limit returns
// every run.
func (s *SQLiteStorage) GetRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, sources, range_start, range_end, row_count, verify_count, skipped_count
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// GetRunRows returns the ledger rows of a run in their report order.
func (s *SQLiteStorage) GetRunRows(ctx context.Context, id string) ([]model.LedgerRow, error) {
	if _, err := s.GetRun(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+ledgerColumns+`
		FROM ledger_rows WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []model.LedgerRow
	for rows.Next() {
		var (
			r        model.LedgerRow
			position int
			date     string
		)
		err := rows.Scan(&position, &r.Row, &r.EmployeeID, &r.Name, &r.Department, &date, &r.DateText,
			&r.Entry, &r.Exit, &r.BreakStart, &r.BreakEnd, &r.BreakDuration, &r.StandardBreak,
			&r.WorkDuration, &r.StandardWork, &r.Shortfall, &r.Overtime,
			&r.CumulativeShortfall, &r.CumulativeOvertime, &r.TotalShortfall, &r.Observation)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		if r.Date, err = time.Parse(isoDate, date); err != nil {
			return nil, fmt.Errorf("%w: ledger row %d has date %q", common.ErrDatabaseCorrupted, position, date)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger rows: %w", err)
	}
	return result, nil
}

// DeleteRun removes a run and its rows.
func (s *SQLiteStorage) DeleteRun(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: run %s", common.ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*model.Run, error) {
	var (
		run     model.Run
		sources string
	)
	err := row.Scan(&run.ID, &run.CreatedAt, &sources, &run.Range.Start, &run.Range.End,
		&run.RowCount, &run.VerifyCount, &run.SkippedCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(sources), &run.Sources); err != nil {
		return nil, fmt.Errorf("%w: run %s sources: %w", common.ErrDatabaseCorrupted, run.ID, err)
	}
	return &run, nil
}
