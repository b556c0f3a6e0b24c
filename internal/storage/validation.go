package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/pointage/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidRun     = errors.New("invalid run")
	ErrInvalidRow     = errors.New("invalid ledger row")
	ErrSchemaMismatch = errors.New("database schema mismatch")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateRun(run *model.Run, rows []model.LedgerRow) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if run.RowCount != len(rows) {
		return fmt.Errorf("%w: row count %d does not match %d rows", ErrInvalidRun, run.RowCount, len(rows))
	}
	for i, row := range rows {
		if row.EmployeeID == "" {
			return fmt.Errorf("%w at index %d: missing employee id", ErrInvalidRow, i)
		}
		if row.Date.IsZero() {
			return fmt.Errorf("%w at index %d: missing date", ErrInvalidRow, i)
		}
	}
	return nil
}
