// Package service defines the interfaces between the command layer and the
// collaborators around the attendance engine.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/pointage/internal/model"
)

// Storage defines the contract for the ledger archive.
type Storage interface {
	SaveRun(ctx context.Context, run *model.Run, rows []model.LedgerRow) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	GetRuns(ctx context.Context, limit int) ([]model.Run, error)
	GetRunRows(ctx context.Context, id string) ([]model.LedgerRow, error)
	DeleteRun(ctx context.Context, id string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ReportWriter renders a computed report to some destination.
type ReportWriter interface {
	Write(ctx context.Context, report *model.Report) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// WithDefaults fills unset fields with the default backoff.
func (o RetryOptions) WithDefaults() RetryOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = 100 * time.Millisecond
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 30 * time.Second
	}
	if o.Multiplier <= 0 {
		o.Multiplier = 2.0
	}
	return o
}
