package budget

import (
	"context"
	"time"
)

// Repository persists budget configuration snapshots.
type Repository interface {
	Create(ctx context.Context, b *Budget) error
	GetByID(ctx context.Context, id uint) (*Budget, error)
	// GetActiveByProjectID returns the most recently created budget for the
	// project, or nil when the project has none.
	GetActiveByProjectID(ctx context.Context, projectID uint) (*Budget, error)
}

// UsageRecordRepository persists the append-only usage ledger.
type UsageRecordRepository interface {
	Append(ctx context.Context, record *UsageRecord) error
	// SumWindow aggregates usage over [from, to] inclusive for the project.
	// The result is a snapshot; no lock is held against concurrent appends.
	SumWindow(ctx context.Context, projectID uint, from, to time.Time) (UsageTotals, error)
}
