package task

import (
	"context"
	"time"
)

// Repository persists background tasks.
type Repository interface {
	Create(ctx context.Context, task *Task) error
	GetBySID(ctx context.Context, sid string) (*Task, error)
	// FindOpenByKey returns the pending or running task holding the
	// idempotency key, or nil when the key is free.
	FindOpenByKey(ctx context.Context, key string) (*Task, error)
	Update(ctx context.Context, task *Task) error
	// ClaimNextDue atomically claims the oldest due pending task for this
	// worker, returning nil when nothing is due.
	ClaimNextDue(ctx context.Context, now time.Time) (*Task, error)
	// RequeueStuck returns running tasks claimed before the cutoff to
	// pending so a crashed worker's work is picked up again.
	RequeueStuck(ctx context.Context, cutoff time.Time) (int64, error)
	// CountByStatus reports queue depth per status.
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}
