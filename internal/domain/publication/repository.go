package publication

import (
	"context"
	"time"
)

// Repository persists publications.
type Repository interface {
	Create(ctx context.Context, pub *Publication) error
	GetByID(ctx context.Context, id uint) (*Publication, error)
	// GetByIdempotencyKey returns the publication holding the schedule key
	// within a project, or nil when none exists.
	GetByIdempotencyKey(ctx context.Context, projectID uint, key string) (*Publication, error)
	Update(ctx context.Context, pub *Publication) error
	// ListDueScheduled returns scheduled publications whose slot is at or
	// before the given time, oldest first, up to limit.
	ListDueScheduled(ctx context.Context, before time.Time, limit int) ([]*Publication, error)
	// ClaimForPublishing atomically moves a scheduled publication into
	// publishing and increments its attempt count. It returns the refreshed
	// publication and true when this caller won the claim, or the current
	// row and false when another worker already took it or the row is no
	// longer scheduled.
	ClaimForPublishing(ctx context.Context, id uint) (*Publication, bool, error)
}
