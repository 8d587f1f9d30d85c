// Package dispatch provides durable background task delivery: enqueue with
// idempotency-key dedup, a polling worker pool, and crash recovery for
// abandoned claims.
package dispatch

import (
	"context"
	"time"
)

// Job describes one unit of work to enqueue.
type Job struct {
	// Name selects the registered handler.
	Name string
	// Payload is marshaled to JSON and handed to the handler verbatim.
	Payload interface{}
	// RunAt defers execution; zero means as soon as possible.
	RunAt time.Time
	// IdempotencyKey deduplicates against open tasks: enqueueing a key that
	// is already pending or running returns the existing task instead of a
	// new one. Empty disables dedup.
	IdempotencyKey string
	// MaxAttempts overrides the dispatcher retry ceiling; zero uses the
	// configured default.
	MaxAttempts int
}

// Dispatcher enqueues background work. Enqueue returns the SID of the task
// that holds the job, which is the pre-existing task when the idempotency
// key was already taken.
type Dispatcher interface {
	Enqueue(ctx context.Context, job Job) (string, error)
}
