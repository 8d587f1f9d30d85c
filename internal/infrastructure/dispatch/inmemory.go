package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"zavod/internal/shared/id"
)

// QueuedJob is an in-memory dispatch entry.
type QueuedJob struct {
	SID            string
	Name           string
	Payload        []byte
	RunAt          time.Time
	IdempotencyKey string
	Done           bool
}

// InMemoryDispatcher keeps jobs in process memory. Suitable for tests and
// single-process setups where durability is not needed; dedup semantics
// match the durable dispatcher.
type InMemoryDispatcher struct {
	mu   sync.Mutex
	jobs []*QueuedJob
}

func NewInMemoryDispatcher() *InMemoryDispatcher {
	return &InMemoryDispatcher{}
}

func (d *InMemoryDispatcher) Enqueue(_ context.Context, job Job) (string, error) {
	payload, err := json.Marshal(job.Payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job payload: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if job.IdempotencyKey != "" {
		for _, q := range d.jobs {
			if !q.Done && q.IdempotencyKey == job.IdempotencyKey {
				return q.SID, nil
			}
		}
	}

	sid, err := id.NewTaskID()
	if err != nil {
		return "", fmt.Errorf("failed to generate job SID: %w", err)
	}

	runAt := job.RunAt
	if runAt.IsZero() {
		runAt = time.Now().UTC()
	}

	q := &QueuedJob{
		SID:            sid,
		Name:           job.Name,
		Payload:        payload,
		RunAt:          runAt,
		IdempotencyKey: job.IdempotencyKey,
	}
	d.jobs = append(d.jobs, q)
	return q.SID, nil
}

// MarkDone releases the job's idempotency key.
func (d *InMemoryDispatcher) MarkDone(sid string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, q := range d.jobs {
		if q.SID == sid {
			q.Done = true
			return
		}
	}
}

// Pending returns a snapshot of jobs that have not been marked done.
func (d *InMemoryDispatcher) Pending() []QueuedJob {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]QueuedJob, 0, len(d.jobs))
	for _, q := range d.jobs {
		if !q.Done {
			out = append(out, *q)
		}
	}
	return out
}
