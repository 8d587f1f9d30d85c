package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"zavod/internal/domain/task"
	"zavod/internal/shared/errors"
	"zavod/internal/shared/logger"
)

// DurableDispatcher stores jobs as task rows so they survive restarts. Key
// dedup is enforced twice: a cheap lookup first, then the unique
// (idempotency_key, open) index catches the race between two enqueuers.
type DurableDispatcher struct {
	tasks              task.Repository
	logger             logger.Interface
	defaultMaxAttempts int
}

func NewDurableDispatcher(tasks task.Repository, log logger.Interface, defaultMaxAttempts int) *DurableDispatcher {
	if defaultMaxAttempts <= 0 {
		defaultMaxAttempts = task.DefaultMaxAttempts
	}
	return &DurableDispatcher{
		tasks:              tasks,
		logger:             log,
		defaultMaxAttempts: defaultMaxAttempts,
	}
}

func (d *DurableDispatcher) Enqueue(ctx context.Context, job Job) (string, error) {
	payload, err := json.Marshal(job.Payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job payload: %w", err)
	}

	if job.IdempotencyKey != "" {
		existing, err := d.tasks.FindOpenByKey(ctx, job.IdempotencyKey)
		if err != nil {
			return "", err
		}
		if existing != nil {
			d.logger.Debugw("job already enqueued",
				"name", job.Name,
				"idempotency_key", job.IdempotencyKey,
				"task_sid", existing.SID(),
			)
			return existing.SID(), nil
		}
	}

	maxAttempts := job.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = d.defaultMaxAttempts
	}

	t, err := task.NewTask(job.Name, payload, job.RunAt, job.IdempotencyKey, maxAttempts)
	if err != nil {
		return "", fmt.Errorf("failed to build task: %w", err)
	}

	if err := d.tasks.Create(ctx, t); err != nil {
		// Lost the insert race for the key; the winner's task carries the job.
		if job.IdempotencyKey != "" && errors.IsDuplicateError(err) {
			existing, findErr := d.tasks.FindOpenByKey(ctx, job.IdempotencyKey)
			if findErr != nil {
				return "", findErr
			}
			if existing != nil {
				return existing.SID(), nil
			}
		}
		return "", err
	}

	d.logger.Infow("job enqueued",
		"name", job.Name,
		"task_sid", t.SID(),
		"run_at", t.RunAt(),
		"idempotency_key", job.IdempotencyKey,
	)
	return t.SID(), nil
}
