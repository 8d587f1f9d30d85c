package dispatch

import (
	"context"
	"fmt"
	"time"

	"zavod/internal/domain/task"
	"zavod/internal/shared/biztime"
)

// DefaultVisibilityTimeout is how long a claimed task may run before the
// maintenance sweep assumes its worker died.
const DefaultVisibilityTimeout = 10 * time.Minute

// RequeueStuckJob returns tasks claimed longer than the visibility timeout
// ago to pending. A worker crash between claim and finish would otherwise
// leave the task running forever.
type RequeueStuckJob struct {
	tasks             task.Repository
	visibilityTimeout time.Duration
}

func NewRequeueStuckJob(tasks task.Repository, visibilityTimeout time.Duration) *RequeueStuckJob {
	if visibilityTimeout <= 0 {
		visibilityTimeout = DefaultVisibilityTimeout
	}
	return &RequeueStuckJob{
		tasks:             tasks,
		visibilityTimeout: visibilityTimeout,
	}
}

func (j *RequeueStuckJob) Execute(ctx context.Context) (int, error) {
	cutoff := biztime.NowUTC().Add(-j.visibilityTimeout)
	requeued, err := j.tasks.RequeueStuck(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to requeue stuck tasks: %w", err)
	}
	return int(requeued), nil
}
