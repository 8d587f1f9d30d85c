package task

import (
	"errors"
	"fmt"
	"time"

	"zavod/internal/shared/id"
)

// Status is the dispatch lifecycle of a background task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

var validStatuses = map[Status]bool{
	StatusPending:   true,
	StatusRunning:   true,
	StatusCompleted: true,
	StatusFailed:    true,
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsOpen reports whether the task still occupies its idempotency key.
// Completed and failed tasks release the key for reuse.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusRunning
}

const DefaultMaxAttempts = 5

// Task is one durable unit of background work. Tasks are claimed by a
// single worker at a time, retried on handler failure up to maxAttempts,
// and deduplicated by idempotency key while open.
type Task struct {
	id             uint
	sid            string
	name           string
	payload        []byte
	runAt          time.Time
	idempotencyKey *string
	status         Status
	attempts       int
	maxAttempts    int
	lastError      *string
	claimedAt      *time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

func NewTask(name string, payload []byte, runAt time.Time, idempotencyKey string, maxAttempts int) (*Task, error) {
	if name == "" {
		return nil, errors.New("task name is required")
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	sid, err := id.NewTaskID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	now := time.Now().UTC()
	if runAt.IsZero() {
		runAt = now
	}

	t := &Task{
		sid:         sid,
		name:        name,
		payload:     payload,
		runAt:       runAt.UTC(),
		status:      StatusPending,
		maxAttempts: maxAttempts,
		createdAt:   now,
		updatedAt:   now,
	}
	if idempotencyKey != "" {
		t.idempotencyKey = &idempotencyKey
	}
	return t, nil
}

func ReconstructTask(
	id uint,
	sid string,
	name string,
	payload []byte,
	runAt time.Time,
	idempotencyKey *string,
	status Status,
	attempts int,
	maxAttempts int,
	lastError *string,
	claimedAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) *Task {
	return &Task{
		id:             id,
		sid:            sid,
		name:           name,
		payload:        payload,
		runAt:          runAt,
		idempotencyKey: idempotencyKey,
		status:         status,
		attempts:       attempts,
		maxAttempts:    maxAttempts,
		lastError:      lastError,
		claimedAt:      claimedAt,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (t *Task) ID() uint {
	return t.id
}

func (t *Task) SID() string {
	return t.sid
}

func (t *Task) Name() string {
	return t.name
}

func (t *Task) Payload() []byte {
	return t.payload
}

func (t *Task) RunAt() time.Time {
	return t.runAt
}

func (t *Task) IdempotencyKey() *string {
	return t.idempotencyKey
}

func (t *Task) Status() Status {
	return t.status
}

func (t *Task) Attempts() int {
	return t.attempts
}

func (t *Task) MaxAttempts() int {
	return t.maxAttempts
}

func (t *Task) LastError() *string {
	return t.lastError
}

func (t *Task) ClaimedAt() *time.Time {
	return t.claimedAt
}

func (t *Task) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Task) UpdatedAt() time.Time {
	return t.updatedAt
}

// Claim moves a pending task to running and counts the attempt. The
// persisted claim must be atomic against concurrent workers; this method
// mirrors that transition on the in-memory entity.
func (t *Task) Claim() error {
	if t.status != StatusPending {
		return fmt.Errorf("cannot claim task in status %s", t.status)
	}
	now := time.Now().UTC()
	t.status = StatusRunning
	t.attempts++
	t.claimedAt = &now
	t.updatedAt = now
	return nil
}

// Complete finishes a running task.
func (t *Task) Complete() error {
	if t.status != StatusRunning {
		return fmt.Errorf("cannot complete task in status %s", t.status)
	}
	t.status = StatusCompleted
	t.claimedAt = nil
	t.updatedAt = time.Now().UTC()
	return nil
}

// Requeue returns a running task to pending for another attempt.
func (t *Task) Requeue(errMsg string, runAt time.Time) error {
	if t.status != StatusRunning {
		return fmt.Errorf("cannot requeue task in status %s", t.status)
	}
	t.status = StatusPending
	t.runAt = runAt.UTC()
	t.lastError = &errMsg
	t.claimedAt = nil
	t.updatedAt = time.Now().UTC()
	return nil
}

// MarkFailed finishes a running task that exhausted its attempts.
func (t *Task) MarkFailed(errMsg string) error {
	if t.status != StatusRunning {
		return fmt.Errorf("cannot fail task in status %s", t.status)
	}
	t.status = StatusFailed
	t.lastError = &errMsg
	t.claimedAt = nil
	t.updatedAt = time.Now().UTC()
	return nil
}

// IsExhausted reports whether the task has used all its attempts.
func (t *Task) IsExhausted() bool {
	return t.attempts >= t.maxAttempts
}

func (t *Task) SetID(id uint) error {
	if t.id != 0 {
		return errors.New("task ID already set")
	}
	if id == 0 {
		return errors.New("invalid task ID")
	}
	t.id = id
	return nil
}
