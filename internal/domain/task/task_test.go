package task

import (
	"strings"
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	tests := []struct {
		name        string
		taskName    string
		maxAttempts int
		key         string
		wantErr     bool
	}{
		{name: "valid task", taskName: "publish_publication", maxAttempts: 3, key: "publication-1"},
		{name: "missing name", taskName: "", maxAttempts: 3, wantErr: true},
		{name: "default max attempts", taskName: "publish_publication", maxAttempts: 0},
		{name: "no idempotency key", taskName: "publish_publication", maxAttempts: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk, err := NewTask(tt.taskName, []byte(`{"publication_id":1}`), time.Time{}, tt.key, tt.maxAttempts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tk.Status() != StatusPending {
				t.Errorf("expected pending status, got %s", tk.Status())
			}
			if !strings.HasPrefix(tk.SID(), "tsk_") {
				t.Errorf("expected tsk_ prefix, got %s", tk.SID())
			}
			if tt.maxAttempts == 0 && tk.MaxAttempts() != DefaultMaxAttempts {
				t.Errorf("expected default max attempts %d, got %d", DefaultMaxAttempts, tk.MaxAttempts())
			}
			if tt.key == "" && tk.IdempotencyKey() != nil {
				t.Errorf("expected nil idempotency key, got %v", tk.IdempotencyKey())
			}
			if tt.key != "" && (tk.IdempotencyKey() == nil || *tk.IdempotencyKey() != tt.key) {
				t.Errorf("expected idempotency key %q, got %v", tt.key, tk.IdempotencyKey())
			}
			if tk.RunAt().IsZero() {
				t.Error("expected zero run_at to default to now")
			}
		})
	}
}

func newPending(t *testing.T) *Task {
	t.Helper()
	tk, err := NewTask("publish_publication", nil, time.Now().UTC(), "publication-1", 2)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return tk
}

func TestTaskClaim(t *testing.T) {
	tk := newPending(t)

	if err := tk.Claim(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tk.Status() != StatusRunning {
		t.Errorf("expected running status, got %s", tk.Status())
	}
	if tk.Attempts() != 1 {
		t.Errorf("expected 1 attempt, got %d", tk.Attempts())
	}
	if tk.ClaimedAt() == nil {
		t.Error("expected claimed_at to be set")
	}

	if err := tk.Claim(); err == nil {
		t.Error("expected error claiming a running task")
	}
}

func TestTaskComplete(t *testing.T) {
	tk := newPending(t)

	if err := tk.Complete(); err == nil {
		t.Fatal("expected error completing a pending task")
	}

	if err := tk.Claim(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tk.Complete(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tk.Status() != StatusCompleted {
		t.Errorf("expected completed status, got %s", tk.Status())
	}
	if tk.Status().IsOpen() {
		t.Error("expected completed task to release its key")
	}
	if tk.ClaimedAt() != nil {
		t.Error("expected claimed_at cleared on completion")
	}
}

func TestTaskRequeueAndExhaustion(t *testing.T) {
	tk := newPending(t)
	later := time.Now().UTC().Add(30 * time.Second)

	if err := tk.Claim(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tk.IsExhausted() {
		t.Error("expected first attempt not to exhaust the task")
	}
	if err := tk.Requeue("handler timeout", later); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tk.Status() != StatusPending {
		t.Errorf("expected pending status after requeue, got %s", tk.Status())
	}
	if !tk.RunAt().Equal(later) {
		t.Errorf("expected run_at %v, got %v", later, tk.RunAt())
	}
	if tk.LastError() == nil || *tk.LastError() != "handler timeout" {
		t.Errorf("expected last error recorded, got %v", tk.LastError())
	}

	// Second claim uses the final attempt of maxAttempts=2.
	if err := tk.Claim(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tk.IsExhausted() {
		t.Error("expected task exhausted after max attempts")
	}
	if err := tk.MarkFailed("handler timeout"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tk.Status() != StatusFailed {
		t.Errorf("expected failed status, got %s", tk.Status())
	}
	if tk.Status().IsOpen() {
		t.Error("expected failed task to release its key")
	}
}
