package publication

import (
	"testing"
	"time"

	vo "zavod/internal/domain/publication/value_objects"
)

func TestNewPublication(t *testing.T) {
	slot := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		projectID     uint
		contentItemID uint
		platform      vo.Platform
		scheduledAt   time.Time
		key           string
		wantErr       bool
		errMsg        string
	}{
		{
			name:          "valid publication",
			projectID:     1,
			contentItemID: 2,
			platform:      vo.PlatformTelegram,
			scheduledAt:   slot,
		},
		{
			name:          "missing project ID",
			projectID:     0,
			contentItemID: 2,
			platform:      vo.PlatformTelegram,
			scheduledAt:   slot,
			wantErr:       true,
			errMsg:        "project ID is required",
		},
		{
			name:          "missing content item ID",
			projectID:     1,
			contentItemID: 0,
			platform:      vo.PlatformTelegram,
			scheduledAt:   slot,
			wantErr:       true,
			errMsg:        "content item ID is required",
		},
		{
			name:          "invalid platform",
			projectID:     1,
			contentItemID: 2,
			platform:      vo.Platform("myspace"),
			scheduledAt:   slot,
			wantErr:       true,
			errMsg:        "invalid platform",
		},
		{
			name:          "zero scheduled time",
			projectID:     1,
			contentItemID: 2,
			platform:      vo.PlatformTelegram,
			wantErr:       true,
			errMsg:        "scheduled time is required",
		},
		{
			name:          "explicit idempotency key preserved",
			projectID:     1,
			contentItemID: 2,
			platform:      vo.PlatformVK,
			scheduledAt:   slot,
			key:           "custom-key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub, err := NewPublication(tt.projectID, tt.contentItemID, tt.platform, tt.scheduledAt, tt.key)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if err.Error() != tt.errMsg {
					t.Errorf("expected error %q, got %q", tt.errMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !pub.Status().IsScheduled() {
				t.Errorf("expected scheduled status, got %s", pub.Status())
			}
			if pub.AttemptCount() != 0 {
				t.Errorf("expected zero attempts, got %d", pub.AttemptCount())
			}
			if tt.key != "" && pub.IdempotencyKey() != tt.key {
				t.Errorf("expected key %q, got %q", tt.key, pub.IdempotencyKey())
			}
			if tt.key == "" {
				want := DeriveIdempotencyKey(tt.projectID, tt.contentItemID, tt.platform, tt.scheduledAt)
				if pub.IdempotencyKey() != want {
					t.Errorf("expected derived key %q, got %q", want, pub.IdempotencyKey())
				}
			}
		})
	}
}

func newScheduled(t *testing.T) *Publication {
	t.Helper()
	pub, err := NewPublication(1, 2, vo.PlatformTelegram, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), "")
	if err != nil {
		t.Fatalf("failed to create publication: %v", err)
	}
	return pub
}

func TestPublicationBeginAttempt(t *testing.T) {
	pub := newScheduled(t)

	if err := pub.BeginAttempt(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pub.Status().IsPublishing() {
		t.Errorf("expected publishing status, got %s", pub.Status())
	}
	if pub.AttemptCount() != 1 {
		t.Errorf("expected attempt count 1, got %d", pub.AttemptCount())
	}

	if err := pub.BeginAttempt(); err == nil {
		t.Error("expected error beginning attempt while publishing")
	}
}

func TestPublicationCompletePublish(t *testing.T) {
	pub := newScheduled(t)
	at := time.Date(2026, 3, 10, 9, 0, 5, 0, time.UTC)

	if err := pub.CompletePublish("100", "https://t.me/c/1/100", at); err == nil {
		t.Fatal("expected error completing publish while scheduled")
	}

	if err := pub.BeginAttempt(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := pub.CompletePublish("100", "https://t.me/c/1/100", at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !pub.Status().IsPublished() {
		t.Errorf("expected published status, got %s", pub.Status())
	}
	if pub.PlatformPostID() == nil || *pub.PlatformPostID() != "100" {
		t.Errorf("expected platform post ID 100, got %v", pub.PlatformPostID())
	}
	if pub.PublishedAt() == nil || !pub.PublishedAt().Equal(at) {
		t.Errorf("expected published at %v, got %v", at, pub.PublishedAt())
	}
	if !pub.IsTerminal() {
		t.Error("expected published publication to be terminal")
	}

	if err := pub.Fail("too late"); err == nil {
		t.Error("expected error failing a published publication")
	}
	if err := pub.BeginAttempt(); err == nil {
		t.Error("expected error beginning attempt on a published publication")
	}
}

func TestPublicationRearmForRetry(t *testing.T) {
	pub := newScheduled(t)

	if err := pub.RearmForRetry("timeout"); err == nil {
		t.Fatal("expected error rearming while scheduled")
	}

	if err := pub.BeginAttempt(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := pub.RearmForRetry("timeout"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !pub.Status().IsScheduled() {
		t.Errorf("expected scheduled status after rearm, got %s", pub.Status())
	}
	if pub.AttemptCount() != 1 {
		t.Errorf("expected attempt count preserved at 1, got %d", pub.AttemptCount())
	}
	if pub.LastError() == nil || *pub.LastError() != "timeout" {
		t.Errorf("expected last error timeout, got %v", pub.LastError())
	}

	// The rearmed row can be claimed again for the next attempt.
	if err := pub.BeginAttempt(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pub.AttemptCount() != 2 {
		t.Errorf("expected attempt count 2, got %d", pub.AttemptCount())
	}
}

func TestPublicationFail(t *testing.T) {
	t.Run("from scheduled", func(t *testing.T) {
		pub := newScheduled(t)
		if err := pub.Fail("qc_failed"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !pub.Status().IsFailed() {
			t.Errorf("expected failed status, got %s", pub.Status())
		}
		if pub.LastError() == nil || *pub.LastError() != "qc_failed" {
			t.Errorf("expected last error qc_failed, got %v", pub.LastError())
		}
	})

	t.Run("from publishing", func(t *testing.T) {
		pub := newScheduled(t)
		if err := pub.BeginAttempt(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := pub.Fail("validation rejected"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !pub.IsTerminal() {
			t.Error("expected failed publication to be terminal")
		}
	})

	t.Run("terminal stays terminal", func(t *testing.T) {
		pub := newScheduled(t)
		if err := pub.Fail("first reason"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := pub.Fail("second reason"); err == nil {
			t.Error("expected error failing an already failed publication")
		}
		if *pub.LastError() != "first reason" {
			t.Errorf("expected first reason preserved, got %q", *pub.LastError())
		}
	})
}

func TestPublicationSetID(t *testing.T) {
	pub := newScheduled(t)

	if err := pub.SetID(0); err == nil {
		t.Error("expected error setting zero ID")
	}
	if err := pub.SetID(7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pub.ID() != 7 {
		t.Errorf("expected ID 7, got %d", pub.ID())
	}
	if err := pub.SetID(8); err == nil {
		t.Error("expected error resetting ID")
	}
}

func TestDeriveIdempotencyKey(t *testing.T) {
	slot := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	a := DeriveIdempotencyKey(1, 2, vo.PlatformTelegram, slot)
	b := DeriveIdempotencyKey(1, 2, vo.PlatformTelegram, slot)
	if a != b {
		t.Errorf("expected deterministic key, got %q and %q", a, b)
	}

	moscow := time.FixedZone("MSK", 3*3600)
	c := DeriveIdempotencyKey(1, 2, vo.PlatformTelegram, slot.In(moscow))
	if a != c {
		t.Errorf("expected timezone-independent key, got %q and %q", a, c)
	}

	if a == DeriveIdempotencyKey(1, 2, vo.PlatformVK, slot) {
		t.Error("expected different key per platform")
	}
	if a == DeriveIdempotencyKey(1, 2, vo.PlatformTelegram, slot.Add(time.Hour)) {
		t.Error("expected different key per slot")
	}
	if a == DeriveIdempotencyKey(9, 2, vo.PlatformTelegram, slot) {
		t.Error("expected different key per project")
	}
}

func TestTaskKeys(t *testing.T) {
	if got := PublishTaskKey(42); got != "publication-42" {
		t.Errorf("unexpected publish task key %q", got)
	}
	if got := RetryTaskKey(42, 2); got != "publication-retry-42-2" {
		t.Errorf("unexpected retry task key %q", got)
	}
}

func TestRetryDelay(t *testing.T) {
	base := 60 * time.Second
	max := 900 * time.Second

	tests := []struct {
		name    string
		attempt int
		want    time.Duration
	}{
		{name: "first attempt", attempt: 1, want: 60 * time.Second},
		{name: "second attempt", attempt: 2, want: 120 * time.Second},
		{name: "third attempt", attempt: 3, want: 240 * time.Second},
		{name: "fourth attempt", attempt: 4, want: 480 * time.Second},
		{name: "fifth attempt capped", attempt: 5, want: 900 * time.Second},
		{name: "far past the cap", attempt: 12, want: 900 * time.Second},
		{name: "zero attempt treated as first", attempt: 0, want: 60 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RetryDelay(tt.attempt, base, max); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
