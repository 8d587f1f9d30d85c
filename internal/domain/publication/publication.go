package publication

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	vo "zavod/internal/domain/publication/value_objects"
)

// Publication is a single scheduled delivery of one content item to one
// platform. The lifecycle is scheduled -> publishing -> published or failed;
// scheduled may also fail directly when admission or quality checks reject
// the item before any delivery attempt. Terminal states never change.
type Publication struct {
	id              uint
	projectID       uint
	contentItemID   uint
	platform        vo.Platform
	status          vo.Status
	scheduledAt     time.Time
	idempotencyKey  string
	attemptCount    int
	platformPostID  *string
	platformPostURL *string
	publishedAt     *time.Time
	lastError       *string
	createdAt       time.Time
	updatedAt       time.Time
	mu              sync.RWMutex
}

// NewPublication creates a scheduled publication. An empty idempotencyKey is
// derived from the scheduling tuple, so re-scheduling the same item for the
// same slot always produces the same key.
func NewPublication(projectID, contentItemID uint, platform vo.Platform, scheduledAt time.Time, idempotencyKey string) (*Publication, error) {
	if projectID == 0 {
		return nil, errors.New("project ID is required")
	}
	if contentItemID == 0 {
		return nil, errors.New("content item ID is required")
	}
	if !platform.IsValid() {
		return nil, errors.New("invalid platform")
	}
	if scheduledAt.IsZero() {
		return nil, errors.New("scheduled time is required")
	}
	if idempotencyKey == "" {
		idempotencyKey = DeriveIdempotencyKey(projectID, contentItemID, platform, scheduledAt)
	}

	now := time.Now().UTC()
	return &Publication{
		projectID:      projectID,
		contentItemID:  contentItemID,
		platform:       platform,
		status:         vo.StatusScheduled,
		scheduledAt:    scheduledAt.UTC(),
		idempotencyKey: idempotencyKey,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructPublication restores a publication from persistence.
func ReconstructPublication(
	id uint,
	projectID uint,
	contentItemID uint,
	platform vo.Platform,
	status vo.Status,
	scheduledAt time.Time,
	idempotencyKey string,
	attemptCount int,
	platformPostID *string,
	platformPostURL *string,
	publishedAt *time.Time,
	lastError *string,
	createdAt time.Time,
	updatedAt time.Time,
) *Publication {
	return &Publication{
		id:              id,
		projectID:       projectID,
		contentItemID:   contentItemID,
		platform:        platform,
		status:          status,
		scheduledAt:     scheduledAt,
		idempotencyKey:  idempotencyKey,
		attemptCount:    attemptCount,
		platformPostID:  platformPostID,
		platformPostURL: platformPostURL,
		publishedAt:     publishedAt,
		lastError:       lastError,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (p *Publication) ID() uint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.id
}

func (p *Publication) ProjectID() uint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.projectID
}

func (p *Publication) ContentItemID() uint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.contentItemID
}

func (p *Publication) Platform() vo.Platform {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.platform
}

func (p *Publication) Status() vo.Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

func (p *Publication) ScheduledAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scheduledAt
}

func (p *Publication) IdempotencyKey() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.idempotencyKey
}

func (p *Publication) AttemptCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.attemptCount
}

func (p *Publication) PlatformPostID() *string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.platformPostID
}

func (p *Publication) PlatformPostURL() *string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.platformPostURL
}

func (p *Publication) PublishedAt() *time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.publishedAt
}

func (p *Publication) LastError() *string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastError
}

func (p *Publication) CreatedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.createdAt
}

func (p *Publication) UpdatedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updatedAt
}

// IsTerminal reports whether the publication reached a final state.
func (p *Publication) IsTerminal() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status.IsTerminal()
}

// BeginAttempt moves a scheduled publication into publishing and counts the
// attempt. The persisted form of this transition must be written before any
// network call so a crash mid-delivery is visible as a stuck publishing row.
func (p *Publication) BeginAttempt() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.status.IsScheduled() {
		return fmt.Errorf("cannot begin attempt from status %s", p.status)
	}
	p.status = vo.StatusPublishing
	p.attemptCount++
	p.updatedAt = time.Now().UTC()
	return nil
}

// CompletePublish records a confirmed delivery. Only valid while publishing.
func (p *Publication) CompletePublish(platformPostID, platformPostURL string, publishedAt time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.status.IsPublishing() {
		return fmt.Errorf("cannot complete publish from status %s", p.status)
	}
	p.status = vo.StatusPublished
	if platformPostID != "" {
		p.platformPostID = &platformPostID
	}
	if platformPostURL != "" {
		p.platformPostURL = &platformPostURL
	}
	at := publishedAt.UTC()
	p.publishedAt = &at
	p.lastError = nil
	p.updatedAt = time.Now().UTC()
	return nil
}

// RearmForRetry returns a publishing row to scheduled after a retryable
// delivery failure, keeping the attempt count and the failure message.
func (p *Publication) RearmForRetry(errMsg string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.status.IsPublishing() {
		return fmt.Errorf("cannot rearm for retry from status %s", p.status)
	}
	p.status = vo.StatusScheduled
	p.lastError = &errMsg
	p.updatedAt = time.Now().UTC()
	return nil
}

// Fail moves the publication into its terminal failed state. Allowed from
// scheduled (admission or quality rejection before any attempt) and from
// publishing (non-retryable delivery failure or exhausted attempts).
func (p *Publication) Fail(reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status.IsTerminal() {
		return fmt.Errorf("cannot fail from status %s", p.status)
	}
	p.status = vo.StatusFailed
	p.lastError = &reason
	p.updatedAt = time.Now().UTC()
	return nil
}

func (p *Publication) SetID(id uint) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.id != 0 {
		return errors.New("publication ID already set")
	}
	if id == 0 {
		return errors.New("invalid publication ID")
	}
	p.id = id
	return nil
}

// DeriveIdempotencyKey builds the deterministic schedule key for a
// (project, content item, platform, slot) tuple. The slot is compared at
// second precision in UTC.
func DeriveIdempotencyKey(projectID, contentItemID uint, platform vo.Platform, scheduledAt time.Time) string {
	seed := fmt.Sprintf("%d|%d|%s|%d", projectID, contentItemID, platform, scheduledAt.UTC().Unix())
	sum := sha256.Sum256([]byte(seed))
	return "pub-" + hex.EncodeToString(sum[:])[:16]
}

// PublishTaskKey is the dispatch dedup key for the first delivery attempt.
func PublishTaskKey(publicationID uint) string {
	return fmt.Sprintf("publication-%d", publicationID)
}

// RetryTaskKey is the dispatch dedup key for the retry that follows the
// given failed attempt. Each attempt number can be re-enqueued at most once.
func RetryTaskKey(publicationID uint, attemptCount int) string {
	return fmt.Sprintf("publication-retry-%d-%d", publicationID, attemptCount)
}

// RetryDelay computes the exponential backoff before the next attempt:
// base doubled per prior attempt, capped at max.
func RetryDelay(attemptCount int, base, max time.Duration) time.Duration {
	if attemptCount < 1 {
		attemptCount = 1
	}
	delay := base
	for i := 1; i < attemptCount; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}
	if delay > max {
		return max
	}
	return delay
}
