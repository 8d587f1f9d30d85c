package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"zavod/internal/domain/alert"
	"zavod/internal/shared/logger"
)

const (
	// cooldownKeyPrefix namespaces the suppression keys in Redis.
	cooldownKeyPrefix = "alert_cooldown:"
	// DefaultCooldown is how long a repeated (project, type) alert stays
	// suppressed after one has gone out.
	DefaultCooldown = 30 * time.Minute
)

// CooldownSink wraps another sink and suppresses repeats of the same alert
// for the same project within the cooldown window. Suppression state lives
// in Redis so it holds across instances; without a Redis client the sink
// passes everything through.
type CooldownSink struct {
	next     alert.Sink
	client   *redis.Client
	cooldown time.Duration
	logger   logger.Interface
}

func NewCooldownSink(next alert.Sink, client *redis.Client, cooldown time.Duration, log logger.Interface) *CooldownSink {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if log == nil {
		log = logger.NewLogger()
	}
	return &CooldownSink{
		next:     next,
		client:   client,
		cooldown: cooldown,
		logger:   log,
	}
}

// buildKey formats the suppression key as alert_cooldown:{project}:{type}.
func (s *CooldownSink) buildKey(projectID uint, alertType string) string {
	return fmt.Sprintf("%s%d:%s", cooldownKeyPrefix, projectID, alertType)
}

func (s *CooldownSink) Notify(ctx context.Context, projectID uint, alertType, severity, message string, metadata map[string]interface{}) {
	if s.client != nil {
		key := s.buildKey(projectID, alertType)

		// SetNX is atomic: the first instance to set the key wins the right
		// to emit, everyone else is in cooldown.
		acquired, err := s.client.SetNX(ctx, key, "1", s.cooldown).Result()
		if err != nil {
			// Degrade to pass-through rather than losing the alert.
			s.logger.Warnw("alert cooldown check failed, emitting anyway", "error", err, "key", key)
		} else if !acquired {
			s.logger.Debugw("alert suppressed by cooldown",
				"project_id", projectID,
				"alert_type", alertType,
			)
			return
		}
	}

	s.next.Notify(ctx, projectID, alertType, severity, message, metadata)
}

// Clear drops the cooldown for a (project, type) pair, for example after an
// operator resolves the underlying condition.
func (s *CooldownSink) Clear(ctx context.Context, projectID uint, alertType string) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Del(ctx, s.buildKey(projectID, alertType)).Err(); err != nil {
		return fmt.Errorf("failed to clear alert cooldown: %w", err)
	}
	return nil
}
