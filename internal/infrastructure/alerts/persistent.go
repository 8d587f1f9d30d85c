// Package alerts delivers operator alerts raised by the pipeline. Sinks
// compose: the persistent sink is the base layer, the cooldown sink wraps
// another sink to suppress repeats, and the email sink forwards critical
// alerts to an operator mailbox.
package alerts

import (
	"context"

	"zavod/internal/domain/alert"
	"zavod/internal/shared/logger"
)

// PersistentSink stores every alert in the database so the report surface
// and operators can review them later.
type PersistentSink struct {
	repo   alert.Repository
	logger logger.Interface
}

func NewPersistentSink(repo alert.Repository, log logger.Interface) *PersistentSink {
	if log == nil {
		log = logger.NewLogger()
	}
	return &PersistentSink{
		repo:   repo,
		logger: log,
	}
}

func (s *PersistentSink) Notify(ctx context.Context, projectID uint, alertType, severity, message string, metadata map[string]interface{}) {
	entity, err := alert.NewAlert(projectID, alertType, severity, message, metadata)
	if err != nil {
		s.logger.Warnw("dropping malformed alert", "error", err, "project_id", projectID, "alert_type", alertType)
		return
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		s.logger.Errorw("failed to store alert", "error", err, "project_id", projectID, "alert_type", alertType)
		return
	}

	s.logger.Infow("alert stored",
		"project_id", projectID,
		"alert_type", alertType,
		"severity", severity,
	)
}
