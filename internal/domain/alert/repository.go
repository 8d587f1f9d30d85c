package alert

import "context"

// Repository persists alerts.
type Repository interface {
	Create(ctx context.Context, alert *Alert) error
	// ListByProject returns the newest alerts for a project, up to limit.
	ListByProject(ctx context.Context, projectID uint, limit int) ([]*Alert, error)
}

// Sink delivers alerts to operators. Implementations are fire-and-forget:
// a sink must never block its caller on slow transports or propagate its
// own failures back into the flow that raised the alert.
type Sink interface {
	Notify(ctx context.Context, projectID uint, alertType, severity, message string, metadata map[string]interface{})
}
