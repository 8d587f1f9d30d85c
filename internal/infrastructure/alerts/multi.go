package alerts

import (
	"context"

	"zavod/internal/domain/alert"
)

// MultiSink fans one alert out to several sinks in order.
type MultiSink struct {
	sinks []alert.Sink
}

func NewMultiSink(sinks ...alert.Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (s *MultiSink) Notify(ctx context.Context, projectID uint, alertType, severity, message string, metadata map[string]interface{}) {
	for _, sink := range s.sinks {
		sink.Notify(ctx, projectID, alertType, severity, message, metadata)
	}
}
