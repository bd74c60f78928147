package goGuard

import (
	"context"
	"errors"
	"log/slog"

	"github.com/MrEthical07/goGuard/internal/signal"
)

// signalSink feeds rejected events into the Redis window counters. It runs on
// the dispatcher goroutine, so Redis latency never reaches a caller.
type signalSink struct {
	tracker *signal.Tracker
	metrics *Metrics
	logger  *slog.Logger
}

func (s *signalSink) Emit(ctx context.Context, event AuditEvent) {
	if event.Success || event.Subject == "" {
		return
	}

	subject := signalSubject(event.EventType, event.Subject)
	count, err := s.tracker.Record(ctx, subject)
	switch {
	case err == nil:
	case errors.Is(err, signal.ErrThresholdExceeded):
		s.metrics.Inc(MetricRejectionBurst)
		s.logger.Warn("goGuard: rejection burst",
			slog.String("subject", subject),
			slog.Int64("count", count),
		)
	default:
		s.metrics.Inc(MetricObserverFailure)
		s.logger.Debug("goGuard: signal recording failed", slog.String("error", err.Error()))
	}
}

func signalSubject(eventType, subject string) string {
	return eventType + ":" + subject
}
