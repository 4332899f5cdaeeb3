package sink

import (
	"context"
	"dm-lab/domain/event"
	"log/slog"
	"time"
)

// LatencySink measures the lead time between publication and fan-out.
type LatencySink struct {
	log       *slog.Logger
	threshold time.Duration
}

func NewLatencySink(log *slog.Logger, threshold time.Duration) LatencySink {
	return LatencySink{log: log, threshold: threshold}
}

func (s LatencySink) Consume(_ context.Context, e event.GroupEvent) error {
	if e.At.IsZero() {
		return nil
	}
	leadTime := time.Since(e.At)

	s.log.Debug("telemetry: fan-out latency",
		"group", e.Group,
		"event", e.Name,
		"lead_time_ms", leadTime.Milliseconds(),
	)
	if s.threshold > 0 && leadTime > s.threshold {
		s.log.Warn("High fan-out latency detected", "group", e.Group, "event", e.Name, "lead_time", leadTime)
	}
	return nil
}
