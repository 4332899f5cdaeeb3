package workers

import (
	"context"
	"dm-lab/contract"
	"dm-lab/domain/event"
	"log/slog"
	"sync"
	"time"
)

// EventFanout delivers group events to the permanent sinks and to every
// connection subscribed to the event group.
//
// Delivery is best effort: no retry, no acknowledgement. Each sink gets its own
// goroutine bounded by sinkTimeout, and the next event is only taken once the
// current one reached every sink, so a group served by a single worker keeps its order.
type EventFanout struct {
	log            *slog.Logger
	permanentSinks []contract.EventSink
	registry       contract.IRegistry
	events         <-chan event.GroupEvent
	sinkTimeout    time.Duration
}

func NewEventFanout(log *slog.Logger, permanentSinks []contract.EventSink, registry contract.IRegistry,
	events <-chan event.GroupEvent, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:            log,
		permanentSinks: permanentSinks,
		registry:       registry,
		events:         events,
		sinkTimeout:    sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		}
	}
}

// Fanout blocks until every sink consumed evt or timed out.
func (w *EventFanout) Fanout(ctx context.Context, evt event.GroupEvent) {
	groupSinks := w.registry.GetSinksForGroup(evt.Group)
	sinks := make([]contract.EventSink, 0, len(w.permanentSinks)+len(groupSinks))
	sinks = append(sinks, w.permanentSinks...)
	sinks = append(sinks, groupSinks...)

	var wg sync.WaitGroup
	for _, sink := range sinks {
		wg.Add(1)
		go func(s contract.EventSink) {
			defer wg.Done()
			w.deliver(ctx, s, evt)
		}(sink)
	}
	wg.Wait()
}

func (w *EventFanout) deliver(ctx context.Context, sink contract.EventSink, evt event.GroupEvent) {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()

	if err := sink.Consume(sinkCtx, evt); err != nil {
		w.log.Debug("Event not delivered",
			"event", evt.Name,
			"group", evt.Group,
			"sink", sinkName(sink),
			"error", err)
	}
}

func sinkName(sink contract.EventSink) string {
	if named, ok := sink.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "anonymous"
}
