package sink

import (
	"context"
	"dm-lab/domain/event"
	"dm-lab/errors"
	"fmt"
)

// ConnectionSink buffers the events of one live connection.
// The transport handler owning the connection drains Events.
type ConnectionSink struct {
	id     string
	Events chan event.GroupEvent
}

func NewConnectionSink(id string, bufferSize int) *ConnectionSink {
	return &ConnectionSink{id: id, Events: make(chan event.GroupEvent, bufferSize)}
}

func (s *ConnectionSink) Name() string { return "connection:" + s.id }

// Consume is called by the fanout and never waits for a slow reader:
// when the buffer is full the event is dropped for this connection only.
func (s *ConnectionSink) Consume(ctx context.Context, e event.GroupEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("%w: connection %s", errors.ErrFanoutSaturated, s.id)
	}
}

// Push delivers an event to this connection only, bypassing the fanout.
func (s *ConnectionSink) Push(ctx context.Context, name event.Name, payload any) error {
	return s.Consume(ctx, event.GroupEvent{Name: name, Payload: payload})
}
