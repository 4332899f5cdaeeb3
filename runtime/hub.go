// Package runtime wires the fan-out pipeline: a registry of live connections,
// supervised fan-out workers and the publishing entry point used by services.
// It contains no business rule.
package runtime

import (
	"context"
	"dm-lab/contract"
	"dm-lab/domain/event"
	"dm-lab/errors"
	"dm-lab/runtime/workers"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"
)

// Hub is the publish side of the fan-out pipeline.
// Events of one group always land on the same worker channel, so a
// conversation is delivered in publication order.
type Hub struct {
	mu             sync.Mutex
	log            *slog.Logger
	supervisor     contract.ISupervisor
	registry       contract.IRegistry
	permanentSinks []contract.EventSink
	shards         []chan event.GroupEvent
	sinkTimeout    time.Duration
	now            func() time.Time
}

var _ contract.GroupHub = (*Hub)(nil)

func NewHub(log *slog.Logger, supervisor contract.ISupervisor, registry contract.IRegistry,
	numWorkers, bufferSize int, sinkTimeout time.Duration) *Hub {
	if numWorkers < 1 {
		numWorkers = 1
	}
	shards := make([]chan event.GroupEvent, numWorkers)
	for i := range shards {
		shards[i] = make(chan event.GroupEvent, bufferSize)
	}
	return &Hub{
		log:         log,
		supervisor:  supervisor,
		registry:    registry,
		shards:      shards,
		sinkTimeout: sinkTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Add registers sinks receiving every event of every group.
// Must be called before Start.
func (h *Hub) Add(sinks ...contract.EventSink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.permanentSinks = append(h.permanentSinks, sinks...)
}

// PublishToGroup enqueues the event and returns immediately.
// ErrFanoutSaturated is returned when the worker channel of the group is full.
func (h *Hub) PublishToGroup(_ context.Context, group string, name event.Name, payload any) error {
	evt := event.GroupEvent{Group: group, Name: name, Payload: payload, At: h.now()}
	select {
	case h.shardOf(group) <- evt:
		return nil
	default:
		h.log.Warn("Fanout channel full, dropping event", "group", group, "event", name)
		return fmt.Errorf("%w: group %s", errors.ErrFanoutSaturated, group)
	}
}

func (h *Hub) JoinGroup(connectionID, group string, sink contract.EventSink) {
	h.registry.Subscribe(connectionID, group, sink)
}

func (h *Hub) LeaveGroup(connectionID, group string) {
	h.registry.Unsubscribe(connectionID, group)
}

// Start registers one fan-out worker per shard and runs the supervisor.
// It blocks until ctx is cancelled or Stop is called.
func (h *Hub) Start(ctx context.Context) {
	h.mu.Lock()
	sinks := append([]contract.EventSink(nil), h.permanentSinks...)
	for _, shard := range h.shards {
		h.supervisor.Add(workers.NewEventFanout(h.log, sinks, h.registry, shard, h.sinkTimeout))
	}
	h.mu.Unlock()

	h.log.Info("Starting fanout workers", "workers", len(h.shards), "permanent_sinks", len(sinks))
	h.supervisor.Run(ctx)
}

func (h *Hub) Stop() {
	h.log.Info("Requesting fanout shutdown")
	h.supervisor.Stop()
}

// Channels exposes the worker channels for capacity sampling.
func (h *Hub) Channels() []workers.NamedChannel {
	channels := make([]workers.NamedChannel, len(h.shards))
	for i, shard := range h.shards {
		channels[i] = workers.NamedChannel{Name: fmt.Sprintf("fanout-%d", i), Channel: shard}
	}
	return channels
}

func (h *Hub) shardOf(group string) chan event.GroupEvent {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(group))
	return h.shards[hash.Sum32()%uint32(len(h.shards))]
}
