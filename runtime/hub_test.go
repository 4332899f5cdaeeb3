package runtime

import (
	"context"
	"dm-lab/contract"
	"dm-lab/domain/event"
	"dm-lab/errors"
	"dm-lab/runtime/workers"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type chanSink struct {
	events chan event.GroupEvent
}

func (s chanSink) Consume(ctx context.Context, e event.GroupEvent) error {
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestHub_Publish_Reaches_Group_And_Permanent_Sinks(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	hub := NewHub(log, workers.NewSupervisor(log, 0), NewRegistry(), 2, 10, time.Second)

	permanent := chanSink{events: make(chan event.GroupEvent, 10)}
	bob := chanSink{events: make(chan event.GroupEvent, 10)}
	charlie := chanSink{events: make(chan event.GroupEvent, 10)}
	hub.Add(permanent)
	hub.JoinGroup("bob-1", "alice-bob", bob)
	hub.JoinGroup("charlie-1", "alice-charlie", charlie)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Start(ctx)

	// When alice publishes in her conversation with bob
	req.NoError(hub.PublishToGroup(ctx, "alice-bob", event.NewMessage, "hi"))

	// Then bob and the permanent sink receive it
	for _, sink := range []chanSink{permanent, bob} {
		select {
		case evt := <-sink.events:
			req.Equal("alice-bob", evt.Group)
			req.Equal(event.NewMessage, evt.Name)
			req.Equal("hi", evt.Payload)
			req.False(evt.At.IsZero())
		case <-time.After(time.Second):
			req.Fail("event not delivered")
		}
	}

	// And charlie, listening to another group, receives nothing
	select {
	case <-charlie.events:
		req.Fail("event leaked to another group")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_Publish_Never_Blocks(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	// Workers are never started, the channel fills up
	hub := NewHub(log, workers.NewSupervisor(log, 0), NewRegistry(), 1, 1, time.Second)

	req.NoError(hub.PublishToGroup(context.Background(), "alice-bob", event.NewMessage, 1))
	err := hub.PublishToGroup(context.Background(), "alice-bob", event.NewMessage, 2)
	req.ErrorIs(err, errors.ErrFanoutSaturated)
}

func TestHub_Leave_Group_Stops_Delivery(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	hub := NewHub(log, workers.NewSupervisor(log, 0), registry, 1, 10, time.Second)

	var sink contract.EventSink = chanSink{events: make(chan event.GroupEvent, 1)}
	hub.JoinGroup("bob-1", "alice-bob", sink)
	req.Len(registry.GetSinksForGroup("alice-bob"), 1)

	hub.LeaveGroup("bob-1", "alice-bob")
	req.Nil(registry.GetSinksForGroup("alice-bob"))
}

func TestHub_Same_Group_Same_Shard(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	hub := NewHub(log, workers.NewSupervisor(log, 0), NewRegistry(), 8, 1, time.Second)

	req.Equal(hub.shardOf("alice-bob"), hub.shardOf("alice-bob"))
}

func TestHub_Channels_Report_Shard_Usage(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	hub := NewHub(log, workers.NewSupervisor(log, 0), NewRegistry(), 3, 5, time.Second)

	// Given one event waiting, no worker running
	req.NoError(hub.PublishToGroup(context.Background(), "alice-bob", event.NewMessage, "hi"))

	channels := hub.Channels()
	req.Len(channels, 3)

	samples := workers.NewChannelCapacityWorker(log, channels, event.NewChannelCapacityHandler(log, 1), time.Second).Sample()
	total := 0
	for _, sample := range samples {
		req.Equal(5, sample.Capacity)
		total += sample.Length
	}
	req.Equal(1, total)
}
