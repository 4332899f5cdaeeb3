package workers

import (
	"context"
	"dm-lab/domain/event"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestChannelCapacityWorker_Sample(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	busy := make(chan int, 4)
	busy <- 1
	busy <- 2
	busy <- 3

	worker := NewChannelCapacityWorker(log, []NamedChannel{
		{Name: "busy", Channel: busy},
		{Name: "unbuffered", Channel: make(chan int)},
		{Name: "not-a-channel", Channel: 42},
	}, event.NewChannelCapacityHandler(log, 1), time.Second)

	samples := worker.Sample()

	req.Equal([]event.ChannelCapacity{
		{ChannelName: "busy", Capacity: 4, Length: 3},
		{ChannelName: "unbuffered", Capacity: 0, Length: 0},
	}, samples)
}

func TestChannelCapacityHandler_Low_Capacity(t *testing.T) {
	req := require.New(t)
	handler := event.NewChannelCapacityHandler(logs.GetLoggerFromLevel(slog.LevelDebug), 2)

	req.True(handler.Handle(event.ChannelCapacity{ChannelName: "shard", Capacity: 10, Length: 8}))
	req.False(handler.Handle(event.ChannelCapacity{ChannelName: "shard", Capacity: 10, Length: 7}))
	req.False(handler.Handle(event.ChannelCapacity{ChannelName: "unbuffered", Capacity: 0, Length: 0}))
}

func TestChannelCapacityWorker_Stops_With_Context(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	worker := NewChannelCapacityWorker(log, nil, event.NewChannelCapacityHandler(log, 1), 10*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req.NoError(worker.Run(ctx))
}
