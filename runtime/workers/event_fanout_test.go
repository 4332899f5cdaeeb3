package workers

import (
	"context"
	"dm-lab/contract"
	"dm-lab/domain/event"
	"dm-lab/mocks"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEventFanout_Delivers_To_Permanent_And_Group_Sinks(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	permanentSink := mocks.NewMockEventSink(ctrl)
	aliceSink := mocks.NewMockEventSink(ctrl)
	bobSink := mocks.NewMockEventSink(ctrl)

	fanout := NewEventFanout(log, []contract.EventSink{permanentSink}, mockRegistry, nil, time.Second)
	evt := event.GroupEvent{Group: "alice-bob", Name: event.NewMessage, Payload: "hi", At: time.Now()}

	// Given alice and bob are connected to their conversation
	mockRegistry.EXPECT().GetSinksForGroup("alice-bob").Return([]contract.EventSink{aliceSink, bobSink}).Times(1)

	// Then every sink receives the event once
	permanentSink.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)
	aliceSink.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)
	bobSink.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)

	// When the event is handled
	fanout.Fanout(context.Background(), evt)
	req.True(ctrl.Satisfied())
}

func TestEventFanout_Sink_Timeout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	slowSink := mocks.NewMockEventSink(ctrl)
	fastSink := mocks.NewMockEventSink(ctrl)

	sinkTimeout := 20 * time.Millisecond
	fanout := NewEventFanout(log, []contract.EventSink{fastSink}, mockRegistry, nil, sinkTimeout)

	mockRegistry.EXPECT().GetSinksForGroup(gomock.Any()).Return([]contract.EventSink{slowSink})
	fastSink.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(nil)

	// Given a sink blocked until its context is cancelled
	var timedOut atomic.Bool
	slowSink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ event.GroupEvent) error {
			<-ctx.Done()
			timedOut.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
			return ctx.Err()
		})

	// When the event is handled
	start := time.Now()
	fanout.Fanout(context.Background(), event.GroupEvent{Group: "alice-bob", Name: event.NewMessage})

	// Then the slow sink was abandoned after the timeout
	req.True(timedOut.Load())
	req.Less(time.Since(start), time.Second)
}

func TestEventFanout_Run_Drains_Channel(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	sink := mocks.NewMockEventSink(ctrl)
	events := make(chan event.GroupEvent, 3)
	fanout := NewEventFanout(log, []contract.EventSink{sink}, mockRegistry, events, time.Second)

	var received []string
	done := make(chan struct{})
	mockRegistry.EXPECT().GetSinksForGroup(gomock.Any()).Return(nil).Times(3)
	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e event.GroupEvent) error {
			received = append(received, e.Payload.(string))
			if len(received) == 3 {
				close(done)
			}
			return nil
		}).Times(3)

	for _, payload := range []string{"1", "2", "3"} {
		events <- event.GroupEvent{Group: "alice-bob", Name: event.NewMessage, Payload: payload}
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error)
	go func() { stopped <- fanout.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Events were not drained")
	}
	cancel()
	req.NoError(<-stopped)

	// A single worker keeps the publication order
	req.Equal([]string{"1", "2", "3"}, received)
}
