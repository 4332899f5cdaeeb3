package workers

import (
	"context"
	"dm-lab/domain/event"
	"log/slog"
	"reflect"
	"time"
)

type NamedChannel struct {
	Name    string
	Channel any
}

// ChannelCapacityWorker periodically samples the length and capacity of channels.
// Reading len(channel) and cap(channel) is non-blocking, so this won't interfere
// with the goroutines using them.
type ChannelCapacityWorker struct {
	log            *slog.Logger
	channels       []NamedChannel
	handler        *event.ChannelCapacityHandler
	metricInterval time.Duration
}

func NewChannelCapacityWorker(log *slog.Logger, channels []NamedChannel,
	handler *event.ChannelCapacityHandler, metricInterval time.Duration) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:            log,
		channels:       channels,
		handler:        handler,
		metricInterval: metricInterval,
	}
}

func (w ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping channel sampling")
			return nil
		case <-ticker.C:
			w.Sample()
		}
	}
}

// Sample reads every channel once and returns the samples handed to the handler.
func (w ChannelCapacityWorker) Sample() []event.ChannelCapacity {
	samples := make([]event.ChannelCapacity, 0, len(w.channels))
	for _, nc := range w.channels {
		v := reflect.ValueOf(nc.Channel)
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		sample := event.ChannelCapacity{ChannelName: nc.Name, Capacity: v.Cap(), Length: v.Len()}
		w.handler.Handle(sample)
		samples = append(samples, sample)
	}
	return samples
}
