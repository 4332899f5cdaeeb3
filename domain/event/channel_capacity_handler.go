package event

import (
	"fmt"
	"log/slog"
)

// ChannelCapacity is one sample of a buffered channel usage.
type ChannelCapacity struct {
	ChannelName string
	Capacity    int
	Length      int
}

// ChannelCapacityHandler handles samples reporting the capacity of channels.
// Useful for observability, detecting backpressure before the fan-out starts dropping events.
type ChannelCapacityHandler struct {
	log                  *slog.Logger
	lowCapacityThreshold int
}

func NewChannelCapacityHandler(log *slog.Logger, lowCapacityThreshold int) *ChannelCapacityHandler {
	return &ChannelCapacityHandler{log: log, lowCapacityThreshold: lowCapacityThreshold}
}

// Handle reports whether the channel is running low on capacity.
func (h ChannelCapacityHandler) Handle(payload ChannelCapacity) bool {
	h.log.Debug(fmt.Sprintf("Channel %s usage: %d / %d", payload.ChannelName, payload.Length, payload.Capacity))
	if payload.Capacity <= 0 {
		// In case of unbuffered channel
		return false
	}
	capacityLeft := payload.Capacity - payload.Length
	if capacityLeft <= h.lowCapacityThreshold {
		h.log.Warn("Channel capacity running low",
			"channel", payload.ChannelName,
			"capacity_left", capacityLeft,
			"capacity", payload.Capacity)
		return true
	}
	return false
}
