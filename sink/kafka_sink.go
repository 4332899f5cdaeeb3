package sink

import (
	"context"
	"dm-lab/domain/event"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of kafka.Writer the sink relies on.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter keys partitions by hash so a conversation stays on one partition.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
}

type StreamRecord struct {
	Event string    `json:"event"`
	Group string    `json:"group"`
	At    time.Time `json:"at"`
	Data  any       `json:"data"`
}

// KafkaSink republishes every group event on a topic for downstream consumers.
type KafkaSink struct {
	writer MessageWriter
	log    *slog.Logger
}

func NewKafkaSink(writer MessageWriter, log *slog.Logger) KafkaSink {
	return KafkaSink{writer: writer, log: log}
}

func (k KafkaSink) Name() string { return "kafka" }

func (k KafkaSink) Consume(ctx context.Context, e event.GroupEvent) error {
	value, err := json.Marshal(StreamRecord{
		Event: string(e.Name),
		Group: e.Group,
		At:    e.At,
		Data:  e.Payload,
	})
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Group),
		Value: value,
		Time:  e.At,
	})
}

func (k KafkaSink) Close() error {
	return k.writer.Close()
}
