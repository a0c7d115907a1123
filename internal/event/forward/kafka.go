package forward

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/osse101/PhotocardBot_Go/internal/event"
)

// messageWriter is the part of *kafka.Writer the sink uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink writes events to one topic, hashed by channel or user
type KafkaSink struct {
	w messageWriter
}

// NewKafkaSink creates a writer for the topic. Connections are opened lazily.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	if topic == "" {
		topic = DefaultKafkaTopic
	}
	return &KafkaSink{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           kafkaBatchDelay,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

// Send writes a single message
func (s *KafkaSink) Send(ctx context.Context, evt event.Event, key string, body []byte) error {
	return s.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: body,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(evt.Type)},
			{Key: headerVersion, Value: []byte(evt.Version)},
		},
	})
}

// Close flushes pending writes
func (s *KafkaSink) Close() error {
	return s.w.Close()
}
