package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const kafkaWriteTimeout = 10 * time.Second

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher writes synchronously, keyed by channel so one channel's
// messages stay ordered on a single partition.
func NewKafkaPublisher(brokers []string, topic string) (Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("brokers cannot be empty")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: kafkaWriteTimeout,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	slog.Info("kafka broadcast configured", "brokers", brokers, "topic", topic)
	return newKafkaPublisher(writer, topic), nil
}

func newKafkaPublisher(writer messageWriter, topic string) *kafkaPublisher {
	return &kafkaPublisher{writer: writer, topic: topic}
}

func (p *kafkaPublisher) Publish(ctx context.Context, msg Message) error {
	now := time.Now()
	data, err := encode(msg, now)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.Channel),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(msg.Event)},
		},
		Time: now,
	}); err != nil {
		return fmt.Errorf("publishing to kafka topic %s: %w", p.topic, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
