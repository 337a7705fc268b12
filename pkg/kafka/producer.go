package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Adithya-Monish-Kumar-K/proximity-search/pkg/config"
)

const (
	HeaderEventType   = "event-type"
	HeaderContentType = "content-type"
)

// Event is one message for the ingest topic. Key picks the partition, so
// every event for a document lands on the same partition in order. Type is
// carried as a header and Value is JSON-encoded.
type Event struct {
	Key   string
	Type  string
	Value any
}

// Producer publishes events to one Kafka topic.
type Producer struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewProducer(cfg config.KafkaConfig, topic string) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireAll,
	}
	return &Producer{
		writer: w,
		logger: slog.Default().With("component", "kafka-producer", "topic", topic),
	}
}

// Publish writes event synchronously and returns once every in-sync replica
// has it.
func (p *Producer) Publish(ctx context.Context, event Event) error {
	msg, err := encode(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish event",
			"key", event.Key,
			"type", event.Type,
			"error", err,
		)
		return fmt.Errorf("publishing %s event %s: %w", event.Type, event.Key, err)
	}
	p.logger.Debug("event published",
		"key", event.Key,
		"type", event.Type,
		"value_size", len(msg.Value),
	)
	return nil
}

func encode(event Event) (kafka.Message, error) {
	if event.Key == "" {
		return kafka.Message{}, errors.New("event without key")
	}
	value, err := json.Marshal(event.Value)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encoding %s event %s: %w", event.Type, event.Key, err)
	}
	headers := []kafka.Header{{Key: HeaderContentType, Value: []byte("application/json")}}
	if event.Type != "" {
		headers = append(headers, kafka.Header{Key: HeaderEventType, Value: []byte(event.Type)})
	}
	return kafka.Message{
		Key:     []byte(event.Key),
		Value:   value,
		Headers: headers,
	}, nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
