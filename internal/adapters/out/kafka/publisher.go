// Package kafka publishes committed domain events to a Kafka topic.
// Events of one aggregate share a partition key, so consumers see them in order.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/pkg/ddd"

	"github.com/segmentio/kafka-go"
)

const (
	DefaultTopic = "marketplace.events"
	eventVersion = 1
)

// Envelope wraps every published event.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements ports.EventPublisher. Writes are synchronous: Publish
// returns once the brokers acknowledged every message or the write failed.
type Publisher struct {
	writer   messageWriter
	producer string
}

func NewPublisher(brokers []string, topic, producer string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return newPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}, producer)
}

func newPublisher(writer messageWriter, producer string) *Publisher {
	return &Publisher{writer: writer, producer: producer}
}

func (p *Publisher) Publish(ctx context.Context, events ...ddd.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		msg, err := p.message(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d events: %w", len(msgs), err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) message(event ddd.DomainEvent) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s payload: %w", event.EventType(), err)
	}

	aggregateID := event.AggregateID().String()
	value, err := json.Marshal(Envelope{
		EventID:       event.EventID().String(),
		EventType:     event.EventType(),
		EventVersion:  eventVersion,
		OccurredAt:    event.OccurredAt(),
		Producer:      p.producer,
		CorrelationID: aggregateID,
		Payload:       payload,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s envelope: %w", event.EventType(), err)
	}

	return kafka.Message{
		Key:   []byte(aggregateID),
		Value: value,
		Time:  event.OccurredAt(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType())},
		},
	}, nil
}
