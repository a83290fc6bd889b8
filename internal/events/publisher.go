package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Booking lifecycle event types.
const (
	BookingCreated   = "rental.booking.created"
	BookingCancelled = "rental.booking.cancelled"
	BookingReturned  = "rental.booking.returned"
)

// Envelope is the CloudEvents-shaped wrapper every published event uses.
type Envelope struct {
	ID     string          `json:"id"`
	Source string          `json:"source"`
	Type   string          `json:"type"`
	Time   time.Time       `json:"time"`
	Data   json.RawMessage `json:"data"`
}

// ParseData unmarshals the event payload into the given value.
func (e *Envelope) ParseData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// NewEnvelope wraps a payload in an event envelope.
func NewEnvelope(source, eventType string, data interface{}) (*Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return &Envelope{
		ID:     uuid.NewString(),
		Source: source,
		Type:   eventType,
		Time:   time.Now().UTC(),
		Data:   raw,
	}, nil
}

// BookingEvent is the payload published on every booking lifecycle change.
type BookingEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	VehicleID  uuid.UUID `json:"vehicle_id"`
	TotalPrice int64     `json:"total_price"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Producer publishes booking lifecycle events to Kafka.
type Producer struct {
	writer *kafka.Writer
	source string
}

// NewProducer creates a Kafka producer for the given brokers and topic.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			MaxAttempts:            5,
			WriteTimeout:           10 * time.Second,
			AllowAutoTopicCreation: true,
		},
		source: "service-rental",
	}
}

// Publish wraps the payload in an envelope and writes it keyed by the
// given key, so events for one booking stay ordered.
func (p *Producer) Publish(ctx context.Context, eventType, key string, data interface{}) error {
	envelope, err := NewEnvelope(p.source, eventType, data)
	if err != nil {
		return err
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	}); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close closes the underlying Kafka writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
