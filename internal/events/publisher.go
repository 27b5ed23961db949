package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const (
	// TopicNotifications carries user-facing notification events consumed by
	// the mail worker.
	TopicNotifications = "library.notifications"

	eventSource  = "library-service"
	eventVersion = "1.0"
)

// Event is the envelope published to the message broker.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Version   string          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent builds an envelope around a payload.
func NewEvent(eventType string, data interface{}) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		Data:      payload,
	}, nil
}

// EventPublisher is the port the services publish through. Implementations:
// watermill gochannel (default), watermill Kafka, and a mock for tests.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event *Event) error
	Close() error
}

// watermillPublisher adapts any watermill message.Publisher.
type watermillPublisher struct {
	publisher message.Publisher
}

func newWatermillPublisher(publisher message.Publisher) EventPublisher {
	return &watermillPublisher{publisher: publisher}
}

func (p *watermillPublisher) Publish(ctx context.Context, topic string, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", event.Type)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	return nil
}

func (p *watermillPublisher) Close() error {
	return p.publisher.Close()
}

// UnmarshalEvent decodes an event envelope from a broker message.
func UnmarshalEvent(msg *message.Message) (*Event, error) {
	var event Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return &event, nil
}
