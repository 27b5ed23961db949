package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestNewEvent(t *testing.T) {
	event, err := NewEvent("user.registration_received", map[string]any{"user_id": 1})
	if err != nil {
		t.Fatalf("NewEvent failed: %v", err)
	}

	if event.ID == "" {
		t.Error("Event ID should not be empty")
	}
	if event.Type != "user.registration_received" {
		t.Errorf("Type = %q", event.Type)
	}
	if event.Source != "library-service" {
		t.Errorf("Source = %q", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("Version = %q", event.Version)
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}

	var payload map[string]any
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		t.Fatalf("Data should hold the marshaled payload: %v", err)
	}
	if payload["user_id"] != float64(1) {
		t.Errorf("Payload = %v", payload)
	}
}

func TestGoChannelPubSub_RoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pubSub := NewGoChannelPubSub(logger)
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := pubSub.Subscriber().Subscribe(ctx, TopicNotifications)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	sent, err := NewEvent("user.account_approved", map[string]any{"user_id": 42})
	if err != nil {
		t.Fatalf("NewEvent failed: %v", err)
	}
	if err := pubSub.Publisher().Publish(ctx, TopicNotifications, sent); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case msg := <-messages:
		received, err := UnmarshalEvent(msg)
		if err != nil {
			t.Fatalf("UnmarshalEvent failed: %v", err)
		}
		msg.Ack()

		if received.ID != sent.ID {
			t.Errorf("ID = %q, want %q", received.ID, sent.ID)
		}
		if received.Type != sent.Type {
			t.Errorf("Type = %q, want %q", received.Type, sent.Type)
		}
		if msg.Metadata.Get("event_type") != sent.Type {
			t.Errorf("Metadata event_type = %q", msg.Metadata.Get("event_type"))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for the published event")
	}
}
