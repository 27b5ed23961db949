package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/NWU-Kano/library-service/internal/events"
	"github.com/NWU-Kano/library-service/internal/models"
)

func TestNotificationService_PublishEvents(t *testing.T) {
	logger := testLogger()
	mockPublisher := events.NewMockEventPublisher(logger)
	service := NewNotificationService(mockPublisher, logger)

	ctx := context.Background()
	user := &models.User{
		ID:        42,
		Email:     "amina.bello@nwu-kano.edu.ng",
		FirstName: "Amina",
		LastName:  "Bello",
	}

	t.Run("RegistrationReceived", func(t *testing.T) {
		mockPublisher.ClearEvents()

		service.NotifyRegistrationReceived(ctx, user)

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}
		if published[0].Type != EventRegistrationReceived {
			t.Errorf("Expected event type %q, got %q", EventRegistrationReceived, published[0].Type)
		}

		var payload RegistrationReceivedEvent
		if err := json.Unmarshal(published[0].Data, &payload); err != nil {
			t.Fatalf("Failed to decode payload: %v", err)
		}
		if payload.UserID != user.ID || payload.Email != user.Email {
			t.Errorf("Payload = %+v, want user 42 with their email", payload)
		}
	})

	t.Run("AccountApproved", func(t *testing.T) {
		mockPublisher.ClearEvents()

		service.NotifyAccountApproved(ctx, user)

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}
		if published[0].Type != EventAccountApproved {
			t.Errorf("Expected event type %q, got %q", EventAccountApproved, published[0].Type)
		}
	})

	t.Run("EnvelopeStructure", func(t *testing.T) {
		mockPublisher.ClearEvents()

		service.NotifyRegistrationReceived(ctx, user)

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}

		event := published[0]
		if event.ID == "" {
			t.Error("Event ID should not be empty")
		}
		if event.Source != "library-service" {
			t.Errorf("Expected source 'library-service', got %q", event.Source)
		}
		if event.Version != "1.0" {
			t.Errorf("Expected version '1.0', got %q", event.Version)
		}
		if event.Timestamp.IsZero() {
			t.Error("Event timestamp should not be zero")
		}
	})
}
