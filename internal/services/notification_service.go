package services

import (
	"context"
	"log/slog"

	"github.com/NWU-Kano/library-service/internal/events"
	"github.com/NWU-Kano/library-service/internal/models"
)

// ===== EVENT TYPES =====

const (
	EventRegistrationReceived = "user.registration_received"
	EventAccountApproved      = "user.account_approved"
)

// RegistrationReceivedEvent is published after a new account is stored
// pending approval.
type RegistrationReceivedEvent struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AccountApprovedEvent is published after an inactive account is activated.
type AccountApprovedEvent struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ===== SERVICE INTERFACE =====

// NotificationService publishes account lifecycle notifications. Every method
// is best-effort: failures are logged, never returned to the caller's request
// path.
type NotificationService interface {
	NotifyRegistrationReceived(ctx context.Context, user *models.User)
	NotifyAccountApproved(ctx context.Context, user *models.User)
}

// ===== SERVICE IMPLEMENTATION =====

type notificationEventService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewNotificationService(eventPublisher events.EventPublisher, logger *slog.Logger) NotificationService {
	return &notificationEventService{
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *notificationEventService) NotifyRegistrationReceived(ctx context.Context, user *models.User) {
	s.publish(ctx, EventRegistrationReceived, RegistrationReceivedEvent{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

func (s *notificationEventService) NotifyAccountApproved(ctx context.Context, user *models.User) {
	s.publish(ctx, EventAccountApproved, AccountApprovedEvent{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

func (s *notificationEventService) publish(ctx context.Context, eventType string, payload interface{}) {
	event, err := events.NewEvent(eventType, payload)
	if err != nil {
		s.logger.Error("Failed to build notification event", "error", err, "type", eventType)
		return
	}

	if err := s.eventPublisher.Publish(ctx, events.TopicNotifications, event); err != nil {
		s.logger.Error("Failed to publish notification event", "error", err, "type", eventType)
	}
}
