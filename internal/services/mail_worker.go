package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/NWU-Kano/library-service/internal/events"
)

// MailWorker consumes notification events and turns them into emails.
// Delivery is best-effort: a failed send is logged and the message is acked
// anyway, since account lifecycle state never depends on mail.
type MailWorker struct {
	subscriber message.Subscriber
	mailer     Mailer
	logger     *slog.Logger
}

func NewMailWorker(subscriber message.Subscriber, mailer Mailer, logger *slog.Logger) *MailWorker {
	return &MailWorker{
		subscriber: subscriber,
		mailer:     mailer,
		logger:     logger,
	}
}

// Run blocks consuming the notifications topic until ctx is cancelled.
func (w *MailWorker) Run(ctx context.Context) error {
	messages, err := w.subscriber.Subscribe(ctx, events.TopicNotifications)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", events.TopicNotifications, err)
	}

	w.logger.Info("Mail worker started", "topic", events.TopicNotifications)

	for msg := range messages {
		w.handle(msg)
		msg.Ack()
	}

	w.logger.Info("Mail worker stopped")
	return nil
}

func (w *MailWorker) handle(msg *message.Message) {
	event, err := events.UnmarshalEvent(msg)
	if err != nil {
		w.logger.Error("Failed to decode notification event", "error", err, "message_id", msg.UUID)
		return
	}

	to, subject, body, ok := w.compose(event)
	if !ok {
		w.logger.Debug("Ignoring event with no mail template", "type", event.Type)
		return
	}

	if err := w.mailer.Send(to, subject, body); err != nil {
		w.logger.Error("Failed to deliver notification mail", "error", err, "type", event.Type, "to", to)
		return
	}

	w.logger.Info("Notification mail sent", "type", event.Type, "to", to)
}

func (w *MailWorker) compose(event *events.Event) (to, subject, body string, ok bool) {
	switch event.Type {
	case EventRegistrationReceived:
		var payload RegistrationReceivedEvent
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			w.logger.Error("Failed to decode registration event payload", "error", err)
			return "", "", "", false
		}
		subject = "Library registration received"
		body = fmt.Sprintf(
			"Hello %s,\n\nYour library account registration has been received and is awaiting approval by library staff. You will be notified once your account is activated.\n\nSule Hamma Library\nNorthwest University Kano",
			displayName(payload.FirstName, payload.LastName))
		return payload.Email, subject, body, true

	case EventAccountApproved:
		var payload AccountApprovedEvent
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			w.logger.Error("Failed to decode approval event payload", "error", err)
			return "", "", "", false
		}
		subject = "Library account approved"
		body = fmt.Sprintf(
			"Hello %s,\n\nYour library account has been approved. You can now log in and use the library services.\n\nSule Hamma Library\nNorthwest University Kano",
			displayName(payload.FirstName, payload.LastName))
		return payload.Email, subject, body, true
	}

	return "", "", "", false
}

func displayName(first, last string) string {
	name := first
	if last != "" {
		if name != "" {
			name += " "
		}
		name += last
	}
	if name == "" {
		return "there"
	}
	return name
}
