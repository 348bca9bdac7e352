package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"raffle/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// MessagePublisher publishes raw messages to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject, msgID string, data []byte) error
}

// NotificationEnvelope is the wire format of a relayed notification
type NotificationEnvelope struct {
	EventID        string    `json:"event_id"`
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Type           string    `json:"type"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}

// NotificationRelay forwards committed notifications to the message bus
// so downstream delivery channels can pick them up.
type NotificationRelay struct {
	publisher     MessagePublisher
	subjectPrefix string
}

// NewNotificationRelay creates a relay publishing under subjectPrefix
func NewNotificationRelay(publisher MessagePublisher, subjectPrefix string) *NotificationRelay {
	return &NotificationRelay{
		publisher:     publisher,
		subjectPrefix: subjectPrefix,
	}
}

// Subjects returns the subject filter covering every relayed notification
func (r *NotificationRelay) Subjects() []string {
	return []string{r.subjectPrefix + ".>"}
}

// Register subscribes the relay to notification events on bus
func (r *NotificationRelay) Register(bus *events.Bus) {
	bus.Subscribe(events.EventTypeNotificationEnqueued, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.NotificationEnqueuedEvent)
		if !ok {
			return
		}
		if err := r.Relay(ctx, e); err != nil {
			// the notification row remains in the inbox
			log.WithFields(log.Fields{
				"notification_id": e.NotificationID,
				"user_id":         e.UserID,
				"error":           err,
			}).Error("Failed to relay notification")
		}
	})
}

// Relay publishes a single notification
func (r *NotificationRelay) Relay(ctx context.Context, e events.NotificationEnqueuedEvent) error {
	envelope := NotificationEnvelope{
		EventID:        uuid.New().String(),
		NotificationID: e.NotificationID.String(),
		UserID:         e.UserID.String(),
		Type:           string(e.NotificationType),
		Message:        e.Message,
		CreatedAt:      e.CreatedAt.UTC(),
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal notification envelope: %w", err)
	}

	subject := r.SubjectFor(e)
	if err := r.publisher.Publish(ctx, subject, envelope.NotificationID, data); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"eventId": envelope.EventID,
		"subject": subject,
	}).Debug("Relayed notification")
	return nil
}

// SubjectFor returns the subject a notification is published on
func (r *NotificationRelay) SubjectFor(e events.NotificationEnqueuedEvent) string {
	return fmt.Sprintf("%s.%s", r.subjectPrefix, e.NotificationType)
}
