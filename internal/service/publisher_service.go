package service

import (
	"encoding/json"
	"time"

	"contract-review-fe/internal/entity"
	"contract-review-fe/internal/pkg/logger"
	"contract-review-fe/internal/session"
	"contract-review-fe/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// publisherService bridges the session controller's notification sink onto
// the in-process event bus. The controller stays transport-agnostic; the
// consumer side decides where events end up (currently the WebSocket hub).
type publisherService struct {
	topic  string
	pubSub message.Publisher
	log    logger.ILogger
}

var _ session.NotificationSink = &publisherService{}

func NewPublisherService(topic string, pubSub message.Publisher, log logger.ILogger) session.NotificationSink {
	return &publisherService{
		topic:  topic,
		pubSub: pubSub,
		log:    log,
	}
}

func (s *publisherService) NotificationCreated(sessionID uuid.UUID, n entity.Notification) {
	s.publish(events.BaseEvent{
		Type:      events.TypeNotificationCreated,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"notification": n,
		},
		OccurredAt: time.Now(),
	})
}

func (s *publisherService) NotificationRemoved(sessionID uuid.UUID, notificationID, reason string) {
	s.publish(events.BaseEvent{
		Type:      events.TypeNotificationRemoved,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"notification_id": notificationID,
			"reason":          reason,
		},
		OccurredAt: time.Now(),
	})
}

func (s *publisherService) publish(evt events.BaseEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		s.log.Error("Publisher", "Failed to marshal event", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.topic, msg); err != nil {
		s.log.Error("Publisher", "Failed to publish event", map[string]interface{}{
			"topic": s.topic,
			"type":  evt.Type,
			"error": err.Error(),
		})
	}
}
