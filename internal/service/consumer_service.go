package service

import (
	"context"
	"encoding/json"

	"contract-review-fe/internal/pkg/logger"
	"contract-review-fe/internal/websocket"
	"contract-review-fe/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the session notification topic and forwards each
// event to the WebSocket hub, keyed by session id.
type consumerService struct {
	pubSub *gochannel.GoChannel
	topic  string
	hub    *websocket.Hub
	log    logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, topic string, hub *websocket.Hub, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub: pubSub,
		topic:  topic,
		hub:    hub,
		log:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var evt events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		cs.log.Error("Consumer", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid payloads are not retriable
		return
	}

	sid, err := uuid.Parse(evt.SessionID)
	if err != nil {
		cs.log.Warn("Consumer", "Event without a valid session id", map[string]interface{}{"type": evt.Type})
		msg.Ack()
		return
	}

	cs.hub.Send(sid, msg.Payload)
	msg.Ack()
}
