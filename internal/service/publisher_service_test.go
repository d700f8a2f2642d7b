package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"contract-review-fe/internal/entity"
	"contract-review-fe/internal/pkg/logger"
	"contract-review-fe/internal/session"
	"contract-review-fe/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "TEST_NOTIFICATIONS"

func TestPublisherEmitsCreatedEvent(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	messages, err := pubSub.Subscribe(ctx, testTopic)
	require.NoError(t, err)

	sink := NewPublisherService(testTopic, pubSub, logger.Nop{})
	sid := uuid.New()
	toast := entity.Notification{
		ID:        uuid.NewString(),
		Message:   "Document uploaded successfully!",
		Severity:  entity.SeveritySuccess,
		CreatedAt: time.Now(),
	}

	sink.NotificationCreated(sid, toast)

	select {
	case msg := <-messages:
		msg.Ack()
		var evt events.BaseEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &evt))
		assert.Equal(t, events.TypeNotificationCreated, evt.Type)
		assert.Equal(t, sid.String(), evt.SessionID)

		payload := evt.Data["notification"].(map[string]interface{})
		assert.Equal(t, toast.ID, payload["id"])
		assert.Equal(t, toast.Message, payload["message"])
	case <-ctx.Done():
		t.Fatal("no event published")
	}
}

func TestPublisherEmitsRemovedEvent(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	messages, err := pubSub.Subscribe(ctx, testTopic)
	require.NoError(t, err)

	sink := NewPublisherService(testTopic, pubSub, logger.Nop{})
	sid := uuid.New()

	sink.NotificationRemoved(sid, "toast-7", session.RemovalExpired)

	select {
	case msg := <-messages:
		msg.Ack()
		var evt events.BaseEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &evt))
		assert.Equal(t, events.TypeNotificationRemoved, evt.Type)
		assert.Equal(t, "toast-7", evt.Data["notification_id"])
		assert.Equal(t, session.RemovalExpired, evt.Data["reason"])
	case <-ctx.Done():
		t.Fatal("no event published")
	}
}

// The sink interface is what the session core sees; this pins the publisher
// to it at compile time and exercises the full toast-to-event path.
func TestControllerNotificationsReachTheBus(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	messages, err := pubSub.Subscribe(ctx, testTopic)
	require.NoError(t, err)

	sink := NewPublisherService(testTopic, pubSub, logger.Nop{})
	ctrl := session.NewController(uuid.New(), nil, nil, sink, session.WithNotificationTTL(time.Minute))

	n := ctrl.Notify("Analysis completed!", entity.SeveritySuccess)

	select {
	case msg := <-messages:
		msg.Ack()
		var evt events.BaseEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &evt))
		assert.Equal(t, events.TypeNotificationCreated, evt.Type)
		assert.Equal(t, ctrl.ID().String(), evt.SessionID)
		payload := evt.Data["notification"].(map[string]interface{})
		assert.Equal(t, n.ID, payload["id"])
	case <-ctx.Done():
		t.Fatal("no event published")
	}
}
