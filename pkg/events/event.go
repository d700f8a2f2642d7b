package events

import "time"

// Event types published on the session notification topic.
const (
	TypeNotificationCreated = "NOTIFICATION_CREATED"
	TypeNotificationRemoved = "NOTIFICATION_REMOVED"
)

// Event defines the contract for all system events.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

// BaseEvent is the concrete event shape carried over the in-process bus and
// down the WebSocket. SessionID routes it to the owning browser session.
type BaseEvent struct {
	Type       string                 `json:"type"`
	SessionID  string                 `json:"session_id"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
