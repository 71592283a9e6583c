package notify

import "time"

const (
	EventStartupRegistered = "startup.registered"
	EventStartupApproved   = "startup.approved"
	EventStartupRejected   = "startup.rejected"
)

// Message is the envelope written to every websocket client.
type Message struct {
	Type   string    `json:"type"`
	Data   any       `json:"data,omitempty"`
	SentAt time.Time `json:"sent_at"`
}

func NewMessage(eventType string, data any) Message {
	return Message{Type: eventType, Data: data, SentAt: time.Now().UTC()}
}

// StartupDecision is the payload of approval and rejection events.
type StartupDecision struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}
