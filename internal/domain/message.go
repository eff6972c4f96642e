package domain

import "time"

// MessageSender indicates who authored a conversation message.
type MessageSender string

const (
	SenderUser MessageSender = "user"
	SenderAI   MessageSender = "ai"
)

// Message is a single entry in a ticket conversation.
type Message struct {
	ID        string
	TicketID  string
	Sender    MessageSender
	Text      string
	Timestamp time.Time
	UpdatedAt time.Time
	// Streaming marks the message currently receiving chunks. It is local
	// state only and is never persisted. At most one message per ticket may
	// have it set.
	Streaming bool
}
