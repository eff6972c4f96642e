package events

import (
	"time"

	"github.com/hpdsk/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketMessageAdded  EventType = "ticket_message_added"
	EventAIResponseSettled   EventType = "ai_response_settled"
	EventContractExpiring    EventType = "contract_expiring"
)

// AIOutcome classifies how an AI turn settled.
type AIOutcome string

const (
	AIOutcomeSuccess        AIOutcome = "success"
	AIOutcomeReportedError  AIOutcome = "ai_reported_error"
	AIOutcomeTransportError AIOutcome = "transport_error"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID string               `json:"ticket_id"`
	UserName string               `json:"user_name"`
	Category domain.IssueCategory `json:"category"`
	Urgency  domain.UrgencyLevel  `json:"urgency"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketID  string              `json:"ticket_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	TicketID    string               `json:"ticket_id"`
	MessageID   string               `json:"message_id"`
	Sender      domain.MessageSender `json:"sender"`
	BodyPreview string               `json:"body_preview"`
}

// AIResponseSettledPayload payload.
type AIResponseSettledPayload struct {
	TicketID    string              `json:"ticket_id"`
	MessageID   string              `json:"message_id"`
	Outcome     AIOutcome           `json:"outcome"`
	FinalStatus domain.TicketStatus `json:"final_status"`
	Chunks      int                 `json:"chunks"`
}

// ContractExpiringPayload payload.
type ContractExpiringPayload struct {
	ContractID     string    `json:"contract_id"`
	CompanyName    string    `json:"company_name"`
	ContractNumber string    `json:"contract_number"`
	ExpiresAt      time.Time `json:"expires_at"`
}
