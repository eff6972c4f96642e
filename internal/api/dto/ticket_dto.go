package dto

import (
	"time"

	"github.com/hpdsk/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	UserName    string               `json:"user_name"`
	Department  string               `json:"department"`
	Category    domain.IssueCategory `json:"category"`
	Urgency     domain.UrgencyLevel  `json:"urgency"`
	Description string               `json:"description"`
}

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Text string `json:"text"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// TicketSummary response.
type TicketSummary struct {
	ID          string               `json:"id"`
	UserName    string               `json:"user_name"`
	Department  string               `json:"department"`
	Category    domain.IssueCategory `json:"category"`
	Urgency     domain.UrgencyLevel  `json:"urgency"`
	Description string               `json:"description"`
	Status      domain.TicketStatus  `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info including conversation.
type TicketDetailResponse struct {
	TicketSummary
	Conversation []MessageResponse `json:"conversation"`
}

// MessageResponse represents one conversation message.
type MessageResponse struct {
	ID        string               `json:"id"`
	TicketID  string               `json:"ticket_id"`
	Sender    domain.MessageSender `json:"sender"`
	Text      string               `json:"text"`
	Streaming bool                 `json:"streaming,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// NewTicketSummary maps a domain ticket.
func NewTicketSummary(ticket *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:          ticket.ID,
		UserName:    ticket.UserName,
		Department:  ticket.Department,
		Category:    ticket.Category,
		Urgency:     ticket.Urgency,
		Description: ticket.Description,
		Status:      ticket.Status,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

// NewTicketDetail maps a domain ticket with its conversation.
func NewTicketDetail(ticket *domain.Ticket) TicketDetailResponse {
	conversation := make([]MessageResponse, 0, len(ticket.Conversation))
	for i := range ticket.Conversation {
		conversation = append(conversation, NewMessageResponse(&ticket.Conversation[i]))
	}
	return TicketDetailResponse{
		TicketSummary: NewTicketSummary(ticket),
		Conversation:  conversation,
	}
}

// NewMessageResponse maps a domain message.
func NewMessageResponse(msg *domain.Message) MessageResponse {
	return MessageResponse{
		ID:        msg.ID,
		TicketID:  msg.TicketID,
		Sender:    msg.Sender,
		Text:      msg.Text,
		Streaming: msg.Streaming,
		Timestamp: msg.Timestamp,
		UpdatedAt: msg.UpdatedAt,
	}
}
