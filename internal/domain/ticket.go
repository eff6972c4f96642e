package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen        TicketStatus = "OPEN"
	TicketStatusPendingAI   TicketStatus = "PENDING_AI"
	TicketStatusPendingUser TicketStatus = "PENDING_USER"
	TicketStatusResolved    TicketStatus = "RESOLVED"
	TicketStatusCancelled   TicketStatus = "CANCELLED"
)

// IssueCategory classifies the reported problem.
type IssueCategory string

const (
	CategoryHardware IssueCategory = "Hardware"
	CategorySoftware IssueCategory = "Software"
	CategoryNetwork  IssueCategory = "Network"
	CategoryAccount  IssueCategory = "Account"
	CategoryOther    IssueCategory = "Other"
)

// UrgencyLevel enumerates requester-declared urgency.
type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "Low"
	UrgencyMedium   UrgencyLevel = "Medium"
	UrgencyHigh     UrgencyLevel = "High"
	UrgencyCritical UrgencyLevel = "Critical"
)

// IssueCategories lists categories in declaration order.
func IssueCategories() []IssueCategory {
	return []IssueCategory{CategoryHardware, CategorySoftware, CategoryNetwork, CategoryAccount, CategoryOther}
}

// UrgencyLevels lists urgency levels in declaration order.
func UrgencyLevels() []UrgencyLevel {
	return []UrgencyLevel{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical}
}

// TicketStatuses lists statuses in declaration order.
func TicketStatuses() []TicketStatus {
	return []TicketStatus{TicketStatusOpen, TicketStatusPendingAI, TicketStatusPendingUser, TicketStatusResolved, TicketStatusCancelled}
}

// Ticket is the aggregate for support requests with an attached AI conversation.
type Ticket struct {
	ID          string
	UserName    string
	Department  string
	Category    IssueCategory
	Urgency     UrgencyLevel
	Description string
	Status      TicketStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	// Conversation is loaded on demand; insertion order is chronological.
	Conversation []Message
}

// IsTerminal reports whether no further AI interaction is permitted.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusResolved || s == TicketStatusCancelled
}

// PENDING_AI is only ever entered by the orchestrator, and leaves it only
// through stream settlement, so manual transitions exclude it.
var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:        {TicketStatusPendingAI, TicketStatusResolved, TicketStatusCancelled},
	TicketStatusPendingAI:   {TicketStatusPendingUser, TicketStatusOpen},
	TicketStatusPendingUser: {TicketStatusPendingAI, TicketStatusResolved, TicketStatusCancelled},
	TicketStatusResolved:    {},
	TicketStatusCancelled:   {},
}

// CanTransition reports whether a status change is allowed by the lifecycle.
func CanTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
