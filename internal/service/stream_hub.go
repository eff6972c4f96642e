package service

import (
	"sync"

	"github.com/hpdsk/helpdesk-service/internal/domain"
)

// StreamEvent is one observable increment of an AI turn.
type StreamEvent struct {
	TicketID  string              `json:"ticket_id"`
	MessageID string              `json:"message_id"`
	Text      string              `json:"text,omitempty"`
	Final     bool                `json:"final"`
	Status    domain.TicketStatus `json:"status,omitempty"`
	Error     string              `json:"error,omitempty"`
}

const subscriberBuffer = 64

// StreamHub fans AI stream events out to per-ticket subscribers. Publishing
// never blocks: a subscriber that stopped draining (a torn-down view) has its
// events dropped rather than stalling the stream consumer.
type StreamHub struct {
	mu   sync.Mutex
	subs map[string]map[chan StreamEvent]struct{}
}

// NewStreamHub creates an empty hub.
func NewStreamHub() *StreamHub {
	return &StreamHub{subs: make(map[string]map[chan StreamEvent]struct{})}
}

// Subscribe registers interest in a ticket's stream events. The returned
// cancel function must be called when the subscriber goes away.
func (h *StreamHub) Subscribe(ticketID string) (<-chan StreamEvent, func()) {
	ch := make(chan StreamEvent, subscriberBuffer)

	h.mu.Lock()
	if h.subs[ticketID] == nil {
		h.subs[ticketID] = make(map[chan StreamEvent]struct{})
	}
	h.subs[ticketID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[ticketID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, ticketID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to current subscribers of the ticket.
func (h *StreamHub) Publish(event StreamEvent) {
	h.mu.Lock()
	targets := make([]chan StreamEvent, 0, len(h.subs[event.TicketID]))
	for ch := range h.subs[event.TicketID] {
		targets = append(targets, ch)
	}
	h.mu.Unlock()

	for _, ch := range targets {
		select {
		case ch <- event:
		default:
		}
	}
}
