package ai

import (
	"strings"
	"testing"

	"github.com/hpdsk/helpdesk-service/internal/domain"
)

func TestInitialTicketPromptEmbedsTicketFields(t *testing.T) {
	ticket := &domain.Ticket{
		ID:          "ticket-1",
		UserName:    "Maria",
		Category:    domain.CategoryNetwork,
		Urgency:     domain.UrgencyHigh,
		Description: "sem acesso à VPN",
	}
	prompt := InitialTicketPrompt(ticket)

	for _, want := range []string{"ticket-1", "Maria", "Network", "High", `"sem acesso à VPN"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Count(prompt, "Maria") != 2 {
		t.Errorf("user name should appear in header and greeting")
	}
}
