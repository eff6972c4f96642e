package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/hpdsk/helpdesk-service/internal/ai"
	"github.com/hpdsk/helpdesk-service/internal/domain"
	"github.com/hpdsk/helpdesk-service/internal/events"
	"github.com/hpdsk/helpdesk-service/internal/observability"
	apperrors "github.com/hpdsk/helpdesk-service/pkg/util"
)

type conversationFixture struct {
	service    *ConversationService
	tickets    *mockTicketRepo
	messages   *mockMessageRepo
	client     *fakeAIClient
	locker     *fakeLocker
	dispatcher *recordingDispatcher
}

func newConversationFixture(client *fakeAIClient) *conversationFixture {
	fixture := &conversationFixture{
		tickets:    newMockTicketRepo(),
		messages:   newMockMessageRepo(),
		client:     client,
		locker:     newFakeLocker(),
		dispatcher: &recordingDispatcher{},
	}
	fixture.service = NewConversationService(ConversationDependencies{
		TicketRepo:  fixture.tickets,
		MessageRepo: fixture.messages,
		AIClient:    client,
		Locker:      fixture.locker,
		Hub:         NewStreamHub(),
		Dispatcher:  fixture.dispatcher,
		Metrics:     observability.NewMetrics(),
		Logger:      zap.NewNop(),
	})
	fixture.service.runAsync = func(fn func()) { fn() }
	return fixture
}

func validInput() CreateTicketInput {
	return CreateTicketInput{
		UserName:    "Maria Souza",
		Department:  "Financeiro",
		Category:    domain.CategoryHardware,
		Urgency:     domain.UrgencyCritical,
		Description: "printer jam",
	}
}

func TestCreateTicketStreamsToSettledTicket(t *testing.T) {
	session := &fakeSession{
		streamSendFunc: func(ctx context.Context, prompt string) (ai.Stream, error) {
			return &fakeStream{chunks: []string{"Ol", "á! ", "Vamos", " resolver."}}, nil
		},
	}
	client := &fakeAIClient{available: true, createSessionFunc: func(string, []ai.Turn) (ai.Session, error) {
		return session, nil
	}}
	fixture := newConversationFixture(client)

	ticket, err := fixture.service.CreateTicket(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if len(fixture.tickets.tickets) != 1 {
		t.Fatalf("expected exactly one ticket record, got %d", len(fixture.tickets.tickets))
	}
	if got := fixture.tickets.status(ticket.ID); got != domain.TicketStatusPendingUser {
		t.Fatalf("final status = %s, want %s", got, domain.TicketStatusPendingUser)
	}
	msgs, _ := fixture.messages.ListByTicket(context.Background(), ticket.ID)
	if len(msgs) != 1 {
		t.Fatalf("expected one AI message, got %d", len(msgs))
	}
	if msgs[0].Text != "Olá! Vamos resolver." {
		t.Fatalf("message text = %q", msgs[0].Text)
	}
	settled := fixture.dispatcher.byType(events.EventAIResponseSettled)
	if len(settled) != 1 {
		t.Fatalf("expected one settled event, got %d", len(settled))
	}
	payload := settled[0].Payload.(events.AIResponseSettledPayload)
	if payload.Outcome != events.AIOutcomeSuccess || payload.Chunks != 4 {
		t.Fatalf("settled payload = %+v", payload)
	}
	if fixture.locker.releases == 0 {
		t.Fatal("turn lease never released")
	}
}

func TestCreateTicketValidatesInput(t *testing.T) {
	fixture := newConversationFixture(&fakeAIClient{available: true})

	input := validInput()
	input.Description = "   "
	_, err := fixture.service.CreateTicket(context.Background(), input)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
	if fixture.tickets.writeCount() != 0 || fixture.messages.writeCount() != 0 {
		t.Fatal("validation failure must not write")
	}
}

func TestCreateTicketRejectsWhenAIUnavailable(t *testing.T) {
	fixture := newConversationFixture(&fakeAIClient{available: false})

	_, err := fixture.service.CreateTicket(context.Background(), validInput())
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "AI_UNAVAILABLE" {
		t.Fatalf("expected AI_UNAVAILABLE, got %v", err)
	}
	if fixture.tickets.writeCount() != 0 {
		t.Fatal("unavailable AI must abort before any write")
	}
}

func TestCreateTicketSessionFailureRevertsToOpen(t *testing.T) {
	client := &fakeAIClient{available: true, createSessionFunc: func(string, []ai.Turn) (ai.Session, error) {
		return nil, errors.New("no credential")
	}}
	fixture := newConversationFixture(client)

	ticket, err := fixture.service.CreateTicket(context.Background(), validInput())
	if err == nil {
		t.Fatal("expected error")
	}
	if ticket == nil || ticket.ID == "" {
		t.Fatal("error result must still carry the created ticket")
	}
	if got := fixture.tickets.status(ticket.ID); got != domain.TicketStatusOpen {
		t.Fatalf("status after session failure = %s, want OPEN", got)
	}
	msgs, _ := fixture.messages.ListByTicket(context.Background(), ticket.ID)
	if len(msgs) != 1 || msgs[0].Sender != domain.SenderAI {
		t.Fatalf("expected one visible AI failure message, got %+v", msgs)
	}
}

func TestCreateTicketClassifiesReportedError(t *testing.T) {
	session := &fakeSession{
		streamSendFunc: func(ctx context.Context, prompt string) (ai.Stream, error) {
			return &fakeStream{chunks: []string{"Erro:", " não foi possível analisar."}}, nil
		},
	}
	client := &fakeAIClient{available: true, createSessionFunc: func(string, []ai.Turn) (ai.Session, error) {
		return session, nil
	}}
	fixture := newConversationFixture(client)

	ticket, err := fixture.service.CreateTicket(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if got := fixture.tickets.status(ticket.ID); got != domain.TicketStatusOpen {
		t.Fatalf("AI-reported error must settle OPEN, got %s", got)
	}
	settled := fixture.dispatcher.byType(events.EventAIResponseSettled)
	payload := settled[0].Payload.(events.AIResponseSettledPayload)
	if payload.Outcome != events.AIOutcomeReportedError {
		t.Fatalf("outcome = %s", payload.Outcome)
	}
}

func TestCreateTicketEmptyStreamIsSuccess(t *testing.T) {
	session := &fakeSession{
		streamSendFunc: func(ctx context.Context, prompt string) (ai.Stream, error) {
			return &fakeStream{}, nil
		},
	}
	client := &fakeAIClient{available: true, createSessionFunc: func(string, []ai.Turn) (ai.Session, error) {
		return session, nil
	}}
	fixture := newConversationFixture(client)

	ticket, err := fixture.service.CreateTicket(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if got := fixture.tickets.status(ticket.ID); got != domain.TicketStatusPendingUser {
		t.Fatalf("empty stream must settle PENDING_USER, got %s", got)
	}
	msgs, _ := fixture.messages.ListByTicket(context.Background(), ticket.ID)
	if msgs[0].Text != "" {
		t.Fatalf("empty stream must finalize empty text, got %q", msgs[0].Text)
	}
}

func TestCreateTicketStreamErrorDiscardsPartialText(t *testing.T) {
	session := &fakeSession{
		streamSendFunc: func(ctx context.Context, prompt string) (ai.Stream, error) {
			return &fakeStream{chunks: []string{"parcial "}, errAt: 1, err: errors.New("connection reset")}, nil
		},
	}
	client := &fakeAIClient{available: true, createSessionFunc: func(string, []ai.Turn) (ai.Session, error) {
		return session, nil
	}}
	fixture := newConversationFixture(client)

	ticket, err := fixture.service.CreateTicket(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateTicket returns the ticket; consumption failure is async: %v", err)
	}
	if got := fixture.tickets.status(ticket.ID); got != domain.TicketStatusOpen {
		t.Fatalf("transport error must settle OPEN, got %s", got)
	}
	msgs, _ := fixture.messages.ListByTicket(context.Background(), ticket.ID)
	if msgs[0].Text != streamFailureText {
		t.Fatalf("partial text must be overwritten, got %q", msgs[0].Text)
	}
}

func TestSendMessageTerminalTicketRejectedWithoutWrites(t *testing.T) {
	fixture := newConversationFixture(&fakeAIClient{available: true})
	ticket := &domain.Ticket{UserName: "u", Department: "d", Category: domain.CategoryOther, Urgency: domain.UrgencyLow, Description: "x", Status: domain.TicketStatusResolved}
	if err := fixture.tickets.Create(context.Background(), ticket); err != nil {
		t.Fatal(err)
	}
	ticketWrites := fixture.tickets.writeCount()

	_, err := fixture.service.SendMessage(context.Background(), ticket.ID, "ainda com problema")
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "TICKET_TERMINAL" {
		t.Fatalf("expected TICKET_TERMINAL, got %v", err)
	}
	if fixture.tickets.writeCount() != ticketWrites || fixture.messages.writeCount() != 0 {
		t.Fatal("terminal rejection must perform zero writes")
	}
}

func TestSendMessageBusyLeaseRejectedWithoutWrites(t *testing.T) {
	fixture := newConversationFixture(&fakeAIClient{available: true})
	ticket := &domain.Ticket{UserName: "u", Department: "d", Category: domain.CategoryOther, Urgency: domain.UrgencyLow, Description: "x", Status: domain.TicketStatusPendingUser}
	if err := fixture.tickets.Create(context.Background(), ticket); err != nil {
		t.Fatal(err)
	}
	fixture.locker.held[ticket.ID] = true
	ticketWrites := fixture.tickets.writeCount()

	_, err := fixture.service.SendMessage(context.Background(), ticket.ID, "oi")
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "AI_BUSY" {
		t.Fatalf("expected AI_BUSY, got %v", err)
	}
	if fixture.tickets.writeCount() != ticketWrites || fixture.messages.writeCount() != 0 {
		t.Fatal("busy rejection must perform zero writes")
	}
}

func TestSendMessageRebuildsSessionFromHistory(t *testing.T) {
	session := &fakeSession{
		streamSendFunc: func(ctx context.Context, prompt string) (ai.Stream, error) {
			return &fakeStream{chunks: []string{"claro."}}, nil
		},
	}
	client := &fakeAIClient{available: true, createSessionFunc: func(string, []ai.Turn) (ai.Session, error) {
		return session, nil
	}}
	fixture := newConversationFixture(client)

	ticket := &domain.Ticket{UserName: "u", Department: "d", Category: domain.CategorySoftware, Urgency: domain.UrgencyMedium, Description: "x", Status: domain.TicketStatusPendingUser}
	if err := fixture.tickets.Create(context.Background(), ticket); err != nil {
		t.Fatal(err)
	}
	seed := []*domain.Message{
		{TicketID: ticket.ID, Sender: domain.SenderUser, Text: "não abre"},
		{TicketID: ticket.ID, Sender: domain.SenderAI, Text: "tente reiniciar"},
	}
	for _, msg := range seed {
		if err := fixture.messages.Create(context.Background(), msg); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := fixture.service.SendMessage(context.Background(), ticket.ID, "reiniciei e nada"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if client.sessionsCreated != 1 {
		t.Fatalf("sessionsCreated = %d, want 1", client.sessionsCreated)
	}
	if len(client.lastHistory) != 2 {
		t.Fatalf("history length = %d, want 2 (new message excluded)", len(client.lastHistory))
	}
	if client.lastHistory[0].Role != ai.RoleUser || client.lastHistory[1].Role != ai.RoleModel {
		t.Fatalf("history roles = %+v", client.lastHistory)
	}

	// Second follow-up reuses the cached session.
	if _, err := fixture.service.SendMessage(context.Background(), ticket.ID, "e agora?"); err != nil {
		t.Fatalf("second SendMessage: %v", err)
	}
	if client.sessionsCreated != 1 {
		t.Fatalf("cached session not reused, sessionsCreated = %d", client.sessionsCreated)
	}
}

func TestSendMessageStreamObtainFailure(t *testing.T) {
	session := &fakeSession{
		streamSendFunc: func(ctx context.Context, prompt string) (ai.Stream, error) {
			return nil, errors.New("stream refused")
		},
	}
	client := &fakeAIClient{available: true, createSessionFunc: func(string, []ai.Turn) (ai.Session, error) {
		return session, nil
	}}
	fixture := newConversationFixture(client)
	ticket := &domain.Ticket{UserName: "u", Department: "d", Category: domain.CategoryNetwork, Urgency: domain.UrgencyHigh, Description: "x", Status: domain.TicketStatusOpen}
	if err := fixture.tickets.Create(context.Background(), ticket); err != nil {
		t.Fatal(err)
	}

	_, err := fixture.service.SendMessage(context.Background(), ticket.ID, "sem rede")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := fixture.tickets.status(ticket.ID); got != domain.TicketStatusOpen {
		t.Fatalf("status = %s, want OPEN", got)
	}
	msgs, _ := fixture.messages.ListByTicket(context.Background(), ticket.ID)
	// user message plus the placeholder overwritten with the failure text
	if len(msgs) != 2 || msgs[1].Text != sendFailureText {
		t.Fatalf("messages = %+v", msgs)
	}
	if fixture.locker.releases == 0 {
		t.Fatal("lease must be released on failure")
	}
}

func TestChangeStatusNoopOnSameStatus(t *testing.T) {
	fixture := newConversationFixture(&fakeAIClient{available: true})
	ticket := &domain.Ticket{UserName: "u", Department: "d", Category: domain.CategoryOther, Urgency: domain.UrgencyLow, Description: "x", Status: domain.TicketStatusOpen}
	if err := fixture.tickets.Create(context.Background(), ticket); err != nil {
		t.Fatal(err)
	}
	writes := fixture.tickets.writeCount()

	updated, err := fixture.service.ChangeStatus(context.Background(), ticket.ID, domain.TicketStatusOpen)
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if updated.Status != domain.TicketStatusOpen {
		t.Fatalf("status = %s", updated.Status)
	}
	if fixture.tickets.writeCount() != writes {
		t.Fatal("same-status change must not write")
	}
}

func TestChangeStatusRejectsPendingAIAndInvalidTransitions(t *testing.T) {
	fixture := newConversationFixture(&fakeAIClient{available: true})
	ticket := &domain.Ticket{UserName: "u", Department: "d", Category: domain.CategoryOther, Urgency: domain.UrgencyLow, Description: "x", Status: domain.TicketStatusResolved}
	if err := fixture.tickets.Create(context.Background(), ticket); err != nil {
		t.Fatal(err)
	}

	if _, err := fixture.service.ChangeStatus(context.Background(), ticket.ID, domain.TicketStatusPendingAI); err == nil {
		t.Fatal("manual PENDING_AI must be rejected")
	}
	if _, err := fixture.service.ChangeStatus(context.Background(), ticket.ID, domain.TicketStatusOpen); err == nil {
		t.Fatal("transition out of RESOLVED must be rejected")
	}
}

func TestChangeStatusTransitionPublishesEvent(t *testing.T) {
	fixture := newConversationFixture(&fakeAIClient{available: true})
	ticket := &domain.Ticket{UserName: "u", Department: "d", Category: domain.CategoryOther, Urgency: domain.UrgencyLow, Description: "x", Status: domain.TicketStatusPendingUser}
	if err := fixture.tickets.Create(context.Background(), ticket); err != nil {
		t.Fatal(err)
	}

	updated, err := fixture.service.ChangeStatus(context.Background(), ticket.ID, domain.TicketStatusResolved)
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if updated.Status != domain.TicketStatusResolved {
		t.Fatalf("status = %s", updated.Status)
	}
	changed := fixture.dispatcher.byType(events.EventTicketStatusChanged)
	if len(changed) != 1 {
		t.Fatalf("expected one status-changed event, got %d", len(changed))
	}
}

func TestIsAIReportedError(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"Olá! Vamos resolver.", false},
		{"ERRO: algo deu errado", true},
		{"houve uma Falha: no processamento", true},
		{"", false},
		{"erro sem dois pontos", false},
	}
	for _, tc := range cases {
		if got := isAIReportedError(tc.text); got != tc.want {
			t.Errorf("isAIReportedError(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestGetTicketFlagsStreamingPlaceholder(t *testing.T) {
	fixture := newConversationFixture(&fakeAIClient{available: true})
	ticket := &domain.Ticket{UserName: "u", Department: "d", Category: domain.CategoryOther,
		Urgency: domain.UrgencyLow, Description: "x", Status: domain.TicketStatusPendingAI}
	if err := fixture.tickets.Create(context.Background(), ticket); err != nil {
		t.Fatal(err)
	}
	user := &domain.Message{TicketID: ticket.ID, Sender: domain.SenderUser, Text: "help"}
	placeholder := &domain.Message{TicketID: ticket.ID, Sender: domain.SenderAI, Text: placeholderText}
	for _, msg := range []*domain.Message{user, placeholder} {
		if err := fixture.messages.Create(context.Background(), msg); err != nil {
			t.Fatal(err)
		}
	}

	got, err := fixture.service.GetTicket(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if len(got.Conversation) != 2 {
		t.Fatalf("conversation len = %d", len(got.Conversation))
	}
	if got.Conversation[0].Streaming {
		t.Fatal("user message must not be flagged streaming")
	}
	if !got.Conversation[1].Streaming {
		t.Fatal("trailing AI message must be flagged streaming while PENDING_AI")
	}

	if _, err := fixture.tickets.UpdateStatus(context.Background(), ticket.ID, domain.TicketStatusPendingUser); err != nil {
		t.Fatal(err)
	}
	got, err = fixture.service.GetTicket(context.Background(), ticket.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Conversation[1].Streaming {
		t.Fatal("settled ticket must not flag streaming")
	}
}
