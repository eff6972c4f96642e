package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hpdsk/helpdesk-service/internal/ai"
	"github.com/hpdsk/helpdesk-service/internal/domain"
	"github.com/hpdsk/helpdesk-service/internal/events"
	"github.com/hpdsk/helpdesk-service/internal/observability"
	"github.com/hpdsk/helpdesk-service/internal/persistence"
	"github.com/hpdsk/helpdesk-service/internal/repository"
	apperrors "github.com/hpdsk/helpdesk-service/pkg/util"
)

// Failure texts persisted when an AI turn cannot settle normally. The partial
// streamed content is overwritten, never kept.
const (
	placeholderText      = "..."
	streamFailureText    = "Desculpe, erro ao processar com a IA."
	sendFailureText      = "Erro ao enviar mensagem para IA."
	createFailurePrefix  = "Ticket criado, mas IA indisponível: "
	sessionFailureText   = "Falha ao criar sessão de chat com a IA."
	obtainStreamFailText = "Falha ao obter stream da IA."
)

// ConversationService drives a ticket from creation or follow-up through the
// AI response to a settled status, keeping persisted state and observable
// local state consistent across stream failures.
type ConversationService struct {
	tickets    repository.TicketRepository
	messages   repository.MessageRepository
	aiClient   ai.Client
	locker     persistence.TurnLocker
	sessions   *SessionCache
	hub        *StreamHub
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger

	turnTimeout time.Duration
	// runAsync schedules stream consumption; tests replace it to run inline.
	runAsync func(func())
}

// ConversationDependencies bundles collaborators for the orchestrator.
type ConversationDependencies struct {
	TicketRepo  repository.TicketRepository
	MessageRepo repository.MessageRepository
	AIClient    ai.Client
	Locker      persistence.TurnLocker
	Hub         *StreamHub
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	TurnTimeout time.Duration
}

// CreateTicketInput describes ticket creation payload. All fields are
// required and must be non-empty after trimming.
type CreateTicketInput struct {
	UserName    string
	Department  string
	Category    domain.IssueCategory
	Urgency     domain.UrgencyLevel
	Description string
}

// NewConversationService constructs the orchestrator.
func NewConversationService(deps ConversationDependencies) *ConversationService {
	timeout := deps.TurnTimeout
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	return &ConversationService{
		tickets:     deps.TicketRepo,
		messages:    deps.MessageRepo,
		aiClient:    deps.AIClient,
		locker:      deps.Locker,
		sessions:    NewSessionCache(),
		hub:         deps.Hub,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		turnTimeout: timeout,
		runAsync:    func(fn func()) { go fn() },
	}
}

// Hub exposes the stream hub for transport-level subscribers.
func (s *ConversationService) Hub() *StreamHub {
	return s.hub
}

// CreateTicket persists a new ticket and starts its AI conversation. The
// ticket row is committed and returned before the AI response settles:
// creation and AI response are separate, independently observable events.
// When the generation session or stream cannot be opened the ticket is
// reverted to OPEN and the returned error still carries the ticket, so
// callers can navigate to it.
func (s *ConversationService) CreateTicket(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	if err := validateCreateTicket(&input); err != nil {
		return nil, err
	}
	if !s.aiClient.Available() {
		return nil, apperrors.NewAIUnavailable("")
	}

	ticket := &domain.Ticket{
		UserName:    input.UserName,
		Department:  input.Department,
		Category:    input.Category,
		Urgency:     input.Urgency,
		Description: input.Description,
		Status:      domain.TicketStatusPendingAI,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type: events.EventTicketCreated,
		Payload: events.TicketCreatedPayload{
			TicketID: ticket.ID,
			UserName: ticket.UserName,
			Category: ticket.Category,
			Urgency:  ticket.Urgency,
		},
	})

	// A fresh ticket cannot be contended, so a failed acquire is advisory.
	if ok, err := s.locker.Acquire(ctx, ticket.ID); err != nil || !ok {
		s.logger.Warn("turn lease acquire on create", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}

	session, err := s.aiClient.CreateSession(ai.HelpDeskSystemInstruction, nil)
	if err != nil {
		return ticket, s.failBeforeStream(ctx, ticket, "", createFailurePrefix+err.Error())
	}
	s.sessions.Put(ticket.ID, session)

	placeholder := &domain.Message{TicketID: ticket.ID, Sender: domain.SenderAI, Text: placeholderText}
	if err := s.messages.Create(ctx, placeholder); err != nil {
		return ticket, s.failBeforeStream(ctx, ticket, "", createFailurePrefix+err.Error())
	}

	turnCtx, cancel := context.WithTimeout(context.Background(), s.turnTimeout)
	stream, err := session.StreamSend(turnCtx, ai.InitialTicketPrompt(ticket))
	if err != nil {
		cancel()
		return ticket, s.failBeforeStream(ctx, ticket, placeholder.ID, createFailurePrefix+err.Error())
	}

	s.metrics.RecordStreamStarted()
	s.runAsync(func() {
		defer cancel()
		s.consumeStream(turnCtx, ticket.ID, placeholder.ID, stream)
	})
	return ticket, nil
}

// SendMessage appends a user follow-up and requests the next AI response.
// Terminal tickets are rejected before any write. The per-ticket turn lease
// rejects a second concurrent follow-up instead of interleaving placeholders.
func (s *ConversationService) SendMessage(ctx context.Context, ticketID, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("message text required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ticket.Status.IsTerminal() {
		return nil, apperrors.NewTicketTerminal(ticketID)
	}
	if !s.aiClient.Available() {
		return nil, apperrors.NewAIUnavailable("")
	}

	acquired, err := s.locker.Acquire(ctx, ticketID)
	if err != nil {
		s.logger.Warn("turn lease unavailable; proceeding without it", zap.String("ticket_id", ticketID), zap.Error(err))
	} else if !acquired {
		return nil, apperrors.NewAIBusy(ticketID)
	}

	userMsg := &domain.Message{TicketID: ticketID, Sender: domain.SenderUser, Text: text}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		s.releaseLease(ticketID)
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type: events.EventTicketMessageAdded,
		Payload: events.TicketMessageAddedPayload{
			TicketID:    ticketID,
			MessageID:   userMsg.ID,
			Sender:      domain.SenderUser,
			BodyPreview: preview(text, 120),
		},
	})

	session, ok := s.sessions.Get(ticketID)
	if !ok {
		session, err = s.rebuildSession(ctx, ticketID, userMsg.ID)
		if err != nil {
			s.settleFailure(ctx, ticketID, "", sessionFailureText)
			return nil, apperrors.NewAIUnavailable(sessionFailureText)
		}
		s.sessions.Put(ticketID, session)
	}

	if _, err := s.tickets.UpdateStatus(ctx, ticketID, domain.TicketStatusPendingAI); err != nil {
		s.releaseLease(ticketID)
		return nil, apperrors.MapError(err)
	}

	placeholder := &domain.Message{TicketID: ticketID, Sender: domain.SenderAI, Text: placeholderText}
	if err := s.messages.Create(ctx, placeholder); err != nil {
		s.settleFailure(ctx, ticketID, "", sendFailureText)
		return nil, apperrors.MapError(err)
	}

	turnCtx, cancel := context.WithTimeout(context.Background(), s.turnTimeout)
	stream, err := session.StreamSend(turnCtx, text)
	if err != nil {
		cancel()
		s.settleFailure(ctx, ticketID, placeholder.ID, sendFailureText)
		return nil, apperrors.NewAIUnavailable(obtainStreamFailText)
	}

	s.metrics.RecordStreamStarted()
	s.runAsync(func() {
		defer cancel()
		s.consumeStream(turnCtx, ticketID, placeholder.ID, stream)
	})
	return userMsg, nil
}

// ChangeStatus applies a manual status change. Changing to the current
// status is a successful no-op with no write. Local callers refresh state
// from the returned record's timestamps, not from their own clock.
func (s *ConversationService) ChangeStatus(ctx context.Context, ticketID string, target domain.TicketStatus) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ticket.Status == target {
		return ticket, nil
	}
	if target == domain.TicketStatusPendingAI {
		return nil, apperrors.NewValidationError("status PENDING_AI is managed by the assistant", nil)
	}
	if !domain.CanTransition(ticket.Status, target) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   target,
		})
	}
	updated, err := s.tickets.UpdateStatus(ctx, ticketID, target)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type: events.EventTicketStatusChanged,
		Payload: events.TicketStatusChangedPayload{
			TicketID:  ticketID,
			OldStatus: ticket.Status,
			NewStatus: target,
		},
	})
	return updated, nil
}

// GetTicket fetches a ticket with its conversation loaded. While the ticket
// is PENDING_AI the trailing AI message is still receiving chunks, so it is
// flagged as streaming in the returned conversation.
func (s *ConversationService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	conversation, err := s.messages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ticket.Status == domain.TicketStatusPendingAI {
		if id := lastAIMessageID(conversation); id != "" {
			conversation = ApplyDelta(conversation, ConversationDelta{Chunk: &ChunkDelta{MessageID: id}})
		}
	}
	ticket.Conversation = conversation
	return ticket, nil
}

func lastAIMessageID(conversation []domain.Message) string {
	for i := len(conversation) - 1; i >= 0; i-- {
		if conversation[i].Sender == domain.SenderAI {
			return conversation[i].ID
		}
	}
	return ""
}

// ListTickets returns tickets matching the filter.
func (s *ConversationService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// consumeStream drives a token stream to exhaustion, then classifies the
// accumulated text and persists the finalized message and ticket status.
// The two writes are not atomic; a crash between them is an accepted
// inconsistency window.
func (s *ConversationService) consumeStream(ctx context.Context, ticketID, messageID string, stream ai.Stream) {
	defer stream.Close()
	defer s.releaseLease(ticketID)

	var accumulated strings.Builder
	chunks := 0
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.logger.Error("ai stream failed", zap.String("ticket_id", ticketID), zap.Error(err))
			s.metrics.RecordStreamFailed()
			s.settleFailure(ctx, ticketID, messageID, streamFailureText)
			return
		}
		chunks++
		accumulated.WriteString(chunk.Text)
		s.hub.Publish(StreamEvent{TicketID: ticketID, MessageID: messageID, Text: chunk.Text})
	}
	s.metrics.RecordChunks(chunks)

	fullText := accumulated.String()
	outcome := events.AIOutcomeSuccess
	finalStatus := domain.TicketStatusPendingUser
	if isAIReportedError(fullText) {
		outcome = events.AIOutcomeReportedError
		finalStatus = domain.TicketStatusOpen
	}

	if _, err := s.messages.UpdateText(ctx, messageID, fullText); err != nil {
		s.logger.Error("persist ai message", zap.String("ticket_id", ticketID), zap.Error(err))
		s.settleFailure(ctx, ticketID, "", streamFailureText)
		return
	}
	if _, err := s.tickets.UpdateStatus(ctx, ticketID, finalStatus); err != nil {
		s.logger.Error("persist ticket status", zap.String("ticket_id", ticketID), zap.Error(err))
	}

	s.hub.Publish(StreamEvent{TicketID: ticketID, MessageID: messageID, Final: true, Status: finalStatus})
	s.publishEvent(ctx, events.Event{
		Type: events.EventAIResponseSettled,
		Payload: events.AIResponseSettledPayload{
			TicketID:    ticketID,
			MessageID:   messageID,
			Outcome:     outcome,
			FinalStatus: finalStatus,
			Chunks:      chunks,
		},
	})
}

// failBeforeStream reverts a freshly created ticket to OPEN and records a
// visible AI failure message. messageID identifies an existing placeholder
// to overwrite; when empty a new error message is inserted.
func (s *ConversationService) failBeforeStream(ctx context.Context, ticket *domain.Ticket, messageID, text string) error {
	s.settleFailure(ctx, ticket.ID, messageID, text)
	return apperrors.NewDomainError("AI_UNAVAILABLE", text, 503, map[string]any{"ticket_id": ticket.ID})
}

// settleFailure persists the failure text, reverts the ticket to OPEN and
// releases the turn lease.
func (s *ConversationService) settleFailure(ctx context.Context, ticketID, messageID, text string) {
	if messageID != "" {
		if _, err := s.messages.UpdateText(ctx, messageID, text); err != nil {
			s.logger.Error("persist failure message", zap.String("ticket_id", ticketID), zap.Error(err))
		}
	} else {
		msg := &domain.Message{TicketID: ticketID, Sender: domain.SenderAI, Text: text}
		if err := s.messages.Create(ctx, msg); err != nil {
			s.logger.Error("insert failure message", zap.String("ticket_id", ticketID), zap.Error(err))
		}
		messageID = msg.ID
	}
	if _, err := s.tickets.UpdateStatus(ctx, ticketID, domain.TicketStatusOpen); err != nil {
		s.logger.Error("revert ticket status", zap.String("ticket_id", ticketID), zap.Error(err))
	}
	s.hub.Publish(StreamEvent{
		TicketID:  ticketID,
		MessageID: messageID,
		Final:     true,
		Status:    domain.TicketStatusOpen,
		Error:     text,
	})
	s.publishEvent(ctx, events.Event{
		Type: events.EventAIResponseSettled,
		Payload: events.AIResponseSettledPayload{
			TicketID:    ticketID,
			MessageID:   messageID,
			Outcome:     events.AIOutcomeTransportError,
			FinalStatus: domain.TicketStatusOpen,
		},
	})
	s.releaseLease(ticketID)
}

// rebuildSession replays the persisted conversation as role-tagged history,
// excluding the message just inserted for this turn.
func (s *ConversationService) rebuildSession(ctx context.Context, ticketID, excludeMessageID string) (ai.Session, error) {
	msgs, err := s.messages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	history := make([]ai.Turn, 0, len(msgs))
	for _, msg := range msgs {
		if msg.ID == excludeMessageID {
			continue
		}
		role := ai.RoleUser
		if msg.Sender == domain.SenderAI {
			role = ai.RoleModel
		}
		history = append(history, ai.Turn{Role: role, Text: msg.Text})
	}
	return s.aiClient.CreateSession(ai.HelpDeskSystemInstruction, history)
}

func (s *ConversationService) releaseLease(ticketID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.locker.Release(ctx, ticketID); err != nil {
		s.logger.Warn("turn lease release", zap.String("ticket_id", ticketID), zap.Error(err))
	}
}

func (s *ConversationService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// isAIReportedError applies the case-insensitive failure heuristic to the
// model's Portuguese output.
func isAIReportedError(text string) bool {
	lowered := strings.ToLower(text)
	return strings.Contains(lowered, "erro:") || strings.Contains(lowered, "falha:")
}

func validateCreateTicket(input *CreateTicketInput) error {
	input.UserName = strings.TrimSpace(input.UserName)
	input.Department = strings.TrimSpace(input.Department)
	input.Description = strings.TrimSpace(input.Description)
	missing := map[string]any{}
	if input.UserName == "" {
		missing["user_name"] = "required"
	}
	if input.Department == "" {
		missing["department"] = "required"
	}
	if input.Description == "" {
		missing["description"] = "required"
	}
	if !validCategory(input.Category) {
		missing["category"] = "invalid"
	}
	if !validUrgency(input.Urgency) {
		missing["urgency"] = "invalid"
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("invalid ticket payload", missing)
	}
	return nil
}

func validCategory(category domain.IssueCategory) bool {
	for _, candidate := range domain.IssueCategories() {
		if candidate == category {
			return true
		}
	}
	return false
}

func validUrgency(urgency domain.UrgencyLevel) bool {
	for _, candidate := range domain.UrgencyLevels() {
		if candidate == urgency {
			return true
		}
	}
	return false
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
