package handlers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/hpdsk/helpdesk-service/internal/api/dto"
	"github.com/hpdsk/helpdesk-service/internal/domain"
	"github.com/hpdsk/helpdesk-service/internal/repository"
	"github.com/hpdsk/helpdesk-service/internal/service"
	apperrors "github.com/hpdsk/helpdesk-service/pkg/util"
)

// streamIdleTimeout bounds how long an SSE subscriber is kept open with no
// events before the handler closes the response.
const streamIdleTimeout = 5 * time.Minute

// TicketsHandler manages ticket and conversation endpoints.
type TicketsHandler struct {
	service *service.ConversationService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(conversationService *service.ConversationService) *TicketsHandler {
	return &TicketsHandler{service: conversationService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), service.CreateTicketInput{
		UserName:    req.UserName,
		Department:  req.Department,
		Category:    req.Category,
		Urgency:     req.Urgency,
		Description: req.Description,
	})
	if err != nil {
		// The ticket may exist even though the AI turn could not start.
		// Return it so the caller can still navigate to it.
		if ticket != nil {
			var domainErr *apperrors.DomainError
			status := http.StatusServiceUnavailable
			message := err.Error()
			if errors.As(err, &domainErr) {
				status = domainErr.HTTPStatus
				message = domainErr.Message
			}
			return c.Status(status).JSON(fiber.Map{
				"data":     dto.NewTicketSummary(ticket),
				"feedback": dto.Feedback{Kind: dto.FeedbackError, Message: message},
			})
		}
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data":     dto.NewTicketSummary(ticket),
		"feedback": dto.SuccessFeedback("Ticket criado com sucesso."),
	})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListTickets(c.UserContext(), parseTicketQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

// AddMessage POST /tickets/:id/messages.
func (h *TicketsHandler) AddMessage(c *fiber.Ctx) error {
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.service.SendMessage(c.UserContext(), c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMessageResponse(msg)})
}

// ChangeStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.ChangeStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":     dto.NewTicketSummary(ticket),
		"feedback": dto.SuccessFeedback("Status atualizado."),
	})
}

// StreamTicket GET /tickets/:id/stream serves the ticket's AI turn events
// over SSE. The subscription ends on the turn's final event, idle timeout or
// client disconnect.
func (h *TicketsHandler) StreamTicket(c *fiber.Ctx) error {
	ticketID := c.Params("id")
	if _, err := h.service.GetTicket(c.UserContext(), ticketID); err != nil {
		return err
	}

	events, cancel := h.service.Hub().Subscribe(ticketID)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		idle := time.NewTimer(streamIdleTimeout)
		defer idle.Stop()
		for {
			select {
			case event := <-events:
				payload, err := json.Marshal(event)
				if err != nil {
					return
				}
				fmt.Fprintf(w, "data: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					return
				}
				if event.Final {
					return
				}
				if !idle.Stop() {
					<-idle.C
				}
				idle.Reset(streamIdleTimeout)
			case <-idle.C:
				return
			}
		}
	}))
	return nil
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if categoryStr := c.Query("category"); categoryStr != "" {
		for _, part := range strings.Split(categoryStr, ",") {
			filter.Categories = append(filter.Categories, domain.IssueCategory(strings.TrimSpace(part)))
		}
	}
	if urgencyStr := c.Query("urgency"); urgencyStr != "" {
		for _, part := range strings.Split(urgencyStr, ",") {
			filter.Urgencies = append(filter.Urgencies, domain.UrgencyLevel(strings.TrimSpace(part)))
		}
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.SearchTerm = &search
	}
	if from := parseTime(c.Query("created_from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("created_to")); to != nil {
		filter.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
