package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hpdsk/helpdesk-service/internal/ai"
	"github.com/hpdsk/helpdesk-service/internal/domain"
	"github.com/hpdsk/helpdesk-service/internal/observability"
	"github.com/hpdsk/helpdesk-service/internal/repository"
	apperrors "github.com/hpdsk/helpdesk-service/pkg/util"
)

// Fallback insight text when narrative generation is unavailable or fails.
// Numeric sections of the report remain usable regardless.
const insightsUnavailableText = "Não foi possível gerar insights de IA para este relatório."

const maxSampleRecords = 3

// CategoryCount is one breakdown row.
type CategoryCount struct {
	Category domain.IssueCategory `json:"category"`
	Count    int                  `json:"count"`
}

// UrgencyCount is one breakdown row.
type UrgencyCount struct {
	Urgency domain.UrgencyLevel `json:"urgency"`
	Count   int                 `json:"count"`
}

// StatusCount is one breakdown row.
type StatusCount struct {
	Status domain.TicketStatus `json:"status"`
	Count  int                 `json:"count"`
}

// Report is a derived aggregate, recomputed on demand and never persisted.
type Report struct {
	TimeFrame         TimeFrame       `json:"time_frame"`
	PeriodDescription string          `json:"period_description"`
	Start             time.Time       `json:"start"`
	End               time.Time       `json:"end"`
	TotalTickets      int             `json:"total_tickets"`
	ResolvedTickets   int             `json:"resolved_tickets"`
	OpenTickets       int             `json:"open_tickets"`
	CancelledTickets  int             `json:"cancelled_tickets"`
	PendingAITickets  int             `json:"pending_ai_tickets"`
	PendingUserTicket int             `json:"pending_user_tickets"`
	TicketsByCategory []CategoryCount `json:"tickets_by_category"`
	TicketsByUrgency  []UrgencyCount  `json:"tickets_by_urgency"`
	TicketsByStatus   []StatusCount   `json:"tickets_by_status"`
	AIInsights        string          `json:"ai_insights"`
}

// ReportService computes calendar-window ticket reports and requests a prose
// insight block from the generation provider.
type ReportService struct {
	tickets   repository.TicketRepository
	tasks     repository.TaskRepository
	equipment repository.EquipmentRepository
	aiClient  ai.Client
	metrics   *observability.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	TicketRepo    repository.TicketRepository
	TaskRepo      repository.TaskRepository
	EquipmentRepo repository.EquipmentRepository
	AIClient      ai.Client
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		tickets:   deps.TicketRepo,
		tasks:     deps.TaskRepo,
		equipment: deps.EquipmentRepo,
		aiClient:  deps.AIClient,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		now:       time.Now,
	}
}

// Generate resolves the frame's window, tabulates tickets created inside it
// and attaches a narrative insight. Narrative failure degrades to a
// placeholder string; it never fails the report.
func (s *ReportService) Generate(ctx context.Context, frame TimeFrame) (*Report, error) {
	window, err := ResolveWindow(frame, s.now())
	if err != nil {
		return nil, err
	}

	tickets, err := s.tickets.List(ctx, repository.TicketFilter{
		CreatedFrom: &window.Start,
		CreatedTo:   &window.End,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	tickets = FilterByWindow(tickets, window)

	report := Tabulate(window, tickets)

	// Tasks and equipment give the analyst cross-entity context only; they
	// are not filtered by the ticket window.
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		s.logger.Warn("report task samples", zap.Error(err))
		tasks = nil
	}
	items, err := s.equipment.List(ctx, repository.EquipmentFilter{})
	if err != nil {
		s.logger.Warn("report equipment samples", zap.Error(err))
		items = nil
	}

	report.AIInsights = s.narrative(ctx, report, tickets, tasks, items)
	return report, nil
}

// FilterByWindow keeps tickets created inside the window, bounds inclusive.
// Idempotent: filtering an already-filtered set returns the same set.
func FilterByWindow(tickets []domain.Ticket, window ReportWindow) []domain.Ticket {
	filtered := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if window.Contains(ticket.CreatedAt) {
			filtered = append(filtered, ticket)
		}
	}
	return filtered
}

// Tabulate computes the scalar counts and the three breakdowns. Breakdowns
// drop zero-count rows and sort descending by count; ties keep enum
// declaration order.
func Tabulate(window ReportWindow, tickets []domain.Ticket) *Report {
	report := &Report{
		TimeFrame:         window.Frame,
		PeriodDescription: window.Description,
		Start:             window.Start,
		End:               window.End,
		TotalTickets:      len(tickets),
	}

	byCategory := map[domain.IssueCategory]int{}
	byUrgency := map[domain.UrgencyLevel]int{}
	byStatus := map[domain.TicketStatus]int{}
	for _, ticket := range tickets {
		byCategory[ticket.Category]++
		byUrgency[ticket.Urgency]++
		byStatus[ticket.Status]++
	}

	report.OpenTickets = byStatus[domain.TicketStatusOpen]
	report.PendingAITickets = byStatus[domain.TicketStatusPendingAI]
	report.PendingUserTicket = byStatus[domain.TicketStatusPendingUser]
	report.ResolvedTickets = byStatus[domain.TicketStatusResolved]
	report.CancelledTickets = byStatus[domain.TicketStatusCancelled]

	for _, category := range domain.IssueCategories() {
		if count := byCategory[category]; count > 0 {
			report.TicketsByCategory = append(report.TicketsByCategory, CategoryCount{Category: category, Count: count})
		}
	}
	sort.SliceStable(report.TicketsByCategory, func(i, j int) bool {
		return report.TicketsByCategory[i].Count > report.TicketsByCategory[j].Count
	})

	for _, urgency := range domain.UrgencyLevels() {
		if count := byUrgency[urgency]; count > 0 {
			report.TicketsByUrgency = append(report.TicketsByUrgency, UrgencyCount{Urgency: urgency, Count: count})
		}
	}
	sort.SliceStable(report.TicketsByUrgency, func(i, j int) bool {
		return report.TicketsByUrgency[i].Count > report.TicketsByUrgency[j].Count
	})

	for _, status := range domain.TicketStatuses() {
		if count := byStatus[status]; count > 0 {
			report.TicketsByStatus = append(report.TicketsByStatus, StatusCount{Status: status, Count: count})
		}
	}
	sort.SliceStable(report.TicketsByStatus, func(i, j int) bool {
		return report.TicketsByStatus[i].Count > report.TicketsByStatus[j].Count
	})

	return report
}

func (s *ReportService) narrative(ctx context.Context, report *Report, tickets []domain.Ticket, tasks []domain.Task, items []domain.EquipmentItem) string {
	if !s.aiClient.Available() {
		return insightsUnavailableText
	}
	s.metrics.RecordNarrativeRequest()

	prompt := buildReportPrompt(report, tickets, tasks, items)
	text, err := s.aiClient.GenerateOnce(ctx, prompt, ai.ReportAnalystSystemInstruction)
	if err != nil {
		s.logger.Warn("report narrative generation", zap.Error(err))
		return insightsUnavailableText
	}
	return text
}

// buildReportPrompt embeds the computed statistics and up to three verbatim
// samples of tickets, tasks and equipment items.
func buildReportPrompt(report *Report, tickets []domain.Ticket, tasks []domain.Task, items []domain.EquipmentItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Período do relatório: %s\n\n", report.PeriodDescription)
	fmt.Fprintf(&b, "Estatísticas de tickets:\n")
	fmt.Fprintf(&b, "- Total: %d\n", report.TotalTickets)
	fmt.Fprintf(&b, "- Abertos: %d\n", report.OpenTickets)
	fmt.Fprintf(&b, "- Aguardando IA: %d\n", report.PendingAITickets)
	fmt.Fprintf(&b, "- Aguardando usuário: %d\n", report.PendingUserTicket)
	fmt.Fprintf(&b, "- Resolvidos: %d\n", report.ResolvedTickets)
	fmt.Fprintf(&b, "- Cancelados: %d\n", report.CancelledTickets)

	b.WriteString("\nPor categoria:\n")
	for _, row := range report.TicketsByCategory {
		fmt.Fprintf(&b, "- %s: %d\n", row.Category, row.Count)
	}
	b.WriteString("\nPor urgência:\n")
	for _, row := range report.TicketsByUrgency {
		fmt.Fprintf(&b, "- %s: %d\n", row.Urgency, row.Count)
	}
	b.WriteString("\nPor status:\n")
	for _, row := range report.TicketsByStatus {
		fmt.Fprintf(&b, "- %s: %d\n", row.Status, row.Count)
	}

	b.WriteString("\nAmostras de tickets:\n")
	for i, ticket := range tickets {
		if i == maxSampleRecords {
			break
		}
		fmt.Fprintf(&b, "- [%s/%s] %s: %s\n", ticket.Category, ticket.Urgency, ticket.UserName, ticket.Description)
	}
	b.WriteString("\nAmostras de tarefas:\n")
	for i, task := range tasks {
		if i == maxSampleRecords {
			break
		}
		fmt.Fprintf(&b, "- [%s/%s] %s: %s\n", task.Status, task.Priority, task.Name, task.Subject)
	}
	b.WriteString("\nAmostras de equipamentos:\n")
	for i, item := range items {
		if i == maxSampleRecords {
			break
		}
		fmt.Fprintf(&b, "- [%s] %s (%s)\n", item.Status, item.Name, item.Type)
	}

	b.WriteString("\nGere um resumo analítico do período com destaques, riscos e recomendações.")
	return b.String()
}
