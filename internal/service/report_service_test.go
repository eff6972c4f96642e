package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hpdsk/helpdesk-service/internal/domain"
	"github.com/hpdsk/helpdesk-service/internal/observability"
)

func newReportFixture(tickets *mockTicketRepo, client *fakeAIClient) *ReportService {
	svc := NewReportService(ReportDependencies{
		TicketRepo:    tickets,
		TaskRepo:      &mockTaskRepo{},
		EquipmentRepo: &mockEquipmentRepo{},
		AIClient:      client,
		Metrics:       observability.NewMetrics(),
		Logger:        zap.NewNop(),
	})
	svc.now = func() time.Time { return anchor }
	return svc
}

func seedTicket(t *testing.T, repo *mockTicketRepo, status domain.TicketStatus, category domain.IssueCategory, createdAt time.Time) {
	t.Helper()
	ticket := &domain.Ticket{
		UserName:    "u",
		Department:  "d",
		Category:    category,
		Urgency:     domain.UrgencyMedium,
		Description: "x",
		Status:      status,
	}
	if err := repo.Create(context.Background(), ticket); err != nil {
		t.Fatal(err)
	}
	repo.tickets[ticket.ID].CreatedAt = createdAt
}

func TestGenerateReportToday(t *testing.T) {
	tickets := newMockTicketRepo()
	yesterday := anchor.AddDate(0, 0, -1)
	seedTicket(t, tickets, domain.TicketStatusResolved, domain.CategoryHardware, anchor)
	seedTicket(t, tickets, domain.TicketStatusResolved, domain.CategorySoftware, anchor.Add(-2*time.Hour))
	seedTicket(t, tickets, domain.TicketStatusOpen, domain.CategoryHardware, anchor.Add(-4*time.Hour))
	seedTicket(t, tickets, domain.TicketStatusOpen, domain.CategoryHardware, yesterday)
	seedTicket(t, tickets, domain.TicketStatusCancelled, domain.CategoryOther, yesterday)

	svc := newReportFixture(tickets, &fakeAIClient{available: true, generateOnceFunc: func(ctx context.Context, prompt, instruction string) (string, error) {
		return "resumo analítico", nil
	}})

	report, err := svc.Generate(context.Background(), FrameToday)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if report.TotalTickets != 3 {
		t.Fatalf("total = %d, want 3", report.TotalTickets)
	}
	if report.ResolvedTickets != 2 || report.OpenTickets != 1 {
		t.Fatalf("resolved/open = %d/%d", report.ResolvedTickets, report.OpenTickets)
	}
	wantStatus := []StatusCount{
		{Status: domain.TicketStatusResolved, Count: 2},
		{Status: domain.TicketStatusOpen, Count: 1},
	}
	if len(report.TicketsByStatus) != len(wantStatus) {
		t.Fatalf("status rows = %+v", report.TicketsByStatus)
	}
	for i, want := range wantStatus {
		if report.TicketsByStatus[i] != want {
			t.Fatalf("status row %d = %+v, want %+v", i, report.TicketsByStatus[i], want)
		}
	}
	if report.AIInsights != "resumo analítico" {
		t.Fatalf("insights = %q", report.AIInsights)
	}
	if report.PeriodDescription != "Diário - 15/03/2025" {
		t.Fatalf("period = %q", report.PeriodDescription)
	}
}

func TestGenerateReportNarrativeFailureDegrades(t *testing.T) {
	tickets := newMockTicketRepo()
	seedTicket(t, tickets, domain.TicketStatusOpen, domain.CategoryNetwork, anchor)

	svc := newReportFixture(tickets, &fakeAIClient{available: true, generateOnceFunc: func(ctx context.Context, prompt, instruction string) (string, error) {
		return "", errors.New("quota exceeded")
	}})

	report, err := svc.Generate(context.Background(), FrameToday)
	if err != nil {
		t.Fatalf("narrative failure must not fail the report: %v", err)
	}
	if report.AIInsights != insightsUnavailableText {
		t.Fatalf("insights = %q", report.AIInsights)
	}
	if report.TotalTickets != 1 {
		t.Fatalf("numeric sections must remain usable, total = %d", report.TotalTickets)
	}
}

func TestGenerateReportAIUnavailableDegrades(t *testing.T) {
	tickets := newMockTicketRepo()
	svc := newReportFixture(tickets, &fakeAIClient{available: false})

	report, err := svc.Generate(context.Background(), FrameThisWeek)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if report.AIInsights != insightsUnavailableText {
		t.Fatalf("insights = %q", report.AIInsights)
	}
}

func TestFilterByWindowIsIdempotent(t *testing.T) {
	window, err := ResolveWindow(FrameToday, anchor)
	if err != nil {
		t.Fatal(err)
	}
	set := []domain.Ticket{
		{ID: "a", CreatedAt: anchor},
		{ID: "b", CreatedAt: anchor.AddDate(0, 0, -2)},
		{ID: "c", CreatedAt: window.Start},
		{ID: "d", CreatedAt: window.End},
	}
	once := FilterByWindow(set, window)
	twice := FilterByWindow(once, window)
	if len(once) != 3 || len(twice) != len(once) {
		t.Fatalf("filter not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("sets differ at %d", i)
		}
	}
}

func TestTabulateCountsSumAndOrdering(t *testing.T) {
	window, err := ResolveWindow(FrameThisMonth, anchor)
	if err != nil {
		t.Fatal(err)
	}
	set := []domain.Ticket{
		{Status: domain.TicketStatusOpen, Category: domain.CategoryHardware, Urgency: domain.UrgencyHigh, CreatedAt: anchor},
		{Status: domain.TicketStatusOpen, Category: domain.CategorySoftware, Urgency: domain.UrgencyHigh, CreatedAt: anchor},
		{Status: domain.TicketStatusResolved, Category: domain.CategoryHardware, Urgency: domain.UrgencyLow, CreatedAt: anchor},
		{Status: domain.TicketStatusPendingUser, Category: domain.CategoryHardware, Urgency: domain.UrgencyCritical, CreatedAt: anchor},
	}
	report := Tabulate(window, set)

	sum := 0
	for _, row := range report.TicketsByCategory {
		if row.Count == 0 {
			t.Fatal("zero-count row present")
		}
		sum += row.Count
	}
	if sum != len(set) {
		t.Fatalf("category counts sum to %d, want %d", sum, len(set))
	}
	for i := 1; i < len(report.TicketsByStatus); i++ {
		if report.TicketsByStatus[i-1].Count < report.TicketsByStatus[i].Count {
			t.Fatal("status rows not sorted non-increasing")
		}
	}
	// Equal counts keep declaration order: OPEN before PENDING_USER and RESOLVED.
	if report.TicketsByCategory[0].Category != domain.CategoryHardware {
		t.Fatalf("first category = %s", report.TicketsByCategory[0].Category)
	}
	if report.TicketsByUrgency[0].Urgency != domain.UrgencyHigh {
		t.Fatalf("first urgency = %s", report.TicketsByUrgency[0].Urgency)
	}
	if report.OpenTickets != 2 || report.ResolvedTickets != 1 || report.PendingUserTicket != 1 {
		t.Fatalf("scalar counts = %+v", report)
	}
}

func TestBuildReportPromptSampleCap(t *testing.T) {
	window, _ := ResolveWindow(FrameToday, anchor)
	set := make([]domain.Ticket, 5)
	for i := range set {
		set[i] = domain.Ticket{Category: domain.CategoryOther, Urgency: domain.UrgencyLow, UserName: "u", Description: "d", CreatedAt: anchor}
	}
	report := Tabulate(window, set)
	prompt := buildReportPrompt(report, set, nil, nil)

	count := strings.Count(prompt, "] u: d")
	if count != maxSampleRecords {
		t.Fatalf("ticket samples = %d, want %d", count, maxSampleRecords)
	}
}
