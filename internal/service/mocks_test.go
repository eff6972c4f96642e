package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hpdsk/helpdesk-service/internal/ai"
	"github.com/hpdsk/helpdesk-service/internal/domain"
	"github.com/hpdsk/helpdesk-service/internal/events"
	"github.com/hpdsk/helpdesk-service/internal/repository"
)

type mockTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
	nextID  int
	writes  int

	createFunc       func(ctx context.Context, ticket *domain.Ticket) error
	updateStatusFunc func(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error)
}

func newMockTicketRepo() *mockTicketRepo {
	return &mockTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (m *mockTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, ticket)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.nextID++
	ticket.ID = fmt.Sprintf("ticket-%d", m.nextID)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	m.tickets[ticket.ID] = &stored
	return nil
}

func (m *mockTicketRepo) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ticket, ok := m.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	m.writes++
	ticket.Status = status
	ticket.UpdatedAt = time.Now()
	copied := *ticket
	return &copied, nil
}

func (m *mockTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ticket, ok := m.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (m *mockTicketRepo) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Ticket, 0, len(m.tickets))
	for _, ticket := range m.tickets {
		out = append(out, *ticket)
	}
	return out, nil
}

func (m *mockTicketRepo) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *mockTicketRepo) status(id string) domain.TicketStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ticket, ok := m.tickets[id]; ok {
		return ticket.Status
	}
	return ""
}

type mockMessageRepo struct {
	mu       sync.Mutex
	messages []*domain.Message
	nextID   int
	writes   int

	createFunc     func(ctx context.Context, msg *domain.Message) error
	updateTextFunc func(ctx context.Context, id, text string) (*domain.Message, error)
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{}
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.nextID++
	msg.ID = fmt.Sprintf("msg-%d", m.nextID)
	msg.Timestamp = time.Now()
	msg.UpdatedAt = msg.Timestamp
	stored := *msg
	m.messages = append(m.messages, &stored)
	return nil
}

func (m *mockMessageRepo) UpdateText(ctx context.Context, id, text string) (*domain.Message, error) {
	if m.updateTextFunc != nil {
		return m.updateTextFunc(ctx, id, text)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.ID == id {
			m.writes++
			msg.Text = text
			msg.UpdatedAt = time.Now()
			copied := *msg
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockMessageRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Message, 0, len(m.messages))
	for _, msg := range m.messages {
		if msg.TicketID == ticketID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepo) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *mockMessageRepo) byID(id string) *domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.ID == id {
			copied := *msg
			return &copied
		}
	}
	return nil
}

type mockTaskRepo struct {
	tasks []domain.Task
}

func (m *mockTaskRepo) Create(ctx context.Context, task *domain.Task) error {
	task.ID = fmt.Sprintf("task-%d", len(m.tasks)+1)
	m.tasks = append(m.tasks, *task)
	return nil
}

func (m *mockTaskRepo) Update(ctx context.Context, task *domain.Task) error { return nil }
func (m *mockTaskRepo) Delete(ctx context.Context, id string) error        { return nil }

func (m *mockTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			return &m.tasks[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockTaskRepo) List(ctx context.Context) ([]domain.Task, error) {
	return append([]domain.Task{}, m.tasks...), nil
}

type mockEquipmentRepo struct {
	items []domain.EquipmentItem
}

func (m *mockEquipmentRepo) Create(ctx context.Context, item *domain.EquipmentItem) error {
	item.ID = fmt.Sprintf("equip-%d", len(m.items)+1)
	m.items = append(m.items, *item)
	return nil
}

func (m *mockEquipmentRepo) Update(ctx context.Context, item *domain.EquipmentItem) error { return nil }
func (m *mockEquipmentRepo) Delete(ctx context.Context, id string) error                  { return nil }

func (m *mockEquipmentRepo) GetByID(ctx context.Context, id string) (*domain.EquipmentItem, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			return &m.items[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockEquipmentRepo) List(ctx context.Context, filter repository.EquipmentFilter) ([]domain.EquipmentItem, error) {
	return append([]domain.EquipmentItem{}, m.items...), nil
}

type fakeStream struct {
	chunks []string
	errAt  int
	err    error
	pos    int
	closed bool
}

func (s *fakeStream) Next() (ai.Chunk, error) {
	if s.err != nil && s.pos == s.errAt {
		return ai.Chunk{}, s.err
	}
	if s.pos >= len(s.chunks) {
		return ai.Chunk{}, io.EOF
	}
	chunk := ai.Chunk{Text: s.chunks[s.pos]}
	s.pos++
	return chunk, nil
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

type fakeSession struct {
	mu             sync.Mutex
	streamSendFunc func(ctx context.Context, prompt string) (ai.Stream, error)
	prompts        []string
}

func (s *fakeSession) StreamSend(ctx context.Context, prompt string) (ai.Stream, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	if s.streamSendFunc != nil {
		return s.streamSendFunc(ctx, prompt)
	}
	return &fakeStream{}, nil
}

type fakeAIClient struct {
	available         bool
	createSessionFunc func(systemInstruction string, history []ai.Turn) (ai.Session, error)
	generateOnceFunc  func(ctx context.Context, prompt, systemInstruction string) (string, error)
	sessionsCreated   int
	lastHistory       []ai.Turn
}

func (c *fakeAIClient) Available() bool { return c.available }

func (c *fakeAIClient) CreateSession(systemInstruction string, history []ai.Turn) (ai.Session, error) {
	c.sessionsCreated++
	c.lastHistory = history
	if c.createSessionFunc != nil {
		return c.createSessionFunc(systemInstruction, history)
	}
	return &fakeSession{}, nil
}

func (c *fakeAIClient) GenerateOnce(ctx context.Context, prompt, systemInstruction string) (string, error) {
	if c.generateOnceFunc != nil {
		return c.generateOnceFunc(ctx, prompt, systemInstruction)
	}
	return "ok", nil
}

type fakeLocker struct {
	mu         sync.Mutex
	held       map[string]bool
	acquireErr error
	denyAll    bool
	acquires   int
	releases   int
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (l *fakeLocker) Acquire(ctx context.Context, ticketID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.acquires++
	if l.acquireErr != nil {
		return false, l.acquireErr
	}
	if l.denyAll || l.held[ticketID] {
		return false, nil
	}
	l.held[ticketID] = true
	return true, nil
}

func (l *fakeLocker) Release(ctx context.Context, ticketID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.releases++
	delete(l.held, ticketID)
	return nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}
