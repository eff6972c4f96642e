package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hpdsk/helpdesk-service/internal/domain"
)

// MessageRepository manages ticket conversation messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	UpdateText(ctx context.Context, id, text string) (*domain.Message, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Message, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository builds repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	const query = `
        INSERT INTO messages (ticket_id, sender_type, text_content)
        VALUES ($1,$2,$3)
        RETURNING id, timestamp, updated_at`
	return r.pool.QueryRow(ctx, query,
		msg.TicketID,
		msg.Sender,
		msg.Text,
	).Scan(&msg.ID, &msg.Timestamp, &msg.UpdatedAt)
}

// UpdateText finalizes a placeholder message with its full text.
func (r *messageRepository) UpdateText(ctx context.Context, id, text string) (*domain.Message, error) {
	const query = `
        UPDATE messages SET text_content=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING id, ticket_id, sender_type, text_content, timestamp, updated_at`
	var msg domain.Message
	if err := r.pool.QueryRow(ctx, query, text, id).Scan(
		&msg.ID,
		&msg.TicketID,
		&msg.Sender,
		&msg.Text,
		&msg.Timestamp,
		&msg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Message, error) {
	const query = `
        SELECT id, ticket_id, sender_type, text_content, timestamp, updated_at
        FROM messages WHERE ticket_id=$1 ORDER BY timestamp ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.TicketID,
			&msg.Sender,
			&msg.Text,
			&msg.Timestamp,
			&msg.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
