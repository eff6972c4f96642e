package persistence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TurnLocker serializes AI turns per ticket. Acquire returns false when
// another turn already holds the lease.
type TurnLocker interface {
	Acquire(ctx context.Context, ticketID string) (bool, error)
	Release(ctx context.Context, ticketID string) error
}

// RedisTurnLocker implements TurnLocker with a SETNX lease. The TTL bounds
// how long a wedged stream can block follow-ups on its ticket.
type RedisTurnLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTurnLocker builds a locker over an existing client.
func NewRedisTurnLocker(client *redis.Client, ttl time.Duration) *RedisTurnLocker {
	if ttl <= 0 {
		ttl = 3 * time.Minute
	}
	return &RedisTurnLocker{client: client, ttl: ttl}
}

func turnKey(ticketID string) string {
	return "hpdsk:ai_turn:" + ticketID
}

// Acquire takes the per-ticket lease.
func (l *RedisTurnLocker) Acquire(ctx context.Context, ticketID string) (bool, error) {
	return l.client.SetNX(ctx, turnKey(ticketID), "1", l.ttl).Result()
}

// Release drops the lease early once the turn settles.
func (l *RedisTurnLocker) Release(ctx context.Context, ticketID string) error {
	return l.client.Del(ctx, turnKey(ticketID)).Err()
}
