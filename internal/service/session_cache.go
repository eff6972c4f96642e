package service

import (
	"sync"

	"github.com/hpdsk/helpdesk-service/internal/ai"
)

// SessionCache holds at most one live generation session per ticket id for
// the lifetime of the process. Sessions are created lazily and are never
// persisted; a fresh process reconstructs them from conversation history.
type SessionCache struct {
	mu       sync.Mutex
	sessions map[string]ai.Session
}

// NewSessionCache creates an empty cache.
func NewSessionCache() *SessionCache {
	return &SessionCache{sessions: make(map[string]ai.Session)}
}

// Get returns the cached session for a ticket, if any.
func (c *SessionCache) Get(ticketID string) (ai.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	session, ok := c.sessions[ticketID]
	return session, ok
}

// Put stores the session for a ticket, replacing any previous one.
func (c *SessionCache) Put(ticketID string, session ai.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[ticketID] = session
}

// Drop removes a ticket's session.
func (c *SessionCache) Drop(ticketID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, ticketID)
}

// Len reports the number of cached sessions.
func (c *SessionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}
