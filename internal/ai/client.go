// Package ai wraps the hosted generation provider behind a small interface:
// conversational sessions with token streaming, plus one-shot text generation.
package ai

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when no provider credential is configured. It is
// a first-class condition, distinct from a mid-stream failure: callers must
// abort before issuing any write.
var ErrUnavailable = errors.New("generation provider not configured")

// Role tags a history turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one role-tagged entry of a conversation history.
type Turn struct {
	Role Role
	Text string
}

// Chunk is one increment of a token stream.
type Chunk struct {
	Text string
}

// Stream is an asynchronous, finite, non-restartable sequence of chunks.
// Next returns io.EOF at exhaustion.
type Stream interface {
	Next() (Chunk, error)
	Close() error
}

// Session is a stateful conversational context seeded with a system
// instruction and history. Implementations accumulate turns across sends.
type Session interface {
	StreamSend(ctx context.Context, prompt string) (Stream, error)
}

// Client is the generation provider boundary.
type Client interface {
	Available() bool
	CreateSession(systemInstruction string, history []Turn) (Session, error)
	GenerateOnce(ctx context.Context, prompt, systemInstruction string) (string, error)
}
