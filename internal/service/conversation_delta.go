package service

import "github.com/hpdsk/helpdesk-service/internal/domain"

// ConversationDelta describes one local-state mutation of a ticket
// conversation. Exactly one field is set.
type ConversationDelta struct {
	// Append adds a message if no message with the same ID exists yet.
	Append *domain.Message
	// Chunk appends streamed text to the message with StreamingID.
	Chunk *ChunkDelta
	// FinalizeID clears the streaming flag of the identified message.
	FinalizeID string
}

// ChunkDelta carries one stream increment.
type ChunkDelta struct {
	MessageID string
	Text      string
	Final     bool
}

// ApplyDelta returns a new conversation slice with the delta applied. The
// input slice is never mutated; messages other than the one addressed are
// shared. Append is idempotent on message ID, preserving the append-only
// invariant of conversations.
func ApplyDelta(conversation []domain.Message, delta ConversationDelta) []domain.Message {
	switch {
	case delta.Append != nil:
		for _, msg := range conversation {
			if msg.ID == delta.Append.ID {
				return conversation
			}
		}
		out := make([]domain.Message, len(conversation), len(conversation)+1)
		copy(out, conversation)
		return append(out, *delta.Append)

	case delta.Chunk != nil:
		out := make([]domain.Message, len(conversation))
		copy(out, conversation)
		for i := range out {
			if out[i].ID == delta.Chunk.MessageID {
				out[i].Text += delta.Chunk.Text
				out[i].Streaming = !delta.Chunk.Final
			}
		}
		return out

	case delta.FinalizeID != "":
		out := make([]domain.Message, len(conversation))
		copy(out, conversation)
		for i := range out {
			if out[i].ID == delta.FinalizeID {
				out[i].Streaming = false
			}
		}
		return out
	}
	return conversation
}
