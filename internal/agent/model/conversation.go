package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// ConversationRepository stores ordered per-conversation transcripts.
// LoadHistory on an unknown id returns an empty transcript (get-or-create).
// A turn must persist its outcome only via ReplaceHistory so that a failed
// turn leaves the store at its pre-turn state.
type ConversationRepository interface {
	// AddMessage appends a message to the conversation history.
	AddMessage(ctx context.Context, conversationID string, message *schema.Message) error

	// LoadHistory retrieves the conversation history for a conversation.
	LoadHistory(ctx context.Context, conversationID string) (*ConversationHistory, error)

	// ReplaceHistory swaps the stored transcript with the finalized one.
	ReplaceHistory(ctx context.Context, conversationID string, messages []*schema.Message) error

	// ClearHistory removes all conversation history for a conversation.
	ClearHistory(ctx context.Context, conversationID string) error

	// GetMessageCount returns the number of messages in the conversation.
	GetMessageCount(ctx context.Context, conversationID string) (int, error)
}

// ConversationHistory represents loaded conversation data with metadata.
type ConversationHistory struct {
	ConversationID string
	Messages       []*schema.Message
}
