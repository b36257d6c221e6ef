package repo

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/opsdesk-poc/server/internal/agent/model"
)

// MemoryConversationRepository keeps transcripts in process memory. Used
// when no Redis URL is configured; state is lost on restart.
type MemoryConversationRepository struct {
	mu      sync.RWMutex
	byConvo map[string][]*schema.Message
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{byConvo: make(map[string][]*schema.Message)}
}

func (r *MemoryConversationRepository) AddMessage(ctx context.Context, conversationID string, message *schema.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byConvo[conversationID] = append(r.byConvo[conversationID], message)
	return nil
}

func (r *MemoryConversationRepository) LoadHistory(ctx context.Context, conversationID string) (*model.ConversationHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.byConvo[conversationID]
	msgs := make([]*schema.Message, len(stored))
	copy(msgs, stored)
	return &model.ConversationHistory{ConversationID: conversationID, Messages: msgs}, nil
}

func (r *MemoryConversationRepository) ReplaceHistory(ctx context.Context, conversationID string, messages []*schema.Message) error {
	msgs := make([]*schema.Message, len(messages))
	copy(msgs, messages)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byConvo[conversationID] = msgs
	return nil
}

func (r *MemoryConversationRepository) ClearHistory(ctx context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byConvo, conversationID)
	return nil
}

func (r *MemoryConversationRepository) GetMessageCount(ctx context.Context, conversationID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConvo[conversationID]), nil
}

var _ model.ConversationRepository = (*MemoryConversationRepository)(nil)
