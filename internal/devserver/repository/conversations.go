package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cineai/cineai-go/internal/core/domain"
)

// Conversations stores chat threads per user, in memory. Dev chat history is
// intentionally ephemeral.
type Conversations struct {
	mu     sync.Mutex
	byUser map[int]map[string]*domain.Conversation
}

func NewConversations() *Conversations {
	return &Conversations{byUser: make(map[int]map[string]*domain.Conversation)}
}

// Append adds a message to the user's conversation, creating the
// conversation when id is empty or unknown, and returns the stored message.
func (c *Conversations) Append(userID int, conversationID, role, content, model string) (*domain.Conversation, domain.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	threads := c.byUser[userID]
	if threads == nil {
		threads = make(map[string]*domain.Conversation)
		c.byUser[userID] = threads
	}

	now := time.Now().UTC()
	conv := threads[conversationID]
	if conv == nil {
		conv = &domain.Conversation{
			ID:        uuid.NewString(),
			Title:     title(content),
			CreatedAt: now,
		}
		threads[conv.ID] = conv
	}

	msg := domain.ChatMessage{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		Role:           role,
		Content:        content,
		Model:          model,
		CreatedAt:      now,
	}
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = now
	return cloneConversation(conv), msg
}

// List returns the user's conversations, most recently updated first,
// without their message bodies.
func (c *Conversations) List(userID int) []domain.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Conversation, 0, len(c.byUser[userID]))
	for _, conv := range c.byUser[userID] {
		summary := *conv
		summary.Messages = nil
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

// Get returns one conversation with its messages.
func (c *Conversations) Get(userID int, id string) (*domain.Conversation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conv := c.byUser[userID][id]
	if conv == nil {
		return nil, domain.ErrConversationNotFound
	}
	return cloneConversation(conv), nil
}

// Delete removes one conversation.
func (c *Conversations) Delete(userID int, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.byUser[userID][id] == nil {
		return domain.ErrConversationNotFound
	}
	delete(c.byUser[userID], id)
	return nil
}

func cloneConversation(conv *domain.Conversation) *domain.Conversation {
	clone := *conv
	clone.Messages = append([]domain.ChatMessage(nil), conv.Messages...)
	return &clone
}

// title derives a conversation title from its opening message.
func title(content string) string {
	const max = 48
	if len(content) <= max {
		return content
	}
	return content[:max] + "…"
}
