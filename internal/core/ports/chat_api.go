package ports

import (
	"context"

	"github.com/cineai/cineai-go/internal/core/domain"
)

// ChatAPI is the remote chat surface. All operations require an
// authenticated session.
type ChatAPI interface {
	SendMessage(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error)
	Conversations(ctx context.Context) ([]domain.Conversation, error)
	Conversation(ctx context.Context, id string) (*domain.Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
	Models(ctx context.Context) ([]domain.ChatModel, error)
}
