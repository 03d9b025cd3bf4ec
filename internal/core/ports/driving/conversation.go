package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ConversationService manages persisted conversations per session.
type ConversationService interface {
	// List returns a session's conversations, most recently updated first.
	List(ctx context.Context, sessionID string) ([]domain.Conversation, error)

	// Get returns one conversation, or domain.ErrNotFound.
	Get(ctx context.Context, sessionID, conversationID string) (*domain.Conversation, error)

	// Create starts a new conversation titled "New Chat".
	Create(ctx context.Context, sessionID string) (*domain.Conversation, error)

	// Update changes the title and/or serialised messages. Nil fields
	// are left untouched. While the title is still the default, a
	// messages update auto-derives the title from the first user
	// message. Returns domain.ErrNotFound for an unknown conversation.
	Update(ctx context.Context, sessionID, conversationID string, title, messagesJSON *string) (*domain.Conversation, error)

	// Delete removes a conversation. Returns false when it did not exist.
	Delete(ctx context.Context, sessionID, conversationID string) (bool, error)
}
