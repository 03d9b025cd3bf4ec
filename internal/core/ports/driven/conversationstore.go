package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ConversationStore persists conversations keyed by (session, conversation).
// Backed by SQLite.
type ConversationStore interface {
	// Save stores or updates a conversation.
	Save(ctx context.Context, conv *domain.Conversation) error

	// Get retrieves a conversation owned by the given session.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, sessionID, conversationID string) (*domain.Conversation, error)

	// ListBySession returns a session's conversations, most recently
	// updated first.
	ListBySession(ctx context.Context, sessionID string) ([]domain.Conversation, error)

	// Delete removes a conversation owned by the given session.
	// Returns domain.ErrNotFound when absent.
	Delete(ctx context.Context, sessionID, conversationID string) error

	// Close closes the underlying storage.
	Close() error
}
