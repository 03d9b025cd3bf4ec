package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure ConversationService implements the interface.
var _ driving.ConversationService = (*ConversationService)(nil)

// titleMaxLen caps auto-derived conversation titles.
const titleMaxLen = 40

// ConversationService manages persisted conversations per session.
type ConversationService struct {
	store driven.ConversationStore
}

// NewConversationService creates a new conversation service.
func NewConversationService(store driven.ConversationStore) *ConversationService {
	return &ConversationService{store: store}
}

// List returns a session's conversations, most recently updated first.
func (s *ConversationService) List(ctx context.Context, sessionID string) ([]domain.Conversation, error) {
	if sessionID == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.store.ListBySession(ctx, sessionID)
}

// Get returns one conversation, or domain.ErrNotFound.
func (s *ConversationService) Get(ctx context.Context, sessionID, conversationID string) (*domain.Conversation, error) {
	if sessionID == "" || conversationID == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.store.Get(ctx, sessionID, conversationID)
}

// Create starts a new conversation with the default title and an empty
// message list.
func (s *ConversationService) Create(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	if sessionID == "" {
		return nil, domain.ErrInvalidInput
	}

	conv := &domain.Conversation{
		ID:           uuid.New().String(),
		SessionID:    sessionID,
		Title:        domain.DefaultConversationTitle,
		MessagesJSON: "[]",
	}

	if err := s.store.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	logger.Debug("Created conversation %s for session %s", conv.ID, sessionID)
	return conv, nil
}

// Update changes the title and/or serialised messages. Nil fields are
// left untouched. While the title is still the default, a messages
// update auto-derives the title from the first user message.
func (s *ConversationService) Update(ctx context.Context, sessionID, conversationID string, title, messagesJSON *string) (*domain.Conversation, error) {
	conv, err := s.Get(ctx, sessionID, conversationID)
	if err != nil {
		return nil, err
	}

	if title != nil {
		conv.Title = *title
	}
	if messagesJSON != nil {
		conv.MessagesJSON = *messagesJSON

		// An explicit title wins over derivation.
		if title == nil && conv.Title == domain.DefaultConversationTitle {
			if derived := deriveTitle(*messagesJSON); derived != "" {
				conv.Title = derived
			}
		}
	}

	if err := s.store.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("update conversation: %w", err)
	}
	return conv, nil
}

// Delete removes a conversation. Returns false when it did not exist.
func (s *ConversationService) Delete(ctx context.Context, sessionID, conversationID string) (bool, error) {
	if sessionID == "" || conversationID == "" {
		return false, domain.ErrInvalidInput
	}

	err := s.store.Delete(ctx, sessionID, conversationID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// deriveTitle extracts a title from the first user message of a
// serialised message list. Long messages are truncated with an ellipsis.
// Returns "" when no user message exists or the payload does not parse.
func deriveTitle(messagesJSON string) string {
	var messages []domain.ChatMessage
	if err := json.Unmarshal([]byte(messagesJSON), &messages); err != nil {
		logger.Warn("Cannot derive title from messages: %v", err)
		return ""
	}

	for _, msg := range messages {
		if msg.Role != domain.RoleUser || msg.Content == "" {
			continue
		}
		if len(msg.Content) > titleMaxLen {
			return msg.Content[:titleMaxLen] + "..."
		}
		return msg.Content
	}
	return ""
}
