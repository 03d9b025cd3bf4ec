package domain

import "time"

// DefaultConversationTitle is the title given to a new conversation
// before any real content exists.
const DefaultConversationTitle = "New Chat"

// Conversation is a persisted multi-turn chat owned by a browser session.
type Conversation struct {
	// ID is the conversation identifier.
	ID string `json:"id"`

	// SessionID is the owning session.
	SessionID string `json:"sessionId"`

	// Title is the display title. Defaults to "New Chat" and is
	// auto-derived from the first user message once messages exist.
	Title string `json:"title"`

	// MessagesJSON is the serialised message list.
	MessagesJSON string `json:"messages"`

	// CreatedAt is when the conversation was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the conversation was last modified.
	UpdatedAt time.Time `json:"updatedAt"`
}
