package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// StreamFunc receives one response fragment during a streaming chat.
// Returning an error stops the stream.
type StreamFunc func(fragment string) error

// ChatService answers user queries grounded in retrieved document chunks.
type ChatService interface {
	// Chat runs retrieval and generation for one request and returns
	// the complete answer with source attribution and elapsed time.
	// Retrieval failures degrade to an answer without context;
	// generation failures are returned as errors.
	Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error)

	// ChatStream is Chat in streaming mode: fragments are pushed to
	// onDelta as they arrive. Cancelling ctx stops the underlying
	// generation promptly. No elapsed-time measurement is taken.
	ChatStream(ctx context.Context, req domain.ChatRequest, onDelta StreamFunc) error

	// DefaultSystemPrompt returns the built-in system prompt.
	DefaultSystemPrompt() string
}
