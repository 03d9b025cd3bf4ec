package driven

import "context"

// LLMService generates chat completions from prompt messages.
//
// Implementations may include:
//   - OpenAI (or any API-compatible server)
//   - Ollama (local models)
type LLMService interface {
	// Chat conducts a multi-turn conversation and returns the complete
	// answer.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ChatStream conducts a multi-turn conversation, invoking onDelta
	// for each response fragment as it arrives. It returns when the
	// model signals completion, onDelta returns an error, or ctx is
	// cancelled. Cancellation must stop the underlying request promptly.
	ChatStream(ctx context.Context, messages []ChatMessage, opts ChatOptions, onDelta StreamFunc) error

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// StreamFunc receives one response fragment. Returning an error stops
// the stream.
type StreamFunc func(fragment string) error

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
