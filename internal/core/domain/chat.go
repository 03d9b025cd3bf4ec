package domain

// Message roles recognised in conversation history.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single turn in a conversation history.
type ChatMessage struct {
	// Role is one of "user" or "assistant". Other roles are dropped
	// when the history is replayed into a prompt.
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// ChatRequest carries one user query plus its conversational context.
type ChatRequest struct {
	// Message is the user's question. Required.
	Message string `json:"message"`

	// History is the prior conversation, oldest first.
	History []ChatMessage `json:"history,omitempty"`

	// SystemPrompt overrides the default system prompt when non-blank.
	SystemPrompt string `json:"systemPrompt,omitempty"`

	// CollectionName selects the vector store collection to retrieve
	// from. Blank means the default collection.
	CollectionName string `json:"collectionName,omitempty"`
}

// ChatResponse is the result of a single-shot chat call.
type ChatResponse struct {
	// Message is the generated answer.
	Message string `json:"message"`

	// Sources are browsable doc paths for the distinct retrieved
	// chunks, in first-seen order.
	Sources []string `json:"sources"`

	// ProcessingTimeMs is the wall-clock time of the whole call.
	ProcessingTimeMs int64 `json:"processingTimeMs"`
}
