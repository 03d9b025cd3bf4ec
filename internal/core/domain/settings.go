package domain

// AIProvider identifies an AI service provider for embeddings or chat.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API or a compatible server.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// LLMSettings configures the chat generation service.
type LLMSettings struct {
	// Provider selects the backend.
	Provider AIProvider

	// Model is the model name. Empty uses the provider default.
	Model string

	// BaseURL overrides the provider's API endpoint.
	BaseURL string

	// APIKey authenticates cloud providers.
	APIKey string
}

// IsConfigured returns true when enough is set to build a client.
func (s *LLMSettings) IsConfigured() bool {
	if s == nil || !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// EmbeddingSettings configures the embedding service.
type EmbeddingSettings struct {
	// Provider selects the backend.
	Provider AIProvider

	// Model is the model name. Empty uses the provider default.
	Model string

	// BaseURL overrides the provider's API endpoint.
	BaseURL string

	// APIKey authenticates cloud providers.
	APIKey string
}

// IsConfigured returns true when enough is set to build a client.
func (s *EmbeddingSettings) IsConfigured() bool {
	if s == nil || !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}
