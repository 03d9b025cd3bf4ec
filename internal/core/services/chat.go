package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// DefaultTopK is the number of chunks retrieved per question when not
// configured otherwise.
const DefaultTopK = 5

// defaultSystemPrompt is the built-in system prompt, used when neither
// the request nor the prompt store provides an override.
const defaultSystemPrompt = `You are a helpful documentation assistant. Answer the user's question using the provided document context. Base your answers on the context; when the context does not contain the answer, say so rather than guessing. Be concise and cite the relevant documents by their titles when helpful.`

// contextTemplate wraps the retrieved document block before it is
// appended to the system prompt.
const contextTemplate = "\n\nContext from documents:\n%s\n"

// noContextPlaceholder stands in for the document block when retrieval
// returned nothing.
const noContextPlaceholder = "No relevant documents found."

// ChatService answers user queries grounded in retrieved document chunks.
type ChatService struct {
	vectorStore driven.VectorStore
	llm         driven.LLMService
	promptStore driven.SystemPromptStore
	topK        int
}

// NewChatService creates a new chat service. promptStore is optional.
func NewChatService(
	vectorStore driven.VectorStore,
	llm driven.LLMService,
	promptStore driven.SystemPromptStore,
	topK int,
) *ChatService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &ChatService{
		vectorStore: vectorStore,
		llm:         llm,
		promptStore: promptStore,
		topK:        topK,
	}
}

// Chat runs retrieval and generation for one request and returns the
// complete answer with source attribution and elapsed time.
func (s *ChatService) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	start := time.Now()

	if strings.TrimSpace(req.Message) == "" {
		return nil, domain.ErrInvalidInput
	}

	matches := s.retrieve(ctx, req)
	messages := s.buildMessages(req, matches)

	answer, err := s.llm.Chat(ctx, messages, driven.ChatOptions{})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.ChatResponse{
		Message:          answer,
		Sources:          sources(req.CollectionName, matches),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

// ChatStream is Chat in streaming mode: fragments are pushed to onDelta
// as they arrive from the model.
func (s *ChatService) ChatStream(ctx context.Context, req domain.ChatRequest, onDelta driving.StreamFunc) error {
	if strings.TrimSpace(req.Message) == "" {
		return domain.ErrInvalidInput
	}

	matches := s.retrieve(ctx, req)
	messages := s.buildMessages(req, matches)

	if err := s.llm.ChatStream(ctx, messages, driven.ChatOptions{}, driven.StreamFunc(onDelta)); err != nil {
		return fmt.Errorf("stream answer: %w", err)
	}
	return nil
}

// DefaultSystemPrompt returns the built-in system prompt.
func (s *ChatService) DefaultSystemPrompt() string {
	return defaultSystemPrompt
}

// retrieve runs the similarity search. Retrieval failures degrade to an
// unanchored answer instead of failing the chat.
func (s *ChatService) retrieve(ctx context.Context, req domain.ChatRequest) []driven.ChunkMatch {
	collection := effectiveCollection(req.CollectionName)

	logger.Section("Retrieval")
	logger.Debug("Collection: %s, topK: %d, query: %q", collection, s.topK, req.Message)

	matches, err := s.vectorStore.Search(ctx, collection, req.Message, s.topK)
	if err != nil {
		logger.Warn("Retrieval failed, answering without context: %v", err)
		return nil
	}

	logger.Info("Retrieved %d chunks", len(matches))
	return matches
}

// buildMessages assembles the prompt: system prompt plus document
// context, replayed history, then the user's message.
func (s *ChatService) buildMessages(req domain.ChatRequest, matches []driven.ChunkMatch) []driven.ChatMessage {
	system := s.systemPrompt(req) + fmt.Sprintf(contextTemplate, buildContext(matches))

	messages := make([]driven.ChatMessage, 0, len(req.History)+2)
	messages = append(messages, driven.ChatMessage{Role: domain.RoleSystem, Content: system})

	for _, msg := range req.History {
		// Only user and assistant turns are replayed.
		if msg.Role != domain.RoleUser && msg.Role != domain.RoleAssistant {
			continue
		}
		messages = append(messages, driven.ChatMessage{Role: msg.Role, Content: msg.Content})
	}

	messages = append(messages, driven.ChatMessage{Role: domain.RoleUser, Content: req.Message})
	return messages
}

// systemPrompt resolves the prompt: request override, then the stored
// override file, then the built-in default.
func (s *ChatService) systemPrompt(req domain.ChatRequest) string {
	if strings.TrimSpace(req.SystemPrompt) != "" {
		return req.SystemPrompt
	}

	if s.promptStore != nil {
		prompt, ok, err := s.promptStore.Load()
		if err != nil {
			logger.Warn("Failed to load system prompt override: %v", err)
		} else if ok {
			return prompt
		}
	}

	return defaultSystemPrompt
}

// buildContext formats the retrieved chunks into the document block.
func buildContext(matches []driven.ChunkMatch) string {
	if len(matches) == 0 {
		return noContextPlaceholder
	}

	var b strings.Builder
	for i, match := range matches {
		source := metaString(match.Metadata, domain.MetaSource)
		if source == "" {
			source = "unknown"
		}
		title := metaString(match.Metadata, domain.MetaTitle)

		if title != "" {
			fmt.Fprintf(&b, "\n--- Document %d (Source: %s, Title: %s) ---\n", i+1, source, title)
		} else {
			fmt.Fprintf(&b, "\n--- Document %d (Source: %s) ---\n", i+1, source)
		}
		b.WriteString(match.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// sources returns browsable doc paths for the distinct retrieved chunks,
// in first-seen order.
func sources(collectionName string, matches []driven.ChunkMatch) []string {
	collection := effectiveCollection(collectionName)

	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, match := range matches {
		source := metaString(match.Metadata, domain.MetaSource)
		if source == "" || seen[source] {
			continue
		}
		seen[source] = true
		out = append(out, fmt.Sprintf("/docs/%s/%s", collection, source))
	}
	return out
}

// effectiveCollection maps a blank name to the default collection.
func effectiveCollection(name string) string {
	if name == "" {
		return domain.DefaultCollection
	}
	return name
}

// metaString reads a string value out of chunk metadata.
func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}
