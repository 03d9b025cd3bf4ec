package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// fakeSearchStore serves canned search results.
type fakeSearchStore struct {
	matches    []driven.ChunkMatch
	searchErr  error
	collection string
	query      string
	topK       int
}

func (f *fakeSearchStore) Add(context.Context, string, []driven.ChunkRecord) error { return nil }

func (f *fakeSearchStore) Search(_ context.Context, collection, query string, topK int) ([]driven.ChunkMatch, error) {
	f.collection = collection
	f.query = query
	f.topK = topK
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.matches, nil
}

func (f *fakeSearchStore) DeleteCollection(context.Context, string) error { return nil }

func (f *fakeSearchStore) Close() error { return nil }

// fakeLLM records the prompt it was given and returns a fixed answer.
type fakeLLM struct {
	answer    string
	fragments []string
	err       error
	messages  []driven.ChatMessage
}

func (f *fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	f.messages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) ChatStream(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions, onDelta driven.StreamFunc) error {
	f.messages = messages
	if f.err != nil {
		return f.err
	}
	for _, fragment := range f.fragments {
		if err := onDelta(fragment); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeLLM) ModelName() string { return "fake-model" }

func (f *fakeLLM) Ping(context.Context) error { return nil }

func (f *fakeLLM) Close() error { return nil }

// fakePromptStore serves an in-memory override prompt.
type fakePromptStore struct {
	prompt  string
	exists  bool
	loadErr error
}

func (f *fakePromptStore) Load() (string, bool, error) {
	if f.loadErr != nil {
		return "", false, f.loadErr
	}
	return f.prompt, f.exists, nil
}

func (f *fakePromptStore) Save(prompt string) error {
	f.prompt, f.exists = prompt, true
	return nil
}

func (f *fakePromptStore) Reset() error {
	f.prompt, f.exists = "", false
	return nil
}

func (f *fakePromptStore) Path() string { return "memory" }

func match(content, source, title string) driven.ChunkMatch {
	meta := map[string]any{domain.MetaSource: source}
	if title != "" {
		meta[domain.MetaTitle] = title
	}
	return driven.ChunkMatch{Content: content, Metadata: meta, Score: 0.9}
}

func systemMessage(t *testing.T, messages []driven.ChatMessage) string {
	t.Helper()
	require.NotEmpty(t, messages)
	require.Equal(t, domain.RoleSystem, messages[0].Role)
	return messages[0].Content
}

func TestChatAnswersWithContext(t *testing.T) {
	store := &fakeSearchStore{matches: []driven.ChunkMatch{
		match("install with apt", "setup.html", "Setup Guide"),
	}}
	llm := &fakeLLM{answer: "Use apt."}
	svc := NewChatService(store, llm, nil, 3)

	resp, err := svc.Chat(context.Background(), domain.ChatRequest{Message: "how do I install?"})
	require.NoError(t, err)

	assert.Equal(t, "Use apt.", resp.Message)
	assert.Equal(t, []string{"/docs/documents/setup.html"}, resp.Sources)
	assert.GreaterOrEqual(t, resp.ProcessingTimeMs, int64(0))

	// Retrieval parameters.
	assert.Equal(t, domain.DefaultCollection, store.collection)
	assert.Equal(t, "how do I install?", store.query)
	assert.Equal(t, 3, store.topK)

	// The retrieved chunk is embedded in the system prompt.
	system := systemMessage(t, llm.messages)
	assert.Contains(t, system, "install with apt")
	assert.Contains(t, system, "Source: setup.html, Title: Setup Guide")
}

func TestChatNamedCollection(t *testing.T) {
	store := &fakeSearchStore{matches: []driven.ChunkMatch{
		match("content", "page.html", ""),
	}}
	svc := NewChatService(store, &fakeLLM{answer: "ok"}, nil, 0)

	resp, err := svc.Chat(context.Background(), domain.ChatRequest{
		Message:        "question",
		CollectionName: "api-docs",
	})
	require.NoError(t, err)

	assert.Equal(t, "api-docs", store.collection)
	assert.Equal(t, DefaultTopK, store.topK)
	assert.Equal(t, []string{"/docs/api-docs/page.html"}, resp.Sources)
}

func TestChatBlankMessage(t *testing.T) {
	svc := NewChatService(&fakeSearchStore{}, &fakeLLM{}, nil, 0)

	_, err := svc.Chat(context.Background(), domain.ChatRequest{Message: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.ChatStream(context.Background(), domain.ChatRequest{}, func(string) error { return nil })
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChatRetrievalFailureDegrades(t *testing.T) {
	store := &fakeSearchStore{searchErr: errors.New("chroma down")}
	llm := &fakeLLM{answer: "best effort"}
	svc := NewChatService(store, llm, nil, 0)

	resp, err := svc.Chat(context.Background(), domain.ChatRequest{Message: "question"})
	require.NoError(t, err)

	assert.Equal(t, "best effort", resp.Message)
	assert.Empty(t, resp.Sources)
	assert.Contains(t, systemMessage(t, llm.messages), noContextPlaceholder)
}

func TestChatGenerationFailurePropagates(t *testing.T) {
	genErr := errors.New("model overloaded")
	svc := NewChatService(&fakeSearchStore{}, &fakeLLM{err: genErr}, nil, 0)

	_, err := svc.Chat(context.Background(), domain.ChatRequest{Message: "question"})
	assert.ErrorIs(t, err, genErr)
}

func TestChatSourcesDistinctFirstSeen(t *testing.T) {
	store := &fakeSearchStore{matches: []driven.ChunkMatch{
		match("chunk 1", "b.html", ""),
		match("chunk 2", "a.html", ""),
		match("chunk 3", "b.html", ""),
		{Content: "no source", Metadata: map[string]any{}},
	}}
	svc := NewChatService(store, &fakeLLM{answer: "ok"}, nil, 0)

	resp, err := svc.Chat(context.Background(), domain.ChatRequest{Message: "question"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/docs/documents/b.html", "/docs/documents/a.html"}, resp.Sources)
}

func TestChatContextLabelsMissingSource(t *testing.T) {
	store := &fakeSearchStore{matches: []driven.ChunkMatch{
		{Content: "orphaned chunk", Metadata: map[string]any{}},
	}}
	llm := &fakeLLM{answer: "ok"}
	svc := NewChatService(store, llm, nil, 0)

	_, err := svc.Chat(context.Background(), domain.ChatRequest{Message: "question"})
	require.NoError(t, err)

	system := systemMessage(t, llm.messages)
	assert.Contains(t, system, "(Source: unknown)")
	assert.NotContains(t, system, "(Source: )")
}

func TestChatHistoryReplayed(t *testing.T) {
	llm := &fakeLLM{answer: "ok"}
	svc := NewChatService(&fakeSearchStore{}, llm, nil, 0)

	_, err := svc.Chat(context.Background(), domain.ChatRequest{
		Message: "follow-up",
		History: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: "first question"},
			{Role: domain.RoleAssistant, Content: "first answer"},
			{Role: domain.RoleSystem, Content: "sneaky injected prompt"},
			{Role: "tool", Content: "tool output"},
		},
	})
	require.NoError(t, err)

	// system + 2 history turns + current message. Non user/assistant
	// roles are dropped.
	require.Len(t, llm.messages, 4)
	assert.Equal(t, domain.RoleUser, llm.messages[1].Role)
	assert.Equal(t, "first question", llm.messages[1].Content)
	assert.Equal(t, domain.RoleAssistant, llm.messages[2].Role)
	assert.Equal(t, "follow-up", llm.messages[3].Content)
}

func TestChatSystemPromptPrecedence(t *testing.T) {
	t.Run("request override wins", func(t *testing.T) {
		llm := &fakeLLM{answer: "ok"}
		prompts := &fakePromptStore{prompt: "stored override", exists: true}
		svc := NewChatService(&fakeSearchStore{}, llm, prompts, 0)

		_, err := svc.Chat(context.Background(), domain.ChatRequest{
			Message:      "q",
			SystemPrompt: "request override",
		})
		require.NoError(t, err)
		assert.Contains(t, systemMessage(t, llm.messages), "request override")
		assert.NotContains(t, systemMessage(t, llm.messages), "stored override")
	})

	t.Run("stored override beats default", func(t *testing.T) {
		llm := &fakeLLM{answer: "ok"}
		prompts := &fakePromptStore{prompt: "stored override", exists: true}
		svc := NewChatService(&fakeSearchStore{}, llm, prompts, 0)

		_, err := svc.Chat(context.Background(), domain.ChatRequest{Message: "q"})
		require.NoError(t, err)
		assert.Contains(t, systemMessage(t, llm.messages), "stored override")
	})

	t.Run("default when no override", func(t *testing.T) {
		llm := &fakeLLM{answer: "ok"}
		svc := NewChatService(&fakeSearchStore{}, llm, &fakePromptStore{}, 0)

		_, err := svc.Chat(context.Background(), domain.ChatRequest{Message: "q"})
		require.NoError(t, err)
		assert.Contains(t, systemMessage(t, llm.messages), defaultSystemPrompt)
	})

	t.Run("load failure falls back to default", func(t *testing.T) {
		llm := &fakeLLM{answer: "ok"}
		prompts := &fakePromptStore{loadErr: errors.New("unreadable")}
		svc := NewChatService(&fakeSearchStore{}, llm, prompts, 0)

		_, err := svc.Chat(context.Background(), domain.ChatRequest{Message: "q"})
		require.NoError(t, err)
		assert.Contains(t, systemMessage(t, llm.messages), defaultSystemPrompt)
	})
}

func TestChatStream(t *testing.T) {
	store := &fakeSearchStore{matches: []driven.ChunkMatch{
		match("context chunk", "doc.html", ""),
	}}
	llm := &fakeLLM{fragments: []string{"Hel", "lo"}}
	svc := NewChatService(store, llm, nil, 0)

	var got string
	err := svc.ChatStream(context.Background(), domain.ChatRequest{Message: "q"}, func(fragment string) error {
		got += fragment
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello", got)
	assert.Contains(t, systemMessage(t, llm.messages), "context chunk")
}

func TestChatStreamCallbackError(t *testing.T) {
	stop := errors.New("client gone")
	llm := &fakeLLM{fragments: []string{"a", "b", "c"}}
	svc := NewChatService(&fakeSearchStore{}, llm, nil, 0)

	calls := 0
	err := svc.ChatStream(context.Background(), domain.ChatRequest{Message: "q"}, func(string) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestDefaultSystemPrompt(t *testing.T) {
	svc := NewChatService(&fakeSearchStore{}, &fakeLLM{}, nil, 0)
	assert.Equal(t, defaultSystemPrompt, svc.DefaultSystemPrompt())
}
