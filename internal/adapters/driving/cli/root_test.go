package cli

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Test fakes for the driving ports. setupTestServices swaps them in and
// returns a cleanup that restores whatever was there before.

type fakeDocumentService struct {
	result     *domain.LoadResult
	loadedDir  string
	loadedCol  string
	loadedFile string
	loadErr    error
	fileChunks int
	fileEmpty  bool
	docs       []domain.DocumentInfo
	cleared    bool
}

func (f *fakeDocumentService) LoadFromDirectory(_ context.Context, path, collection string) *domain.LoadResult {
	f.loadedDir = path
	f.loadedCol = collection
	if f.result != nil {
		return f.result
	}
	return &domain.LoadResult{
		FilesProcessed: 2,
		ChunksCreated:  10,
		Message:        "Loaded 2 files (10 chunks) into collection " + collection,
	}
}

func (f *fakeDocumentService) LoadFile(_ context.Context, path string) (int, error) {
	f.loadedFile = path
	if f.loadErr != nil {
		return 0, f.loadErr
	}
	if f.fileEmpty {
		return 0, nil
	}
	if f.fileChunks > 0 {
		return f.fileChunks, nil
	}
	return 1, nil
}

func (f *fakeDocumentService) LoadString(context.Context, string, string) (int, error) {
	return 1, nil
}

func (f *fakeDocumentService) ListLoaded() []domain.DocumentInfo { return f.docs }

func (f *fakeDocumentService) GetByFilename(filename string) *domain.DocumentInfo {
	for i := range f.docs {
		if f.docs[i].Filename == filename {
			return &f.docs[i]
		}
	}
	return nil
}

func (f *fakeDocumentService) ClearRegistry() { f.cleared = true }

type fakeChatService struct {
	response  *domain.ChatResponse
	fragments []string
	err       error
	lastReq   domain.ChatRequest
}

func (f *fakeChatService) Chat(_ context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	if f.response != nil {
		return f.response, nil
	}
	return &domain.ChatResponse{Message: "the answer"}, nil
}

func (f *fakeChatService) ChatStream(_ context.Context, req domain.ChatRequest, onDelta driving.StreamFunc) error {
	f.lastReq = req
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

func (f *fakeChatService) DefaultSystemPrompt() string { return "built-in prompt" }

type fakeCollectionService struct {
	titles   map[string]string
	logos    map[string]string
	aliases  map[string]string
	setErr   error
	removed  []string
	metadata map[string]*domain.CollectionMetadata
}

func newFakeCollectionService() *fakeCollectionService {
	return &fakeCollectionService{
		titles:   map[string]string{},
		logos:    map[string]string{},
		aliases:  map[string]string{},
		metadata: map[string]*domain.CollectionMetadata{},
	}
}

func (f *fakeCollectionService) SetTitle(name, title string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.titles[name] = title
	return nil
}

func (f *fakeCollectionService) SetLogo(name, logo string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.logos[name] = logo
	return nil
}

func (f *fakeCollectionService) SetAlias(alias, target string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.aliases[alias] = target
	return nil
}

func (f *fakeCollectionService) RemoveAlias(alias string) error {
	f.removed = append(f.removed, alias)
	delete(f.aliases, alias)
	return nil
}

func (f *fakeCollectionService) GetTitle(name string) string { return f.titles[name] }

func (f *fakeCollectionService) GetLogo(name string) string { return f.logos[name] }

func (f *fakeCollectionService) Resolve(name string) string {
	if target, ok := f.aliases[name]; ok {
		return target
	}
	return name
}

func (f *fakeCollectionService) GetMetadata(name string) *domain.CollectionMetadata {
	return f.metadata[name]
}

type fakeConversationService struct {
	convs map[string]*domain.Conversation
}

func (f *fakeConversationService) List(_ context.Context, sessionID string) ([]domain.Conversation, error) {
	var out []domain.Conversation
	for _, c := range f.convs {
		if c.SessionID == sessionID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConversationService) Get(_ context.Context, sessionID, id string) (*domain.Conversation, error) {
	c, ok := f.convs[id]
	if !ok || c.SessionID != sessionID {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeConversationService) Create(_ context.Context, sessionID string) (*domain.Conversation, error) {
	c := &domain.Conversation{ID: "conv-1", SessionID: sessionID, Title: domain.DefaultConversationTitle}
	f.convs[c.ID] = c
	return c, nil
}

func (f *fakeConversationService) Update(_ context.Context, sessionID, id string, title, messagesJSON *string) (*domain.Conversation, error) {
	c, ok := f.convs[id]
	if !ok || c.SessionID != sessionID {
		return nil, domain.ErrNotFound
	}
	if title != nil {
		c.Title = *title
	}
	if messagesJSON != nil {
		c.MessagesJSON = *messagesJSON
	}
	return c, nil
}

func (f *fakeConversationService) Delete(_ context.Context, sessionID, id string) (bool, error) {
	c, ok := f.convs[id]
	if !ok || c.SessionID != sessionID {
		return false, nil
	}
	delete(f.convs, id)
	return true, nil
}

type fakePromptStore struct {
	prompt string
	exists bool
}

func (f *fakePromptStore) Load() (string, bool, error) { return f.prompt, f.exists, nil }

func (f *fakePromptStore) Save(prompt string) error {
	f.prompt, f.exists = prompt, true
	return nil
}

func (f *fakePromptStore) Reset() error {
	f.prompt, f.exists = "", false
	return nil
}

func (f *fakePromptStore) Path() string { return "/tmp/system-prompt.txt" }

type fakeConfigStore struct {
	values map[string]any
	setErr error
}

func (f *fakeConfigStore) Get(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeConfigStore) GetString(key string) string {
	if v, ok := f.values[key].(string); ok {
		return v
	}
	return ""
}

func (f *fakeConfigStore) GetInt(key string) int {
	if v, ok := f.values[key].(int); ok {
		return v
	}
	return 0
}

func (f *fakeConfigStore) GetBool(key string) bool {
	if v, ok := f.values[key].(bool); ok {
		return v
	}
	return false
}

func (f *fakeConfigStore) Set(key string, value any) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	return nil
}

func (f *fakeConfigStore) Save() error { return nil }

func (f *fakeConfigStore) Load() error { return nil }

func (f *fakeConfigStore) Path() string { return "/tmp/config.toml" }

// setupTestServices installs a full set of fakes and returns a cleanup
// restoring the previous services.
func setupTestServices() func() {
	oldDocument := documentService
	oldChat := chatService
	oldCollection := collectionService
	oldConversation := conversationService
	oldPrompt := promptStore
	oldConfig := configStore

	documentService = &fakeDocumentService{
		docs: []domain.DocumentInfo{
			{
				ID:         "doc-1",
				Filename:   "guide.html",
				FilePath:   "/docs/guide.html",
				Title:      "User Guide",
				ChunkCount: 5,
				LoadedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			},
		},
	}
	chatService = &fakeChatService{
		response: &domain.ChatResponse{
			Message:          "the answer",
			Sources:          []string{"/docs/documents/guide.html"},
			ProcessingTimeMs: 42,
		},
	}
	collectionService = newFakeCollectionService()
	conversationService = &fakeConversationService{convs: map[string]*domain.Conversation{}}
	promptStore = &fakePromptStore{}
	configStore = &fakeConfigStore{values: map[string]any{}}

	return func() {
		documentService = oldDocument
		chatService = oldChat
		collectionService = oldCollection
		conversationService = oldConversation
		promptStore = oldPrompt
		configStore = oldConfig
	}
}

// errService is a sentinel used by error-path tests.
var errService = errors.New("service failure")

// executeCommand runs the root command with the given arguments and
// returns its combined output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
