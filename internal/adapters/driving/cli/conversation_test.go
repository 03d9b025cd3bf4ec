package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestConversationListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("conversation", "list")

	assert.NoError(t, err)
	assert.Contains(t, out, "No saved conversations.")
}

func TestConversationListCmd_Lists(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	fake := conversationService.(*fakeConversationService)
	fake.convs["conv-1"] = &domain.Conversation{
		ID:        "conv-1",
		SessionID: defaultSession,
		Title:     "How do I install?",
		UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	out, err := executeCommand("conversation", "list")

	assert.NoError(t, err)
	assert.Contains(t, out, "conv-1")
	assert.Contains(t, out, "How do I install?")
	assert.Contains(t, out, "Total: 1 conversations")
}

func TestConversationShowCmd_Shows(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	fake := conversationService.(*fakeConversationService)
	fake.convs["conv-1"] = &domain.Conversation{
		ID:           "conv-1",
		SessionID:    defaultSession,
		Title:        "Setup help",
		MessagesJSON: `[{"role":"user","content":"help"}]`,
	}

	out, err := executeCommand("conversation", "show", "conv-1")

	assert.NoError(t, err)
	assert.Contains(t, out, "Setup help")
	assert.Contains(t, out, `"role":"user"`)
}

func TestConversationShowCmd_Missing(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("conversation", "show", "missing")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get conversation")
}

func TestConversationDeleteCmd_Deletes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	fake := conversationService.(*fakeConversationService)
	fake.convs["conv-1"] = &domain.Conversation{ID: "conv-1", SessionID: defaultSession}

	out, err := executeCommand("conversation", "delete", "conv-1")

	assert.NoError(t, err)
	assert.Contains(t, out, "Conversation conv-1 deleted.")
}

func TestConversationDeleteCmd_Missing(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("conversation", "delete", "missing")

	assert.NoError(t, err)
	assert.Contains(t, out, "No conversation with ID missing.")
}

func TestConversationCmd_ServiceNotConfigured(t *testing.T) {
	oldService := conversationService
	conversationService = nil
	defer func() { conversationService = oldService }()

	_, err := executeCommand("conversation", "list")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "conversation service not configured")
}
