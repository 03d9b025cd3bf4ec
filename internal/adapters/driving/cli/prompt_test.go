package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemPromptShowCmd_Default(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("system-prompt", "show")

	assert.NoError(t, err)
	assert.Contains(t, out, "No override set.")
	assert.Contains(t, out, "built-in prompt")
}

func TestSystemPromptShowCmd_Override(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	promptStore.(*fakePromptStore).prompt = "custom prompt"
	promptStore.(*fakePromptStore).exists = true

	out, err := executeCommand("system-prompt", "show")

	assert.NoError(t, err)
	assert.Contains(t, out, "Override")
	assert.Contains(t, out, "custom prompt")
}

func TestSystemPromptSetCmd_FromArgs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("system-prompt", "set", "answer", "in", "haiku")

	assert.NoError(t, err)
	assert.Contains(t, out, "System prompt saved")
	assert.Equal(t, "answer in haiku", promptStore.(*fakePromptStore).prompt)
}

func TestSystemPromptSetCmd_FromFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { promptFile = "" }()

	path := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("file prompt"), 0o600))

	out, err := executeCommand("system-prompt", "set", "--file", path)

	assert.NoError(t, err)
	assert.Contains(t, out, "System prompt saved")
	assert.Equal(t, "file prompt", promptStore.(*fakePromptStore).prompt)
}

func TestSystemPromptSetCmd_NoInput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("system-prompt", "set")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "provide the prompt")
}

func TestSystemPromptResetCmd_Resets(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	promptStore.(*fakePromptStore).prompt = "custom"
	promptStore.(*fakePromptStore).exists = true

	out, err := executeCommand("system-prompt", "reset")

	assert.NoError(t, err)
	assert.Contains(t, out, "reset to the built-in default")
	assert.False(t, promptStore.(*fakePromptStore).exists)
}

func TestSystemPromptCmd_StoreNotConfigured(t *testing.T) {
	oldStore := promptStore
	promptStore = nil
	defer func() { promptStore = oldStore }()

	_, err := executeCommand("system-prompt", "show")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "prompt store not configured")
}
