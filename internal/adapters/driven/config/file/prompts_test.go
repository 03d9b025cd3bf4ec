package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemPromptStore_NoOverride(t *testing.T) {
	store, err := NewSystemPromptStore(t.TempDir())
	require.NoError(t, err)

	prompt, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, prompt)
}

func TestSystemPromptStore_SaveAndLoad(t *testing.T) {
	store, err := NewSystemPromptStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("You are a pirate assistant."))

	prompt, ok, err := store.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "You are a pirate assistant.", prompt)
}

func TestSystemPromptStore_ExternalEdit(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSystemPromptStore(dir)
	require.NoError(t, err)

	// The user can edit the file directly
	require.NoError(t, os.WriteFile(filepath.Join(dir, "system-prompt.txt"),
		[]byte("  Edited by hand.\n"), 0600))

	prompt, ok, err := store.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Edited by hand.", prompt)
}

func TestSystemPromptStore_EmptyFileIsNoOverride(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSystemPromptStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "system-prompt.txt"), []byte("  \n"), 0600))

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSystemPromptStore_Reset(t *testing.T) {
	store, err := NewSystemPromptStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("override"))
	require.NoError(t, store.Reset())

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	// Resetting again is still success
	assert.NoError(t, store.Reset())
}

func TestSystemPromptStore_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	store, err := NewSystemPromptStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("prompt"))

	prompt, ok, err := store.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "prompt", prompt)
}
