package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure SystemPromptStore implements the interface.
var _ driven.SystemPromptStore = (*SystemPromptStore)(nil)

// systemPromptFile is the override file name within the data directory.
const systemPromptFile = "system-prompt.txt"

// SystemPromptStore manages the optional system-prompt override as a
// plain text file the user can also edit directly. The file is re-read
// on every Load so external edits take effect without a restart.
type SystemPromptStore struct {
	path string
}

// NewSystemPromptStore creates a store rooted in dataDir.
// If dataDir is empty, defaults to ~/.docchat.
func NewSystemPromptStore(dataDir string) (*SystemPromptStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docchat")
	}

	return &SystemPromptStore{
		path: filepath.Join(dataDir, systemPromptFile),
	}, nil
}

// Load returns the override prompt and true when the override file
// exists, or "" and false when it does not.
func (s *SystemPromptStore) Load() (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read system prompt: %w", err)
	}

	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		// An empty file is treated as no override.
		return "", false, nil
	}

	return prompt, true, nil
}

// Save writes the override prompt to disk.
func (s *SystemPromptStore) Save(prompt string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(prompt), 0600); err != nil {
		return fmt.Errorf("write system prompt: %w", err)
	}
	return nil
}

// Reset deletes the override file, reverting to the built-in default.
// A missing file is success.
func (s *SystemPromptStore) Reset() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove system prompt: %w", err)
	}
	return nil
}

// Path returns the override file path.
func (s *SystemPromptStore) Path() string {
	return s.path
}
