package driven

// SystemPromptStore manages the optional system-prompt override file.
// When no override exists, callers fall back to the built-in default.
type SystemPromptStore interface {
	// Load returns the override prompt and true when an override file
	// exists, or "" and false when it does not.
	Load() (string, bool, error)

	// Save writes the override prompt to disk.
	Save(prompt string) error

	// Reset deletes the override file, reverting to the default.
	// Absent is success.
	Reset() error

	// Path returns the override file path.
	Path() string
}
