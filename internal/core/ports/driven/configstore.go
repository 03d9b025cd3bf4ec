package driven

// ConfigStore reads and writes application settings. Keys use dot
// notation ("llm.provider"); typed getters return the zero value for
// missing or mistyped keys so callers can layer their own defaults.
type ConfigStore interface {
	// Get returns the raw value for key and whether it exists.
	Get(key string) (any, bool)

	// GetString returns a string value, or "" when absent.
	GetString(key string) string

	// GetInt returns an integer value, or 0 when absent.
	GetInt(key string) int

	// GetBool returns a boolean value, or false when absent.
	GetBool(key string) bool

	// Set stores a value. The change is persisted immediately.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Load re-reads the configuration from storage.
	Load() error

	// Path returns the backing file path, for display.
	Path() string
}
