package driven

import "github.com/custodia-labs/docchat/internal/core/domain"

// MetadataStore persists per-collection display metadata.
//
// The file on disk is the single source of truth: every read reloads it
// and every write rewrites it, so concurrent processes observe each
// other's changes. This trades performance for read-after-write
// consistency on a low-frequency admin path.
type MetadataStore interface {
	// Get returns the entry for the given collection or alias name,
	// or nil if none exists.
	Get(name string) (*domain.CollectionMetadata, error)

	// All returns every entry keyed by collection/alias name.
	All() (map[string]domain.CollectionMetadata, error)

	// Set stores or replaces the entry for the given name.
	Set(name string, meta domain.CollectionMetadata) error

	// Delete removes the entry for the given name. Absent is success.
	Delete(name string) error

	// Path returns the metadata file path.
	Path() string
}
