package driving

import "github.com/custodia-labs/docchat/internal/core/domain"

// CollectionService manages display metadata and aliasing for vector
// store collections.
type CollectionService interface {
	// SetTitle sets the display title for a collection.
	SetTitle(name, title string) error

	// SetLogo sets the logo URL for a collection.
	SetLogo(name, logo string) error

	// SetAlias makes alias redirect to target.
	SetAlias(alias, target string) error

	// RemoveAlias removes an alias entry. A name that does not exist
	// or is not an alias is a no-op, not an error.
	RemoveAlias(alias string) error

	// GetTitle returns the display title, resolving one alias hop.
	// Absent entries yield "".
	GetTitle(name string) string

	// GetLogo returns the logo URL, resolving one alias hop.
	// Absent entries yield "".
	GetLogo(name string) string

	// Resolve returns the alias target when name is an alias, otherwise
	// name unchanged. Resolution is exactly one hop deep.
	Resolve(name string) string

	// GetMetadata returns the raw entry for name, or nil when absent.
	GetMetadata(name string) *domain.CollectionMetadata
}
