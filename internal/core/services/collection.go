package services

import (
	"fmt"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure CollectionService implements the interface.
var _ driving.CollectionService = (*CollectionService)(nil)

// CollectionService manages display metadata and aliasing for vector
// store collections. Lookups resolve exactly one alias hop: an alias
// pointing at another alias yields the intermediate name's entry, which
// keeps resolution cycle-proof without bookkeeping.
type CollectionService struct {
	store driven.MetadataStore
}

// NewCollectionService creates a new collection service.
func NewCollectionService(store driven.MetadataStore) *CollectionService {
	return &CollectionService{store: store}
}

// SetTitle sets the display title for a collection.
func (s *CollectionService) SetTitle(name, title string) error {
	return s.update(name, func(meta *domain.CollectionMetadata) {
		meta.Title = title
	})
}

// SetLogo sets the logo URL for a collection.
func (s *CollectionService) SetLogo(name, logo string) error {
	return s.update(name, func(meta *domain.CollectionMetadata) {
		meta.Logo = logo
	})
}

// SetAlias makes alias redirect to target.
func (s *CollectionService) SetAlias(alias, target string) error {
	if alias == "" || target == "" || alias == target {
		return domain.ErrInvalidInput
	}
	return s.update(alias, func(meta *domain.CollectionMetadata) {
		meta.AliasOf = target
	})
}

// RemoveAlias removes an alias entry. A name that does not exist or is
// not an alias is a no-op, not an error.
func (s *CollectionService) RemoveAlias(alias string) error {
	meta, err := s.store.Get(alias)
	if err != nil {
		return fmt.Errorf("load metadata: %w", err)
	}
	if meta == nil || !meta.IsAlias() {
		return nil
	}

	if err := s.store.Delete(alias); err != nil {
		return fmt.Errorf("remove alias %s: %w", alias, err)
	}
	return nil
}

// GetTitle returns the display title, resolving one alias hop. Absent
// entries yield "".
func (s *CollectionService) GetTitle(name string) string {
	meta := s.resolved(name)
	if meta == nil {
		return ""
	}
	return meta.Title
}

// GetLogo returns the logo URL, resolving one alias hop. Absent entries
// yield "".
func (s *CollectionService) GetLogo(name string) string {
	meta := s.resolved(name)
	if meta == nil {
		return ""
	}
	return meta.Logo
}

// Resolve returns the alias target when name is an alias, otherwise name
// unchanged. Resolution is exactly one hop deep.
func (s *CollectionService) Resolve(name string) string {
	meta, err := s.store.Get(name)
	if err != nil {
		logger.Warn("Failed to load metadata for %s: %v", name, err)
		return name
	}
	if meta != nil && meta.IsAlias() {
		return meta.AliasOf
	}
	return name
}

// GetMetadata returns the raw entry for name, or nil when absent.
func (s *CollectionService) GetMetadata(name string) *domain.CollectionMetadata {
	meta, err := s.store.Get(name)
	if err != nil {
		logger.Warn("Failed to load metadata for %s: %v", name, err)
		return nil
	}
	return meta
}

// resolved returns the entry whose display fields apply to name: the
// entry itself, or its target's entry when it is an alias. An alias
// entry's own title/logo fields are never used for display.
func (s *CollectionService) resolved(name string) *domain.CollectionMetadata {
	meta, err := s.store.Get(name)
	if err != nil {
		logger.Warn("Failed to load metadata for %s: %v", name, err)
		return nil
	}
	if meta == nil {
		return nil
	}
	if !meta.IsAlias() {
		return meta
	}

	target, err := s.store.Get(meta.AliasOf)
	if err != nil {
		logger.Warn("Failed to load metadata for %s: %v", meta.AliasOf, err)
		return nil
	}
	return target
}

// update applies a read-modify-write to one entry, creating it if absent.
func (s *CollectionService) update(name string, apply func(*domain.CollectionMetadata)) error {
	if name == "" {
		return domain.ErrInvalidInput
	}

	meta, err := s.store.Get(name)
	if err != nil {
		return fmt.Errorf("load metadata: %w", err)
	}
	if meta == nil {
		meta = &domain.CollectionMetadata{}
	}

	apply(meta)

	if err := s.store.Set(name, *meta); err != nil {
		return fmt.Errorf("save metadata for %s: %w", name, err)
	}
	return nil
}
