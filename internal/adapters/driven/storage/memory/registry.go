// Package memory provides an in-memory document registry.
package memory

import (
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.DocumentRegistry = (*Registry)(nil)

// Registry tracks loaded documents for the current process lifetime.
// Entries are keyed by document ID.
type Registry struct {
	mu   sync.RWMutex
	docs map[string]domain.DocumentInfo
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		docs: make(map[string]domain.DocumentInfo),
	}
}

// Put records a loaded document.
func (r *Registry) Put(info domain.DocumentInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs[info.ID] = info
}

// List returns all registered documents in unspecified order.
func (r *Registry) List() []domain.DocumentInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.DocumentInfo, 0, len(r.docs))
	for _, info := range r.docs {
		out = append(out, info)
	}
	return out
}

// GetByFilename returns the first document with the given filename, or
// nil if none is registered.
func (r *Registry) GetByFilename(filename string) *domain.DocumentInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, info := range r.docs {
		if info.Filename == filename {
			found := info
			return &found
		}
	}
	return nil
}

// Clear empties the registry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs = make(map[string]domain.DocumentInfo)
}
