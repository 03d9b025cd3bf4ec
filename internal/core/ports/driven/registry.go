package driven

import "github.com/custodia-labs/docchat/internal/core/domain"

// DocumentRegistry tracks which documents have been confirmed as stored
// during the current process lifetime. It is in-memory only: clearing it
// never touches the vector store's persisted data.
//
// Implementations must be safe for concurrent use.
type DocumentRegistry interface {
	// Put records a loaded document.
	Put(info domain.DocumentInfo)

	// List returns all registered documents in unspecified order.
	List() []domain.DocumentInfo

	// GetByFilename returns the first document with the given filename,
	// or nil if none is registered.
	GetByFilename(filename string) *domain.DocumentInfo

	// Clear empties the registry.
	Clear()
}
