package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentService ingests HTML documents into the vector store and
// tracks what has been loaded.
type DocumentService interface {
	// LoadFromDirectory wipes the target collection and loads every
	// .html/.htm file under path into it. Per-file failures are counted
	// in the result, never raised; a missing directory yields a result
	// with one error and no work performed.
	LoadFromDirectory(ctx context.Context, path, collection string) *domain.LoadResult

	// LoadFile loads a single HTML file into the default collection
	// without wiping. Returns the number of chunks created.
	LoadFile(ctx context.Context, path string) (int, error)

	// LoadString loads in-memory HTML into the default collection
	// without wiping. Returns the number of chunks created.
	LoadString(ctx context.Context, html, filename string) (int, error)

	// ListLoaded returns the documents registered during this process
	// lifetime.
	ListLoaded() []domain.DocumentInfo

	// GetByFilename returns a registered document by filename, or nil.
	GetByFilename(filename string) *domain.DocumentInfo

	// ClearRegistry empties the in-memory registry. Vector store data
	// is not affected.
	ClearRegistry()
}
