package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// Normaliser transforms raw HTML into a parsed document: title extracted,
// non-content elements removed, text flattened.
type Normaliser interface {
	// NormaliseFile parses an HTML file from disk.
	NormaliseFile(ctx context.Context, path string) (*domain.ParsedDocument, error)

	// NormaliseString parses in-memory HTML. filename supplies the
	// title fallback; the resulting FilePath is empty.
	NormaliseString(ctx context.Context, html, filename string) (*domain.ParsedDocument, error)
}

// Chunker splits normalised text into bounded, overlapping chunks.
// The returned slice is fully materialised because callers need the
// count before batching.
type Chunker interface {
	// Split returns the ordered chunk texts for the input.
	// Blank input yields an empty result.
	Split(text string) []string
}
