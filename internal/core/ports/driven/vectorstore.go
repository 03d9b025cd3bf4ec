package driven

import "context"

// VectorStore persists chunk text plus metadata and answers similarity
// queries. Embedding happens inside the adapter; callers never see
// vectors. Backed by ChromaDB.
type VectorStore interface {
	// Add submits chunk records to the named collection, creating it
	// if necessary.
	Add(ctx context.Context, collection string, records []ChunkRecord) error

	// Search returns the topK most relevant chunks for the query text.
	Search(ctx context.Context, collection, query string, topK int) ([]ChunkMatch, error)

	// DeleteCollection removes a collection and all its chunks.
	// Deleting an absent collection is success, not an error.
	DeleteCollection(ctx context.Context, collection string) error

	// Close releases resources.
	Close() error
}

// ChunkRecord is one write-once chunk submitted to the vector store.
type ChunkRecord struct {
	// Content is the chunk text.
	Content string

	// Metadata carries the source attribution keys defined in domain.
	Metadata map[string]any
}

// ChunkMatch is a similarity search result.
type ChunkMatch struct {
	// Content is the matched chunk text.
	Content string

	// Metadata is the chunk's stored metadata.
	Metadata map[string]any

	// Score is the similarity score, higher is more relevant.
	Score float64
}
