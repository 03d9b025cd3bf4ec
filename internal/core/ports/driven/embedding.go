package driven

import "context"

// EmbeddingService turns text into vectors. Only the vector store
// adapter consumes it: chunks and queries are embedded client-side
// there, and the core services never see a vector.
type EmbeddingService interface {
	// Embed generates an embedding for one text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for several texts, using the
	// provider's batch endpoint where one exists.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector size (e.g. 768, 1536).
	Dimensions() int

	// ModelName returns the embedding model in use.
	ModelName() string

	// Ping verifies reachability with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
