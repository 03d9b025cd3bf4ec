// Package chroma provides a vector store adapter backed by the ChromaDB
// REST API. Embeddings are computed client-side through an
// EmbeddingService, so Chroma is used purely for storage and similarity
// search.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 60 * time.Second

	// DefaultRequestsPerSecond bounds writes against a local Chroma
	// instance, which degrades badly under unthrottled bulk adds.
	DefaultRequestsPerSecond = 10
)

// Config holds configuration for the Chroma vector store.
type Config struct {
	// BaseURL is the Chroma API base URL (default: http://localhost:8000).
	BaseURL string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// RequestsPerSecond limits API calls during bulk ingestion
	// (default: 10). Zero uses the default; negative disables limiting.
	RequestsPerSecond float64
}

// Store talks to a ChromaDB server and embeds content through the
// provided embedding service.
type Store struct {
	client   *http.Client
	baseURL  string
	embedder driven.EmbeddingService
	limiter  *rate.Limiter

	// Chroma addresses collections by ID, not name. The mapping is
	// stable for the lifetime of a collection, so it is cached.
	mu          sync.Mutex
	collections map[string]string
}

// NewStore creates a new Chroma vector store.
func NewStore(cfg Config, embedder driven.EmbeddingService) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond < 0 {
		limit = rate.Inf
	}

	return &Store{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		embedder:    embedder,
		limiter:     rate.NewLimiter(limit, 1),
		collections: make(map[string]string),
	}
}

// collectionResponse is the Chroma collection representation.
type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// addRequest is the Chroma add payload.
type addRequest struct {
	IDs        []string         `json:"ids"`
	Embeddings [][]float32      `json:"embeddings"`
	Metadatas  []map[string]any `json:"metadatas"`
	Documents  []string         `json:"documents"`
}

// queryRequest is the Chroma query payload.
type queryRequest struct {
	QueryEmbeddings [][]float32 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Include         []string    `json:"include"`
}

// queryResponse is the Chroma query result. Results come back as one
// inner slice per query embedding.
type queryResponse struct {
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

// Add embeds the records and writes them to the named collection.
func (s *Store) Add(ctx context.Context, collection string, records []driven.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}

	collectionID, err := s.ensureCollection(ctx, collection)
	if err != nil {
		return err
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Content
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}

	reqBody := addRequest{
		IDs:        make([]string, len(records)),
		Embeddings: embeddings,
		Metadatas:  make([]map[string]any, len(records)),
		Documents:  texts,
	}
	for i, r := range records {
		reqBody.IDs[i] = uuid.New().String()
		reqBody.Metadatas[i] = r.Metadata
	}

	url := fmt.Sprintf("%s/api/v1/collections/%s/add", s.baseURL, collectionID)
	resp, err := s.post(ctx, url, reqBody)
	if err != nil {
		return fmt.Errorf("add to collection %s: %w", collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("add to collection %s: %w", collection, statusError(resp))
	}

	return nil
}

// Search embeds the query and returns the topK most similar chunks.
// Scores are similarity in [0,1], derived from Chroma's distances.
func (s *Store) Search(ctx context.Context, collection, query string, topK int) ([]driven.ChunkMatch, error) {
	collectionID, err := s.ensureCollection(ctx, collection)
	if err != nil {
		return nil, err
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	reqBody := queryRequest{
		QueryEmbeddings: [][]float32{embedding},
		NResults:        topK,
		Include:         []string{"documents", "metadatas", "distances"},
	}

	url := fmt.Sprintf("%s/api/v1/collections/%s/query", s.baseURL, collectionID)
	resp, err := s.post(ctx, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("query collection %s: %w", collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query collection %s: %w", collection, statusError(resp))
	}

	var queryResp queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&queryResp); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}

	if len(queryResp.Documents) == 0 {
		return nil, nil
	}

	docs := queryResp.Documents[0]
	matches := make([]driven.ChunkMatch, 0, len(docs))
	for i, doc := range docs {
		match := driven.ChunkMatch{Content: doc}
		if len(queryResp.Metadatas) > 0 && i < len(queryResp.Metadatas[0]) {
			match.Metadata = queryResp.Metadatas[0][i]
		}
		if len(queryResp.Distances) > 0 && i < len(queryResp.Distances[0]) {
			match.Score = 1 - queryResp.Distances[0][i]
		}
		matches = append(matches, match)
	}

	return matches, nil
}

// DeleteCollection removes the named collection and all its records.
// Deleting a collection that does not exist is not an error.
func (s *Store) DeleteCollection(ctx context.Context, collection string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v1/collections/%s", s.baseURL, collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete collection %s: %w", collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNotFound {
		s.forget(collection)
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	// Chroma reports unknown collections as a 500 with this message.
	if strings.Contains(string(body), "does not exist") {
		s.forget(collection)
		return nil
	}

	return fmt.Errorf("delete collection %s: chroma returned status %d: %s",
		collection, resp.StatusCode, string(body))
}

// Close releases resources.
func (s *Store) Close() error {
	return s.embedder.Close()
}

// ensureCollection returns the Chroma ID for the named collection,
// creating it on first use.
func (s *Store) ensureCollection(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	id, ok := s.collections[name]
	s.mu.Unlock()
	if ok {
		return id, nil
	}

	reqBody := map[string]any{
		"name":          name,
		"get_or_create": true,
	}

	resp, err := s.post(ctx, s.baseURL+"/api/v1/collections", reqBody)
	if err != nil {
		return "", fmt.Errorf("get or create collection %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("get or create collection %s: %w", name, statusError(resp))
	}

	var coll collectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&coll); err != nil {
		return "", fmt.Errorf("decode collection response: %w", err)
	}
	if coll.ID == "" {
		return "", fmt.Errorf("get or create collection %s: empty collection ID", name)
	}

	s.mu.Lock()
	s.collections[name] = coll.ID
	s.mu.Unlock()

	return coll.ID, nil
}

// forget drops a cached collection ID.
func (s *Store) forget(name string) {
	s.mu.Lock()
	delete(s.collections, name)
	s.mu.Unlock()
}

// post sends a rate-limited JSON POST request.
func (s *Store) post(ctx context.Context, url string, body any) (*http.Response, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}

	return resp, nil
}

// statusError reads the response body into an error for a non-2xx status.
func statusError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("chroma returned status %d (failed to read body: %w)", resp.StatusCode, err)
	}
	return fmt.Errorf("chroma returned status %d: %s", resp.StatusCode, string(body))
}
