package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// batchSize is the number of chunk records submitted to the vector store
// per request during bulk ingestion.
const batchSize = 100

// DocumentService ingests HTML documents into the vector store.
type DocumentService struct {
	vectorStore driven.VectorStore
	normaliser  driven.Normaliser
	chunker     driven.Chunker
	registry    driven.DocumentRegistry
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	vectorStore driven.VectorStore,
	normaliser driven.Normaliser,
	chunker driven.Chunker,
	registry driven.DocumentRegistry,
) *DocumentService {
	return &DocumentService{
		vectorStore: vectorStore,
		normaliser:  normaliser,
		chunker:     chunker,
		registry:    registry,
	}
}

// LoadFromDirectory wipes the target collection and loads every .html and
// .htm file found under path into it. Per-file failures are counted in
// the result and never abort the run.
func (s *DocumentService) LoadFromDirectory(ctx context.Context, path, collection string) *domain.LoadResult {
	if collection == "" {
		collection = domain.DefaultCollection
	}

	logger.Section("Loading Documents")
	logger.Info("Directory: %s, collection: %s", path, collection)

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return &domain.LoadResult{
			Errors:  1,
			Message: fmt.Sprintf("Directory not found: %s", path),
		}
	}

	// The collection is replaced wholesale: stale chunks from removed or
	// renamed files must not survive a reload.
	if err := s.vectorStore.DeleteCollection(ctx, collection); err != nil {
		return &domain.LoadResult{
			Errors:  1,
			Message: fmt.Sprintf("Failed to clear collection %s: %v", collection, err),
		}
	}

	files, err := findHTMLFiles(path)
	if err != nil {
		return &domain.LoadResult{
			Errors:  1,
			Message: fmt.Sprintf("Failed to scan directory: %v", err),
		}
	}
	logger.Info("Found %d HTML files", len(files))

	result := &domain.LoadResult{}
	var failures []string

	// Records accumulate across all files so batches are filled to
	// capacity regardless of document boundaries. Each pending entry
	// remembers where its document's records end in the combined slice.
	var allRecords []driven.ChunkRecord
	var pending []pendingDocument

	for _, file := range files {
		doc, err := s.normaliser.NormaliseFile(ctx, file)
		if err != nil {
			logger.Warn("Failed to parse %s: %v", file, err)
			result.Errors++
			failures = append(failures, filepath.Base(file))
			continue
		}

		source := relativeSource(path, file)
		info, records := s.chunkRecords(doc, source, collection)
		if len(records) == 0 {
			logger.Debug("Skipping %s: no content after normalisation", file)
			continue
		}

		allRecords = append(allRecords, records...)
		pending = append(pending, pendingDocument{
			info:       info,
			recordsEnd: len(allRecords),
		})
		result.FilesProcessed++
		result.ChunksCreated += len(records)
		logger.Debug("Parsed %s (%d chunks)", source, len(records))
	}

	submitErr := s.submit(ctx, collection, allRecords, pending)
	if submitErr != nil {
		logger.Warn("Store submission failed: %v", submitErr)
		result.Errors++
	}

	result.Message = fmt.Sprintf("Loaded %d files (%d chunks) into collection %s",
		result.FilesProcessed, result.ChunksCreated, collection)
	if len(failures) > 0 {
		result.Message += fmt.Sprintf("; %d failed: %s",
			len(failures), strings.Join(failures, ", "))
	}
	if submitErr != nil {
		result.Message += fmt.Sprintf("; store submission failed: %v", submitErr)
	}

	logger.Info("%s", result.Message)
	return result
}

// pendingDocument is a document awaiting registration, tied to the end
// of its record range in the accumulated submission slice.
type pendingDocument struct {
	info       domain.DocumentInfo
	recordsEnd int
}

// submit sends records in fixed-size batches and publishes registry
// entries for each document as soon as all of its records have been
// stored. A batch failure stops submission but keeps the documents
// already registered by earlier batches.
func (s *DocumentService) submit(ctx context.Context, collection string, records []driven.ChunkRecord, pending []pendingDocument) error {
	registered := 0
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := s.vectorStore.Add(ctx, collection, records[start:end]); err != nil {
			return fmt.Errorf("store chunks %d-%d: %w", start+1, end, err)
		}
		logger.Debug("Stored chunks %d-%d of %d", start+1, end, len(records))

		for registered < len(pending) && pending[registered].recordsEnd <= end {
			s.registry.Put(pending[registered].info)
			registered++
		}
	}
	return nil
}

// LoadFile loads a single HTML file into the default collection without
// wiping. Returns the number of chunks created.
func (s *DocumentService) LoadFile(ctx context.Context, path string) (int, error) {
	return s.loadFile(ctx, path, filepath.Dir(path), domain.DefaultCollection)
}

// LoadString loads in-memory HTML into the default collection without
// wiping. Returns the number of chunks created.
func (s *DocumentService) LoadString(ctx context.Context, html, filename string) (int, error) {
	doc, err := s.normaliser.NormaliseString(ctx, html, filename)
	if err != nil {
		return 0, fmt.Errorf("normalise %s: %w", filename, err)
	}

	return s.store(ctx, doc, filename, domain.DefaultCollection)
}

// ListLoaded returns the documents registered during this process lifetime.
func (s *DocumentService) ListLoaded() []domain.DocumentInfo {
	return s.registry.List()
}

// GetByFilename returns a registered document by filename, or nil.
func (s *DocumentService) GetByFilename(filename string) *domain.DocumentInfo {
	return s.registry.GetByFilename(filename)
}

// ClearRegistry empties the in-memory registry. Vector store data is not
// affected.
func (s *DocumentService) ClearRegistry() {
	s.registry.Clear()
}

// loadFile normalises, chunks, and stores one file. root anchors the
// relative source path recorded in chunk metadata.
func (s *DocumentService) loadFile(ctx context.Context, path, root, collection string) (int, error) {
	doc, err := s.normaliser.NormaliseFile(ctx, path)
	if err != nil {
		return 0, err
	}

	return s.store(ctx, doc, relativeSource(root, path), collection)
}

// store chunks a parsed document and submits it to the vector store in
// batches. The document is registered only after every batch succeeded,
// so the registry never reports partially stored documents.
func (s *DocumentService) store(ctx context.Context, doc *domain.ParsedDocument, source, collection string) (int, error) {
	info, records := s.chunkRecords(doc, source, collection)
	if len(records) == 0 {
		return 0, nil
	}

	pending := []pendingDocument{{info: info, recordsEnd: len(records)}}
	if err := s.submit(ctx, collection, records, pending); err != nil {
		return 0, err
	}
	return len(records), nil
}

// chunkRecords splits a parsed document and tags each chunk with its
// retrieval metadata under a fresh document id.
func (s *DocumentService) chunkRecords(doc *domain.ParsedDocument, source, collection string) (domain.DocumentInfo, []driven.ChunkRecord) {
	chunks := s.chunker.Split(doc.Content)
	if len(chunks) == 0 {
		return domain.DocumentInfo{}, nil
	}

	docID := uuid.New().String()

	records := make([]driven.ChunkRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = driven.ChunkRecord{
			Content: chunk,
			Metadata: map[string]any{
				domain.MetaSource:      source,
				domain.MetaFilePath:    doc.FilePath,
				domain.MetaTitle:       doc.Title,
				domain.MetaChunk:       i + 1,
				domain.MetaTotalChunks: len(chunks),
				domain.MetaDocID:       docID,
				domain.MetaCollection:  collection,
			},
		}
	}

	info := domain.DocumentInfo{
		ID:         docID,
		Filename:   doc.Filename,
		FilePath:   doc.FilePath,
		Title:      doc.Title,
		ChunkCount: len(chunks),
		LoadedAt:   time.Now(),
	}
	return info, records
}

// relativeSource computes the forward-slash source locator for a file
// under root, falling back to the bare filename.
func relativeSource(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.Base(path)
}

// findHTMLFiles returns every .html/.htm file under root, walked in
// lexical order. Extension matching is case-insensitive.
func findHTMLFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".html", ".htm":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
