package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// fakeVectorStore records Add and DeleteCollection calls.
type fakeVectorStore struct {
	adds        []addCall
	deletes     []string
	addErr      error
	deleteErr   error
	addCalls    int
	failOnBatch int // 1-based Add call index to fail on; 0 means use addErr for all
}

type addCall struct {
	collection string
	records    []driven.ChunkRecord
}

func (f *fakeVectorStore) Add(_ context.Context, collection string, records []driven.ChunkRecord) error {
	f.addCalls++
	if f.failOnBatch > 0 && f.addCalls == f.failOnBatch {
		return errors.New("batch rejected")
	}
	if f.failOnBatch == 0 && f.addErr != nil {
		return f.addErr
	}
	f.adds = append(f.adds, addCall{collection: collection, records: records})
	return nil
}

func (f *fakeVectorStore) Search(context.Context, string, string, int) ([]driven.ChunkMatch, error) {
	return nil, nil
}

func (f *fakeVectorStore) DeleteCollection(_ context.Context, collection string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, collection)
	return nil
}

func (f *fakeVectorStore) Close() error { return nil }

// fakeNormaliser returns the raw input as content and the filename stem
// as title, mirroring the shape of real output without HTML parsing.
type fakeNormaliser struct {
	err       error
	failFiles map[string]bool // basenames that fail to parse
}

func (f *fakeNormaliser) NormaliseFile(_ context.Context, path string) (*domain.ParsedDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.failFiles[filepath.Base(path)] {
		return nil, errors.New("malformed document")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	return &domain.ParsedDocument{
		Title:    strings.TrimSuffix(name, filepath.Ext(name)),
		Content:  strings.TrimSpace(string(data)),
		Filename: name,
		FilePath: path,
	}, nil
}

func (f *fakeNormaliser) NormaliseString(_ context.Context, html, filename string) (*domain.ParsedDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ParsedDocument{
		Title:    strings.TrimSuffix(filename, filepath.Ext(filename)),
		Content:  strings.TrimSpace(html),
		Filename: filename,
	}, nil
}

// fixedChunker splits into fixed-size pieces without overlap.
type fixedChunker struct {
	size int
}

func (c *fixedChunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var chunks []string
	for len(text) > c.size {
		chunks = append(chunks, text[:c.size])
		text = text[c.size:]
	}
	return append(chunks, text)
}

// fakeRegistry records Put calls.
type fakeRegistry struct {
	puts []domain.DocumentInfo
}

func (f *fakeRegistry) Put(info domain.DocumentInfo) { f.puts = append(f.puts, info) }

func (f *fakeRegistry) List() []domain.DocumentInfo { return f.puts }

func (f *fakeRegistry) GetByFilename(filename string) *domain.DocumentInfo {
	for i := range f.puts {
		if f.puts[i].Filename == filename {
			return &f.puts[i]
		}
	}
	return nil
}

func (f *fakeRegistry) Clear() { f.puts = nil }

func newTestDocumentService(store *fakeVectorStore, chunkSize int) (*DocumentService, *fakeRegistry) {
	registry := &fakeRegistry{}
	svc := NewDocumentService(store, &fakeNormaliser{}, &fixedChunker{size: chunkSize}, registry)
	return svc, registry
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadStringBatchesChunks(t *testing.T) {
	store := &fakeVectorStore{}
	svc, registry := newTestDocumentService(store, 1)

	// 250 one-character chunks must be submitted as 100 + 100 + 50.
	chunks, err := svc.LoadString(context.Background(), strings.Repeat("x", 250), "big.html")
	require.NoError(t, err)
	assert.Equal(t, 250, chunks)

	require.Len(t, store.adds, 3)
	assert.Len(t, store.adds[0].records, 100)
	assert.Len(t, store.adds[1].records, 100)
	assert.Len(t, store.adds[2].records, 50)

	require.Len(t, registry.puts, 1)
	assert.Equal(t, 250, registry.puts[0].ChunkCount)
}

func TestLoadStringChunkMetadata(t *testing.T) {
	store := &fakeVectorStore{}
	svc, registry := newTestDocumentService(store, 4)

	_, err := svc.LoadString(context.Background(), "abcdefgh", "guide.html")
	require.NoError(t, err)

	require.Len(t, store.adds, 1)
	records := store.adds[0].records
	require.Len(t, records, 2)

	first := records[0].Metadata
	assert.Equal(t, "guide.html", first[domain.MetaSource])
	assert.Equal(t, "guide", first[domain.MetaTitle])
	assert.Equal(t, 1, first[domain.MetaChunk])
	assert.Equal(t, 2, first[domain.MetaTotalChunks])
	assert.Equal(t, domain.DefaultCollection, first[domain.MetaCollection])
	assert.NotEmpty(t, first[domain.MetaDocID])

	second := records[1].Metadata
	assert.Equal(t, 2, second[domain.MetaChunk])
	assert.Equal(t, first[domain.MetaDocID], second[domain.MetaDocID])

	require.Len(t, registry.puts, 1)
	assert.Equal(t, first[domain.MetaDocID], registry.puts[0].ID)
}

func TestLoadStringBatchFailureNotRegistered(t *testing.T) {
	store := &fakeVectorStore{failOnBatch: 2}
	svc, registry := newTestDocumentService(store, 1)

	_, err := svc.LoadString(context.Background(), strings.Repeat("x", 150), "big.html")
	require.Error(t, err)

	// First batch landed, second failed: the document must not appear
	// in the registry.
	assert.Empty(t, registry.puts)
}

func TestLoadStringEmptyContent(t *testing.T) {
	store := &fakeVectorStore{}
	svc, registry := newTestDocumentService(store, 10)

	chunks, err := svc.LoadString(context.Background(), "   ", "empty.html")
	require.NoError(t, err)
	assert.Zero(t, chunks)
	assert.Empty(t, store.adds)
	assert.Empty(t, registry.puts)
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", "index content")
	writeFile(t, dir, "guide/setup.htm", "setup content")
	writeFile(t, dir, "notes.txt", "ignored")

	store := &fakeVectorStore{}
	svc, registry := newTestDocumentService(store, 1000)

	result := svc.LoadFromDirectory(context.Background(), dir, "docs")

	assert.Equal(t, 2, result.FilesProcessed)
	assert.Equal(t, 2, result.ChunksCreated)
	assert.Zero(t, result.Errors)
	assert.Contains(t, result.Message, "Loaded 2 files")
	assert.Contains(t, result.Message, "collection docs")

	// The collection is wiped before anything is added.
	assert.Equal(t, []string{"docs"}, store.deletes)
	assert.Len(t, registry.puts, 2)
}

func TestLoadFromDirectorySourceIsRelative(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "guide/setup.html", "setup content")

	store := &fakeVectorStore{}
	svc, _ := newTestDocumentService(store, 1000)

	result := svc.LoadFromDirectory(context.Background(), dir, "docs")
	require.Equal(t, 1, result.FilesProcessed)

	require.Len(t, store.adds, 1)
	meta := store.adds[0].records[0].Metadata
	assert.Equal(t, "guide/setup.html", meta[domain.MetaSource])
}

func TestLoadFromDirectoryDefaultCollection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.html", "content")

	store := &fakeVectorStore{}
	svc, _ := newTestDocumentService(store, 1000)

	svc.LoadFromDirectory(context.Background(), dir, "")

	assert.Equal(t, []string{domain.DefaultCollection}, store.deletes)
	require.Len(t, store.adds, 1)
	assert.Equal(t, domain.DefaultCollection, store.adds[0].collection)
}

func TestLoadFromDirectoryMissing(t *testing.T) {
	store := &fakeVectorStore{}
	svc, _ := newTestDocumentService(store, 1000)

	result := svc.LoadFromDirectory(context.Background(), "/nonexistent/path", "docs")

	assert.Equal(t, 1, result.Errors)
	assert.Contains(t, result.Message, "Directory not found")
	// Nothing was wiped or added.
	assert.Empty(t, store.deletes)
	assert.Empty(t, store.adds)
}

func TestLoadFromDirectoryWipeFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.html", "content")

	store := &fakeVectorStore{deleteErr: errors.New("chroma down")}
	svc, _ := newTestDocumentService(store, 1000)

	result := svc.LoadFromDirectory(context.Background(), dir, "docs")

	assert.Equal(t, 1, result.Errors)
	assert.Contains(t, result.Message, "Failed to clear collection")
	assert.Empty(t, store.adds)
}

func TestLoadFromDirectoryParseFailureIsolated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.html", "a content")
	writeFile(t, dir, "b.html", "b content")

	store := &fakeVectorStore{}
	registry := &fakeRegistry{}
	normaliser := &fakeNormaliser{failFiles: map[string]bool{"a.html": true}}
	svc := NewDocumentService(store, normaliser, &fixedChunker{size: 1000}, registry)

	result := svc.LoadFromDirectory(context.Background(), dir, "docs")

	assert.Equal(t, 1, result.FilesProcessed)
	assert.Equal(t, 1, result.Errors)
	assert.Contains(t, result.Message, "1 failed: a.html")
	require.Len(t, registry.puts, 1)
	assert.Equal(t, "b.html", registry.puts[0].Filename)
}

func TestLoadFromDirectoryBatchesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	// 5 files of 50 one-character chunks each: 250 records total must go
	// out as exactly 100 + 100 + 50, filling batches across file
	// boundaries instead of one call per file.
	for _, name := range []string{"a.html", "b.html", "c.html", "d.html", "e.html"} {
		writeFile(t, dir, name, strings.Repeat("x", 50))
	}

	store := &fakeVectorStore{}
	svc, registry := newTestDocumentService(store, 1)

	result := svc.LoadFromDirectory(context.Background(), dir, "docs")

	assert.Equal(t, 5, result.FilesProcessed)
	assert.Equal(t, 250, result.ChunksCreated)
	assert.Zero(t, result.Errors)

	require.Equal(t, 3, store.addCalls)
	assert.Len(t, store.adds[0].records, 100)
	assert.Len(t, store.adds[1].records, 100)
	assert.Len(t, store.adds[2].records, 50)

	assert.Len(t, registry.puts, 5)
}

func TestLoadFromDirectoryLateBatchFailure(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.html", "b.html", "c.html", "d.html", "e.html"} {
		writeFile(t, dir, name, strings.Repeat("x", 50))
	}

	// Batches 1 and 2 (records 1-200) land; batch 3 fails. The four
	// documents fully covered by the first 200 records stay registered.
	store := &fakeVectorStore{failOnBatch: 3}
	svc, registry := newTestDocumentService(store, 1)

	result := svc.LoadFromDirectory(context.Background(), dir, "docs")

	assert.Equal(t, 1, result.Errors)
	assert.Contains(t, result.Message, "store submission failed")

	require.Len(t, registry.puts, 4)
	for _, info := range registry.puts {
		assert.NotEqual(t, "e.html", info.Filename)
	}
}

func TestLoadFromDirectoryDocSpanningBatchBoundary(t *testing.T) {
	dir := t.TempDir()
	// 80 + 40 chunks: the second document straddles the first batch
	// boundary, so it must not be registered until batch 2 lands.
	writeFile(t, dir, "a.html", strings.Repeat("x", 80))
	writeFile(t, dir, "b.html", strings.Repeat("x", 40))

	store := &fakeVectorStore{failOnBatch: 2}
	svc, registry := newTestDocumentService(store, 1)

	result := svc.LoadFromDirectory(context.Background(), dir, "docs")

	assert.Equal(t, 1, result.Errors)
	require.Len(t, registry.puts, 1)
	assert.Equal(t, "a.html", registry.puts[0].Filename)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "single.html", "single content")

	store := &fakeVectorStore{}
	svc, registry := newTestDocumentService(store, 1000)

	chunks, err := svc.LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, chunks)

	// Single-file loads never wipe.
	assert.Empty(t, store.deletes)

	require.Len(t, registry.puts, 1)
	assert.Equal(t, "single.html", registry.puts[0].Filename)
	got := svc.GetByFilename("single.html")
	require.NotNil(t, got)
	assert.Equal(t, "single", got.Title)
}

func TestClearRegistry(t *testing.T) {
	store := &fakeVectorStore{}
	svc, _ := newTestDocumentService(store, 1000)

	_, err := svc.LoadString(context.Background(), "content", "a.html")
	require.NoError(t, err)
	require.Len(t, svc.ListLoaded(), 1)

	svc.ClearRegistry()
	assert.Empty(t, svc.ListLoaded())
}
