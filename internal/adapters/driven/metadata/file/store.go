// Package file provides a JSON file-backed collection metadata store.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.MetadataStore = (*Store)(nil)

// metadataFile is the store file name within the data directory.
const metadataFile = "collections.json"

// Store persists collection metadata as a single JSON object mapping
// collection/alias names to their entries. The file is reloaded on every
// read and rewritten atomically on every write.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a metadata store rooted in dataDir.
// If dataDir is empty, defaults to ~/.docchat.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docchat")
	}

	return &Store{
		path: filepath.Join(dataDir, metadataFile),
	}, nil
}

// Get returns the entry for the given name, or nil if none exists.
func (s *Store) Get(name string) (*domain.CollectionMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}

	meta, ok := entries[name]
	if !ok {
		return nil, nil
	}
	return &meta, nil
}

// All returns every entry keyed by collection/alias name.
func (s *Store) All() (map[string]domain.CollectionMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Set stores or replaces the entry for the given name.
func (s *Store) Set(name string, meta domain.CollectionMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}

	entries[name] = meta
	return s.write(entries)
}

// Delete removes the entry for the given name. Absent is success.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := entries[name]; !ok {
		return nil
	}

	delete(entries, name)
	return s.write(entries)
}

// Path returns the metadata file path.
func (s *Store) Path() string {
	return s.path
}

// load reads the file from disk. A missing file yields an empty map.
func (s *Store) load() (map[string]domain.CollectionMetadata, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]domain.CollectionMetadata), nil
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var entries map[string]domain.CollectionMetadata
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if entries == nil {
		entries = make(map[string]domain.CollectionMetadata)
	}

	return entries, nil
}

// write replaces the file atomically via a temp file and rename, so a
// crash mid-write never leaves a truncated store behind.
func (s *Store) write(entries map[string]domain.CollectionMetadata) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), metadataFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace metadata: %w", err)
	}

	return nil
}
