// Package cas implements the JSON file backend for the persisted resource graph.
package cas

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.GraphStore = (*Store)(nil)

// Store implements ports.GraphStore using a flat JSON file.
type Store struct {
	mu sync.RWMutex
}

// NewStore creates a new JSON graph store.
func NewStore() *Store {
	return &Store{}
}

// Load reads the graph stored at path. A missing or empty file yields nil, nil.
func (s *Store) Load(_ context.Context, path string) (*domain.PersistedGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var graph domain.PersistedGraph
	if err := json.Unmarshal(data, &graph); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}
	return &graph, nil
}

// Save writes graph to path, replacing any previous content atomically.
func (s *Store) Save(_ context.Context, path string, graph *domain.PersistedGraph) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}

	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory for graph cache"), "path", path)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Best effort cleanup; fails once renamed

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	return nil
}
