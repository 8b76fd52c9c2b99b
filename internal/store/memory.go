// Package store provides asset.Store implementations.
//
// MemoryStore keeps sources in memory and is meant for tests and embedding.
// FilesystemStore serves assets from a directory tree:
//
//	<root>/content/dam/hero.jpg                    original binary
//	<root>/content/dam/hero.jpg.meta.yaml          optional metadata sidecar
//	<root>/content/dam/hero.jpg.renditions/<name>  stored renditions
//
// Both stores are safe for concurrent use and return copies, so callers may
// modify what they load.
package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ironsheep/media-handler/internal/asset"
	"github.com/ironsheep/media-handler/internal/media"
)

// MemoryStore is an in-memory asset.Store
type MemoryStore struct {
	mu      sync.RWMutex
	sources map[string]*asset.Source
}

// NewMemoryStore creates a store holding copies of sources
func NewMemoryStore(sources ...*asset.Source) (*MemoryStore, error) {
	s := &MemoryStore{sources: make(map[string]*asset.Source)}
	for _, src := range sources {
		if err := s.Put(src); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Put stores a copy of src under its path, replacing any previous source
func (s *MemoryStore) Put(src *asset.Source) error {
	if src == nil || src.Path == "" {
		return fmt.Errorf("%w: source without path", media.ErrInvalidArgument)
	}
	s.mu.Lock()
	s.sources[src.Path] = src.Clone()
	s.mu.Unlock()
	return nil
}

// Delete removes the source at path
func (s *MemoryStore) Delete(path string) {
	s.mu.Lock()
	delete(s.sources, path)
	s.mu.Unlock()
}

// Load implements asset.Store
func (s *MemoryStore) Load(path string) (*asset.Source, error) {
	s.mu.RLock()
	src, ok := s.sources[path]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", asset.ErrAssetNotFound, path)
	}
	return src.Clone(), nil
}

// Paths returns all stored paths in sorted order
func (s *MemoryStore) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.sources))
	for p := range s.sources {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

var _ asset.Store = (*MemoryStore)(nil)
