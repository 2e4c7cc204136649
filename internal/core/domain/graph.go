// Package domain contains the core domain models of the resource dependency graph.
package domain

import (
	"maps"
	"sync"

	"go.trai.ch/zerr"
)

// ResourceGraph is the authoritative set of live resources.
// It is indexed by path and by (bucket, id); kinds listed in the alias table share a bucket.
// Mutations are single-writer. Derived caches may be read concurrently.
type ResourceGraph struct {
	byPath   map[string]Resource
	byBucket map[Kind]map[string]Resource
	aliases  map[Kind]Kind

	mu     sync.Mutex
	trie   *ConfigurationTrie
	sorted []Resource
}

// GraphOption configures a ResourceGraph at construction.
type GraphOption func(*ResourceGraph)

// WithAliases routes the key kinds into the bucket of the value kinds.
func WithAliases(aliases map[Kind]Kind) GraphOption {
	return func(g *ResourceGraph) {
		g.aliases = maps.Clone(aliases)
	}
}

// NewResourceGraph creates an empty graph.
func NewResourceGraph(opts ...GraphOption) *ResourceGraph {
	g := &ResourceGraph{
		byPath:   make(map[string]Resource),
		byBucket: make(map[Kind]map[string]Resource),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.aliases == nil {
		g.aliases = make(map[Kind]Kind)
	}
	return g
}

// Aliases returns a copy of the alias table.
func (g *ResourceGraph) Aliases() map[Kind]Kind {
	return maps.Clone(g.aliases)
}

// Bucket returns the index bucket of k.
func (g *ResourceGraph) Bucket(k Kind) Kind {
	if b, ok := g.aliases[k]; ok {
		return b
	}
	return k
}

// Get returns the resource with the given id in the bucket of k, or nil.
func (g *ResourceGraph) Get(k Kind, id string) Resource {
	return g.byBucket[g.Bucket(k)][id]
}

// GetByPath returns the live resource at p, or nil.
func (g *ResourceGraph) GetByPath(p string) Resource {
	return g.byPath[NormalizePath(p)]
}

// GetAllByType returns every resource in the bucket of k, sorted by path.
// Kinds aliased into the same bucket are included.
func (g *ResourceGraph) GetAllByType(k Kind) []Resource {
	bucket := g.byBucket[g.Bucket(k)]
	out := make([]Resource, 0, len(bucket))
	for _, r := range bucket {
		out = append(out, r)
	}
	SortByPath(out)
	return out
}

// All returns every live resource sorted by path.
// The slice is memoized until the next mutation and must not be modified.
func (g *ResourceGraph) All() []Resource {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sorted == nil {
		sorted := make([]Resource, 0, len(g.byPath))
		for _, r := range g.byPath {
			sorted = append(sorted, r)
		}
		SortByPath(sorted)
		g.sorted = sorted
	}
	return g.sorted
}

// Len returns the number of live resources.
func (g *ResourceGraph) Len() int {
	return len(g.byPath)
}

// Add inserts r into both indices.
// It returns ErrDuplicatePath if the path is live and ErrDuplicateID if the id is taken in r's bucket.
func (g *ResourceGraph) Add(r Resource) error {
	core := r.Core()
	if _, exists := g.byPath[core.Path]; exists {
		return zerr.With(ErrDuplicatePath, "path", core.Path)
	}
	bucket := g.Bucket(r.Kind())
	ids := g.byBucket[bucket]
	if ids == nil {
		ids = make(map[string]Resource)
		g.byBucket[bucket] = ids
	}
	if existing, exists := ids[core.ID]; exists {
		err := zerr.With(ErrDuplicateID, "id", core.ID)
		err = zerr.With(err, "kind", bucket.String())
		err = zerr.With(err, "path", core.Path)
		return zerr.With(err, "existing_path", existing.Core().Path)
	}
	g.byPath[core.Path] = r
	ids[core.ID] = r
	g.InvalidateCaches()
	return nil
}

// Update replaces old with replacement.
func (g *ResourceGraph) Update(old, replacement Resource) error {
	g.Remove(old)
	return g.Add(replacement)
}

// Remove deletes r from both indices. Removing an absent resource is a no-op.
func (g *ResourceGraph) Remove(r Resource) {
	if r == nil {
		return
	}
	core := r.Core()
	removed := false
	if live, ok := g.byPath[core.Path]; ok && live == r {
		delete(g.byPath, core.Path)
		removed = true
	}
	bucket := g.Bucket(r.Kind())
	if live, ok := g.byBucket[bucket][core.ID]; ok && live == r {
		delete(g.byBucket[bucket], core.ID)
		removed = true
	}
	if removed {
		g.InvalidateCaches()
	}
}

// InvalidateCaches drops the memoized trie and sorted list.
func (g *ResourceGraph) InvalidateCaches() {
	g.mu.Lock()
	g.trie = nil
	g.sorted = nil
	g.mu.Unlock()
}

// Configurations returns every live project configuration sorted by path.
func (g *ResourceGraph) Configurations() []*ProjectConfig {
	var configs []*ProjectConfig
	for _, r := range g.All() {
		if c, ok := r.(*ProjectConfig); ok {
			configs = append(configs, c)
		}
	}
	return configs
}

// ConfigurationFor returns the project configuration governing p, or nil.
func (g *ResourceGraph) ConfigurationFor(p string) *ProjectConfig {
	return g.Trie().FindConfiguration(p)
}

// Trie returns the memoized configuration trie, building it on first use.
func (g *ResourceGraph) Trie() *ConfigurationTrie {
	configs := g.Configurations()
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.trie == nil {
		g.trie = NewConfigurationTrie(configs)
	}
	return g.trie
}
