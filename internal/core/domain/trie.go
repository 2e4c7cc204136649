package domain

import (
	"slices"
	"strings"
)

type trieNode struct {
	children map[InternedString]*trieNode
	config   *ProjectConfig
}

func (n *trieNode) child(seg InternedString) *trieNode {
	if n.children == nil {
		n.children = make(map[InternedString]*trieNode)
	}
	c, ok := n.children[seg]
	if !ok {
		c = &trieNode{}
		n.children[seg] = c
	}
	return c
}

// ConfigurationTrie maps directories to the project configuration governing them.
// It is immutable once built.
type ConfigurationTrie struct {
	root    *trieNode
	configs []*ProjectConfig
}

// NewConfigurationTrie indexes every root of every configuration.
// When two configurations claim the same root, the one whose path sorts first wins.
func NewConfigurationTrie(configs []*ProjectConfig) *ConfigurationTrie {
	sorted := slices.Clone(configs)
	slices.SortFunc(sorted, func(a, b *ProjectConfig) int {
		return strings.Compare(a.Path, b.Path)
	})

	t := &ConfigurationTrie{root: &trieNode{}, configs: sorted}
	for _, c := range sorted {
		for _, root := range c.Roots() {
			node := t.root
			for _, seg := range InternSegments(root) {
				node = node.child(seg)
			}
			if node.config == nil {
				node.config = c
			}
		}
	}
	return t
}

// FindConfiguration returns the configuration with the deepest root containing p, or nil.
// Only the directory segments of p are considered.
func (t *ConfigurationTrie) FindConfiguration(p string) *ProjectConfig {
	if t == nil {
		return nil
	}
	segs := InternSegments(NormalizePath(p))
	if len(segs) == 0 {
		return t.root.config
	}
	found := t.root.config
	node := t.root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := node.children[seg]
		if !ok {
			break
		}
		node = next
		if node.config != nil {
			found = node.config
		}
	}
	return found
}

// Configurations returns the configurations the trie was built from, sorted by path.
func (t *ConfigurationTrie) Configurations() []*ProjectConfig {
	if t == nil {
		return nil
	}
	return slices.Clone(t.configs)
}
