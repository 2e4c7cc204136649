package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/assetmap/internal/core/domain"
)

func TestConfigurationTrie(t *testing.T) {
	outer := domain.NewProjectConfig("/w/a/b/project.json", 1, domain.ProjectDescriptor{Name: "outer"})
	inner := domain.NewProjectConfig("/w/a/b/c/project.json", 1, domain.ProjectDescriptor{Name: "inner"})
	trie := domain.NewConfigurationTrie([]*domain.ProjectConfig{inner, outer})

	tests := []struct {
		name string
		path string
		want *domain.ProjectConfig
	}{
		{"deepest root wins", "/w/a/b/c/d.js", inner},
		{"nested file", "/w/a/b/c/d/e.js", inner},
		{"outer root", "/w/a/b/x.js", outer},
		{"sibling is not a prefix", "/w/a/bc/x.js", nil},
		{"outside every root", "/w/z.js", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.want, trie.FindConfiguration(tt.path))
		})
	}

	assert.Equal(t, []*domain.ProjectConfig{outer, inner}, trie.Configurations())
}

func TestConfigurationTrie_SharedRoot(t *testing.T) {
	first := domain.NewProjectConfig("/w/a/project.json", 1, domain.ProjectDescriptor{Roots: []string{"../shared"}})
	second := domain.NewProjectConfig("/w/b/project.json", 1, domain.ProjectDescriptor{Roots: []string{"../shared"}})
	trie := domain.NewConfigurationTrie([]*domain.ProjectConfig{second, first})

	assert.Same(t, first, trie.FindConfiguration("/w/shared/x.js"))
}

func TestConfigurationTrie_Nil(t *testing.T) {
	var trie *domain.ConfigurationTrie
	assert.Nil(t, trie.FindConfiguration("/w/x.js"))
	assert.Nil(t, trie.Configurations())
}

func TestProjectConfig_ResolveID(t *testing.T) {
	cfg := domain.NewProjectConfig("/w/app/project.json", 1, domain.ProjectDescriptor{
		Name:  "ui",
		Roots: []string{"src", "src/widgets"},
	})

	id, ok := cfg.ResolveID("/w/app/src/widgets/menu.js")
	assert.True(t, ok)
	assert.Equal(t, "ui/menu.js", id)

	id, ok = cfg.ResolveID("/w/app/src/main.js")
	assert.True(t, ok)
	assert.Equal(t, "ui/main.js", id)

	_, ok = cfg.ResolveID("/w/app/test/main.js")
	assert.False(t, ok)

	unnamed := domain.NewProjectConfig("/w/lib/project.json", 1, domain.ProjectDescriptor{})
	assert.Equal(t, "lib", unnamed.Namespace())
	assert.Equal(t, []string{"/w/lib"}, unnamed.Roots())
}
