package domain

import (
	"encoding/json"
	"path"
	"strings"
)

// ProjectDescriptor is the payload of a project descriptor file.
type ProjectDescriptor struct {
	// Name is the namespace prepended to ids resolved under the project's roots.
	Name string `json:"name,omitempty"`
	// Roots are directories relative to the descriptor's directory.
	Roots []string `json:"roots,omitempty"`
}

// ProjectConfig is a resource that governs the files beneath its roots.
type ProjectConfig struct {
	Base
	Descriptor ProjectDescriptor
}

// NewProjectConfig creates a project configuration for the descriptor at p.
// Its id is always its path.
func NewProjectConfig(p string, mtime int64, descriptor ProjectDescriptor) *ProjectConfig {
	p = NormalizePath(p)
	return &ProjectConfig{
		Base:       Base{Path: p, ID: p, MTime: mtime},
		Descriptor: descriptor,
	}
}

// Kind returns KindProjectConfig.
func (c *ProjectConfig) Kind() Kind { return KindProjectConfig }

// Dependencies returns nil; configurations are not part of the dependency graph.
func (c *ProjectConfig) Dependencies() []Ref { return nil }

// Dir returns the directory containing the descriptor.
func (c *ProjectConfig) Dir() string {
	return path.Dir(c.Path)
}

// Namespace returns the descriptor name, defaulting to the directory's base name.
func (c *ProjectConfig) Namespace() string {
	if c.Descriptor.Name != "" {
		return c.Descriptor.Name
	}
	return path.Base(c.Dir())
}

// Roots returns the normalized directories governed by this configuration.
func (c *ProjectConfig) Roots() []string {
	dir := c.Dir()
	if len(c.Descriptor.Roots) == 0 {
		return []string{dir}
	}
	roots := make([]string, 0, len(c.Descriptor.Roots))
	for _, r := range c.Descriptor.Roots {
		roots = append(roots, path.Join(dir, filepathToSlash(r)))
	}
	return roots
}

// ResolveID maps a path beneath one of the roots to a namespaced logical id.
// The deepest root containing p is used. It returns false when p is outside every root.
func (c *ProjectConfig) ResolveID(p string) (string, bool) {
	p = NormalizePath(p)
	best := ""
	found := false
	for _, root := range c.Roots() {
		if !IsWithin(p, root) {
			continue
		}
		if !found || len(root) > len(best) {
			best = root
			found = true
		}
	}
	if !found {
		return "", false
	}
	rel := strings.TrimPrefix(strings.TrimPrefix(p, best), "/")
	if best == "." {
		rel = p
	}
	return c.Namespace() + "/" + rel, true
}

// MarshalFields encodes the descriptor.
func (c *ProjectConfig) MarshalFields() ([]byte, error) {
	return json.Marshal(c.Descriptor)
}

// UnmarshalFields decodes the descriptor.
func (c *ProjectConfig) UnmarshalFields(data []byte) error {
	return json.Unmarshal(data, &c.Descriptor)
}

// IsWithin reports whether p lies strictly beneath dir. Both must be normalized.
func IsWithin(p, dir string) bool {
	if dir == "." {
		return !path.IsAbs(p) && p != "." && !strings.HasPrefix(p, "../")
	}
	return strings.HasPrefix(p, dir+"/")
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
