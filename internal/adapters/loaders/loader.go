// Package loaders implements the per-kind resource loaders and the factory that rebuilds them from descriptors.
package loaders

import (
	"context"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/zerr"
)

// base carries the matching rules shared by every loader.
type base struct {
	descriptor domain.LoaderDescriptor
	kind       domain.Kind
	extensions []string
	patterns   []glob.Glob
}

func newBase(kind domain.Kind, desc domain.LoaderDescriptor, defaultExtensions []string) (base, error) {
	exts := desc.Extensions
	if len(exts) == 0 {
		exts = defaultExtensions
	}
	b := base{
		descriptor: desc,
		kind:       kind,
		extensions: make([]string, 0, len(exts)),
	}
	b.descriptor.Extensions = slices.Clone(exts)
	for _, e := range exts {
		b.extensions = append(b.extensions, strings.ToLower(e))
	}
	for _, p := range desc.Patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return base{}, zerr.With(zerr.With(zerr.Wrap(err, "invalid loader pattern"), "loader", desc.Name), "pattern", p)
		}
		b.patterns = append(b.patterns, g)
	}
	return b, nil
}

// Name returns the registered loader name.
func (b *base) Name() string { return b.descriptor.Name }

// Kind returns the kind of resource produced.
func (b *base) Kind() domain.Kind { return b.kind }

// Extensions returns the claimed extensions.
func (b *base) Extensions() []string { return slices.Clone(b.extensions) }

// Descriptor returns the serializable loader configuration.
func (b *base) Descriptor() domain.LoaderDescriptor { return b.descriptor }

// MatchPath reports whether p has a claimed extension and, when patterns are configured, matches one of them.
func (b *base) MatchPath(p string) bool {
	p = domain.NormalizePath(p)
	if !slices.Contains(b.extensions, strings.ToLower(path.Ext(p))) {
		return false
	}
	if len(b.patterns) == 0 {
		return true
	}
	for _, g := range b.patterns {
		if g.Match(p) || g.Match(path.Base(p)) {
			return true
		}
	}
	return false
}

// PostProcess does nothing by default.
func (b *base) PostProcess(context.Context, *domain.ResourceGraph, []domain.Resource) error {
	return nil
}

// readFile returns the content and modification time of p.
func readFile(ctx context.Context, p string) ([]byte, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, 0, zerr.With(zerr.Wrap(err, domain.ErrLoaderRead.Error()), "path", p)
	}
	data, err := os.ReadFile(p) //nolint:gosec // path comes from the scanner
	if err != nil {
		return nil, 0, zerr.With(zerr.Wrap(err, domain.ErrLoaderRead.Error()), "path", p)
	}
	return data, info.ModTime().UnixMilli(), nil
}

// statFile returns the modification time of p without reading it.
func statFile(ctx context.Context, p string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrLoaderRead.Error()), "path", p)
	}
	return info.ModTime().UnixMilli(), nil
}

func parseError(err error, p string) error {
	return zerr.With(zerr.Wrap(err, domain.ErrLoaderParse.Error()), "path", p)
}

// resolveID maps p through cfg, falling back to the path itself.
func resolveID(p string, cfg *domain.ProjectConfig, stripExt bool) string {
	if cfg == nil {
		return p
	}
	id, ok := cfg.ResolveID(p)
	if !ok {
		return p
	}
	if stripExt {
		id = strings.TrimSuffix(id, path.Ext(id))
	}
	return id
}

func isRelative(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// appendUnique appends s when it is not already present.
func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}
