package loaders

import (
	"context"
	"path"
	"strings"

	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/core/ports"
)

// DefaultFontExtensions are claimed when the descriptor lists none.
var DefaultFontExtensions = []string{".woff", ".woff2", ".ttf", ".otf", ".eot"}

var fontFormats = map[string]string{
	".woff":  "woff",
	".woff2": "woff2",
	".ttf":   "truetype",
	".otf":   "opentype",
	".eot":   "embedded-opentype",
}

// FontLoader records font formats and content hashes.
type FontLoader struct {
	base
	hasher ports.Hasher
}

// NewFontLoader creates a font loader from desc.
func NewFontLoader(desc domain.LoaderDescriptor, hasher ports.Hasher) (*FontLoader, error) {
	b, err := newBase(domain.KindFont, desc, DefaultFontExtensions)
	if err != nil {
		return nil, err
	}
	return &FontLoader{base: b, hasher: hasher}, nil
}

// LoadFromPath hashes the font at p.
func (l *FontLoader) LoadFromPath(ctx context.Context, p string, cfg *domain.ProjectConfig) (domain.Resource, error) {
	mtime, err := statFile(ctx, p)
	if err != nil {
		return nil, err
	}

	f := domain.NewFont(p, mtime)
	f.ID = resolveID(f.Path, cfg, false)
	f.Format = fontFormats[strings.ToLower(path.Ext(p))]

	hash, err := l.hasher.ComputeFileHash(p)
	if err != nil {
		return nil, err
	}
	f.Hash = hash
	return f, nil
}
