package loaders

import (
	"context"
	"path"
	"regexp"

	"go.trai.ch/assetmap/internal/core/domain"
)

// DefaultStylesheetExtensions are claimed when the descriptor lists none.
var DefaultStylesheetExtensions = []string{".css"}

var (
	cssImportPattern   = regexp.MustCompile(`@import\s+(?:url\(\s*)?['"]?([^'"()\s;]+)['"]?\s*\)?`)
	cssProvidesPattern = regexp.MustCompile(`/\*[^*]*@provides\s+(\S+)`)
	cssCommentPattern  = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// StylesheetLoader parses CSS files and extracts their @import dependencies.
type StylesheetLoader struct {
	base
}

// NewStylesheetLoader creates a stylesheet loader from desc.
func NewStylesheetLoader(desc domain.LoaderDescriptor) (*StylesheetLoader, error) {
	b, err := newBase(domain.KindStylesheet, desc, DefaultStylesheetExtensions)
	if err != nil {
		return nil, err
	}
	return &StylesheetLoader{base: b}, nil
}

// LoadFromPath parses the stylesheet at p.
func (l *StylesheetLoader) LoadFromPath(ctx context.Context, p string, cfg *domain.ProjectConfig) (domain.Resource, error) {
	data, mtime, err := readFile(ctx, p)
	if err != nil {
		return nil, err
	}
	src := string(data)

	s := domain.NewStylesheet(p, mtime)
	if provided := cssProvidesPattern.FindStringSubmatch(src); provided != nil {
		s.ID = provided[1]
	} else {
		s.ID = resolveID(s.Path, cfg, false)
	}

	for _, m := range cssImportPattern.FindAllStringSubmatch(cssCommentPattern.ReplaceAllString(src, ""), -1) {
		s.RequiredCSS = appendUnique(s.RequiredCSS, m[1])
	}
	return s, nil
}

// PostProcess rewrites relative imports to the ids of the stylesheets they point at.
func (l *StylesheetLoader) PostProcess(ctx context.Context, graph *domain.ResourceGraph, resources []domain.Resource) error {
	for _, r := range resources {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, ok := r.(*domain.Stylesheet)
		if !ok {
			continue
		}
		dir := path.Dir(s.Path)
		for i, spec := range s.RequiredCSS {
			if !isRelative(spec) {
				continue
			}
			if target := probe(graph, path.Join(dir, spec), l.extensions, domain.KindStylesheet); target != nil {
				s.RequiredCSS[i] = target.Core().ID
			}
		}
	}
	return nil
}
