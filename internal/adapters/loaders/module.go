package loaders

import (
	"context"
	"path"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultModuleExtensions are claimed when the descriptor lists none.
var DefaultModuleExtensions = []string{".js", ".jsx", ".mjs", ".cjs"}

var (
	docblockPattern = regexp.MustCompile(`(?s)^\s*/\*\*(.*?)\*/`)
	providesPattern = regexp.MustCompile(`@providesModule\s+(\S+)`)
	requirePattern  = regexp.MustCompile(`\brequire\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	importPattern   = regexp.MustCompile(`(?m)^[\t ]*(?:import|export)\s+(?:[\w*{}\s,$]+?\s+from\s+)?['"]([^'"]+)['"]`)
	dynamicPattern  = regexp.MustCompile(`\bimport\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

// ModuleLoader parses script modules and extracts their module and stylesheet requirements.
type ModuleLoader struct {
	base
}

// NewModuleLoader creates a module loader from desc.
func NewModuleLoader(desc domain.LoaderDescriptor) (*ModuleLoader, error) {
	b, err := newBase(domain.KindModule, desc, DefaultModuleExtensions)
	if err != nil {
		return nil, err
	}
	return &ModuleLoader{base: b}, nil
}

// LoadFromPath parses the module at p.
func (l *ModuleLoader) LoadFromPath(ctx context.Context, p string, cfg *domain.ProjectConfig) (domain.Resource, error) {
	data, mtime, err := readFile(ctx, p)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, parseError(zerr.New("module is not valid UTF-8"), p)
	}
	src := string(data)

	m := domain.NewModule(p, mtime)
	if block := docblockPattern.FindStringSubmatch(src); block != nil {
		if provided := providesPattern.FindStringSubmatch(block[1]); provided != nil {
			m.ID = provided[1]
			m.Provided = true
		}
	}
	if !m.Provided {
		m.ID = resolveID(m.Path, cfg, true)
	}

	for _, spec := range extractSpecifiers(src) {
		if strings.EqualFold(path.Ext(spec), ".css") {
			m.RequiredCSS = appendUnique(m.RequiredCSS, spec)
			continue
		}
		m.RequiredModules = appendUnique(m.RequiredModules, spec)
	}
	return m, nil
}

// extractSpecifiers returns every dependency specifier in source order.
func extractSpecifiers(src string) []string {
	type hit struct {
		pos  int
		spec string
	}
	var hits []hit
	for _, re := range []*regexp.Regexp{requirePattern, importPattern, dynamicPattern} {
		for _, idx := range re.FindAllStringSubmatchIndex(src, -1) {
			hits = append(hits, hit{pos: idx[2], spec: src[idx[2]:idx[3]]})
		}
	}
	slices.SortStableFunc(hits, func(a, b hit) int { return a.pos - b.pos })
	specs := make([]string, 0, len(hits))
	for _, h := range hits {
		specs = appendUnique(specs, h.spec)
	}
	return specs
}

// PostProcess rewrites relative specifiers to the ids of the resources they point at.
func (l *ModuleLoader) PostProcess(ctx context.Context, graph *domain.ResourceGraph, resources []domain.Resource) error {
	for _, r := range resources {
		if err := ctx.Err(); err != nil {
			return err
		}
		m, ok := r.(*domain.Module)
		if !ok {
			continue
		}
		dir := path.Dir(m.Path)
		for i, spec := range m.RequiredModules {
			if !isRelative(spec) {
				continue
			}
			if target := probe(graph, path.Join(dir, spec), l.extensions, domain.KindModule); target != nil {
				m.RequiredModules[i] = target.Core().ID
			}
		}
		for i, spec := range m.RequiredCSS {
			if !isRelative(spec) {
				continue
			}
			if target := probe(graph, path.Join(dir, spec), nil, domain.KindStylesheet); target != nil {
				m.RequiredCSS[i] = target.Core().ID
			}
		}
	}
	return nil
}

// probe looks for a resource of kind k at p, p+ext, or p/index+ext.
func probe(graph *domain.ResourceGraph, p string, exts []string, k domain.Kind) domain.Resource {
	candidates := []string{p}
	for _, e := range exts {
		candidates = append(candidates, p+e)
	}
	for _, e := range exts {
		candidates = append(candidates, p+"/index"+e)
	}
	for _, c := range candidates {
		if r := graph.GetByPath(c); r != nil && r.Kind() == k {
			return r
		}
	}
	return nil
}
