package loaders

import (
	"context"
	"encoding/json"
	"path"

	"go.trai.ch/assetmap/internal/core/domain"
)

// ProjectLoader parses project descriptor files.
type ProjectLoader struct {
	base
	file string
}

// NewProjectLoader creates a project loader from desc. The descriptor file name
// is taken from the "file" option.
func NewProjectLoader(desc domain.LoaderDescriptor) (*ProjectLoader, error) {
	file := desc.Options[domain.ProjectFileOption]
	if file == "" {
		file = domain.DefaultProjectFile
	}
	b, err := newBase(domain.KindProjectConfig, desc, []string{path.Ext(file)})
	if err != nil {
		return nil, err
	}
	return &ProjectLoader{base: b, file: file}, nil
}

// MatchPath claims only files with the descriptor file name.
func (l *ProjectLoader) MatchPath(p string) bool {
	return path.Base(domain.NormalizePath(p)) == l.file && l.base.MatchPath(p)
}

// LoadFromPath parses the descriptor at p.
func (l *ProjectLoader) LoadFromPath(ctx context.Context, p string, _ *domain.ProjectConfig) (domain.Resource, error) {
	data, mtime, err := readFile(ctx, p)
	if err != nil {
		return nil, err
	}
	var desc domain.ProjectDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, parseError(err, p)
	}
	return domain.NewProjectConfig(p, mtime, desc), nil
}
