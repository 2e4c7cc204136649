package ports

import (
	"context"

	"go.trai.ch/assetmap/internal/core/domain"
)

// Loader parses one kind of resource and resolves its cross-resource references.
//
//go:generate go run go.uber.org/mock/mockgen -source=loader.go -destination=mocks/mock_loader.go -package=mocks
type Loader interface {
	// Name returns the registered loader name.
	Name() string
	// Kind returns the kind of resource the loader produces.
	Kind() domain.Kind
	// Extensions returns the file extensions the loader claims.
	Extensions() []string
	// MatchPath reports whether the loader claims path.
	MatchPath(path string) bool
	// LoadFromPath reads and parses the file at path.
	// cfg is the project configuration governing path, or nil.
	LoadFromPath(ctx context.Context, path string, cfg *domain.ProjectConfig) (domain.Resource, error)
	// PostProcess resolves references of the newly loaded resources against the graph.
	// It may modify the resources it is given but must not mutate the graph.
	PostProcess(ctx context.Context, graph *domain.ResourceGraph, resources []domain.Resource) error
	// Descriptor returns the serializable form used to rebuild the loader in a worker.
	Descriptor() domain.LoaderDescriptor
}

// LoaderFactory rebuilds loaders from their descriptors.
type LoaderFactory interface {
	// Build returns one loader per descriptor, in order.
	Build(descriptors []domain.LoaderDescriptor) ([]Loader, error)
}
