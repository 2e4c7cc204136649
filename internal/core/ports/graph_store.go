package ports

import (
	"context"

	"go.trai.ch/assetmap/internal/core/domain"
)

// GraphStore persists the resource graph between runs.
//
//go:generate go run go.uber.org/mock/mockgen -source=graph_store.go -destination=mocks/mock_graph_store.go -package=mocks
type GraphStore interface {
	// Load reads the persisted graph at path.
	// Returns nil, nil if nothing has been stored yet.
	Load(ctx context.Context, path string) (*domain.PersistedGraph, error)

	// Save replaces the persisted graph at path.
	Save(ctx context.Context, path string, graph *domain.PersistedGraph) error
}
