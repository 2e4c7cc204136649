package loaders

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetmap/internal/adapters/fs"
	"go.trai.ch/assetmap/internal/core/ports"
)

// NodeID is the unique identifier for the loader factory node.
const NodeID graft.ID = "adapter.loader_factory"

func init() {
	graft.Register(graft.Node[ports.LoaderFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID},
		Run: func(ctx context.Context) (ports.LoaderFactory, error) {
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(hasher), nil
		},
	})
}
