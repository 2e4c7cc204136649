package worker

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetmap/internal/adapters/logger"
	"go.trai.ch/assetmap/internal/core/ports"
)

// NodeID is the unique identifier for the worker spawner Graft node.
const NodeID graft.ID = "adapter.worker_spawner"

func init() {
	graft.Register(graft.Node[ports.WorkerSpawner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.WorkerSpawner, error) {
			log, err := graft.Dep[*logger.Logger](ctx)
			if err != nil {
				return nil, err
			}
			spawner, err := NewProcessSpawner(log)
			if err != nil {
				return nil, err
			}
			return spawner, nil
		},
	})
}
