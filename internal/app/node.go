package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetmap/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/assetmap/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/assetmap/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/assetmap/internal/adapters/loaders"            //nolint:depguard // Wired in app layer
	"go.trai.ch/assetmap/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/assetmap/internal/adapters/sqlite"             //nolint:depguard // Wired in app layer
	"go.trai.ch/assetmap/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/assetmap/internal/adapters/worker"             //nolint:depguard // Wired in app layer
	"go.trai.ch/assetmap/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Cache backend names accepted in the settings file.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			loaders.NodeID,
			fs.ScannerNodeID,
			fs.HasherNodeID,
			cas.NodeID,
			sqlite.NodeID,
			worker.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[*logger.Logger](ctx)
			if err != nil {
				return nil, err
			}

			recorder, err := graft.Dep[*progrock.Recorder](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log, recorder), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	settings, err := graft.Dep[ports.SettingsLoader](ctx)
	if err != nil {
		return nil, err
	}

	factory, err := graft.Dep[ports.LoaderFactory](ctx)
	if err != nil {
		return nil, err
	}

	scanner, err := graft.Dep[ports.Scanner](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	jsonStore, err := graft.Dep[*cas.Store](ctx)
	if err != nil {
		return nil, err
	}

	sqliteStore, err := graft.Dep[*sqlite.Store](ctx)
	if err != nil {
		return nil, err
	}

	spawner, err := graft.Dep[ports.WorkerSpawner](ctx)
	if err != nil {
		return nil, err
	}

	recorder, err := graft.Dep[*progrock.Recorder](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[*logger.Logger](ctx)
	if err != nil {
		return nil, err
	}

	stores := map[string]ports.GraphStore{
		BackendJSON:   jsonStore,
		BackendSQLite: sqliteStore,
	}
	return New(settings, factory, scanner, hasher, stores, spawner, recorder, log), nil
}
