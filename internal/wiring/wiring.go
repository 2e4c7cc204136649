// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/assetmap/internal/adapters/cas"
	_ "go.trai.ch/assetmap/internal/adapters/config"
	_ "go.trai.ch/assetmap/internal/adapters/fs"
	_ "go.trai.ch/assetmap/internal/adapters/loaders"
	_ "go.trai.ch/assetmap/internal/adapters/logger"
	_ "go.trai.ch/assetmap/internal/adapters/sqlite"
	_ "go.trai.ch/assetmap/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/assetmap/internal/adapters/worker"
	// Register app nodes.
	_ "go.trai.ch/assetmap/internal/app"
)
