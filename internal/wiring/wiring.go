// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/stage/internal/adapters/cas"
	_ "go.trai.ch/stage/internal/adapters/conda"
	_ "go.trai.ch/stage/internal/adapters/config"
	_ "go.trai.ch/stage/internal/adapters/fixture"
	_ "go.trai.ch/stage/internal/adapters/logger"
	_ "go.trai.ch/stage/internal/adapters/postgres"
	_ "go.trai.ch/stage/internal/adapters/shell"
	// Register app nodes.
	_ "go.trai.ch/stage/internal/app"
)
