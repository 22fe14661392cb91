// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/cubuild/internal/adapters/cas"
	_ "go.trai.ch/cubuild/internal/adapters/config"
	_ "go.trai.ch/cubuild/internal/adapters/envfile"
	_ "go.trai.ch/cubuild/internal/adapters/fs"
	_ "go.trai.ch/cubuild/internal/adapters/launcher"
	_ "go.trai.ch/cubuild/internal/adapters/logger"
	_ "go.trai.ch/cubuild/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/cubuild/internal/app"
)
