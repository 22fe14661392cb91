// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/cubuild/internal/core/domain"

// BuildHook is the plugin interface through which a toolchain driver overrides the host
// pipeline's default compiler and linker. The pipeline calls it while planning and the
// scheduler calls PreSpawn immediately before each process launch.
//
// Implementations must be safe for concurrent use.
//
//go:generate go run go.uber.org/mock/mockgen -source=build_hook.go -destination=mocks/mock_build_hook.go -package=mocks
type BuildHook interface {
	// SourceSuffixes returns the suffixes the build accepts given the host's native set.
	SourceSuffixes(native domain.SuffixSet) domain.SuffixSet
	// CompilerCommand returns the vector prefix used to compile source.
	CompilerCommand(source string, def domain.CommandVector) domain.CommandVector
	// LinkerCommand returns the vector prefix used to link the named target.
	LinkerCommand(target string, def domain.CommandVector) domain.CommandVector
	// PreSpawn rewrites a fully assembled command right before it is launched.
	PreSpawn(cmd domain.CommandVector) domain.CommandVector
}
