package ports

import (
	"context"

	"go.trai.ch/cubuild/internal/core/domain"
)

// Launcher starts external processes.
//
//go:generate go run go.uber.org/mock/mockgen -source=launcher.go -destination=mocks/mock_launcher.go -package=mocks
type Launcher interface {
	// Launch runs cmd in dir with the given "KEY=VALUE" environment and waits for it.
	//
	// An error is returned only when the process could not be started, for example
	// when the executable cannot be resolved (domain.ErrToolchainNotFound). A process
	// that ran and exited non-zero is reported through LaunchResult.ExitCode.
	Launch(ctx context.Context, cmd domain.CommandVector, dir string, env []string) (domain.LaunchResult, error)
}
