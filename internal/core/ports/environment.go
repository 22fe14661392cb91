package ports

import "go.trai.ch/cubuild/internal/core/domain"

// EnvironmentLoader produces the effective environment a build reads its variables from.
//
//go:generate go run go.uber.org/mock/mockgen -source=environment.go -destination=mocks/mock_environment.go -package=mocks
type EnvironmentLoader interface {
	// Load returns the process environment overlaid on the given dotenv files.
	Load(files []string) (domain.Env, error)
}
