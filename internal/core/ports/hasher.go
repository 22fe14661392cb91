package ports

import "go.trai.ch/cubuild/internal/core/domain"

// Hasher defines the interface for computing step fingerprints.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Fingerprint hashes the command vector together with the contents of inputs.
	Fingerprint(cmd domain.CommandVector, inputs []string) (string, error)
}
