package ports

import "go.trai.ch/cubuild/internal/core/domain"

// StepStore remembers the last successful run of each step, per project root.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type StepStore interface {
	// Get retrieves the record for a step ID under root.
	// Returns nil, nil if not found.
	Get(root, stepID string) (*domain.StepRecord, error)

	// Put stores the record under root.
	Put(root string, record domain.StepRecord) error

	// Path returns the location of the store for root on disk.
	Path(root string) string
}
