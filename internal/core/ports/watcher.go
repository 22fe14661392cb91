package ports

import "context"

// Watcher reports changes to files on disk.
//
//go:generate go run go.uber.org/mock/mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Watch starts watching the given files and returns a channel of debounced batches
	// of changed paths. The channel is closed when ctx is done.
	Watch(ctx context.Context, paths []string) (<-chan []string, error)
}
