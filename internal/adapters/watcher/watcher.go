// Package watcher reports changes to build inputs using fsnotify.
package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/cubuild/internal/core/domain"
	"go.trai.ch/cubuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// DefaultDebounceWindow is the default time window for debouncing file events.
const DefaultDebounceWindow = 100 * time.Millisecond

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Watcher implements ports.Watcher. It watches the directories holding the requested
// files, so files replaced by editors through rename are still seen.
type Watcher struct {
	logger ports.Logger
	window time.Duration
}

// New creates a Watcher that batches events arriving within window of each other.
func New(logger ports.Logger, window time.Duration) *Watcher {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Watcher{logger: logger, window: window}
}

// Watch starts watching paths. Each value received from the returned channel is a
// sorted batch of changed paths from the requested set. The channel is closed once ctx
// is done.
func (w *Watcher) Watch(ctx context.Context, paths []string) (<-chan []string, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(domain.ErrWatchFailed, err.Error())
	}

	wanted := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fsWatcher.Close()
			return nil, zerr.With(zerr.Wrap(domain.ErrWatchFailed, err.Error()), "path", p)
		}
		wanted[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			_ = fsWatcher.Close()
			return nil, zerr.With(zerr.Wrap(domain.ErrWatchFailed, err.Error()), "path", dir)
		}
	}

	batches := make(chan []string)
	debouncer := NewDebouncer(w.window, func(changed []string) {
		select {
		case batches <- changed:
		case <-ctx.Done():
		}
	})

	out := make(chan []string, 1)
	go w.processEvents(ctx, fsWatcher, debouncer, wanted, batches, out)
	return out, nil
}

func (w *Watcher) processEvents(
	ctx context.Context,
	fsWatcher *fsnotify.Watcher,
	debouncer *Debouncer,
	wanted map[string]struct{},
	batches <-chan []string,
	out chan<- []string,
) {
	defer close(out)
	defer func() { _ = fsWatcher.Close() }()
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&relevantOps == 0 {
				continue
			}
			if _, ok := wanted[filepath.Clean(event.Name)]; ok {
				debouncer.Add(filepath.Clean(event.Name))
			}

		case batch := <-batches:
			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher: file system error: " + err.Error())
		}
	}
}
