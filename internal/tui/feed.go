package tui

import (
	"io"
	"sync"

	"github.com/vito/progrock"
)

const feedBuffer = 256

// Feed is the progrock.Writer the recorder writes to and the UpdateSource the model reads
// from. Writes after Close are rejected so recorders never block on a stopped view.
type Feed struct {
	updates chan *progrock.StatusUpdate
	done    chan struct{}
	once    sync.Once
}

// NewFeed creates an open Feed.
func NewFeed() *Feed {
	return &Feed{
		updates: make(chan *progrock.StatusUpdate, feedBuffer),
		done:    make(chan struct{}),
	}
}

// WriteStatus implements progrock.Writer.
func (f *Feed) WriteStatus(update *progrock.StatusUpdate) error {
	select {
	case <-f.done:
		return io.ErrClosedPipe
	default:
	}

	select {
	case f.updates <- update:
		return nil
	case <-f.done:
		return io.ErrClosedPipe
	}
}

// Close implements progrock.Writer. Updates written before Close are still delivered.
func (f *Feed) Close() error {
	f.once.Do(func() { close(f.done) })
	return nil
}

// Read returns the next update, or io.EOF once the feed is closed and drained.
func (f *Feed) Read() (*progrock.StatusUpdate, error) {
	select {
	case update := <-f.updates:
		return update, nil
	case <-f.done:
		select {
		case update := <-f.updates:
			return update, nil
		default:
			return nil, io.EOF
		}
	}
}
