package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Renderer runs the progress view for the duration of a build.
type Renderer struct {
	ctx     context.Context
	feed    *Feed
	program *tea.Program
	done    chan struct{}
	err     error
}

// NewRenderer creates a Renderer that draws feed on out. Input and signals are left to
// the caller so an interrupt cancels the build rather than just the view.
func NewRenderer(ctx context.Context, feed *Feed, out io.Writer, opts ...tea.ProgramOption) *Renderer {
	options := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	}, opts...)

	return &Renderer{
		ctx:     ctx,
		feed:    feed,
		program: tea.NewProgram(NewModel(feed), options...),
		done:    make(chan struct{}),
	}
}

// Start runs the view in the background.
func (r *Renderer) Start() {
	go func() {
		defer close(r.done)
		_, r.err = r.program.Run()
		// A view that stopped early must not block the recorder.
		_ = r.feed.Close()
	}()
}

// Stop closes the feed and waits for the view to draw its final frame.
func (r *Renderer) Stop() error {
	_ = r.feed.Close()
	<-r.done
	if r.ctx.Err() != nil {
		return nil
	}
	return r.err
}
