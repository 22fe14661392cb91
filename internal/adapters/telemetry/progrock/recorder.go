// Package progrock records build steps as progrock vertices.
package progrock

import (
	"io"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/cubuild/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements ports.Telemetry on top of a progrock.Recorder. Every status update
// goes to the writer it was created with, usually a tui.Feed.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// NewRecorder creates a Recorder writing to w.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Vertex starts a vertex for a step. The digest derives from the step ID, which is
// unique within a plan.
func (r *Recorder) Vertex(id, name string) ports.Vertex {
	return stepVertex{r.rec.Vertex(digest.FromString(id), name)}
}

// Close closes the writer. Updates recorded before Close are kept.
func (r *Recorder) Close() error {
	return r.w.Close()
}

type stepVertex struct {
	rec *progrock.VertexRecorder
}

func (v stepVertex) Stdout() io.Writer { return v.rec.Stdout() }
func (v stepVertex) Stderr() io.Writer { return v.rec.Stderr() }
func (v stepVertex) Cached()           { v.rec.Cached() }
func (v stepVertex) Done(err error)    { v.rec.Done(err) }
