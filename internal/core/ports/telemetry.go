package ports

import (
	"context"
	"io"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records the progress of a build as a set of vertices.
type Telemetry interface {
	// Vertex starts a new vertex with the given ID and display name.
	Vertex(id, name string) Vertex
	// Close flushes and releases the recorder.
	Close() error
}

// Vertex is one unit of recorded work.
type Vertex interface {
	// Stdout returns a writer for the vertex's standard output.
	Stdout() io.Writer
	// Stderr returns a writer for the vertex's standard error.
	Stderr() io.Writer
	// Cached marks the vertex as satisfied from cache.
	Cached()
	// Done completes the vertex, failing it when err is non-nil.
	Done(err error)
}

type vertexKey struct{}

// ContextWithVertex returns a context carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex carried by ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
