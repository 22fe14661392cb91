// Package telemetry reports build progress.
package telemetry

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/cubuild/internal/core/ports"
)

var _ ports.Telemetry = (*Linear)(nil)

// Linear renders every step as prefixed lines. It is used when progress cannot be
// drawn interactively, for example in CI logs.
type Linear struct {
	w      io.Writer
	output *termenv.Output
	now    func() time.Time

	mu sync.Mutex
}

// NewLinear creates a Linear renderer writing to w.
func NewLinear(w io.Writer) *Linear {
	return &Linear{
		w:      w,
		output: termenv.NewOutput(w, termenv.WithProfile(colorProfile())),
		now:    time.Now,
	}
}

func colorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// Vertex announces a step and returns its line writers.
func (l *Linear) Vertex(_, name string) ports.Vertex {
	v := &linearVertex{l: l, name: name, start: l.now()}
	v.stdout = &lineBuffer{v: v}
	v.stderr = &lineBuffer{v: v}

	l.printf("%s Starting...\n", l.prefix(name))
	return v
}

// Close implements ports.Telemetry.
func (l *Linear) Close() error {
	return nil
}

func (l *Linear) prefix(name string) string {
	return l.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
}

func (l *Linear) printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.w, format, args...)
}

type linearVertex struct {
	l      *Linear
	name   string
	start  time.Time
	cached bool
	stdout *lineBuffer
	stderr *lineBuffer
}

func (v *linearVertex) Stdout() io.Writer { return v.stdout }
func (v *linearVertex) Stderr() io.Writer { return v.stderr }

func (v *linearVertex) Cached() {
	v.cached = true
}

func (v *linearVertex) Done(err error) {
	v.stdout.flush()
	v.stderr.flush()

	prefix := v.l.prefix(v.name)
	duration := v.l.now().Sub(v.start).Round(time.Millisecond)

	switch {
	case err != nil:
		symbol := v.l.output.String("✗").Foreground(termenv.ANSIRed).String()
		v.l.printf("%s %s Failed after %v\n", prefix, symbol, duration)
	case v.cached:
		symbol := v.l.output.String("•").Faint().String()
		v.l.printf("%s %s Up to date\n", prefix, symbol)
	default:
		symbol := v.l.output.String("✓").Foreground(termenv.ANSIGreen).String()
		v.l.printf("%s %s Completed in %v\n", prefix, symbol, duration)
	}
}

// lineBuffer prints complete lines of one output stream, prefixed with the step name.
type lineBuffer struct {
	v   *linearVertex
	buf bytes.Buffer
}

func (b *lineBuffer) Write(p []byte) (int, error) {
	b.buf.Write(p)
	for {
		i := bytes.IndexByte(b.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(b.buf.Next(i + 1))
		b.v.l.printf("%s %s", b.v.l.prefix(b.v.name), line)
	}
	return len(p), nil
}

func (b *lineBuffer) flush() {
	if b.buf.Len() == 0 {
		return
	}
	line := b.buf.String()
	b.buf.Reset()
	b.v.l.printf("%s %s\n", b.v.l.prefix(b.v.name), line)
}
