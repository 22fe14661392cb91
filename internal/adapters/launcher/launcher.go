// Package launcher starts compile and link processes.
package launcher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/cubuild/internal/core/domain"
	"go.trai.ch/cubuild/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
	exec "golang.org/x/sys/execabs"
)

var _ ports.Launcher = (*Launcher)(nil)

// Launcher implements ports.Launcher using os/exec.
type Launcher struct {
	logger ports.Logger

	lookups  singleflight.Group
	mu       sync.RWMutex
	resolved map[string]string
}

// New creates a new Launcher. Process output is forwarded to the vertex carried by the
// launch context or, when there is none, to logger.
func New(logger ports.Logger) *Launcher {
	return &Launcher{
		logger:   logger,
		resolved: make(map[string]string),
	}
}

// Launch runs cmd and waits for it to exit.
func (l *Launcher) Launch(
	ctx context.Context,
	cmd domain.CommandVector,
	dir string,
	env []string,
) (domain.LaunchResult, error) {
	name := cmd.Executable()
	if name == "" {
		return domain.LaunchResult{}, zerr.Wrap(domain.ErrInvalidToolchain, "empty command")
	}

	executable, err := l.resolve(name, dir, env)
	if err != nil {
		return domain.LaunchResult{}, err
	}

	proc := exec.CommandContext(ctx, executable, cmd.Args()...)
	// Keep the name as invoked in argv[0].
	proc.Args[0] = name
	proc.Dir = dir
	proc.Env = env

	captured := &lockedBuffer{}
	stdout, stderr := l.streams(ctx)
	defer func() {
		_ = stdout.Close()
		_ = stderr.Close()
	}()
	proc.Stdout = io.MultiWriter(captured, stdout)
	proc.Stderr = io.MultiWriter(captured, stderr)

	err = proc.Run()
	if err == nil {
		return domain.LaunchResult{Output: captured.Bytes()}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return domain.LaunchResult{ExitCode: exitErr.ExitCode(), Output: captured.Bytes()}, nil
	}
	if ctx.Err() != nil {
		return domain.LaunchResult{}, zerr.With(zerr.Wrap(ctx.Err(), "process interrupted"), "executable", name)
	}
	return domain.LaunchResult{}, zerr.With(zerr.Wrap(err, "failed to start process"), "executable", executable)
}

func (l *Launcher) streams(ctx context.Context) (stdout, stderr io.WriteCloser) {
	if vertex, ok := ports.VertexFromContext(ctx); ok {
		return nopCloser{vertex.Stdout()}, nopCloser{vertex.Stderr()}
	}
	return &logWriter{logger: l.logger, level: "info"}, &logWriter{logger: l.logger, level: "warn"}
}

// resolve finds the executable for name. Bare names are searched on the PATH of env,
// then on the PATH of this process; results are cached per name and search path.
func (l *Launcher) resolve(name, dir string, env []string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if err := findExecutable(path); err != nil {
			return "", notFound(name)
		}
		return path, nil
	}

	searchPath, hasPath := lookupEnv(env, "PATH")
	key := name + "\x00" + searchPath

	l.mu.RLock()
	cached, ok := l.resolved[key]
	l.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := l.lookups.Do(key, func() (any, error) {
		path, err := lookPath(name, searchPath)
		if err != nil && !hasPath {
			path, err = exec.LookPath(name)
		}
		if err != nil {
			return "", notFound(name)
		}

		l.mu.Lock()
		l.resolved[key] = path
		l.mu.Unlock()
		return path, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func notFound(name string) error {
	return zerr.With(zerr.Wrap(domain.ErrToolchainNotFound, "cannot resolve executable on PATH"), "executable", name)
}

func lookupEnv(env []string, key string) (string, bool) {
	for i := len(env) - 1; i >= 0; i-- {
		if k, v, ok := strings.Cut(env[i], "="); ok && k == key {
			return v, true
		}
	}
	return "", false
}

// lookPath searches for an executable in the directories of searchPath. Empty and
// relative entries are skipped so a build never runs a binary from the working directory.
func lookPath(file, searchPath string) (string, error) {
	for _, dir := range filepath.SplitList(searchPath) {
		if dir == "" || !filepath.IsAbs(dir) {
			continue
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}

// lockedBuffer collects stdout and stderr, which exec copies from separate goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")

	if w.level == "info" {
		w.logger.Info(msg)
	} else {
		w.logger.Warn(msg)
	}
}
