package app_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cubuild/internal/app"
	"go.trai.ch/cubuild/internal/core/domain"
	"go.trai.ch/cubuild/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type testDeps struct {
	loader   *mocks.MockConfigLoader
	env      *mocks.MockEnvironmentLoader
	launcher *mocks.MockLauncher
	hasher   *mocks.MockHasher
	resolver *mocks.MockInputResolver
	store    *mocks.MockStepStore
	watcher  *mocks.MockWatcher
	logger   *mocks.MockLogger
}

func newTestApp(t *testing.T) (*app.App, *testDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := &testDeps{
		loader:   mocks.NewMockConfigLoader(ctrl),
		env:      mocks.NewMockEnvironmentLoader(ctrl),
		launcher: mocks.NewMockLauncher(ctrl),
		hasher:   mocks.NewMockHasher(ctrl),
		resolver: mocks.NewMockInputResolver(ctrl),
		store:    mocks.NewMockStepStore(ctrl),
		watcher:  mocks.NewMockWatcher(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	a := app.New(d.loader, d.env, d.launcher, d.hasher, d.resolver, d.store, d.watcher, d.logger).
		WithProgressOutput(io.Discard)
	return a, d
}

func ptr[T any](v T) *T { return &v }

func cudamatProject(t *testing.T, root string) *domain.Project {
	t.Helper()
	toolchain, err := domain.NewToolchainOverride("nvcc", "", "", "", nil)
	require.NoError(t, err)
	target, err := domain.NewExtensionTarget(
		"cudamat.libcudamat",
		[]string{"cudamat.cu"},
		[]string{"cublas"},
		nil,
		[]string{"-O"},
		nil,
	)
	require.NoError(t, err)

	return &domain.Project{
		Root:      root,
		BuildDir:  "build",
		Toolchain: toolchain,
		Environment: domain.EnvironmentSpec{
			CompileFlagsVar: domain.DefaultCompileFlagsVar,
			LibraryDirsVar:  "CUDA_LIBRARY_DIRS",
		},
		Modes: map[string]domain.BuildMode{
			"release": {RequireLibraryDirs: ptr(true)},
		},
		Targets: []domain.ExtensionTarget{target},
	}
}

// commandLog records launched commands from concurrent steps.
type commandLog struct {
	mu   sync.Mutex
	cmds []domain.CommandVector
	envs [][]string
}

func (l *commandLog) launch(
	_ context.Context,
	cmd domain.CommandVector,
	_ string,
	env []string,
) (domain.LaunchResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cmds = append(l.cmds, cmd)
	l.envs = append(l.envs, env)
	return domain.LaunchResult{}, nil
}

func (l *commandLog) commands() []domain.CommandVector {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.CommandVector(nil), l.cmds...)
}

func TestApp_Build(t *testing.T) {
	root := t.TempDir()
	a, d := newTestApp(t)
	launched := &commandLog{}

	d.loader.EXPECT().Load("").Return(cudamatProject(t, root), nil)
	d.env.EXPECT().Load(nil).Return(domain.Env{
		"PATH":              "/usr/bin",
		"NVCCFLAGS":         "-G",
		"CUDA_LIBRARY_DIRS": "/opt/cuda/lib64",
	}, nil)
	d.hasher.EXPECT().Fingerprint(gomock.Any(), gomock.Any()).Return("fp", nil).Times(2)
	d.store.EXPECT().Get(root, gomock.Any()).Return(nil, nil).Times(2)
	d.store.EXPECT().Put(root, gomock.Any()).Return(nil).Times(2)
	d.launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), root, gomock.Any()).
		DoAndReturn(launched.launch).Times(2)

	err := a.Build(context.Background(), app.RunOptions{Output: "linear"})
	require.NoError(t, err)

	cmds := launched.commands()
	require.Len(t, cmds, 2)

	compile, link := cmds[0], cmds[1]
	assert.Equal(t, domain.CommandVector{
		"nvcc", "-c", "cudamat.cu", "-o", filepath.Join("build", "temp", "cudamat.o"), "-G", "-O",
	}, compile)
	assert.Equal(t, "nvcc", link.Executable())
	assert.Equal(t, "--shared", link[1])
	assert.True(t, link.Contains("-L/opt/cuda/lib64"))
	assert.True(t, link.Contains("-lcublas"))
	assert.False(t, link.Contains(domain.DefaultArchFlag), "arch pairs never reach the linker")

	assert.Contains(t, launched.envs[0], "NVCCFLAGS=-G")
}

func TestApp_Build_MissingEnvironment(t *testing.T) {
	a, d := newTestApp(t)

	d.loader.EXPECT().Load("").Return(cudamatProject(t, t.TempDir()), nil)
	d.env.EXPECT().Load(nil).Return(domain.Env{"PATH": "/usr/bin"}, nil)

	err := a.Build(context.Background(), app.RunOptions{Mode: "release", Output: "linear"})

	require.ErrorIs(t, err, domain.ErrMissingEnvironment)
	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "CUDA_LIBRARY_DIRS", zErr.Metadata()["variable"])
}

func TestApp_Build_UnknownOutputMode(t *testing.T) {
	a, _ := newTestApp(t)

	err := a.Build(context.Background(), app.RunOptions{Output: "fancy"})

	require.ErrorIs(t, err, domain.ErrUnknownOutputMode)
}

func TestApp_Build_UnknownTarget(t *testing.T) {
	a, d := newTestApp(t)

	d.loader.EXPECT().Load("").Return(cudamatProject(t, t.TempDir()), nil)
	d.env.EXPECT().Load(nil).Return(domain.Env{}, nil)

	err := a.Build(context.Background(), app.RunOptions{Targets: []string{"cudamat.libmissing"}, Output: "linear"})

	require.ErrorIs(t, err, domain.ErrTargetNotFound)
}

func TestApp_Build_StepFailure(t *testing.T) {
	root := t.TempDir()
	a, d := newTestApp(t)

	d.loader.EXPECT().Load("").Return(cudamatProject(t, root), nil)
	d.env.EXPECT().Load(nil).Return(domain.Env{}, nil)
	d.hasher.EXPECT().Fingerprint(gomock.Any(), gomock.Any()).Return("fp", nil)
	d.store.EXPECT().Get(root, gomock.Any()).Return(nil, nil)
	d.launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), root, gomock.Any()).
		Return(domain.LaunchResult{ExitCode: 2, Output: []byte("cudamat.cu(12): error: identifier undefined\n")}, nil)

	err := a.Build(context.Background(), app.RunOptions{Output: "linear"})

	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	require.ErrorIs(t, err, domain.ErrStepFailed)
}

func TestApp_Build_ToolchainNotFound(t *testing.T) {
	root := t.TempDir()
	a, d := newTestApp(t)

	d.loader.EXPECT().Load("").Return(cudamatProject(t, root), nil)
	d.env.EXPECT().Load(nil).Return(domain.Env{}, nil)
	d.hasher.EXPECT().Fingerprint(gomock.Any(), gomock.Any()).Return("fp", nil)
	d.store.EXPECT().Get(root, gomock.Any()).Return(nil, nil)
	d.launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), root, gomock.Any()).
		Return(domain.LaunchResult{}, zerr.With(zerr.Wrap(domain.ErrToolchainNotFound, "cannot resolve executable on PATH"), "executable", "nvcc"))

	err := a.Build(context.Background(), app.RunOptions{Output: "linear"})

	require.ErrorIs(t, err, domain.ErrToolchainNotFound)
}

func TestApp_Build_ConfigError(t *testing.T) {
	a, d := newTestApp(t)

	d.loader.EXPECT().Load("missing.yaml").Return(nil, zerr.Wrap(domain.ErrConfigNotFound, "cannot locate project"))

	err := a.Build(context.Background(), app.RunOptions{ConfigPath: "missing.yaml"})

	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestApp_Plan(t *testing.T) {
	a, d := newTestApp(t)

	d.loader.EXPECT().Load("").Return(cudamatProject(t, t.TempDir()), nil)
	d.env.EXPECT().Load([]string{".env"}).Return(domain.Env{}, nil)

	var out bytes.Buffer
	err := a.Plan(context.Background(), app.RunOptions{EnvFiles: []string{".env"}}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), domain.CompileStepID("cudamat.libcudamat", "cudamat.cu"))
	assert.Contains(t, out.String(), domain.LinkStepID("cudamat.libcudamat"))
	assert.Contains(t, out.String(), "nvcc -c cudamat.cu")
	assert.Contains(t, out.String(), "nvcc --shared")
	assert.NotContains(t, out.String(), " -arch ")
}

func TestApp_Plan_Golden(t *testing.T) {
	a, d := newTestApp(t)

	d.loader.EXPECT().Load("").Return(cudamatProject(t, t.TempDir()), nil)
	d.env.EXPECT().Load(nil).Return(domain.Env{}, nil)

	var out bytes.Buffer
	require.NoError(t, a.Plan(context.Background(), app.RunOptions{}, &out))

	g := goldie.New(t)
	g.Assert(t, "plan_cudamat", out.Bytes())
}

func TestApp_Clean(t *testing.T) {
	root := t.TempDir()
	a, d := newTestApp(t)

	buildDir := filepath.Join(root, "build")
	storeDir := filepath.Join(root, domain.DefaultStorePath())
	require.NoError(t, os.MkdirAll(filepath.Join(buildDir, "temp"), 0o750))
	require.NoError(t, os.MkdirAll(storeDir, 0o750))

	d.loader.EXPECT().Load("").Return(cudamatProject(t, root), nil)
	d.store.EXPECT().Path(root).Return(storeDir)
	d.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	require.NoError(t, a.Clean(context.Background(), app.RunOptions{}))

	assert.NoDirExists(t, buildDir)
	assert.NoDirExists(t, storeDir)
}

func TestApp_Watch_RebuildsChangedTarget(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "cudamat.cu")
	a, d := newTestApp(t)
	launched := &commandLog{}

	changes := make(chan []string, 1)
	changes <- []string{source, filepath.Join(root, "unrelated.cu")}
	close(changes)

	d.loader.EXPECT().Load("").Return(cudamatProject(t, root), nil)
	d.env.EXPECT().Load(nil).Return(domain.Env{}, nil)
	d.resolver.EXPECT().ResolveInputs([]string{"cudamat.cu"}, root).Return([]string{source}, nil)
	d.watcher.EXPECT().Watch(gomock.Any(), []string{source}).Return((<-chan []string)(changes), nil)
	d.hasher.EXPECT().Fingerprint(gomock.Any(), gomock.Any()).Return("fp", nil).AnyTimes()
	d.store.EXPECT().Get(root, gomock.Any()).Return(nil, nil).AnyTimes()
	d.store.EXPECT().Put(root, gomock.Any()).Return(nil).AnyTimes()
	d.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	d.launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), root, gomock.Any()).
		DoAndReturn(launched.launch).Times(4)

	err := a.Watch(context.Background(), app.RunOptions{Output: "linear"})
	require.NoError(t, err)

	assert.Len(t, launched.commands(), 4, "initial build plus one rebuild")
}

func TestApp_Watch_BuildFailureIsNotFatal(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "cudamat.cu")
	a, d := newTestApp(t)

	changes := make(chan []string)
	close(changes)

	d.loader.EXPECT().Load("").Return(cudamatProject(t, root), nil)
	d.env.EXPECT().Load(nil).Return(domain.Env{}, nil)
	d.resolver.EXPECT().ResolveInputs(gomock.Any(), root).Return([]string{source}, nil)
	d.hasher.EXPECT().Fingerprint(gomock.Any(), gomock.Any()).Return("fp", nil)
	d.store.EXPECT().Get(root, gomock.Any()).Return(nil, nil)
	d.launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), root, gomock.Any()).
		Return(domain.LaunchResult{ExitCode: 1}, nil)
	d.logger.EXPECT().Error(gomock.Any()).Times(1)
	d.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	d.watcher.EXPECT().Watch(gomock.Any(), []string{source}).Return((<-chan []string)(changes), nil)

	require.NoError(t, a.Watch(context.Background(), app.RunOptions{Output: "linear"}))
}
