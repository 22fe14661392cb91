package pipeline_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cubuild/internal/core/domain"
	"go.trai.ch/cubuild/internal/driver"
	"go.trai.ch/cubuild/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

func mustTarget(t *testing.T, name string, sources, libs, dirs, compileArgs []string) domain.ExtensionTarget {
	t.Helper()
	target, err := domain.NewExtensionTarget(name, sources, libs, dirs, compileArgs, nil)
	require.NoError(t, err)
	return target
}

func newDriver(t *testing.T, platform domain.Platform) *driver.Driver {
	t.Helper()
	override, err := domain.NewToolchainOverride("nvcc", "", "", "", nil)
	require.NoError(t, err)
	return driver.New(override, platform)
}

func TestPipeline_Plan_WithDriver(t *testing.T) {
	linux := domain.Platform{OS: "linux"}
	env := domain.EnvironmentConfig{CompileFlags: []string{"-g"}, LibraryDirs: []string{"/opt/cuda/lib64"}}
	target := mustTarget(t, "cudamat.libcudamat",
		[]string{"cudamat.cu", "kernels.cu"},
		[]string{"cublas"},
		[]string{"/usr/local/lib"},
		[]string{"-O", "--ptxas-options=-v"},
	)

	p := pipeline.New(newDriver(t, linux), linux, env, "build")
	plan, err := p.Plan([]domain.ExtensionTarget{target})
	require.NoError(t, err)
	require.Equal(t, 3, plan.StepCount())

	compile, ok := plan.Step(domain.CompileStepID(target.Name, "cudamat.cu"))
	require.True(t, ok)
	obj := filepath.Join("build", "temp", "cudamat.o")
	assert.Equal(t, domain.CommandVector{
		"nvcc", "-c", "cudamat.cu", "-o", obj, "-g", "-O", "--ptxas-options=-v",
	}, compile.Command)
	assert.Equal(t, obj, compile.Output)

	link, ok := plan.Step(domain.LinkStepID(target.Name))
	require.True(t, ok)
	out := filepath.Join("build", "lib", "cudamat", "libcudamat.so")
	assert.Equal(t, domain.CommandVector{
		"nvcc", "--shared",
		obj, filepath.Join("build", "temp", "kernels.o"),
		"-L/opt/cuda/lib64", "-L/usr/local/lib",
		"-lcublas",
		"-o", out,
	}, link.Command)
	assert.Len(t, link.Dependencies, 2)
	assert.Equal(t, out, link.Output)
}

func TestPipeline_Plan_DarwinInjectsArchFlags(t *testing.T) {
	darwin := domain.Platform{OS: "darwin", LinkArchFlags: []string{"-arch", "x86_64"}}
	target := mustTarget(t, "pkg.lib", []string{"a.cu"}, nil, nil, nil)
	d := newDriver(t, darwin)

	plan, err := pipeline.New(d, darwin, domain.EnvironmentConfig{}, "build").Plan([]domain.ExtensionTarget{target})
	require.NoError(t, err)

	link, ok := plan.Step(domain.LinkStepID("pkg.lib"))
	require.True(t, ok)
	assert.True(t, link.Command.Contains("-arch"), "host pipeline injects the pair")
	assert.False(t, d.PreSpawn(link.Command).Contains("-arch"), "driver removes it before launch")

	compile, ok := plan.Step(domain.CompileStepID("pkg.lib", "a.cu"))
	require.True(t, ok)
	assert.Equal(t, compile.Command, d.PreSpawn(compile.Command))
}

func TestPipeline_Plan_CustomArchFlagIsStripped(t *testing.T) {
	override, err := domain.NewToolchainOverride("nvcc", "", "", "-target", nil)
	require.NoError(t, err)
	// The pair the host injects on darwin uses the override's flag token.
	darwin := domain.Platform{OS: "darwin", LinkArchFlags: []string{override.ArchFlag, "arm64"}}
	d := driver.New(override, darwin)
	target := mustTarget(t, "pkg.lib", []string{"a.cu"}, nil, nil, nil)

	plan, err := pipeline.New(d, darwin, domain.EnvironmentConfig{}, "build").Plan([]domain.ExtensionTarget{target})
	require.NoError(t, err)

	link, ok := plan.Step(domain.LinkStepID("pkg.lib"))
	require.True(t, ok)
	sanitized := d.PreSpawn(link.Command)
	assert.False(t, sanitized.Contains("-target"))
	assert.False(t, sanitized.Contains("arm64"))
	assert.Len(t, sanitized, len(link.Command)-2)
}

func TestPipeline_Plan_FlagsIdenticalAcrossTargets(t *testing.T) {
	linux := domain.Platform{OS: "linux"}
	env := domain.EnvironmentConfig{CompileFlags: []string{"-g", "-G"}, LibraryDirs: []string{"/cuda"}}
	a := mustTarget(t, "pkg.a", []string{"a.cu"}, nil, nil, nil)
	b := mustTarget(t, "pkg.b", []string{"b.cu"}, nil, nil, nil)

	plan, err := pipeline.New(newDriver(t, linux), linux, env, "build").Plan([]domain.ExtensionTarget{a, b})
	require.NoError(t, err)

	for _, name := range []string{"pkg.a", "pkg.b"} {
		link, ok := plan.Step(domain.LinkStepID(name))
		require.True(t, ok)
		assert.True(t, link.Command.Contains("-L/cuda"))
	}
	for _, id := range []string{domain.CompileStepID("pkg.a", "a.cu"), domain.CompileStepID("pkg.b", "b.cu")} {
		step, ok := plan.Step(id)
		require.True(t, ok)
		assert.Equal(t, []string{"-g", "-G"}, []string(step.Command[len(step.Command)-2:]))
	}
}

func TestPipeline_Plan_NopHookUsesDefaults(t *testing.T) {
	target := mustTarget(t, "pkg.native", []string{"a.c"}, nil, nil, nil)

	plan, err := pipeline.New(nil, domain.Platform{OS: "linux"}, domain.EnvironmentConfig{}, "").Plan([]domain.ExtensionTarget{target})
	require.NoError(t, err)

	compile, ok := plan.Step(domain.CompileStepID("pkg.native", "a.c"))
	require.True(t, ok)
	assert.Equal(t, domain.CommandVector{"cc", "-fPIC"}, compile.Command[:2])

	link, ok := plan.Step(domain.LinkStepID("pkg.native"))
	require.True(t, ok)
	assert.Equal(t, domain.CommandVector{"cc", "-shared"}, link.Command[:2])
}

func TestPipeline_Plan_Errors(t *testing.T) {
	linux := domain.Platform{OS: "linux"}

	tests := []struct {
		name    string
		targets func(t *testing.T) []domain.ExtensionTarget
		wantErr error
		key     string
	}{
		{
			name: "unsupported suffix",
			targets: func(t *testing.T) []domain.ExtensionTarget {
				return []domain.ExtensionTarget{mustTarget(t, "pkg.a", []string{"a.f90"}, nil, nil, nil)}
			},
			wantErr: domain.ErrUnsupportedSource,
			key:     "source",
		},
		{
			name: "duplicate source",
			targets: func(t *testing.T) []domain.ExtensionTarget {
				return []domain.ExtensionTarget{
					mustTarget(t, "pkg.a", []string{"a.cu"}, nil, nil, nil),
					mustTarget(t, "pkg.b", []string{"a.cu"}, nil, nil, nil),
				}
			},
			wantErr: domain.ErrDuplicateSource,
			key:     "owner",
		},
		{
			name: "object collision",
			targets: func(t *testing.T) []domain.ExtensionTarget {
				return []domain.ExtensionTarget{mustTarget(t, "pkg.a", []string{"k.cu", "k.c"}, nil, nil, nil)}
			},
			wantErr: domain.ErrObjectCollision,
			key:     "object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pipeline.New(newDriver(t, linux), linux, domain.EnvironmentConfig{}, "build").Plan(tt.targets(t))
			require.ErrorIs(t, err, tt.wantErr)

			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			assert.Contains(t, zErr.Metadata(), tt.key)
		})
	}
}

func TestPipeline_Plan_DependsAreCompileInputs(t *testing.T) {
	linux := domain.Platform{OS: "linux"}
	target := mustTarget(t, "pkg.lib", []string{"a.cu", "b.cu"}, nil, nil, nil).
		WithDepends("include/*.cuh", "include/*.cuh", "common.h")

	plan, err := pipeline.New(newDriver(t, linux), linux, domain.EnvironmentConfig{}, "build").
		Plan([]domain.ExtensionTarget{target})
	require.NoError(t, err)

	for _, src := range target.Sources {
		step, ok := plan.Step(domain.CompileStepID(target.Name, src))
		require.True(t, ok)
		assert.Equal(t, []string{src, "include/*.cuh", "common.h"}, step.Inputs)
		assert.False(t, step.Command.Contains("common.h"))
	}

	link, ok := plan.Step(domain.LinkStepID(target.Name))
	require.True(t, ok)
	assert.NotContains(t, link.Inputs, "common.h")
}
