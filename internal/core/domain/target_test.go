package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cubuild/internal/core/domain"
)

func TestNewExtensionTarget(t *testing.T) {
	target, err := domain.NewExtensionTarget(
		"cudamat.libcudamat",
		[]string{"cudamat/cudamat.cu", "cudamat/cudamat_kernels.cu"},
		[]string{"cublas", "cublas", "cudart"},
		[]string{"/opt/cuda/lib64", "", "/opt/cuda/lib64"},
		nil, nil,
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"cublas", "cudart"}, target.Libraries)
	assert.Equal(t, []string{"/opt/cuda/lib64"}, target.LibraryDirs)
	assert.Equal(t, filepath.Join("build", "lib", "cudamat", "libcudamat.so"), target.OutputPath("build"))
}

func TestExtensionTarget_WithDepends(t *testing.T) {
	target, err := domain.NewExtensionTarget("pkg.lib", []string{"a.cu"}, nil, nil, nil, nil)
	require.NoError(t, err)

	withDeps := target.WithDepends("a.cuh", "", "a.cuh", "include")

	assert.Empty(t, target.Depends)
	assert.Equal(t, []string{"a.cuh", "include"}, withDeps.Depends)
}

func TestNewExtensionTarget_Invalid(t *testing.T) {
	_, err := domain.NewExtensionTarget("", []string{"a.cu"}, nil, nil, nil, nil)
	require.ErrorIs(t, err, domain.ErrInvalidTarget)

	_, err = domain.NewExtensionTarget("pkg/lib", []string{"a.cu"}, nil, nil, nil, nil)
	require.ErrorIs(t, err, domain.ErrInvalidTarget)

	_, err = domain.NewExtensionTarget("cudamat.libcudamat", nil, nil, nil, nil, nil)
	require.ErrorIs(t, err, domain.ErrNoSources)
}

func TestObjectPath(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{"cudamat/cudamat.cu", filepath.Join("build", "temp", "cudamat", "cudamat.o")},
		{"kernels.c", filepath.Join("build", "temp", "kernels.o")},
		{"../shared/util.cu", filepath.Join("build", "temp", "__", "shared", "util.o")},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.ObjectPath("build", filepath.FromSlash(tt.source)))
		})
	}
}

func TestProject_SelectTargets(t *testing.T) {
	a, err := domain.NewExtensionTarget("pkg.a", []string{"a.cu"}, nil, nil, nil, nil)
	require.NoError(t, err)
	b, err := domain.NewExtensionTarget("pkg.b", []string{"b.cu"}, nil, nil, nil, nil)
	require.NoError(t, err)
	project := &domain.Project{Targets: []domain.ExtensionTarget{a, b}}

	all, err := project.SelectTargets(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	selected, err := project.SelectTargets([]string{"pkg.b"})
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "pkg.b", selected[0].Name)

	_, err = project.SelectTargets([]string{"pkg.c"})
	require.ErrorIs(t, err, domain.ErrTargetNotFound)
}

func TestProject_Mode(t *testing.T) {
	required := true
	project := &domain.Project{Modes: map[string]domain.BuildMode{
		"release": {RequireLibraryDirs: &required},
	}}

	mode, err := project.Mode("release")
	require.NoError(t, err)
	assert.Equal(t, "release", mode.Name)
	assert.True(t, mode.RequiresLibraryDirs(domain.EnvironmentSpec{}))

	mode, err = project.Mode("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultModeName, mode.Name)

	_, err = project.Mode("debug")
	require.ErrorIs(t, err, domain.ErrUnknownMode)
}
