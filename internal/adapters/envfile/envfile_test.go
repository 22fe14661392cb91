package envfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cubuild/internal/adapters/envfile"
	"go.trai.ch/cubuild/internal/core/domain"
)

func writeEnvFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ProcessEnvironmentWins(t *testing.T) {
	file := writeEnvFile(t, ".env", "NVCCFLAGS=-G -lineinfo\nCUDA_LIBRARY_DIRS=/opt/cuda/lib64\n")
	loader := envfile.NewLoaderWithEnviron([]string{"NVCCFLAGS=-O3", "PATH=/usr/bin"})

	env, err := loader.Load([]string{file})
	require.NoError(t, err)

	assert.Equal(t, "-O3", env["NVCCFLAGS"])
	assert.Equal(t, "/opt/cuda/lib64", env["CUDA_LIBRARY_DIRS"])
	assert.Equal(t, "/usr/bin", env["PATH"])
}

func TestLoad_FirstFileWins(t *testing.T) {
	first := writeEnvFile(t, "first.env", "CUDA_LIBRARY_DIRS=/first\n")
	second := writeEnvFile(t, "second.env", "CUDA_LIBRARY_DIRS=/second\nNVCCFLAGS=-G\n")
	loader := envfile.NewLoaderWithEnviron(nil)

	env, err := loader.Load([]string{first, second})
	require.NoError(t, err)

	assert.Equal(t, "/first", env["CUDA_LIBRARY_DIRS"])
	assert.Equal(t, "-G", env["NVCCFLAGS"])
}

func TestLoad_NoFiles(t *testing.T) {
	loader := envfile.NewLoaderWithEnviron([]string{"A=1"})

	env, err := loader.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, domain.Env{"A": "1"}, env)
}

func TestLoad_MissingFile(t *testing.T) {
	loader := envfile.NewLoaderWithEnviron(nil)

	_, err := loader.Load([]string{filepath.Join(t.TempDir(), "missing.env")})

	require.ErrorIs(t, err, domain.ErrEnvFileReadFailed)
}
