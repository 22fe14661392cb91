package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cubuild/internal/adapters/fs"
)

func TestResolver_ResolveInputs_Success(t *testing.T) {
	tmpDir := t.TempDir()

	// Create test files
	files := []string{"a.cuh", "b.cuh", "c.cu"}
	for _, f := range files {
		err := os.WriteFile(filepath.Join(tmpDir, f), []byte("content"), 0o600)
		require.NoError(t, err)
	}

	resolver := fs.NewResolver(fs.NewWalker())

	// Test glob pattern
	inputs := []string{"*.cuh"}
	resolved, err := resolver.ResolveInputs(inputs, tmpDir)
	require.NoError(t, err)

	// Should match a.cuh and b.cuh (sorted)
	assert.Len(t, resolved, 2)
	assert.Contains(t, resolved[0], "a.cuh")
	assert.Contains(t, resolved[1], "b.cuh")
}

func TestResolver_ResolveInputs_GlobError(t *testing.T) {
	tmpDir := t.TempDir()
	resolver := fs.NewResolver(fs.NewWalker())

	// Malformed glob pattern (contains invalid characters)
	inputs := []string{"["}
	_, err := resolver.ResolveInputs(inputs, tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to glob path")
}

func TestResolver_ResolveInputs_NoMatches(t *testing.T) {
	tmpDir := t.TempDir()
	resolver := fs.NewResolver(fs.NewWalker())

	// Pattern that matches nothing
	inputs := []string{"*.nonexistent"}
	_, err := resolver.ResolveInputs(inputs, tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input not found")
}

func TestResolver_ResolveInputs_MultiplePatterns(t *testing.T) {
	tmpDir := t.TempDir()

	// Create test files
	files := []string{"a.cuh", "b.cuh", "c.cu", "d.cu"}
	for _, f := range files {
		err := os.WriteFile(filepath.Join(tmpDir, f), []byte("content"), 0o600)
		require.NoError(t, err)
	}

	resolver := fs.NewResolver(fs.NewWalker())

	// Test multiple patterns
	inputs := []string{"*.cuh", "*.cu"}
	resolved, err := resolver.ResolveInputs(inputs, tmpDir)
	require.NoError(t, err)

	// Should match all 4 files
	assert.Len(t, resolved, 4)
}

func TestResolver_ResolveInputs_Deduplication(t *testing.T) {
	tmpDir := t.TempDir()

	// Create test file
	err := os.WriteFile(filepath.Join(tmpDir, "kernel.cuh"), []byte("content"), 0o600)
	require.NoError(t, err)

	resolver := fs.NewResolver(fs.NewWalker())

	// Test with duplicate patterns
	inputs := []string{"kernel.cuh", "*.cuh", "kernel.cuh"}
	resolved, err := resolver.ResolveInputs(inputs, tmpDir)
	require.NoError(t, err)

	// Should only have one entry despite duplicates
	assert.Len(t, resolved, 1)
	assert.Contains(t, resolved[0], "kernel.cuh")
}

func TestResolver_ResolveInputs_Sorting(t *testing.T) {
	tmpDir := t.TempDir()

	// Create test files in non-alphabetical order
	files := []string{"z.cuh", "a.cuh", "m.cuh"}
	for _, f := range files {
		err := os.WriteFile(filepath.Join(tmpDir, f), []byte("content"), 0o600)
		require.NoError(t, err)
	}

	resolver := fs.NewResolver(fs.NewWalker())

	// Resolve all files
	inputs := []string{"*.cuh"}
	resolved, err := resolver.ResolveInputs(inputs, tmpDir)
	require.NoError(t, err)

	// Should be sorted alphabetically
	assert.Len(t, resolved, 3)
	assert.Contains(t, resolved[0], "a.cuh")
	assert.Contains(t, resolved[1], "m.cuh")
	assert.Contains(t, resolved[2], "z.cuh")
}

func TestResolver_ResolveInputs_Directory(t *testing.T) {
	tmpDir := t.TempDir()
	include := filepath.Join(tmpDir, "include")
	require.NoError(t, os.MkdirAll(filepath.Join(include, "detail"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(include, "a.cuh"), []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(include, "detail", "b.cuh"), []byte("b"), 0o600))

	resolved, err := fs.NewResolver(fs.NewWalker()).ResolveInputs([]string{"include"}, tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(include, "a.cuh"),
		filepath.Join(include, "detail", "b.cuh"),
	}, resolved)
}

func TestResolver_ResolveInputs_AbsolutePathIgnoresRoot(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "k.cu")
	require.NoError(t, os.WriteFile(file, []byte("k"), 0o600))

	resolved, err := fs.NewResolver(fs.NewWalker()).ResolveInputs([]string{file}, "/elsewhere")
	require.NoError(t, err)

	assert.Equal(t, []string{file}, resolved)
}
