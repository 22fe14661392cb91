package cas_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cubuild/internal/adapters/cas"
	"go.trai.ch/cubuild/internal/core/domain"
)

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore()

	record := domain.StepRecord{
		StepID:      "compile:cudamat:cudamat.cu",
		Fingerprint: "abc",
		Output:      "build/temp/cudamat.o",
		// Truncate because the JSON round trip drops the monotonic clock.
		Timestamp: time.Now().Truncate(time.Second),
	}

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, store.Put(root, record))

		got, err := store.Get(root, record.StepID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, record.StepID, got.StepID)
		assert.Equal(t, record.Fingerprint, got.Fingerprint)
		assert.Equal(t, record.Output, got.Output)
		assert.True(t, record.Timestamp.Equal(got.Timestamp))
	})

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()

		got, err := store.Get(root, "link:missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestStore_RootsAreIsolated(t *testing.T) {
	t.Parallel()

	store := cas.NewStore()
	rootA, rootB := t.TempDir(), t.TempDir()

	require.NoError(t, store.Put(rootA, domain.StepRecord{StepID: "link:a", Fingerprint: "1"}))

	got, err := store.Get(rootB, "link:a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_CorruptRecordIsAMiss(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore()
	require.NoError(t, store.Put(root, domain.StepRecord{StepID: "link:a", Fingerprint: "1"}))

	entries, err := os.ReadDir(store.Path(root))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	//nolint:gosec // test file
	err = os.WriteFile(filepath.Join(store.Path(root), entries[0].Name()), []byte("{ invalid json"), 0o600)
	require.NoError(t, err)

	got, err := store.Get(root, "link:a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Path(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("proj", ".cubuild", "steps"), cas.NewStore().Path("proj"))
}

func TestStore_PutFailsWhenRootIsAFile(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(root, []byte("x"), 0o600))

	err := cas.NewStore().Put(root, domain.StepRecord{StepID: "link:a"})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStoreWriteFailed.Error())
}
