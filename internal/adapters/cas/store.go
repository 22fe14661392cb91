// Package cas stores step records, one JSON file per step, under the project root.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/cubuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.StepStore using a file-per-step strategy.
type Store struct{}

// NewStore creates a new StepStore.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the record for a step ID under root.
func (s *Store) Get(root, stepID string) (*domain.StepRecord, error) {
	filename := s.filename(root, stepID)
	//nolint:gosec // Path is constructed from the project root and a hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "step", stepID)
	}

	var record domain.StepRecord
	if err := json.Unmarshal(data, &record); err != nil {
		// A damaged record only costs a rebuild of the step.
		return nil, nil
	}
	if record.StepID != stepID {
		return nil, nil
	}

	return &record, nil
}

// Put stores the record under root.
func (s *Store) Put(root string, record domain.StepRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	filename := s.filename(root, record.StepID)
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", filepath.Dir(filename))
	}

	// Write through a temporary file so a concurrent reader never sees half a record.
	tmp := filename + ".tmp"
	//nolint:gosec // Path is constructed from the project root and a hashed filename
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", tmp)
	}
	if err := os.Rename(tmp, filename); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", filename)
	}

	return nil
}

// Path returns the directory holding the step records of root.
func (s *Store) Path(root string) string {
	return filepath.Join(root, domain.DefaultStorePath())
}

func (s *Store) filename(root, stepID string) string {
	hash := sha256.Sum256([]byte(stepID))
	return filepath.Join(s.Path(root), hex.EncodeToString(hash[:])+".json")
}
