package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/cubuild/internal/core/domain"
	"go.trai.ch/cubuild/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes step fingerprints from a command vector and the contents of its inputs.
type Hasher struct {
	resolver ports.InputResolver
}

// NewHasher creates a new Hasher.
func NewHasher(resolver ports.InputResolver) *Hasher {
	return &Hasher{resolver: resolver}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// Fingerprint hashes the tokens of cmd and the contents of every file the input patterns
// resolve to. Files are hashed concurrently; the result does not depend on scheduling.
func (h *Hasher) Fingerprint(cmd domain.CommandVector, inputs []string) (string, error) {
	files, err := h.resolver.ResolveInputs(inputs, "")
	if err != nil {
		return "", err
	}

	sums := make([]uint64, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, file := range files {
		g.Go(func() error {
			sum, err := h.ComputeFileHash(file)
			if err != nil {
				return err
			}
			sums[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	hasher := xxhash.New()
	for _, token := range cmd {
		_, _ = hasher.WriteString(token)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	for i, file := range files {
		_, _ = hasher.WriteString(file)
		_, _ = hasher.Write([]byte{0})
		if err := binary.Write(hasher, binary.LittleEndian, sums[i]); err != nil {
			return "", zerr.Wrap(err, "failed to write hash to digest")
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}
