package fs

import (
	"os"
	"path/filepath"
	"sort"

	"go.trai.ch/cubuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver expands input patterns into concrete files.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// ResolveInputs resolves the given input patterns, relative to root, to a sorted list of
// concrete file paths. Patterns may name files, directories (walked recursively) or
// globs. A pattern that matches nothing is an error.
func (r *Resolver) ResolveInputs(inputs []string, root string) ([]string, error) {
	uniquePaths := make(map[string]bool)

	for _, input := range inputs {
		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, input)
		}

		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "path", path)
		}
		if len(matches) == 0 {
			return nil, zerr.With(zerr.New("input not found"), "path", path)
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", match)
			}
			if !info.IsDir() {
				uniquePaths[match] = true
				continue
			}
			for file := range r.walker.WalkFiles(match, nil) {
				uniquePaths[file] = true
			}
		}
	}

	result := make([]string, 0, len(uniquePaths))
	for path := range uniquePaths {
		result = append(result, path)
	}
	sort.Strings(result)

	return result, nil
}
