package domain

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// SharedObjectSuffix is the file suffix of built extension modules.
const SharedObjectSuffix = ".so"

// ExtensionTarget is one named build unit: sources compiled and linked into one
// shared object. Targets are created from configuration and only read afterwards.
type ExtensionTarget struct {
	Name        string
	Sources     []string
	Libraries   []string
	LibraryDirs []string
	CompileArgs []string
	LinkArgs    []string
	// Depends lists extra files, directories or glob patterns every compile step of the
	// target reads, typically headers. They only affect rebuild decisions.
	Depends []string
}

// NewExtensionTarget validates a target declaration. Libraries and library directories
// are sets: duplicates are dropped, keeping the first declaration's position.
func NewExtensionTarget(name string, sources, libraries, libraryDirs, compileArgs, linkArgs []string) (ExtensionTarget, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\ `) || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return ExtensionTarget{}, zerr.With(zerr.Wrap(ErrInvalidTarget, "target name must be a dotted module name"), "target", name)
	}
	if len(sources) == 0 {
		return ExtensionTarget{}, zerr.With(zerr.Wrap(ErrNoSources, "cannot declare target"), "target", name)
	}

	return ExtensionTarget{
		Name:        name,
		Sources:     slices.Clone(sources),
		Libraries:   uniqueStrings(libraries),
		LibraryDirs: uniqueStrings(libraryDirs),
		CompileArgs: slices.Clone(compileArgs),
		LinkArgs:    slices.Clone(linkArgs),
	}, nil
}

// WithDepends returns a copy of t with the given extra compile inputs.
func (t ExtensionTarget) WithDepends(depends ...string) ExtensionTarget {
	t.Depends = uniqueStrings(depends)
	return t
}

// OutputPath returns where the target's shared object is written. Dotted module names
// map to nested directories, so "pkg.libfoo" becomes "<buildDir>/lib/pkg/libfoo.so".
func (t ExtensionTarget) OutputPath(buildDir string) string {
	parts := strings.Split(t.Name, ".")
	parts[len(parts)-1] += SharedObjectSuffix
	return filepath.Join(append([]string{buildDir, "lib"}, parts...)...)
}

// ObjectPath returns where the object file for source is written.
func ObjectPath(buildDir, source string) string {
	rel := filepath.Clean(source)
	if filepath.IsAbs(rel) {
		rel = strings.TrimPrefix(rel, filepath.VolumeName(rel))
		rel = strings.TrimLeft(rel, `/\`)
	}
	rel = strings.ReplaceAll(rel, "..", "__")
	return filepath.Join(buildDir, "temp", strings.TrimSuffix(rel, filepath.Ext(rel))+".o")
}

func uniqueStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
