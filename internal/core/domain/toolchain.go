package domain

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

const (
	// DefaultCompiler is the override compiler used when none is configured.
	DefaultCompiler = "nvcc"
	// DefaultSharedFlag puts the override compiler into shared-library mode.
	DefaultSharedFlag = "--shared"
	// DefaultArchFlag is the architecture-selection flag injected by some host platforms.
	DefaultArchFlag = "-arch"
	// DefaultKernelSuffix is the suffix of device-kernel sources.
	DefaultKernelSuffix = ".cu"
)

// SuffixSet is an immutable, ordered set of source file suffixes.
type SuffixSet struct {
	suffixes []string
}

// NewSuffixSet creates a set from the given suffixes, normalizing each to a leading dot.
func NewSuffixSet(suffixes ...string) SuffixSet {
	return SuffixSet{}.With(suffixes...)
}

// With returns a new set holding the receiver's suffixes plus the given ones.
// Adding a suffix that is already present has no effect.
func (s SuffixSet) With(suffixes ...string) SuffixSet {
	out := slices.Clone(s.suffixes)
	for _, suffix := range suffixes {
		suffix = normalizeSuffix(suffix)
		if suffix == "" || slices.Contains(out, suffix) {
			continue
		}
		out = append(out, suffix)
	}
	return SuffixSet{suffixes: out}
}

// Contains reports whether suffix is a member of the set.
func (s SuffixSet) Contains(suffix string) bool {
	return slices.Contains(s.suffixes, normalizeSuffix(suffix))
}

// Matches reports whether the file at path has a suffix in the set.
func (s SuffixSet) Matches(path string) bool {
	ext := filepath.Ext(path)
	return ext != "" && s.Contains(ext)
}

// Len returns the number of suffixes in the set.
func (s SuffixSet) Len() int {
	return len(s.suffixes)
}

// Slice returns a copy of the suffixes in insertion order.
func (s SuffixSet) Slice() []string {
	return slices.Clone(s.suffixes)
}

func normalizeSuffix(suffix string) string {
	suffix = strings.TrimSpace(suffix)
	if suffix == "" {
		return ""
	}
	if !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}
	return suffix
}

// ToolchainOverride binds the external toolchain that replaces the host's default compiler
// and linker. It is built once before any target is planned and never changes afterwards.
type ToolchainOverride struct {
	Suffixes   SuffixSet
	Compiler   string
	Linker     string
	SharedFlag string
	ArchFlag   string
}

// NewToolchainOverride fills defaults for unset fields and validates the result.
func NewToolchainOverride(compiler, linker, sharedFlag, archFlag string, suffixes []string) (ToolchainOverride, error) {
	compiler = strings.TrimSpace(compiler)
	if compiler == "" {
		compiler = DefaultCompiler
	}
	if strings.ContainsAny(compiler, " \t") {
		return ToolchainOverride{}, zerr.With(
			zerr.Wrap(ErrInvalidToolchain, "compiler must be a single executable name"),
			"compiler", compiler,
		)
	}

	linker = strings.TrimSpace(linker)
	if linker == "" {
		linker = compiler
	}
	if sharedFlag == "" {
		sharedFlag = DefaultSharedFlag
	}
	if archFlag == "" {
		archFlag = DefaultArchFlag
	}
	if len(suffixes) == 0 {
		suffixes = []string{DefaultKernelSuffix}
	}

	return ToolchainOverride{
		Suffixes:   NewSuffixSet(suffixes...),
		Compiler:   compiler,
		Linker:     linker,
		SharedFlag: sharedFlag,
		ArchFlag:   archFlag,
	}, nil
}

// CompilerInvocation returns the vector prefix used for every compile step.
func (t ToolchainOverride) CompilerInvocation() CommandVector {
	return CommandVector{t.Compiler}
}

// LinkerInvocation returns the vector prefix used for shared-library link steps.
func (t ToolchainOverride) LinkerInvocation() CommandVector {
	return CommandVector{t.Linker, t.SharedFlag}
}

// IsSharedLink reports whether cmd is the override linker's shared-link invocation
// carrying at least one architecture flag.
func (t ToolchainOverride) IsSharedLink(cmd CommandVector) bool {
	if len(cmd) < 2 {
		return false
	}
	return cmd[0] == t.Linker && cmd[1] == t.SharedFlag && cmd.Contains(t.ArchFlag)
}
