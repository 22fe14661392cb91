package domain

import (
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

const (
	// DefaultCompileFlagsVar is the variable holding extra override-compiler flags.
	DefaultCompileFlagsVar = "NVCCFLAGS"
	// DefaultModeName is the build mode used when none is requested.
	DefaultModeName = "default"
)

// Env is a snapshot of the effective process environment.
type Env map[string]string

// ParseEnv builds an Env from "KEY=VALUE" entries. Later entries win.
func ParseEnv(entries []string) Env {
	env := make(Env, len(entries))
	for _, entry := range entries {
		k, v, ok := strings.Cut(entry, "=")
		if ok && k != "" {
			env[k] = v
		}
	}
	return env
}

// Lookup returns the value of key and whether it is set.
func (e Env) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

// Environ returns the environment as sorted "KEY=VALUE" entries suitable for exec.
func (e Env) Environ() []string {
	out := make([]string, 0, len(e))
	for k, v := range e {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// EnvironmentSpec names the variables the build reads its optional flags from.
type EnvironmentSpec struct {
	CompileFlagsVar    string
	LibraryDirsVar     string
	RequireLibraryDirs bool
}

// BuildMode is a named configuration variant. A nil RequireLibraryDirs inherits the
// project-wide setting.
type BuildMode struct {
	Name               string
	RequireLibraryDirs *bool
}

// RequiresLibraryDirs resolves whether the library-directory variable is mandatory
// in this mode.
func (m BuildMode) RequiresLibraryDirs(spec EnvironmentSpec) bool {
	if m.RequireLibraryDirs != nil {
		return *m.RequireLibraryDirs
	}
	return spec.RequireLibraryDirs
}

// EnvironmentConfig holds the flags and directories read from the environment once,
// before any step is planned.
type EnvironmentConfig struct {
	CompileFlags []string
	LibraryDirs  []string
}

// ResolveEnvironment reads the flag and directory variables named by spec. Compile flags
// are whitespace-separated; library directories are list-separator-separated with empty
// segments dropped. A mandatory directory variable that is unset or empty fails with
// ErrMissingEnvironment.
func ResolveEnvironment(spec EnvironmentSpec, mode BuildMode, env Env) (EnvironmentConfig, error) {
	var cfg EnvironmentConfig

	flagsVar := spec.CompileFlagsVar
	if flagsVar == "" {
		flagsVar = DefaultCompileFlagsVar
	}
	if raw, ok := env.Lookup(flagsVar); ok {
		cfg.CompileFlags = strings.Fields(raw)
	}

	required := mode.RequiresLibraryDirs(spec)
	if spec.LibraryDirsVar == "" {
		if required {
			return EnvironmentConfig{}, zerr.With(
				zerr.Wrap(ErrMissingEnvironment, "library directory variable is required but not named"),
				"mode", mode.Name,
			)
		}
		return cfg, nil
	}

	raw, _ := env.Lookup(spec.LibraryDirsVar)
	for _, dir := range filepath.SplitList(raw) {
		dir = strings.TrimSpace(dir)
		if dir == "" || slices.Contains(cfg.LibraryDirs, dir) {
			continue
		}
		cfg.LibraryDirs = append(cfg.LibraryDirs, dir)
	}

	if required && len(cfg.LibraryDirs) == 0 {
		err := zerr.Wrap(ErrMissingEnvironment, "cannot resolve library directories")
		err = zerr.With(err, "variable", spec.LibraryDirsVar)
		return EnvironmentConfig{}, zerr.With(err, "mode", mode.Name)
	}

	return cfg, nil
}
