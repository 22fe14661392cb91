// Package config provides the configuration loader for cubuild.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.trai.ch/cubuild/internal/core/domain"
	"go.trai.ch/cubuild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only configuration schema version understood by the loader.
const SupportedVersion = "1"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration and returns the project it declares. path may name the
// file itself or a directory; a directory (or an empty path, meaning the working
// directory) is searched upwards for cubuild.yaml. The project root is the directory
// holding the file, and relative paths in the file are relative to it.
func (l *Loader) Load(path string) (*domain.Project, error) {
	configPath, err := l.findConfiguration(path)
	if err != nil {
		return nil, err
	}

	var file Cubuildfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}

	switch file.Version {
	case SupportedVersion:
	case "":
		l.Logger.Warn(fmt.Sprintf("no version set in %s, assuming %q", configPath, SupportedVersion))
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedVersion, "cannot load project"), "version", file.Version)
	}

	project, err := buildProject(&file)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	project.Root = filepath.Dir(configPath)
	return project, nil
}

func (l *Loader) findConfiguration(path string) (string, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", zerr.Wrap(err, "cannot determine working directory")
		}
		path = cwd
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", abs)
	}
	if !info.IsDir() {
		return abs, nil
	}

	currentDir := abs
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "cannot locate project"), "cwd", abs)
}

func buildProject(file *Cubuildfile) (*domain.Project, error) {
	toolchain, err := domain.NewToolchainOverride(
		file.Toolchain.Compiler,
		file.Toolchain.Linker,
		file.Toolchain.SharedFlag,
		file.Toolchain.ArchFlag,
		file.Toolchain.Suffixes,
	)
	if err != nil {
		return nil, err
	}

	project := &domain.Project{
		BuildDir:  file.BuildDir,
		Toolchain: toolchain,
		Environment: domain.EnvironmentSpec{
			CompileFlagsVar:    file.Environment.CompileFlags,
			LibraryDirsVar:     file.Environment.LibraryDirs,
			RequireLibraryDirs: file.Environment.RequireLibraryDirs,
		},
		Modes: make(map[string]domain.BuildMode, len(file.Modes)),
	}
	if project.BuildDir == "" {
		project.BuildDir = domain.DefaultBuildDir
	}
	if project.Environment.CompileFlagsVar == "" {
		project.Environment.CompileFlagsVar = domain.DefaultCompileFlagsVar
	}

	for name, dto := range file.Modes {
		mode := domain.BuildMode{Name: name}
		if dto != nil {
			mode.RequireLibraryDirs = dto.RequireLibraryDirs
		}
		project.Modes[name] = mode
	}

	names := make([]string, 0, len(file.Targets))
	for name := range file.Targets {
		names = append(names, name)
	}
	sort.Strings(names)

	project.Targets = make([]domain.ExtensionTarget, 0, len(names))
	for _, name := range names {
		dto := file.Targets[name]
		if dto == nil {
			dto = &TargetDTO{}
		}
		target, err := domain.NewExtensionTarget(name, dto.Sources, dto.Libraries, dto.LibraryDirs, dto.CompileArgs, dto.LinkArgs)
		if err != nil {
			return nil, err
		}
		project.Targets = append(project.Targets, target.WithDepends(dto.Depends...))
	}

	return project, nil
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
// Unknown keys are rejected.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", configPath)
	}

	dec := yaml.NewDecoder(bytes.NewReader(configFile))
	dec.KnownFields(true)
	if parseErr := dec.Decode(target); parseErr != nil && !errors.Is(parseErr, io.EOF) {
		return zerr.With(errors.Join(domain.ErrConfigParseFailed, parseErr), "path", configPath)
	}

	return nil
}
