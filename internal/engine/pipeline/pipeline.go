// Package pipeline turns extension targets into a plan of compile and link steps, asking
// a build hook for the compiler and linker to use.
package pipeline

import (
	"slices"

	"go.trai.ch/cubuild/internal/core/domain"
	"go.trai.ch/cubuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	// DefaultCompiler is the host's compiler prefix for position-independent objects.
	DefaultCompiler = domain.CommandVector{"cc", "-fPIC"}
	// DefaultLinker is the host's shared-library linker prefix.
	DefaultLinker = domain.CommandVector{"cc", "-shared"}
	// NativeSuffixes are the source suffixes the host compiler understands.
	NativeSuffixes = domain.NewSuffixSet(".c", ".cc", ".cpp", ".cxx")
)

// NopHook leaves the host defaults in place.
type NopHook struct{}

var _ ports.BuildHook = NopHook{}

// SourceSuffixes returns native unchanged.
func (NopHook) SourceSuffixes(native domain.SuffixSet) domain.SuffixSet { return native }

// CompilerCommand returns def unchanged.
func (NopHook) CompilerCommand(_ string, def domain.CommandVector) domain.CommandVector { return def }

// LinkerCommand returns def unchanged.
func (NopHook) LinkerCommand(_ string, def domain.CommandVector) domain.CommandVector { return def }

// PreSpawn returns cmd unchanged.
func (NopHook) PreSpawn(cmd domain.CommandVector) domain.CommandVector { return cmd }

// Pipeline assembles step commands for a single build.
type Pipeline struct {
	hook     ports.BuildHook
	platform domain.Platform
	env      domain.EnvironmentConfig
	buildDir string
}

// New creates a Pipeline. The environment configuration is resolved once by the caller
// and applied identically to every target.
func New(hook ports.BuildHook, platform domain.Platform, env domain.EnvironmentConfig, buildDir string) *Pipeline {
	if hook == nil {
		hook = NopHook{}
	}
	if buildDir == "" {
		buildDir = domain.DefaultBuildDir
	}
	return &Pipeline{hook: hook, platform: platform, env: env, buildDir: buildDir}
}

// Plan builds and validates the step plan for targets.
func (p *Pipeline) Plan(targets []domain.ExtensionTarget) (*domain.Plan, error) {
	suffixes := p.hook.SourceSuffixes(NativeSuffixes)
	plan := domain.NewPlan()
	owners := make(map[string]string)
	objects := make(map[string]string)

	for _, target := range targets {
		compileIDs := make([]string, 0, len(target.Sources))
		objectFiles := make([]string, 0, len(target.Sources))

		for _, source := range target.Sources {
			if err := checkSource(suffixes, owners, objects, target, source, p.buildDir); err != nil {
				return nil, err
			}
			obj := domain.ObjectPath(p.buildDir, source)
			owners[source] = target.Name
			objects[obj] = source

			step := domain.Step{
				ID:      domain.CompileStepID(target.Name, source),
				Kind:    domain.StepCompile,
				Target:  target.Name,
				Source:  source,
				Command: p.compileCommand(target, source, obj),
				Inputs:  append([]string{source}, target.Depends...),
				Output:  obj,
			}
			if err := plan.AddStep(&step); err != nil {
				return nil, err
			}
			compileIDs = append(compileIDs, step.ID)
			objectFiles = append(objectFiles, obj)
		}

		link := domain.Step{
			ID:           domain.LinkStepID(target.Name),
			Kind:         domain.StepLink,
			Target:       target.Name,
			Command:      p.linkCommand(target, objectFiles),
			Inputs:       objectFiles,
			Output:       target.OutputPath(p.buildDir),
			Dependencies: compileIDs,
		}
		if err := plan.AddStep(&link); err != nil {
			return nil, err
		}
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

func checkSource(
	suffixes domain.SuffixSet,
	owners, objects map[string]string,
	target domain.ExtensionTarget,
	source, buildDir string,
) error {
	if !suffixes.Matches(source) {
		err := zerr.With(zerr.Wrap(domain.ErrUnsupportedSource, "cannot plan compile step"), "source", source)
		return zerr.With(err, "target", target.Name)
	}
	if owner, ok := owners[source]; ok {
		err := zerr.With(zerr.Wrap(domain.ErrDuplicateSource, "cannot plan compile step"), "source", source)
		err = zerr.With(err, "target", target.Name)
		return zerr.With(err, "owner", owner)
	}
	obj := domain.ObjectPath(buildDir, source)
	if other, ok := objects[obj]; ok {
		err := zerr.With(zerr.Wrap(domain.ErrObjectCollision, "cannot plan compile step"), "source", source)
		err = zerr.With(err, "other_source", other)
		return zerr.With(err, "object", obj)
	}
	return nil
}

func (p *Pipeline) compileCommand(target domain.ExtensionTarget, source, obj string) domain.CommandVector {
	cmd := p.hook.CompilerCommand(source, DefaultCompiler.Clone()).Clone()
	cmd = append(cmd, "-c", source, "-o", obj)
	cmd = append(cmd, p.env.CompileFlags...)
	return append(cmd, target.CompileArgs...)
}

func (p *Pipeline) linkCommand(target domain.ExtensionTarget, objectFiles []string) domain.CommandVector {
	cmd := p.hook.LinkerCommand(target.Name, DefaultLinker.Clone()).Clone()
	cmd = append(cmd, objectFiles...)
	cmd = append(cmd, p.platform.ArchFlags()...)

	dirs := slices.Concat(p.env.LibraryDirs, target.LibraryDirs)
	var seen []string
	for _, dir := range dirs {
		if slices.Contains(seen, dir) {
			continue
		}
		seen = append(seen, dir)
		cmd = append(cmd, "-L"+dir)
	}
	for _, lib := range target.Libraries {
		cmd = append(cmd, "-l"+lib)
	}

	cmd = append(cmd, "-o", target.OutputPath(p.buildDir))
	return append(cmd, target.LinkArgs...)
}
