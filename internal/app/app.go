// Package app implements the application layer for cubuild.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/cubuild/internal/adapters/detector"
	"go.trai.ch/cubuild/internal/adapters/telemetry"
	"go.trai.ch/cubuild/internal/adapters/telemetry/progrock"
	"go.trai.ch/cubuild/internal/core/domain"
	"go.trai.ch/cubuild/internal/core/ports"
	"go.trai.ch/cubuild/internal/driver"
	"go.trai.ch/cubuild/internal/engine/pipeline"
	"go.trai.ch/cubuild/internal/engine/scheduler"
	"go.trai.ch/cubuild/internal/tui"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	envLoader    ports.EnvironmentLoader
	launcher     ports.Launcher
	hasher       ports.Hasher
	resolver     ports.InputResolver
	store        ports.StepStore
	watcher      ports.Watcher
	logger       ports.Logger
	progress     io.Writer
	teaOptions   []tea.ProgramOption
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	envLoader ports.EnvironmentLoader,
	launcher ports.Launcher,
	hasher ports.Hasher,
	resolver ports.InputResolver,
	store ports.StepStore,
	watcher ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		envLoader:    envLoader,
		launcher:     launcher,
		hasher:       hasher,
		resolver:     resolver,
		store:        store,
		watcher:      watcher,
		logger:       log,
		progress:     os.Stderr,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithProgressOutput sets where build progress is drawn. It defaults to os.Stderr.
func (a *App) WithProgressOutput(w io.Writer) *App {
	a.progress = w
	return a
}

// RunOptions configures Build, Plan and Watch.
type RunOptions struct {
	// ConfigPath is the config file or a directory to search upwards from.
	ConfigPath string
	// Mode names the build mode. Empty selects the default mode.
	Mode string
	// EnvFiles are dotenv files layered under the process environment.
	EnvFiles []string
	// Targets restricts the build to the named targets. Empty builds every target.
	Targets []string
	// Jobs bounds the number of concurrent steps. Zero or less uses every CPU.
	Jobs int
	// Force rebuilds steps even when their outputs are up to date.
	Force bool
	// Output selects the progress renderer: auto, tui or linear.
	Output string
}

// session is everything a run needs once configuration and environment are resolved.
type session struct {
	project  *domain.Project
	env      domain.Env
	driver   *driver.Driver
	pipeline *pipeline.Pipeline
	targets  []domain.ExtensionTarget
	output   detector.OutputMode
}

// prepare loads the project and resolves the environment. Every environment error is
// reported here, before any process is launched.
func (a *App) prepare(opts RunOptions) (*session, error) {
	output, err := detector.ParseMode(opts.Output)
	if err != nil {
		return nil, err
	}

	project, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	env, err := a.envLoader.Load(opts.EnvFiles)
	if err != nil {
		return nil, err
	}

	mode, err := project.Mode(opts.Mode)
	if err != nil {
		return nil, err
	}

	envConfig, err := domain.ResolveEnvironment(project.Environment, mode, env)
	if err != nil {
		return nil, err
	}

	targets, err := project.SelectTargets(opts.Targets)
	if err != nil {
		return nil, err
	}

	platform := domain.HostPlatform(env, project.Toolchain.ArchFlag)
	drv := driver.New(project.Toolchain, platform)

	return &session{
		project:  project,
		env:      env,
		driver:   drv,
		pipeline: pipeline.New(drv, platform, envConfig, project.BuildDir),
		targets:  targets,
		output:   output,
	}, nil
}

// Build compiles and links the selected targets.
func (a *App) Build(ctx context.Context, opts RunOptions) error {
	s, err := a.prepare(opts)
	if err != nil {
		return err
	}
	return a.build(ctx, s, s.targets, opts)
}

func (a *App) build(ctx context.Context, s *session, targets []domain.ExtensionTarget, opts RunOptions) error {
	plan, err := s.pipeline.Plan(targets)
	if err != nil {
		return err
	}

	recorder, stop := a.startProgress(ctx, s.output)
	sched := scheduler.NewScheduler(a.launcher, a.hasher, a.store, recorder, a.logger)

	runErr := sched.Run(ctx, plan, scheduler.RunOptions{
		Hook:        s.driver,
		Env:         s.env.Environ(),
		Parallelism: opts.Jobs,
		Force:       opts.Force,
		Dir:         s.project.Root,
	})

	if err := stop(); err != nil {
		a.logger.Warn("progress view: " + err.Error())
	}

	if runErr != nil {
		return errors.Join(domain.ErrBuildExecutionFailed, runErr)
	}
	return nil
}

// startProgress picks the renderer for this run. The returned function flushes the
// recorder and waits for the renderer to finish.
func (a *App) startProgress(ctx context.Context, output detector.OutputMode) (ports.Telemetry, func() error) {
	if detector.ResolveMode(output, detector.DetectEnvironment) != detector.ModeTUI {
		linear := telemetry.NewLinear(a.progress)
		return linear, linear.Close
	}

	feed := tui.NewFeed()
	renderer := tui.NewRenderer(ctx, feed, a.progress, a.teaOptions...)
	renderer.Start()

	recorder := progrock.NewRecorder(feed)
	return recorder, func() error {
		_ = recorder.Close()
		return renderer.Stop()
	}
}

// Plan writes the command of every step the build would run, after the toolchain
// driver has rewritten it, without launching anything.
func (a *App) Plan(_ context.Context, opts RunOptions, w io.Writer) error {
	s, err := a.prepare(opts)
	if err != nil {
		return err
	}

	plan, err := s.pipeline.Plan(s.targets)
	if err != nil {
		return err
	}

	for step := range plan.Walk() {
		if _, err := fmt.Fprintf(w, "%s\n    %s\n", step.ID, s.driver.PreSpawn(step.Command)); err != nil {
			return zerr.Wrap(err, "failed to write plan")
		}
	}
	return nil
}

// Watch builds the selected targets, then rebuilds the targets whose sources or
// declared dependencies change until ctx is done. Failed builds are logged and the
// watch continues.
func (a *App) Watch(ctx context.Context, opts RunOptions) error {
	s, err := a.prepare(opts)
	if err != nil {
		return err
	}

	owners, err := a.watchedInputs(s)
	if err != nil {
		return err
	}
	paths := make([]string, 0, len(owners))
	for path := range owners {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	if err := a.build(ctx, s, s.targets, opts); err != nil && ctx.Err() == nil {
		a.logger.Error(err)
	}

	changes, err := a.watcher.Watch(ctx, paths)
	if err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("watching %d files", len(paths)))

	for batch := range changes {
		affected := affectedTargets(s.targets, owners, batch)
		if len(affected) == 0 {
			continue
		}

		names := make([]string, len(affected))
		for i, t := range affected {
			names[i] = t.Name
		}
		a.logger.Info(fmt.Sprintf("%d files changed, rebuilding %s", len(batch), strings.Join(names, ", ")))

		if err := a.build(ctx, s, affected, opts); err != nil && ctx.Err() == nil {
			a.logger.Error(err)
		}
	}

	return nil
}

// watchedInputs maps every file a target reads to the names of those targets.
func (a *App) watchedInputs(s *session) (map[string][]string, error) {
	owners := make(map[string][]string)
	for _, target := range s.targets {
		inputs := append(slices.Clone(target.Sources), target.Depends...)
		files, err := a.resolver.ResolveInputs(inputs, s.project.Root)
		if err != nil {
			return nil, zerr.With(err, "target", target.Name)
		}
		for _, file := range files {
			file = filepath.Clean(file)
			if !slices.Contains(owners[file], target.Name) {
				owners[file] = append(owners[file], target.Name)
			}
		}
	}
	return owners, nil
}

func affectedTargets(targets []domain.ExtensionTarget, owners map[string][]string, changed []string) []domain.ExtensionTarget {
	names := make(map[string]bool)
	for _, path := range changed {
		for _, name := range owners[filepath.Clean(path)] {
			names[name] = true
		}
	}

	var affected []domain.ExtensionTarget
	for _, t := range targets {
		if names[t.Name] {
			affected = append(affected, t)
		}
	}
	return affected
}

// Clean removes the build directory and the step records of the project.
func (a *App) Clean(_ context.Context, opts RunOptions) error {
	project, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	var errs error

	// Helper to remove a directory and log the action
	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	buildDir := project.BuildDir
	if !filepath.IsAbs(buildDir) {
		buildDir = filepath.Join(project.Root, buildDir)
	}
	remove(buildDir, "build directory")
	remove(a.store.Path(project.Root), "step records")

	return errs
}
