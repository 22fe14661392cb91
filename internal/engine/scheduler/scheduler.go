// Package scheduler runs a build plan: compile steps in parallel, each link step behind
// the compile steps of its target.
package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"go.trai.ch/cubuild/internal/core/domain"
	"go.trai.ch/cubuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// RunOptions configures a single Run.
type RunOptions struct {
	// Hook rewrites every command immediately before it is launched.
	Hook ports.BuildHook
	// Env is the "KEY=VALUE" environment handed to every process.
	Env []string
	// Parallelism bounds the number of concurrently running steps.
	// Zero or less means runtime.NumCPU().
	Parallelism int
	// Force ignores step records and runs every step.
	Force bool
	// Dir is the working directory of every process. Relative step paths resolve against it.
	Dir string
}

// Scheduler manages the execution of steps in a plan.
type Scheduler struct {
	launcher  ports.Launcher
	hasher    ports.Hasher
	store     ports.StepStore
	telemetry ports.Telemetry
	logger    ports.Logger

	mu         sync.RWMutex
	stepStatus map[string]domain.StepStatus
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(
	launcher ports.Launcher,
	hasher ports.Hasher,
	store ports.StepStore,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		launcher:   launcher,
		hasher:     hasher,
		store:      store,
		telemetry:  telemetry,
		logger:     logger,
		stepStatus: make(map[string]domain.StepStatus),
	}
}

func (s *Scheduler) initStepStatuses(plan *domain.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stepStatus = make(map[string]domain.StepStatus, plan.StepCount())
	for step := range plan.Walk() {
		s.stepStatus[step.ID] = domain.StepStatusPending
	}
}

func (s *Scheduler) updateStatus(id string, status domain.StepStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepStatus[id] = status
}

func (s *Scheduler) skipPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, status := range s.stepStatus {
		if status == domain.StepStatusPending {
			s.stepStatus[id] = domain.StepStatusSkipped
		}
	}
}

// Run executes the steps of plan. The first failing step stops scheduling; steps already
// running are allowed to finish and every failure is returned. Steps that depend on a
// failed step never run.
func (s *Scheduler) Run(ctx context.Context, plan *domain.Plan, opts RunOptions) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	if opts.Hook == nil {
		return zerr.Wrap(domain.ErrInvalidToolchain, "scheduler requires a build hook")
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}

	s.initStepStatuses(plan)
	state := s.newRunState(ctx, plan, opts)
	err := state.runExecutionLoop()
	s.skipPending()
	return err
}

type result struct {
	step        string
	err         error
	cached      bool
	fingerprint string
	output      string
}

type schedulerRunState struct {
	plan      *domain.Plan
	inDegree  map[string]int
	ready     []string
	active    int
	failed    bool
	resultsCh chan result
	errs      error
	ctx       context.Context
	opts      RunOptions
	s         *Scheduler
}

func (s *Scheduler) newRunState(ctx context.Context, plan *domain.Plan, opts RunOptions) *schedulerRunState {
	inDegree := make(map[string]int, plan.StepCount())
	var ready []string

	for step := range plan.Walk() {
		inDegree[step.ID] = len(step.Dependencies)
		if len(step.Dependencies) == 0 {
			ready = append(ready, step.ID)
		}
	}

	return &schedulerRunState{
		plan:      plan,
		inDegree:  inDegree,
		ready:     ready,
		resultsCh: make(chan result, opts.Parallelism),
		ctx:       ctx,
		opts:      opts,
		s:         s,
	}
}

func (state *schedulerRunState) runExecutionLoop() error {
	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil {
			if state.active == 0 {
				return errors.Join(state.errs, state.ctx.Err())
			}
			state.handleResult(<-state.resultsCh)
			continue
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	if state.ctx.Err() != nil {
		state.errs = errors.Join(state.errs, state.ctx.Err())
	}

	return state.errs
}

func (state *schedulerRunState) isDone() bool {
	return state.active == 0 && (len(state.ready) == 0 || state.failed)
}

func (state *schedulerRunState) schedule() {
	for len(state.ready) > 0 && state.active < state.opts.Parallelism && !state.failed && state.ctx.Err() == nil {
		id := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.updateStatus(id, domain.StepStatusRunning)

		step, _ := state.plan.Step(id)
		go state.executeStep(step)
	}
}

func (state *schedulerRunState) executeStep(step domain.Step) {
	// The vertex is completed before the result is sent so the loop never finishes
	// ahead of the recorder.
	res := func() result {
		vertex := state.s.telemetry.Vertex(step.ID, vertexName(step))
		ctx := ports.ContextWithVertex(state.ctx, vertex)

		res := state.runStep(ctx, step)
		if res.cached {
			vertex.Cached()
		}
		vertex.Done(res.err)
		return res
	}()

	state.resultsCh <- res
}

func vertexName(step domain.Step) string {
	if step.Kind == domain.StepCompile {
		return "compile " + step.Source
	}
	return "link " + step.Target
}

func (state *schedulerRunState) runStep(ctx context.Context, step domain.Step) result {
	cmd := state.opts.Hook.PreSpawn(step.Command)

	fingerprint, cached, err := state.checkStepCache(step, cmd)
	if err != nil {
		return result{step: step.ID, err: err}
	}
	if cached {
		return result{step: step.ID, cached: true, fingerprint: fingerprint}
	}

	if err := os.MkdirAll(filepath.Dir(state.resolve(step.Output)), domain.DirPerm); err != nil {
		return result{step: step.ID, err: zerr.With(zerr.Wrap(err, "failed to create output directory"), "step", step.ID)}
	}

	launched, err := state.s.launcher.Launch(ctx, cmd, state.opts.Dir, state.opts.Env)
	if err != nil {
		return result{step: step.ID, err: withStepIdentity(err, step)}
	}
	if launched.ExitCode != 0 {
		err := zerr.Wrap(domain.ErrStepFailed, "process exited with non-zero status")
		err = zerr.With(err, "exit_code", launched.ExitCode)
		err = zerr.With(err, "output", string(launched.Output))
		return result{step: step.ID, err: withStepIdentity(err, step)}
	}

	return result{step: step.ID, fingerprint: fingerprint, output: step.Output}
}

func withStepIdentity(err error, step domain.Step) error {
	err = zerr.With(err, "step", step.ID)
	if step.Kind == domain.StepCompile {
		return zerr.With(err, "source", step.Source)
	}
	return zerr.With(err, "target", step.Target)
}

// checkStepCache fingerprints the sanitized command with its inputs and reports whether
// the recorded run of the step is still valid.
func (state *schedulerRunState) checkStepCache(step domain.Step, cmd domain.CommandVector) (string, bool, error) {
	inputs := make([]string, len(step.Inputs))
	for i, in := range step.Inputs {
		inputs[i] = state.resolve(in)
	}

	fingerprint, err := state.s.hasher.Fingerprint(cmd, inputs)
	if err != nil {
		return "", false, withStepIdentity(zerr.Wrap(err, domain.ErrFingerprintFailed.Error()), step)
	}
	if state.opts.Force {
		return fingerprint, false, nil
	}

	record, err := state.s.store.Get(state.opts.Dir, step.ID)
	if err != nil {
		return fingerprint, false, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "step", step.ID)
	}
	if record == nil || record.Fingerprint != fingerprint {
		return fingerprint, false, nil
	}
	if _, err := os.Stat(state.resolve(step.Output)); err != nil {
		return fingerprint, false, nil
	}
	return fingerprint, true, nil
}

func (state *schedulerRunState) resolve(path string) string {
	if filepath.IsAbs(path) || state.opts.Dir == "" {
		return path
	}
	return filepath.Join(state.opts.Dir, path)
}

func (state *schedulerRunState) handleResult(res result) {
	state.active--

	if res.err != nil {
		state.failed = true
		state.errs = errors.Join(state.errs, res.err)
		state.s.updateStatus(res.step, domain.StepStatusFailed)
		return
	}

	if res.cached {
		state.s.updateStatus(res.step, domain.StepStatusCached)
	} else {
		state.s.updateStatus(res.step, domain.StepStatusCompleted)
		err := state.s.store.Put(state.opts.Dir, domain.StepRecord{
			StepID:      res.step,
			Fingerprint: res.fingerprint,
			Output:      res.output,
			Timestamp:   time.Now(),
		})
		if err != nil {
			// Recording is best effort.
			state.s.logger.Warn("failed to record step " + res.step + ": " + err.Error())
		}
	}

	for _, dep := range state.plan.Dependents(res.step) {
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
		}
	}
}
