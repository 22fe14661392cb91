// Package domain contains the core build model: toolchain override, targets, command
// vectors and the step plan.
package domain

import (
	"iter"
	"slices"
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

// StepKind distinguishes compile steps from link steps.
type StepKind string

const (
	// StepCompile turns one source file into one object file.
	StepCompile StepKind = "compile"
	// StepLink turns a target's object files into one shared object.
	StepLink StepKind = "link"
)

// Step is one process invocation in the plan.
type Step struct {
	ID           string
	Kind         StepKind
	Target       string
	Source       string
	Command      CommandVector
	Inputs       []string
	Output       string
	Dependencies []string
}

// CompileStepID returns the ID of the step compiling source for target.
func CompileStepID(target, source string) string {
	return "compile:" + target + ":" + source
}

// LinkStepID returns the ID of the step linking target.
func LinkStepID(target string) string {
	return "link:" + target
}

// Plan is a dependency graph of build steps.
type Plan struct {
	steps          map[string]Step
	dependents     map[string][]string
	executionOrder []string
}

// NewPlan creates a new empty Plan.
func NewPlan() *Plan {
	return &Plan{
		steps:      make(map[string]Step),
		dependents: make(map[string][]string),
	}
}

// AddStep adds a step to the plan.
// It returns an error if a step with the same ID already exists.
func (p *Plan) AddStep(s *Step) error {
	if _, exists := p.steps[s.ID]; exists {
		return zerr.With(zerr.Wrap(ErrStepAlreadyExists, "cannot add step"), "step", s.ID)
	}
	step := *s
	step.Command = s.Command.Clone()
	step.Inputs = slices.Clone(s.Inputs)
	step.Dependencies = slices.Clone(s.Dependencies)
	p.steps[s.ID] = step
	for _, dep := range step.Dependencies {
		p.dependents[dep] = append(p.dependents[dep], s.ID)
	}
	return nil
}

// Validate checks for missing dependencies and cycles using a depth-first topological sort.
// It populates the execution order walked by Walk.
func (p *Plan) Validate() error {
	p.executionOrder = make([]string, 0, len(p.steps))
	visited := make(map[string]int) // 0: unvisited, 1: visiting, 2: visited
	var path []string

	var visit func(id string) error
	visit = func(id string) error {
		visited[id] = 1
		path = append(path, id)

		step, exists := p.steps[id]
		if !exists {
			return zerr.With(zerr.Wrap(ErrMissingDependency, "cannot order plan"), "dependency", id)
		}

		for _, dep := range step.Dependencies {
			if visited[dep] == 1 {
				return cycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[id] = 2
		path = path[:len(path)-1]
		p.executionOrder = append(p.executionOrder, id)
		return nil
	}

	ids := make([]string, 0, len(p.steps))
	for id := range p.steps {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if visited[id] == 0 {
			if err := visit(id); err != nil {
				return err
			}
		}
	}

	return nil
}

func cycleError(path []string, dep string) error {
	start := slices.Index(path, dep)
	cycle := append(slices.Clone(path[start:]), dep)
	return zerr.With(zerr.Wrap(ErrCycleDetected, "cannot order plan"), "cycle", strings.Join(cycle, " -> "))
}

// Walk returns an iterator that yields steps in execution order.
// It assumes Validate() has been called and returned nil.
func (p *Plan) Walk() iter.Seq[Step] {
	return func(yield func(Step) bool) {
		for _, id := range p.executionOrder {
			if !yield(p.steps[id]) {
				return
			}
		}
	}
}

// Step returns the step with the given ID.
func (p *Plan) Step(id string) (Step, bool) {
	s, ok := p.steps[id]
	return s, ok
}

// Dependents returns the IDs of steps that depend on id.
func (p *Plan) Dependents(id string) []string {
	return slices.Clone(p.dependents[id])
}

// StepCount returns the number of steps in the plan.
func (p *Plan) StepCount() int {
	return len(p.steps)
}
