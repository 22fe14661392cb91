package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cubuild/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestPlan_AddStep(t *testing.T) {
	p := domain.NewPlan()
	step := domain.Step{ID: "compile:a:a.cu", Kind: domain.StepCompile}

	require.NoError(t, p.AddStep(&step))

	err := p.AddStep(&step)
	require.ErrorIs(t, err, domain.ErrStepAlreadyExists)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "compile:a:a.cu", zErr.Metadata()["step"])
}

func TestPlan_Validate_Cycle(t *testing.T) {
	p := domain.NewPlan()
	require.NoError(t, p.AddStep(&domain.Step{ID: "A", Dependencies: []string{"B"}}))
	require.NoError(t, p.AddStep(&domain.Step{ID: "B", Dependencies: []string{"A"}}))

	err := p.Validate()
	require.ErrorIs(t, err, domain.ErrCycleDetected)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "A -> B -> A", zErr.Metadata()["cycle"])
}

func TestPlan_Validate_MissingDependency(t *testing.T) {
	p := domain.NewPlan()
	require.NoError(t, p.AddStep(&domain.Step{ID: "link:a", Dependencies: []string{"compile:a:x.cu"}}))

	err := p.Validate()

	require.ErrorIs(t, err, domain.ErrMissingDependency)
}

func TestPlan_Walk(t *testing.T) {
	p := domain.NewPlan()
	// link depends on both compiles; compiles are independent.
	require.NoError(t, p.AddStep(&domain.Step{ID: "link:t", Dependencies: []string{"compile:t:b.cu", "compile:t:a.cu"}}))
	require.NoError(t, p.AddStep(&domain.Step{ID: "compile:t:b.cu"}))
	require.NoError(t, p.AddStep(&domain.Step{ID: "compile:t:a.cu"}))
	require.NoError(t, p.Validate())

	var order []string
	for s := range p.Walk() {
		order = append(order, s.ID)
	}

	assert.Equal(t, []string{"compile:t:a.cu", "compile:t:b.cu", "link:t"}, order)
	assert.Equal(t, 3, p.StepCount())
	assert.Equal(t, []string{"link:t"}, p.Dependents("compile:t:a.cu"))
	assert.Empty(t, p.Dependents("link:t"))

	s, ok := p.Step("link:t")
	require.True(t, ok)
	assert.Len(t, s.Dependencies, 2)
}

func TestPlan_AddStep_CopiesCommand(t *testing.T) {
	p := domain.NewPlan()
	cmd := domain.CommandVector{"nvcc", "-c", "a.cu"}
	require.NoError(t, p.AddStep(&domain.Step{ID: "compile:t:a.cu", Command: cmd}))

	cmd[0] = "cc"

	s, ok := p.Step("compile:t:a.cu")
	require.True(t, ok)
	assert.Equal(t, "nvcc", s.Command.Executable())
}

func TestStepIDs(t *testing.T) {
	assert.Equal(t, "compile:cudamat.libcudamat:cudamat.cu", domain.CompileStepID("cudamat.libcudamat", "cudamat.cu"))
	assert.Equal(t, "link:cudamat.libcudamat", domain.LinkStepID("cudamat.libcudamat"))
}

func TestStepStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status     domain.StepStatus
		isTerminal bool
	}{
		{domain.StepStatusPending, false},
		{domain.StepStatusRunning, false},
		{domain.StepStatusCompleted, true},
		{domain.StepStatusFailed, true},
		{domain.StepStatusCached, true},
		{domain.StepStatusSkipped, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isTerminal, tt.status.IsTerminal())
		})
	}
}
