package domain

// StepStatus represents the lifecycle state of a step in a build.
type StepStatus string

const (
	// StepStatusPending indicates the step is waiting for its dependencies.
	StepStatusPending StepStatus = "pending"
	// StepStatusRunning indicates the step's process is running.
	StepStatusRunning StepStatus = "running"
	// StepStatusCompleted indicates the step's process exited successfully.
	StepStatusCompleted StepStatus = "completed"
	// StepStatusFailed indicates the step could not be launched or exited non-zero.
	StepStatusFailed StepStatus = "failed"
	// StepStatusCached indicates the step was skipped because its output is up to date.
	StepStatusCached StepStatus = "cached"
	// StepStatusSkipped indicates the step never ran because the build was aborted.
	StepStatusSkipped StepStatus = "skipped"
)

// IsTerminal checks if a status is a terminal state.
func (s StepStatus) IsTerminal() bool {
	switch s {
	case StepStatusCompleted, StepStatusFailed, StepStatusCached, StepStatusSkipped:
		return true
	default:
		return false
	}
}
