package domain

import "time"

// StepRecord is what the step store remembers about the last successful run of a step.
type StepRecord struct {
	StepID      string    `json:"step_id,omitzero"`
	Fingerprint string    `json:"fingerprint,omitzero"`
	Output      string    `json:"output,omitzero"`
	Timestamp   time.Time `json:"timestamp,omitzero"`
}

// LaunchResult is the outcome of a process that was started. A non-zero ExitCode is
// not a launch error; the caller decides what it means.
type LaunchResult struct {
	ExitCode int
	Output   []byte
}
