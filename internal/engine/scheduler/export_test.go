package scheduler

import (
	"maps"

	"go.trai.ch/cubuild/internal/core/domain"
)

// StepStatusMap returns a copy of the internal step status map.
// This is exported for testing purposes only.
func (s *Scheduler) StepStatusMap() map[string]domain.StepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.stepStatus)
}
