package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cubuild/internal/core/ports"
)

// NodeID is the unique identifier for the step store Graft node.
const NodeID graft.ID = "adapter.step_store"

func init() {
	graft.Register(graft.Node[ports.StepStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.StepStore, error) {
			return NewStore(), nil
		},
	})
}
