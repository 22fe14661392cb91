package envfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cubuild/internal/core/ports"
)

// NodeID is the unique identifier for the environment loader Graft node.
const NodeID graft.ID = "adapter.envfile"

func init() {
	graft.Register(graft.Node[ports.EnvironmentLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.EnvironmentLoader, error) {
			return NewLoader(), nil
		},
	})
}
