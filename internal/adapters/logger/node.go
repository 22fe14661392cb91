package logger

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/cubuild/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

// FormatEnvVar selects the log format. "json" switches to structured output.
const FormatEnvVar = "CUBUILD_LOG_FORMAT"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			l := New()
			l.SetJSON(os.Getenv(FormatEnvVar) == "json")
			return l, nil
		},
	})
}
