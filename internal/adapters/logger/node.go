package logger

import (
	"context"
	"strings"

	"github.com/grindlemire/graft"
	"go.trai.ch/stage/internal/core/ports"
	"go.trai.ch/stage/internal/platform/env"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			log := New()
			// STAGE_LOG_FORMAT=json switches to machine-readable logs for CI collectors.
			if strings.EqualFold(env.String("STAGE_LOG_FORMAT", "pretty"), "json") {
				log.(*Logger).SetJSON(true)
			}
			return log, nil
		},
	})
}
