package postgres

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stage/internal/adapters/logger"
	"go.trai.ch/stage/internal/core/ports"
)

// NodeID is the unique identifier for the Postgres job store Graft node.
const NodeID graft.ID = "adapter.postgres"

func init() {
	graft.Register(graft.Node[*Store]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Store, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return OpenFromEnv(ctx, log), nil
		},
	})
}
