package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stage/internal/adapters/postgres"
	"go.trai.ch/stage/internal/core/ports"
)

// NodeID is the unique identifier for the job store Graft node.
const NodeID graft.ID = "adapter.job_store"

func init() {
	graft.Register(graft.Node[ports.JobStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{postgres.NodeID},
		Run: func(ctx context.Context) (ports.JobStore, error) {
			pg, err := graft.Dep[*postgres.Store](ctx)
			if err != nil {
				return nil, err
			}
			if pg == nil {
				return NewStore(nil), nil
			}
			return NewStore(pg), nil
		},
	})
}
