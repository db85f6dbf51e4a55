package conda

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stage/internal/adapters/shell"
	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/core/ports"
	"go.trai.ch/stage/internal/platform/env"
)

const (
	// IndexNodeID is the unique identifier for the channel index Graft node.
	IndexNodeID graft.ID = "adapter.channel_index"

	// ProvisionerNodeID is the unique identifier for the environment provisioner Graft node.
	ProvisionerNodeID graft.ID = "adapter.provisioner"

	// InstallerNodeID is the unique identifier for the package installer Graft node.
	InstallerNodeID graft.ID = "adapter.installer"
)

func init() {
	graft.Register(graft.Node[ports.ChannelIndex]{
		ID:        IndexNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (ports.ChannelIndex, error) {
			ttl, err := env.Duration("STAGE_CHANNEL_CACHE_TTL", DefaultCacheTTL)
			if err != nil {
				return nil, err
			}
			return NewIndex(
				env.String("STAGE_CHANNEL_API", DefaultAPIBase),
				env.String("STAGE_CHANNEL_CACHE", domain.DefaultChannelCachePath()),
				ttl,
			)
		},
	})

	graft.Register(graft.Node[ports.EnvironmentProvisioner]{
		ID:        ProvisionerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.EnvironmentProvisioner, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewProvisioner(executor, env.String("STAGE_CONDA", DefaultBinary)), nil
		},
	})

	graft.Register(graft.Node[ports.PackageInstaller]{
		ID:        InstallerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.PackageInstaller, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewInstaller(executor, env.String("STAGE_CONDA", DefaultBinary)), nil
		},
	})
}
