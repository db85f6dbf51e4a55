package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stage/internal/adapters/cas"     //nolint:depguard // Wired in app layer
	"go.trai.ch/stage/internal/adapters/conda"   //nolint:depguard // Wired in app layer
	"go.trai.ch/stage/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/stage/internal/adapters/fixture" //nolint:depguard // Wired in app layer
	"go.trai.ch/stage/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/stage/internal/adapters/shell"   //nolint:depguard // Wired in app layer
	"go.trai.ch/stage/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			shell.NodeID,
			logger.NodeID,
			cas.NodeID,
			conda.IndexNodeID,
			fixture.FetcherNodeID,
			fixture.ExtractorNodeID,
			conda.ProvisionerNodeID,
			conda.InstallerNodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.JobStore](ctx)
			if err != nil {
				return nil, err
			}

			index, err := graft.Dep[ports.ChannelIndex](ctx)
			if err != nil {
				return nil, err
			}

			fetcher, err := graft.Dep[ports.FixtureFetcher](ctx)
			if err != nil {
				return nil, err
			}

			extractor, err := graft.Dep[ports.ArchiveExtractor](ctx)
			if err != nil {
				return nil, err
			}

			provisioner, err := graft.Dep[ports.EnvironmentProvisioner](ctx)
			if err != nil {
				return nil, err
			}

			installer, err := graft.Dep[ports.PackageInstaller](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, executor, log, store, index, fetcher, extractor, provisioner, installer), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}
