package fixture

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stage/internal/core/ports"
)

const (
	// FetcherNodeID is the unique identifier for the fixture fetcher Graft node.
	FetcherNodeID graft.ID = "adapter.fixture_fetcher"

	// ExtractorNodeID is the unique identifier for the archive extractor Graft node.
	ExtractorNodeID graft.ID = "adapter.archive_extractor"
)

func init() {
	graft.Register(graft.Node[ports.FixtureFetcher]{
		ID:        FetcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (ports.FixtureFetcher, error) {
			cfg, err := S3ConfigFromEnv()
			if err != nil {
				return nil, err
			}
			return NewFetcher(cfg), nil
		},
	})

	graft.Register(graft.Node[ports.ArchiveExtractor]{
		ID:        ExtractorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (ports.ArchiveExtractor, error) {
			return NewExtractor(NewHasher(NewWalker())), nil
		},
	})
}
