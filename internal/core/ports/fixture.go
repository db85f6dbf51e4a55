package ports

import (
	"context"

	"go.trai.ch/stage/internal/core/domain"
)

//go:generate mockgen -source=fixture.go -destination=mocks/mock_fixture.go -package=mocks

// FixtureFetcher downloads fixture archives.
type FixtureFetcher interface {
	// Fetch downloads the archive to dst, verifying its checksum when one is declared.
	Fetch(ctx context.Context, fixture domain.FixtureArchive, dst string) error
}

// ArchiveExtractor unpacks fixture archives.
type ArchiveExtractor interface {
	// Extract unpacks the archive at src into dest, replacing any previous contents,
	// and returns the resulting file set.
	Extract(ctx context.Context, src string, format domain.ArchiveFormat, dest string) (domain.FixtureSet, error)
}
