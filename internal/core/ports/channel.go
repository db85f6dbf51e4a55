package ports

import "context"

// ChannelIndex lists the versions a package channel publishes.
//
//go:generate mockgen -source=channel.go -destination=mocks/mock_channel.go -package=mocks
type ChannelIndex interface {
	// Versions returns every published version of the package in the channel.
	// A package the channel does not carry yields an empty list and no error.
	Versions(ctx context.Context, channel, name string) ([]string, error)
}
