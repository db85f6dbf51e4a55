// Package resolve turns a dependency manifest into exact package pins for one interpreter.
package resolve

import (
	"context"
	"errors"

	version "github.com/hashicorp/go-version"
	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the channel lookups in flight for one resolution.
const DefaultConcurrency = 8

// Resolver resolves manifests against package channels.
type Resolver struct {
	index       ports.ChannelIndex
	concurrency int
}

// NewResolver creates a Resolver backed by the channel index.
func NewResolver(index ports.ChannelIndex) *Resolver {
	return &Resolver{index: index, concurrency: DefaultConcurrency}
}

// WithConcurrency sets the number of concurrent channel lookups.
func (r *Resolver) WithConcurrency(n int) *Resolver {
	if n > 0 {
		r.concurrency = n
	}
	return r
}

// listing holds the published versions of one package, per channel in priority order.
type listing [][]string

// Resolve returns the pins satisfying every applicable record of the manifest for the
// interpreter version. Each pin is the highest non-prerelease version at or above the
// record's minimum across all channels; on equal versions the earlier channel wins.
//
// A required record with no satisfying version fails the resolution with
// ErrUnsatisfiable; an optional one is reported in Resolution.Degraded.
func (r *Resolver) Resolve(
	ctx context.Context, manifest domain.Manifest, interpreter string, channels []string,
) (*domain.Resolution, error) {
	if len(channels) == 0 {
		return nil, domain.ErrNoChannels
	}

	records, err := manifest.For(interpreter)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(records)+1)
	names = append(names, manifest.InterpreterPackage())
	for _, rec := range records {
		names = append(names, rec.Name.String())
	}

	listings, err := r.fetch(ctx, names, channels)
	if err != nil {
		return nil, err
	}

	res := &domain.Resolution{Packages: make([]domain.Package, 0, len(records))}

	pin, ok := pickSeries(listings[0], channels, interpreter)
	if !ok {
		unavailable := zerr.With(zerr.Wrap(domain.ErrInterpreterUnavailable, names[0]), "interpreter", interpreter)
		return nil, zerr.With(unavailable, "channels", channels)
	}
	pin.Name = names[0]
	res.Interpreter = pin

	var unsatisfied []error
	for i, rec := range records {
		pin, ok := pickMinimum(listings[i+1], channels, rec)
		if ok {
			pin.Name = rec.Name.String()
			res.Packages = append(res.Packages, pin)
			continue
		}

		best := highest(listings[i+1])
		if rec.Optional {
			res.Degraded = append(res.Degraded, domain.DegradedDependency{
				Name:       rec.Name.String(),
				MinVersion: rec.MinVersion,
				Purpose:    rec.Purpose,
				Best:       best,
			})
			continue
		}

		failure := zerr.With(zerr.Wrap(domain.ErrUnsatisfiable, rec.Name.String()), "min_version", rec.MinVersion)
		if best == "" {
			best = "none"
		}
		unsatisfied = append(unsatisfied, zerr.With(failure, "best", best))
	}

	if len(unsatisfied) > 0 {
		return nil, zerr.With(errors.Join(unsatisfied...), "interpreter", interpreter)
	}
	return res, nil
}

// fetch queries every (package, channel) pair with bounded concurrency.
// Any lookup error fails the whole fetch.
func (r *Resolver) fetch(ctx context.Context, names, channels []string) ([]listing, error) {
	listings := make([]listing, len(names))
	for i := range listings {
		listings[i] = make(listing, len(channels))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, name := range names {
		for j, channel := range channels {
			g.Go(func() error {
				versions, err := r.index.Versions(gctx, channel, name)
				if err != nil {
					lookupErr := zerr.With(errors.Join(domain.ErrChannelLookupFailed, err), "channel", channel)
					return zerr.With(lookupErr, "package", name)
				}
				listings[i][j] = versions
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return listings, nil
}

// candidate is a parsed published version and the channel it came from.
type candidate struct {
	raw     string
	version *version.Version
	channel string
}

// candidates yields the parseable release versions of a listing in channel priority order.
func candidates(l listing, channels []string) []candidate {
	var out []candidate
	for j, versions := range l {
		for _, raw := range versions {
			v, err := version.NewVersion(raw)
			if err != nil || v.Prerelease() != "" {
				continue
			}
			out = append(out, candidate{raw: raw, version: v, channel: channels[j]})
		}
	}
	return out
}

// best returns the highest candidate accepted by keep. Ties keep the earlier candidate.
func best(cs []candidate, keep func(candidate) bool) (domain.Package, bool) {
	var chosen *candidate
	for i := range cs {
		c := &cs[i]
		if !keep(*c) {
			continue
		}
		if chosen == nil || c.version.GreaterThan(chosen.version) {
			chosen = c
		}
	}
	if chosen == nil {
		return domain.Package{}, false
	}
	return domain.Package{Version: chosen.raw, Channel: chosen.channel}, true
}

func pickSeries(l listing, channels []string, series string) (domain.Package, bool) {
	return best(candidates(l, channels), func(c candidate) bool {
		return domain.MatchesSeries(c.raw, series)
	})
}

func pickMinimum(l listing, channels []string, rec domain.DependencyRecord) (domain.Package, bool) {
	return best(candidates(l, channels), func(c candidate) bool {
		return rec.Accepts(c.raw)
	})
}

// highest returns the highest release version in the listing, or "" when there is none.
func highest(l listing) string {
	channels := make([]string, len(l))
	pin, ok := best(candidates(l, channels), func(candidate) bool { return true })
	if !ok {
		return ""
	}
	return pin.Version
}
