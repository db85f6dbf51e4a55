// Package conda implements the channel index, environment provisioner and
// package installer ports on top of conda channels and the conda CLI.
package conda

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultAPIBase is the channel index API queried unless STAGE_CHANNEL_API overrides it.
	DefaultAPIBase = "https://api.anaconda.org"

	// DefaultCacheTTL is how long a cached channel listing stays fresh.
	DefaultCacheTTL = 24 * time.Hour

	httpClientTimeout = 30 * time.Second
)

// packageResponse is the subset of the channel API package document stage reads.
type packageResponse struct {
	Versions []string `json:"versions"`
}

// cacheEntry is the on-disk form of one channel listing.
type cacheEntry struct {
	Channel   string    `json:"channel"`
	Name      string    `json:"name"`
	Versions  []string  `json:"versions"`
	Timestamp time.Time `json:"timestamp"`
}

// Index implements ports.ChannelIndex against the channel HTTP API with a local disk cache.
type Index struct {
	apiBase      string
	cacheDir     string
	ttl          time.Duration
	httpClient   *http.Client
	requestGroup singleflight.Group
	now          func() time.Time
}

// NewIndex creates an Index caching listings under cacheDir.
// A ttl of zero disables cache reads; listings are still written.
func NewIndex(apiBase, cacheDir string, ttl time.Duration) (*Index, error) {
	return newIndexWithClient(apiBase, cacheDir, ttl, &http.Client{Timeout: httpClientTimeout})
}

// newIndexWithClient creates an Index with a custom http client (used for testing).
func newIndexWithClient(apiBase, cacheDir string, ttl time.Duration, client *http.Client) (*Index, error) {
	cleanPath := filepath.Clean(cacheDir)
	if err := os.MkdirAll(cleanPath, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create channel cache"), "path", cleanPath)
	}
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &Index{
		apiBase:    strings.TrimRight(apiBase, "/"),
		cacheDir:   cleanPath,
		ttl:        ttl,
		httpClient: client,
		now:        time.Now,
	}, nil
}

// Versions returns the versions of name published in channel.
// Concurrent lookups of the same package share one request.
func (i *Index) Versions(ctx context.Context, channel, name string) ([]string, error) {
	key := channel + "/" + name
	v, err, _ := i.requestGroup.Do(key, func() (any, error) {
		return i.lookup(ctx, channel, name)
	})
	if err != nil {
		return nil, err
	}
	versions, _ := v.([]string)
	out := make([]string, len(versions))
	copy(out, versions)
	return out, nil
}

func (i *Index) lookup(ctx context.Context, channel, name string) ([]string, error) {
	cachePath := i.getCachePath(channel, name)
	if versions, err := i.loadFromCache(cachePath); err == nil {
		return versions, nil
	}

	versions, err := i.queryChannel(ctx, channel, name)
	if err != nil {
		return nil, err
	}

	// Cache write failures only cost a future request.
	_ = i.saveToCache(cachePath, channel, name, versions)

	return versions, nil
}

// getHash returns a deterministic file name for a channel/package pair.
func getHash(channel, name string) string {
	hash := sha256.Sum256([]byte(channel + "/" + name))
	return hex.EncodeToString(hash[:])
}

func (i *Index) getCachePath(channel, name string) string {
	return filepath.Join(i.cacheDir, getHash(channel, name)+".json")
}

var errCacheStale = errors.New("cache entry stale")

func (i *Index) loadFromCache(path string) ([]string, error) {
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, zerr.Wrap(err, "failed to read channel cache")
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal channel cache")
	}

	if i.ttl <= 0 || i.now().Sub(entry.Timestamp) > i.ttl {
		return nil, errCacheStale
	}
	return entry.Versions, nil
}

func (i *Index) saveToCache(path, channel, name string, versions []string) error {
	entry := cacheEntry{
		Channel:   channel,
		Name:      name,
		Versions:  versions,
		Timestamp: i.now(),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal channel cache")
	}

	return atomicWriteFile(path, data)
}

// atomicWriteFile writes data to a file atomically by writing to a temp file and renaming it.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "channel-cache-*.json")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// queryChannel asks the channel API for a package document.
func (i *Index) queryChannel(ctx context.Context, channel, name string) ([]string, error) {
	endpoint := i.apiBase + "/package/" + url.PathEscape(channel) + "/" + url.PathEscape(name)

	lookupErr := func(err error) error {
		wrapped := zerr.With(errors.Join(domain.ErrChannelLookupFailed, err), "channel", channel)
		return zerr.With(wrapped, "package", name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, lookupErr(err)
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, lookupErr(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return []string{}, nil
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := zerr.With(zerr.Wrap(domain.ErrChannelLookupFailed, "unexpected status"), "status_code", resp.StatusCode)
		apiErr = zerr.With(apiErr, "channel", channel)
		return nil, zerr.With(apiErr, "package", name)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, lookupErr(err)
	}

	var doc packageResponse
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, lookupErr(zerr.Wrap(err, "unexpected channel response"))
	}
	if doc.Versions == nil {
		doc.Versions = []string{}
	}
	return doc.Versions, nil
}
