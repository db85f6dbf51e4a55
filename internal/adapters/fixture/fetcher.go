// Package fixture downloads and unpacks fixture archives.
package fixture

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/core/ports"
	"go.trai.ch/zerr"
)

const httpClientTimeout = 30 * time.Minute

var _ ports.FixtureFetcher = (*Fetcher)(nil)

// ObjectOpener streams objects out of a bucket store.
type ObjectOpener interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Fetcher implements ports.FixtureFetcher for http(s)://, file:// and s3:// URLs.
type Fetcher struct {
	httpClient *http.Client

	s3Config S3Config
	s3Once   sync.Once
	s3       ObjectOpener
	s3Err    error
}

// NewFetcher creates a Fetcher. The S3 client is only built when an s3:// fixture is fetched.
func NewFetcher(s3 S3Config) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: httpClientTimeout},
		s3Config:   s3,
	}
}

// Fetch downloads the archive to dst. The file only appears at dst once it is
// complete and, when the fixture declares one, its SHA-256 matches.
func (f *Fetcher) Fetch(ctx context.Context, fixture domain.FixtureArchive, dst string) error {
	src, err := f.open(ctx, fixture)
	if err != nil {
		return zerr.With(err, "fixture", fixture.Name)
	}
	defer func() {
		_ = src.Close()
	}()

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return f.downloadErr(fixture, err)
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return f.downloadErr(fixture, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	digest := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, digest), src); err != nil {
		_ = tmp.Close()
		return f.downloadErr(fixture, err)
	}
	if err := tmp.Close(); err != nil {
		return f.downloadErr(fixture, err)
	}

	if want := strings.ToLower(fixture.SHA256); want != "" {
		got := hex.EncodeToString(digest.Sum(nil))
		if got != want {
			mismatch := zerr.With(zerr.Wrap(domain.ErrChecksumMismatch, fixture.Name), "expected", want)
			return zerr.With(mismatch, "actual", got)
		}
	}

	if err := os.Rename(tmpName, dst); err != nil {
		return f.downloadErr(fixture, err)
	}
	return nil
}

func (f *Fetcher) downloadErr(fixture domain.FixtureArchive, err error) error {
	wrapped := zerr.With(errors.Join(domain.ErrFixtureDownloadFailed, err), "fixture", fixture.Name)
	return zerr.With(wrapped, "url", fixture.URL)
}

// open returns a stream of the archive bytes for the fixture's scheme.
func (f *Fetcher) open(ctx context.Context, fixture domain.FixtureArchive) (io.ReadCloser, error) {
	u, err := url.Parse(fixture.URL)
	if err != nil {
		return nil, f.downloadErr(fixture, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return f.openHTTP(ctx, fixture)
	case "file":
		file, err := os.Open(filepath.FromSlash(u.Path))
		if err != nil {
			return nil, f.downloadErr(fixture, err)
		}
		return file, nil
	case "s3":
		opener, err := f.objectOpener()
		if err != nil {
			return nil, f.downloadErr(fixture, err)
		}
		rc, err := opener.Open(ctx, u.Host, strings.TrimPrefix(u.Path, "/"))
		if err != nil {
			return nil, f.downloadErr(fixture, err)
		}
		return rc, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedScheme, "fixture url"), "url", fixture.URL)
	}
}

func (f *Fetcher) openHTTP(ctx context.Context, fixture domain.FixtureArchive) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fixture.URL, http.NoBody)
	if err != nil {
		return nil, f.downloadErr(fixture, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, f.downloadErr(fixture, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		statusErr := zerr.With(zerr.Wrap(domain.ErrFixtureDownloadFailed, "unexpected status"), "status_code", resp.StatusCode)
		return nil, zerr.With(statusErr, "url", fixture.URL)
	}
	return resp.Body, nil
}

func (f *Fetcher) objectOpener() (ObjectOpener, error) {
	f.s3Once.Do(func() {
		if f.s3 != nil {
			return
		}
		f.s3, f.s3Err = newMinioOpener(f.s3Config)
	})
	return f.s3, f.s3Err
}
