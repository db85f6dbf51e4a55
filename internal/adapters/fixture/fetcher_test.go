package fixture_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stage/internal/adapters/fixture"
	"go.trai.ch/stage/internal/core/domain"
)

func digestOf(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestFetcher_HTTP(t *testing.T) {
	const body = "archive-bytes"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures/answers.tar.gz" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()

	t.Run("Success", func(t *testing.T) {
		dst := filepath.Join(t.TempDir(), "downloads", "answers.tar.gz")
		err := fixture.NewFetcher(fixture.S3Config{}).Fetch(context.Background(), domain.FixtureArchive{
			Name:   "answers",
			URL:    srv.URL + "/fixtures/answers.tar.gz",
			SHA256: strings.ToUpper(digestOf(body)),
		}, dst)
		require.NoError(t, err)

		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, body, string(data))
	})

	t.Run("ChecksumMismatch", func(t *testing.T) {
		dir := t.TempDir()
		dst := filepath.Join(dir, "answers.tar.gz")
		err := fixture.NewFetcher(fixture.S3Config{}).Fetch(context.Background(), domain.FixtureArchive{
			Name:   "answers",
			URL:    srv.URL + "/fixtures/answers.tar.gz",
			SHA256: digestOf("something else"),
		}, dst)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrChecksumMismatch)
		assert.NoFileExists(t, dst)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "temporary download must be removed")
	})

	t.Run("NotFound", func(t *testing.T) {
		dst := filepath.Join(t.TempDir(), "missing.tar.gz")
		err := fixture.NewFetcher(fixture.S3Config{}).Fetch(context.Background(), domain.FixtureArchive{
			Name: "missing",
			URL:  srv.URL + "/fixtures/missing.tar.gz",
		}, dst)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrFixtureDownloadFailed)
		assert.NoFileExists(t, dst)
	})
}

func TestFetcher_File(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "local.zip")
	require.NoError(t, os.WriteFile(src, []byte("zip"), domain.FilePerm))

	dst := filepath.Join(dir, "out", "local.zip")
	err := fixture.NewFetcher(fixture.S3Config{}).Fetch(context.Background(), domain.FixtureArchive{
		Name: "local",
		URL:  "file://" + filepath.ToSlash(src),
	}, dst)
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "zip", string(data))
}

func TestFetcher_FileMissing(t *testing.T) {
	dir := t.TempDir()
	err := fixture.NewFetcher(fixture.S3Config{}).Fetch(context.Background(), domain.FixtureArchive{
		Name: "local",
		URL:  "file://" + filepath.ToSlash(filepath.Join(dir, "nope.zip")),
	}, filepath.Join(dir, "nope.zip.out"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFixtureDownloadFailed)
}

type fakeOpener struct {
	objects map[string]string
}

func (f fakeOpener) Open(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	body, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestFetcher_S3(t *testing.T) {
	fetcher := fixture.NewFetcher(fixture.S3Config{})
	fetcher.SetObjectOpener(fakeOpener{objects: map[string]string{
		"yt-answers/pyxsim/answers.tar.bz2": "bz",
	}})

	dst := filepath.Join(t.TempDir(), "answers.tar.bz2")
	err := fetcher.Fetch(context.Background(), domain.FixtureArchive{
		Name:   "answers",
		URL:    "s3://yt-answers/pyxsim/answers.tar.bz2",
		SHA256: digestOf("bz"),
	}, dst)
	require.NoError(t, err)

	err = fetcher.Fetch(context.Background(), domain.FixtureArchive{
		Name: "missing",
		URL:  "s3://yt-answers/pyxsim/missing.tar.bz2",
	}, filepath.Join(t.TempDir(), "missing.tar.bz2"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFixtureDownloadFailed)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFetcher_S3NotConfigured(t *testing.T) {
	err := fixture.NewFetcher(fixture.S3Config{}).Fetch(context.Background(), domain.FixtureArchive{
		Name: "answers",
		URL:  "s3://bucket/answers.tar",
	}, filepath.Join(t.TempDir(), "answers.tar"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "s3 endpoint is not configured")
}

func TestFetcher_UnsupportedScheme(t *testing.T) {
	err := fixture.NewFetcher(fixture.S3Config{}).Fetch(context.Background(), domain.FixtureArchive{
		Name: "answers",
		URL:  "ftp://example.org/answers.tar",
	}, filepath.Join(t.TempDir(), "answers.tar"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedScheme)
}

func TestS3ConfigFromEnv(t *testing.T) {
	t.Setenv("STAGE_S3_ENDPOINT", "minio.local:9000")
	t.Setenv("STAGE_S3_ACCESS_KEY", "ak")
	t.Setenv("STAGE_S3_SECRET_KEY", "sk")
	t.Setenv("STAGE_S3_USE_SSL", "false")

	cfg, err := fixture.S3ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, fixture.S3Config{
		Endpoint:  "minio.local:9000",
		AccessKey: "ak",
		SecretKey: "sk",
		UseSSL:    false,
	}, cfg)
	require.NoError(t, cfg.Validate())

	t.Setenv("STAGE_S3_USE_SSL", "maybe")
	_, err = fixture.S3ConfigFromEnv()
	assert.ErrorContains(t, err, "invalid boolean")
}
