package fixture

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.trai.ch/stage/internal/platform/env"
	"go.trai.ch/zerr"
)

// S3Config locates the object store s3:// fixtures are read from.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// S3ConfigFromEnv reads STAGE_S3_* variables.
func S3ConfigFromEnv() (S3Config, error) {
	useSSL, err := env.Bool("STAGE_S3_USE_SSL", true)
	if err != nil {
		return S3Config{}, err
	}
	return S3Config{
		Endpoint:  env.String("STAGE_S3_ENDPOINT", ""),
		AccessKey: env.String("STAGE_S3_ACCESS_KEY", ""),
		SecretKey: env.String("STAGE_S3_SECRET_KEY", ""),
		Region:    env.String("STAGE_S3_REGION", ""),
		UseSSL:    useSSL,
	}, nil
}

// Validate reports whether an S3 client can be built from the config.
func (c S3Config) Validate() error {
	if c.Endpoint == "" {
		return zerr.With(zerr.New("s3 endpoint is not configured"), "env", "STAGE_S3_ENDPOINT")
	}
	return nil
}

type minioOpener struct {
	client *minio.Client
}

func newMinioOpener(cfg S3Config) (*minioOpener, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := &minio.Options{
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(),
	}
	if cfg.AccessKey != "" {
		opts.Creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		opts.Creds = credentials.NewStatic("", "", "", credentials.SignatureAnonymous)
	}

	client, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create s3 client"), "endpoint", cfg.Endpoint)
	}
	return &minioOpener{client: client}, nil
}

// Open streams an object. Stat is forced so a missing key fails here rather than mid-copy.
func (o *minioOpener) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := o.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, zerr.With(zerr.With(err, "bucket", bucket), "key", key)
	}
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, zerr.With(zerr.With(err, "bucket", bucket), "key", key)
	}
	return obj, nil
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
