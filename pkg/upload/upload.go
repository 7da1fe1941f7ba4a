// Package upload stores run artifacts in S3-compatible object storage.
// Coverage reports land under runs/{run-id}/{env}/{artifact}; every
// call goes through a client-side rate limiter so artifact bursts from
// parallel cells don't hammer the endpoint.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/time/rate"
)

// Config connects a Store to one bucket on one endpoint.
type Config struct {
	// Endpoint is host:port, or a URL whose https scheme turns TLS on.
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string

	// RateLimit is uploads per second; zero means unlimited.
	RateLimit float64
	RateBurst int
}

// Artifact describes one stored object.
type Artifact struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Store is a rate-limited client for one artifact bucket.
type Store struct {
	client  *minio.Client
	bucket  string
	region  string
	limiter *rate.Limiter
}

// New builds a Store. The endpoint is not contacted until the first
// call.
func New(cfg Config) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("object storage: endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("object storage: credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("object storage: bucket is required")
	}

	endpoint, secure := splitEndpoint(cfg.Endpoint)
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage client: %w", err)
	}

	limit, burst := rate.Limit(cfg.RateLimit), cfg.RateBurst
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	} else if burst < 1 {
		burst = 1
	}

	return &Store{
		client:  client,
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		limiter: rate.NewLimiter(limit, burst),
	}, nil
}

// Bucket returns the configured bucket name.
func (s *Store) Bucket() string { return s.bucket }

// EnsureBucket creates the bucket when it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return classify(err)
	}
	if exists {
		return nil
	}
	opts := minio.MakeBucketOptions{Region: s.region}
	if err := s.client.MakeBucket(ctx, s.bucket, opts); err != nil {
		return classify(err)
	}
	return nil
}

// Upload stores the file at path under key and returns the stored
// size.
func (s *Store) Upload(ctx context.Context, key, path string) (int64, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	opts := minio.PutObjectOptions{ContentType: contentType(path)}
	info, err := s.client.FPutObject(ctx, s.bucket, key, path, opts)
	if err != nil {
		return 0, classify(err)
	}
	return info.Size, nil
}

// Fetch reads one object into memory.
func (s *Store) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, classify(err)
	}
	defer obj.Close()

	// GetObject defers the request, so read errors carry the real
	// failure.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, classify(err)
	}
	return data, nil
}

// Stat describes one object without fetching it.
func (s *Store) Stat(ctx context.Context, key string) (Artifact, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return Artifact{}, classify(err)
	}
	return Artifact{Key: info.Key, Size: info.Size, LastModified: info.LastModified}, nil
}

// List returns every object under prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]Artifact, error) {
	var out []Artifact
	opts := minio.ListObjectsOptions{Prefix: prefix, Recursive: true}
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, classify(obj.Err)
		}
		out = append(out, Artifact{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}
	return out, nil
}

// Remove deletes one object.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return classify(err)
	}
	return nil
}

// splitEndpoint accepts host:port or URL forms.
func splitEndpoint(raw string) (endpoint string, secure bool) {
	if !strings.Contains(raw, "://") {
		return raw, false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw, false
	}
	return u.Host, u.Scheme == "https"
}

func contentType(path string) string {
	switch filepath.Ext(path) {
	case ".xml":
		return "text/xml"
	case ".json":
		return "application/json"
	case ".txt", ".log":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
