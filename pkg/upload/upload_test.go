package upload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"no endpoint", Config{AccessKey: "k", SecretKey: "s", Bucket: "b"}, "endpoint is required"},
		{"no credentials", Config{Endpoint: "localhost:9000", Bucket: "b"}, "credentials are required"},
		{"no bucket", Config{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s"}, "bucket is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	s, err := New(Config{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s", Bucket: "artifacts"})
	require.NoError(t, err)
	assert.Equal(t, "artifacts", s.Bucket())
}

func TestSplitEndpoint(t *testing.T) {
	cases := []struct {
		raw    string
		host   string
		secure bool
	}{
		{"localhost:9000", "localhost:9000", false},
		{"http://localhost:9000", "localhost:9000", false},
		{"https://minio.example.com", "minio.example.com", true},
		{"https://minio.example.com:9443", "minio.example.com:9443", true},
	}
	for _, tc := range cases {
		host, secure := splitEndpoint(tc.raw)
		assert.Equal(t, tc.host, host, tc.raw)
		assert.Equal(t, tc.secure, secure, tc.raw)
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/xml", contentType("runs/coverage.xml"))
	assert.Equal(t, "application/json", contentType("report.json"))
	assert.Equal(t, "text/plain", contentType("cell.log"))
	assert.Equal(t, "application/octet-stream", contentType("frame.parquet"))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"no such key", minio.ErrorResponse{Code: "NoSuchKey", Message: "key missing"}, ErrNotFound},
		{"no such bucket", minio.ErrorResponse{Code: "NoSuchBucket", Message: "bucket missing"}, ErrNotFound},
		{"denied", minio.ErrorResponse{Code: "AccessDenied", Message: "nope"}, ErrAccessDenied},
		{"bad signature", minio.ErrorResponse{Code: "SignatureDoesNotMatch", Message: "nope"}, ErrAccessDenied},
		{"bucket owned", minio.ErrorResponse{Code: "BucketAlreadyOwnedByYou", Message: "taken"}, ErrConflict},
		{"slow down", minio.ErrorResponse{Code: "SlowDown", Message: "later"}, ErrTransient},
		{"refused", errors.New("dial tcp 127.0.0.1:9000: connect: connection refused"), ErrTransient},
		{"no host", errors.New("lookup minio.internal: no such host"), ErrTransient},
		{"deadline", context.DeadlineExceeded, ErrTransient},
		{"missing by text", errors.New("the specified key does not exist"), ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tc.err), tc.want)
		})
	}

	assert.NoError(t, classify(nil))

	// Unrecognized errors pass through unwrapped.
	plain := errors.New("boom")
	got := classify(plain)
	assert.Equal(t, plain, got)
	assert.NotErrorIs(t, got, ErrTransient)
}

func TestUpload_Unreachable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coverage.xml")
	require.NoError(t, os.WriteFile(path, []byte("<coverage/>"), 0o644))

	// Port 1 refuses immediately; the deadline bounds SDK retries.
	s, err := New(Config{Endpoint: "127.0.0.1:1", AccessKey: "k", SecretKey: "s", Bucket: "artifacts"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err = s.Upload(ctx, "runs/run-1/py36-pandas0232/coverage.xml", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransient)
}
