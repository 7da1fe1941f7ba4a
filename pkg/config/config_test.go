package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// clearEnv blanks every setting override and points the config file at
// a path that does not exist.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"WRANGLERCTL_HOST", "WRANGLERCTL_PORT",
		"DATABASE_URL", "WRANGLER_API_SECRET",
		"WRANGLER_S3_ENDPOINT", "WRANGLER_S3_BUCKET",
		"WRANGLER_S3_ACCESS_KEY", "WRANGLER_S3_SECRET_KEY",
		"WRANGLER_MATRIX", "WRANGLER_CI", "WRANGLER_PACKAGE",
		"WRANGLER_ENGINE", "WRANGLER_PARALLELISM", "WRANGLER_UPLOAD_RATE",
	} {
		t.Setenv(v, "")
	}
	t.Setenv("WRANGLER_CONFIG", filepath.Join(t.TempDir(), "missing.yml"))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "sequential", cfg.Engine)
	assert.Equal(t, "matrix.yml", cfg.MatrixPath)
	assert.Equal(t, 1, cfg.Parallelism)
	assert.False(t, cfg.UploadsEnabled())

	for _, name := range attributeNames() {
		assert.Equal(t, "default", cfg.Source(name), name)
	}
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "wrangler.yml")
	doc := `
port: 9090
engine: vectorized
s3_endpoint: http://localhost:9000
s3_access_key: minio
s3_secret_key: minio123
upload_rate_limit: 2.5
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	t.Setenv("WRANGLER_CONFIG", path)
	t.Setenv("WRANGLERCTL_PORT", "7070")
	t.Setenv("WRANGLER_API_SECRET", "squeamish-ossifrage")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFilePath())

	// Environment beats file beats default.
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "environment", cfg.Source("port"))
	assert.Equal(t, "vectorized", cfg.Engine)
	assert.Equal(t, "file", cfg.Source("engine"))
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "default", cfg.Source("host"))

	assert.True(t, cfg.UploadsEnabled())
	up := cfg.UploadConfig()
	assert.Equal(t, "http://localhost:9000", up.Endpoint)
	assert.Equal(t, "minio", up.AccessKey)
	assert.Equal(t, "minio123", up.SecretKey)
	assert.Equal(t, "wrangler-artifacts", up.Bucket)
	assert.Equal(t, 2.5, up.RateLimit)
}

func TestLoad_BadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "wrangler.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: [nope"), 0o644))
	t.Setenv("WRANGLER_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port too low", func(c *Config) { c.Port = 0 }, "invalid port"},
		{"port too high", func(c *Config) { c.Port = 70000 }, "invalid port"},
		{"negative parallelism", func(c *Config) { c.Parallelism = -1 }, "invalid parallelism"},
		{"negative rate", func(c *Config) { c.UploadRateLimit = -2 }, "invalid upload_rate_limit"},
		{"bad database url", func(c *Config) { c.DatabaseURL = "not-a-dsn" }, "invalid database_url"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := newDefault()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	cfg := newDefault()
	cfg.DatabaseURL = "postgres://wrangler@localhost/wrangler"
	assert.NoError(t, cfg.Validate())
}

func TestAttributes_SecretsMasked(t *testing.T) {
	cfg := newDefault()
	cfg.APISecret = "hunter2"

	var apiSecret, s3Secret Attribute
	for _, attr := range cfg.Attributes() {
		switch attr.Name {
		case "api_secret":
			apiSecret = attr
		case "s3_secret_key":
			s3Secret = attr
		}
	}
	assert.Equal(t, "(set)", apiSecret.Value)
	assert.Equal(t, "", s3Secret.Value)

	assert.NotContains(t, cfg.FormatText(), "hunter2")
}

func TestFormatText(t *testing.T) {
	cfg := newDefault()
	out := cfg.FormatText()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "SOURCE")
	assert.Contains(t, out, "(not set)")
	assert.Contains(t, out, "sequential")
}

func TestFormatYAML(t *testing.T) {
	cfg := newDefault()
	cfg.configFilePath = "/etc/wrangler/wrangler.yml"

	out, err := cfg.FormatYAML()
	require.NoError(t, err)

	var doc struct {
		ConfigFile string      `yaml:"config_file"`
		Attributes []Attribute `yaml:"attributes"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "/etc/wrangler/wrangler.yml", doc.ConfigFile)
	assert.Len(t, doc.Attributes, len(attributeNames()))
}
