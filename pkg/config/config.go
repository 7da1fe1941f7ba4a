package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"wrangler-in-go/pkg/upload"
)

const (
	DefaultConfigPath = "/etc/wrangler"
	ConfigFileName    = "wrangler.yml"
)

// Config holds every wranglerctl setting. Values come from defaults,
// then the config file, then environment variables.
type Config struct {
	// Host and Port are the API server listen address.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// DatabaseURL is the Postgres DSN for the runs store; empty
	// disables persistence.
	DatabaseURL string `yaml:"database_url"`

	// APISecret signs and verifies API bearer tokens.
	APISecret string `yaml:"api_secret"`

	// Artifact storage endpoint; empty disables uploads.
	S3Endpoint  string `yaml:"s3_endpoint"`
	S3Bucket    string `yaml:"s3_bucket"`
	S3AccessKey string `yaml:"s3_access_key"`
	S3SecretKey string `yaml:"s3_secret_key"`

	// Matrix, CI and Package are the automation config paths.
	MatrixPath  string `yaml:"matrix"`
	CIPath      string `yaml:"ci"`
	PackagePath string `yaml:"package"`

	// Engine is the default execution engine name.
	Engine string `yaml:"engine"`

	// Parallelism bounds runner cells in flight.
	Parallelism int `yaml:"parallelism"`

	// UploadRateLimit is uploads per second; zero means unlimited.
	UploadRateLimit float64 `yaml:"upload_rate_limit"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute is one setting with its effective value and source.
type Attribute struct {
	Name   string `yaml:"name"`
	Value  string `yaml:"value"`
	Source string `yaml:"source"`
}

var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it on first use.
// Load errors fall back to defaults.
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload replaces the global configuration from file and environment.
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

func newDefault() *Config {
	return &Config{
		Host:        "0.0.0.0",
		Port:        8080,
		S3Bucket:    "wrangler-artifacts",
		MatrixPath:  "matrix.yml",
		CIPath:      "ci.yml",
		PackagePath: "package.yml",
		Engine:      "sequential",
		Parallelism: 1,
		sources:     make(map[string]string),
	}
}

// Load builds the configuration from defaults, the config file and
// environment variables, in that order of precedence.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	config.configFilePath = os.Getenv("WRANGLER_CONFIG")
	if config.configFilePath == "" {
		config.configFilePath = filepath.Join(DefaultConfigPath, ConfigFileName)
	}

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"host", "port", "database_url", "api_secret",
		"s3_endpoint", "s3_bucket", "s3_access_key", "s3_secret_key",
		"matrix", "ci", "package", "engine", "parallelism",
		"upload_rate_limit",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if file.Host != "" {
		c.Host = file.Host
		c.sources["host"] = "file"
	}
	if file.Port != 0 {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
	if file.DatabaseURL != "" {
		c.DatabaseURL = file.DatabaseURL
		c.sources["database_url"] = "file"
	}
	if file.APISecret != "" {
		c.APISecret = file.APISecret
		c.sources["api_secret"] = "file"
	}
	if file.S3Endpoint != "" {
		c.S3Endpoint = file.S3Endpoint
		c.sources["s3_endpoint"] = "file"
	}
	if file.S3Bucket != "" {
		c.S3Bucket = file.S3Bucket
		c.sources["s3_bucket"] = "file"
	}
	if file.S3AccessKey != "" {
		c.S3AccessKey = file.S3AccessKey
		c.sources["s3_access_key"] = "file"
	}
	if file.S3SecretKey != "" {
		c.S3SecretKey = file.S3SecretKey
		c.sources["s3_secret_key"] = "file"
	}
	if file.MatrixPath != "" {
		c.MatrixPath = file.MatrixPath
		c.sources["matrix"] = "file"
	}
	if file.CIPath != "" {
		c.CIPath = file.CIPath
		c.sources["ci"] = "file"
	}
	if file.PackagePath != "" {
		c.PackagePath = file.PackagePath
		c.sources["package"] = "file"
	}
	if file.Engine != "" {
		c.Engine = file.Engine
		c.sources["engine"] = "file"
	}
	if file.Parallelism != 0 {
		c.Parallelism = file.Parallelism
		c.sources["parallelism"] = "file"
	}
	if file.UploadRateLimit != 0 {
		c.UploadRateLimit = file.UploadRateLimit
		c.sources["upload_rate_limit"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("WRANGLERCTL_HOST"); val != "" {
		c.Host = val
		c.sources["host"] = "environment"
	}
	if val := os.Getenv("WRANGLERCTL_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.DatabaseURL = val
		c.sources["database_url"] = "environment"
	}
	if val := os.Getenv("WRANGLER_API_SECRET"); val != "" {
		c.APISecret = val
		c.sources["api_secret"] = "environment"
	}
	if val := os.Getenv("WRANGLER_S3_ENDPOINT"); val != "" {
		c.S3Endpoint = val
		c.sources["s3_endpoint"] = "environment"
	}
	if val := os.Getenv("WRANGLER_S3_BUCKET"); val != "" {
		c.S3Bucket = val
		c.sources["s3_bucket"] = "environment"
	}
	if val := os.Getenv("WRANGLER_S3_ACCESS_KEY"); val != "" {
		c.S3AccessKey = val
		c.sources["s3_access_key"] = "environment"
	}
	if val := os.Getenv("WRANGLER_S3_SECRET_KEY"); val != "" {
		c.S3SecretKey = val
		c.sources["s3_secret_key"] = "environment"
	}
	if val := os.Getenv("WRANGLER_MATRIX"); val != "" {
		c.MatrixPath = val
		c.sources["matrix"] = "environment"
	}
	if val := os.Getenv("WRANGLER_CI"); val != "" {
		c.CIPath = val
		c.sources["ci"] = "environment"
	}
	if val := os.Getenv("WRANGLER_PACKAGE"); val != "" {
		c.PackagePath = val
		c.sources["package"] = "environment"
	}
	if val := os.Getenv("WRANGLER_ENGINE"); val != "" {
		c.Engine = val
		c.sources["engine"] = "environment"
	}
	if val := os.Getenv("WRANGLER_PARALLELISM"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Parallelism = i
			c.sources["parallelism"] = "environment"
		}
	}
	if val := os.Getenv("WRANGLER_UPLOAD_RATE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.UploadRateLimit = f
			c.sources["upload_rate_limit"] = "environment"
		}
	}
}

// ConfigFilePath returns the path to the config file.
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute.
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// UploadConfig builds the artifact store configuration.
func (c *Config) UploadConfig() upload.Config {
	return upload.Config{
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Bucket:    c.S3Bucket,
		RateLimit: c.UploadRateLimit,
	}
}

// UploadsEnabled reports whether artifact storage is configured.
func (c *Config) UploadsEnabled() bool {
	return c.S3Endpoint != ""
}

// Validate checks value ranges. Unknown engine names are caught
// against the registry at use, not here.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("invalid parallelism: %d", c.Parallelism)
	}
	if c.UploadRateLimit < 0 {
		return fmt.Errorf("invalid upload_rate_limit: %g", c.UploadRateLimit)
	}
	if c.DatabaseURL != "" && !strings.Contains(c.DatabaseURL, "://") {
		return fmt.Errorf("invalid database_url: %s", c.DatabaseURL)
	}
	return nil
}

// Attributes returns all settings with their values and sources.
// Secret values are reported as set or not set, never printed.
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "host", Value: c.Host, Source: c.Source("host")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
		{Name: "database_url", Value: c.DatabaseURL, Source: c.Source("database_url")},
		{Name: "api_secret", Value: secretValue(c.APISecret), Source: c.Source("api_secret")},
		{Name: "s3_endpoint", Value: c.S3Endpoint, Source: c.Source("s3_endpoint")},
		{Name: "s3_bucket", Value: c.S3Bucket, Source: c.Source("s3_bucket")},
		{Name: "s3_access_key", Value: c.S3AccessKey, Source: c.Source("s3_access_key")},
		{Name: "s3_secret_key", Value: secretValue(c.S3SecretKey), Source: c.Source("s3_secret_key")},
		{Name: "matrix", Value: c.MatrixPath, Source: c.Source("matrix")},
		{Name: "ci", Value: c.CIPath, Source: c.Source("ci")},
		{Name: "package", Value: c.PackagePath, Source: c.Source("package")},
		{Name: "engine", Value: c.Engine, Source: c.Source("engine")},
		{Name: "parallelism", Value: strconv.Itoa(c.Parallelism), Source: c.Source("parallelism")},
		{Name: "upload_rate_limit", Value: strconv.FormatFloat(c.UploadRateLimit, 'g', -1, 64), Source: c.Source("upload_rate_limit")},
	}
}

func secretValue(v string) string {
	if v == "" {
		return ""
	}
	return "(set)"
}

// FormatText returns a text representation of the configuration.
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatYAML returns a YAML representation of the configuration.
func (c *Config) FormatYAML() (string, error) {
	result := struct {
		ConfigFile string      `yaml:"config_file"`
		Attributes []Attribute `yaml:"attributes"`
	}{
		ConfigFile: c.configFilePath,
		Attributes: c.Attributes(),
	}
	data, err := yaml.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
