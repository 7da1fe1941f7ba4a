// Package config provides configuration management for wranglerctl.
//
// This package handles loading and validating configuration from a
// YAML file and environment variables, tracking per setting where the
// effective value came from.
//
// # Configuration Sources
//
//   - Built-in defaults
//   - Config file (WRANGLER_CONFIG, default /etc/wrangler/wrangler.yml)
//   - Environment variables (highest precedence)
//
// # Key Configuration Options
//
//   - WRANGLERCTL_HOST / WRANGLERCTL_PORT: API server listen address
//   - DATABASE_URL: runs store connection
//   - WRANGLER_API_SECRET: bearer token secret
//   - WRANGLER_S3_ENDPOINT / _BUCKET / _ACCESS_KEY / _SECRET_KEY:
//     artifact storage
//   - WRANGLER_MATRIX / WRANGLER_CI / WRANGLER_PACKAGE: automation
//     config paths
package config
