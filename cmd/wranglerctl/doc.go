// Package main implements wranglerctl, the CLI for the wrangler toolkit.
//
// The toolkit has two halves:
//
//   - pkg/wrangler: interval identification over tabular frames, with
//     pluggable execution engines
//   - pkg/matrix, pkg/runner: version matrix expansion and test run
//     automation, with artifact upload and run persistence
//
// # Quick Start
//
//	# Identify intervals in a CSV file
//	wranglerctl wrangle --input data.csv --output out.csv --params plan.jsonc
//
//	# Lint and run the version matrix
//	wranglerctl matrix lint
//	wranglerctl matrix run
//
//	# Run database migrations and start the API server
//	wranglerctl db migrate
//	wranglerctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string for the runs store
//   - WRANGLER_API_SECRET: HMAC secret for API bearer tokens
//   - WRANGLER_S3_ENDPOINT / _BUCKET / _ACCESS_KEY / _SECRET_KEY: artifact storage
//   - WRANGLER_MATRIX / WRANGLER_CI / WRANGLER_PACKAGE: automation config paths
//   - WRANGLER_CONFIG: config file path (default /etc/wrangler/wrangler.yml)
package main
