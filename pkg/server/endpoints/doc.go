// Package endpoints implements the wrangler API handlers.
package endpoints
