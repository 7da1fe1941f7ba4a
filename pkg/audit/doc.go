// Package audit provides audit logging for wrangler operations.
//
// This package implements structured audit logging in RFC 5424 syslog
// format for matrix automation and API operations.
//
// # Event Types
//
// The package defines event types for various operations:
//
//   - Run start/finish events
//   - Cell state events
//   - Java provisioning events
//   - Artifact upload events
//   - Wrangle request events
//   - API request events
//
// # Usage
//
//	audit.Log(audit.CellEvent{RunID: id, Env: env, State: "passed"})
//
// Events go to the default logger (stdout) and, when
// AUDIT_DATABASE_URL is set, to the audit database.
package audit
