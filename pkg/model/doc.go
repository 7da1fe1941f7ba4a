// Package model defines the database models for recorded matrix runs.
//
// This package contains GORM models that map to the runs store schema.
//
// # Core Models
//
//   - Run: one matrix run with aggregate cell counts
//   - CellResult: the terminal state of one (interpreter, env) cell
//   - Artifact: an uploaded run artifact such as a coverage report
//
// # Database Schema
//
// The store uses PostgreSQL with the following tables:
//
//   - runs: run identity and aggregate outcome
//   - cell_results: per-cell state, duration and transcript tail
//   - artifacts: object keys of uploaded artifacts
package model
