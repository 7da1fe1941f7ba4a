package store

import (
	"errors"
	"time"
)

// ErrRunNotFound is returned when a run doesn't exist
var ErrRunNotFound = errors.New("run not found")

// Run represents a recorded matrix run with aggregate counts
type Run struct {
	ID           string
	CreatedAt    time.Time
	ConfigDigest string
	Interpreters []string
	CellsTotal   int
	Passed       int
	Failed       int
	Errored      int
	Excluded     int
	Status       string
}

// CellResult represents the recorded outcome of one matrix cell
type CellResult struct {
	RunID        string
	Env          string
	Interpreter  string
	State        string
	Duration     time.Duration
	OutputTail   string
	CoveragePath string
	ErrorMessage string
}

// Artifact represents one uploaded run artifact
type Artifact struct {
	RunID      string
	Env        string
	Key        string
	Size       int64
	UploadedAt time.Time
}

// RunsStore abstracts run persistence operations
type RunsStore interface {
	// CreateRun records a run together with its cell results and
	// artifacts.
	CreateRun(run *Run, cells []CellResult, artifacts []Artifact) error

	// GetRun retrieves a run with its cell results and artifacts.
	// Returns ErrRunNotFound if the run doesn't exist.
	GetRun(id string) (*Run, []CellResult, []Artifact, error)

	// ListRuns retrieves the most recent runs, newest first. A limit
	// of zero means no limit.
	ListRuns(limit int) ([]Run, error)
}
