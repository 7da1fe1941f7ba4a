package runner

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"wrangler-in-go/pkg/matrix"
	"wrangler-in-go/pkg/provision"
)

const defaultOutputTail = 4096

// passthroughEnv lists the parent variables cells keep. Everything
// else is dropped; cell variables and the provisioning delta are added
// on top.
var passthroughEnv = map[string]bool{
	"PATH":   true,
	"HOME":   true,
	"LANG":   true,
	"LC_ALL": true,
	"TMPDIR": true,
	"USER":   true,
	"SHELL":  true,
}

// Uploader stores one artifact and returns its size.
type Uploader interface {
	Upload(ctx context.Context, key, path string) (int64, error)
}

// CellResult is the outcome of one cell.
type CellResult struct {
	Cell         matrix.Cell
	State        CellState
	Duration     time.Duration
	Output       string
	Coverage     string
	Artifact     string
	ArtifactSize int64
	Err          error
}

// Summary aggregates one run.
type Summary struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Results  []CellResult
}

// Counts tallies the terminal cell states.
func (s *Summary) Counts() map[CellState]int {
	counts := map[CellState]int{}
	for _, r := range s.Results {
		counts[r.State]++
	}
	return counts
}

// Failed reports whether any cell failed or errored.
func (s *Summary) Failed() bool {
	for _, r := range s.Results {
		if r.State == StateFailed || r.State == StateErrored {
			return true
		}
	}
	return false
}

// NewRunID returns a timestamp-based run identifier.
func NewRunID(now time.Time) string {
	return "run-" + now.UTC().Format("20060102-150405")
}

// ArtifactKey returns the object key for one cell artifact.
func ArtifactKey(runID, env, artifact string) string {
	return path.Join("runs", runID, env, artifact)
}

// Runner executes the expanded matrix cell by cell. Every cell shares
// the working directory, so parallel runs need per-env output paths in
// their commands.
type Runner struct {
	Matrix      *matrix.Matrix
	CI          *matrix.CIDescriptor
	Provisioner *provision.Provisioner
	Uploader    Uploader

	// RunID names the run; empty means a timestamp-based id.
	RunID string
	// Dir is the working directory for cell commands.
	Dir string
	// Parallelism bounds the cells in flight; <= 1 runs sequentially.
	Parallelism int
	// OutputTail bounds the transcript bytes kept per cell.
	OutputTail int

	Logger *log.Logger
	// Environ overrides os.Environ as the parent environment source.
	Environ func() []string
}

// Run expands the matrix and drives every cell to a terminal state. A
// cell failure does not stop the loop; only cancellation does.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	cells, err := matrix.Expand(r.CI, r.Matrix)
	if err != nil {
		return nil, err
	}

	summary := &Summary{RunID: r.runID(), Started: time.Now()}
	results := make([]CellResult, len(cells))

	if r.Parallelism <= 1 {
		for i, cell := range cells {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = r.runCell(ctx, summary.RunID, cell)
		}
	} else if err := r.runPool(ctx, summary.RunID, cells, results); err != nil {
		return nil, err
	}

	summary.Results = results
	summary.Finished = time.Now()

	counts := summary.Counts()
	r.logger().Printf("run %s: %d passed, %d failed, %d errored, %d excluded",
		summary.RunID, counts[StatePassed], counts[StateFailed], counts[StateErrored], counts[StateExcluded])
	return summary, nil
}

type cellWork struct {
	index int
	cell  matrix.Cell
}

type cellDone struct {
	index  int
	result CellResult
}

func (r *Runner) runPool(ctx context.Context, runID string, cells []matrix.Cell, results []CellResult) error {
	workers := r.Parallelism
	if workers > len(cells) {
		workers = len(cells)
	}

	workCh := make(chan cellWork, workers)
	doneCh := make(chan cellDone, workers)

	var wg sync.WaitGroup
	var stopOnce sync.Once
	stopWorkers := func() {
		stopOnce.Do(func() {
			close(workCh)
			wg.Wait()
		})
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range workCh {
				doneCh <- cellDone{index: w.index, result: r.runCell(ctx, runID, w.cell)}
			}
		}()
	}

	next, inFlight, collected := 0, 0, 0
	for collected < len(cells) {
		for inFlight < workers && next < len(cells) {
			workCh <- cellWork{index: next, cell: cells[next]}
			inFlight++
			next++
		}

		select {
		case <-ctx.Done():
			stopWorkers()
			return ctx.Err()
		case d := <-doneCh:
			results[d.index] = d.result
			inFlight--
			collected++
		}
	}
	stopWorkers()
	return nil
}

func (r *Runner) runCell(ctx context.Context, runID string, cell matrix.Cell) CellResult {
	if cell.Excluded {
		r.logger().Printf("cell %s: excluded", cell.ID())
		return CellResult{Cell: cell, State: StateExcluded}
	}

	r.logger().Printf("cell %s: running", cell.ID())
	start := time.Now()
	res := r.executeCell(ctx, runID, cell)
	res.Duration = time.Since(start)

	if res.Err != nil {
		r.logger().Printf("cell %s: %s after %s: %v", cell.ID(), res.State, res.Duration.Round(time.Millisecond), res.Err)
	} else {
		r.logger().Printf("cell %s: %s after %s", cell.ID(), res.State, res.Duration.Round(time.Millisecond))
	}
	return res
}

// executeCell walks the lifecycle: provisioning, before-install,
// install (tooling, then the dependency pin), the env's script, and
// after-success for passing cells.
func (r *Runner) executeCell(ctx context.Context, runID string, cell matrix.Cell) CellResult {
	res := CellResult{Cell: cell}
	var transcript bytes.Buffer

	env := passthrough(r.environ())
	env = append(env,
		"WRANGLER_ENV="+cell.Env.Name,
		"WRANGLER_INTERPRETER="+cell.Interpreter,
		cell.Selector.String(),
	)

	delta, err := r.provisioner().Ensure(ctx, cell.Env.Name)
	if err != nil {
		res.State = StateErrored
		res.Err = fmt.Errorf("provision: %w", err)
		return res
	}
	env = delta.Apply(env)

	deps, err := r.Matrix.ResolveDeps(cell.Env)
	if err != nil {
		res.State = StateErrored
		res.Err = err
		return res
	}

	cmd := &Command{Dir: r.Dir, Env: env}
	run := func(stage string, lines []string) bool {
		for _, line := range lines {
			cr, err := cmd.Run(ctx, line)
			if err != nil {
				res.State = StateErrored
				res.Err = fmt.Errorf("%s: %w", stage, err)
				return false
			}
			transcript.Write(cr.Output)
			if cr.ExitCode != 0 {
				res.State = StateFailed
				res.Err = fmt.Errorf("%s: %q exited %d", stage, line, cr.ExitCode)
				return false
			}
		}
		return true
	}

	install := append(append([]string{}, r.CI.Stages.Install...), installCommand(deps))
	passed := run("before_install", r.CI.Stages.BeforeInstall) &&
		run("install", install) &&
		run("script", r.Matrix.ResolveCommands(cell.Env))

	if passed && run("after_success", r.CI.Stages.AfterSuccess) {
		if r.uploadCoverage(ctx, runID, cell, &res) == nil {
			res.State = StatePassed
		}
	}

	res.Output = tail(transcript.Bytes(), r.outputTail())
	return res
}

// uploadCoverage records and uploads the cell's coverage report. A
// missing report or an absent uploader is not an error.
func (r *Runner) uploadCoverage(ctx context.Context, runID string, cell matrix.Cell, res *CellResult) error {
	covPath, err := LocateCoverage(r.Dir)
	if err != nil {
		r.logger().Printf("cell %s: %v", cell.ID(), err)
		return nil
	}
	res.Coverage = covPath

	if r.Uploader == nil {
		return nil
	}
	key := ArtifactKey(runID, cell.Env.Name, filepath.Base(covPath))
	size, err := r.Uploader.Upload(ctx, key, covPath)
	if err != nil {
		res.State = StateErrored
		res.Err = fmt.Errorf("upload %s: %w", key, err)
		return err
	}
	res.Artifact = key
	res.ArtifactSize = size
	return nil
}

// installCommand pins the environment's dependencies.
func installCommand(deps []string) string {
	quoted := make([]string, len(deps))
	for i, d := range deps {
		quoted[i] = "'" + d + "'"
	}
	return "pip install " + strings.Join(quoted, " ")
}

func passthrough(parent []string) []string {
	out := make([]string, 0, len(passthroughEnv))
	for _, kv := range parent {
		key, _, ok := strings.Cut(kv, "=")
		if ok && passthroughEnv[key] {
			out = append(out, kv)
		}
	}
	return out
}

func tail(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[len(b)-n:])
}

func (r *Runner) runID() string {
	if r.RunID != "" {
		return r.RunID
	}
	return NewRunID(time.Now())
}

func (r *Runner) provisioner() *provision.Provisioner {
	if r.Provisioner != nil {
		return r.Provisioner
	}
	return &provision.Provisioner{}
}

func (r *Runner) environ() []string {
	if r.Environ != nil {
		return r.Environ()
	}
	return os.Environ()
}

func (r *Runner) outputTail() int {
	if r.OutputTail > 0 {
		return r.OutputTail
	}
	return defaultOutputTail
}

func (r *Runner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}
