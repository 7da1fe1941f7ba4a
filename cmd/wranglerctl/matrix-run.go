package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wrangler-in-go/pkg/audit"
	"wrangler-in-go/pkg/config"
	"wrangler-in-go/pkg/db"
	"wrangler-in-go/pkg/matrix"
	"wrangler-in-go/pkg/provision"
	"wrangler-in-go/pkg/runner"
	"wrangler-in-go/pkg/store"
	storegorm "wrangler-in-go/pkg/store/gorm"
	"wrangler-in-go/pkg/upload"
)

// matrixRunCmd represents the matrix run command
var matrixRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute every matrix cell",
	Long: `Execute every matrix cell through its lifecycle stages.

Cells needing a Java runtime are provisioned before their commands run.
Coverage reports are uploaded to artifact storage when it is configured,
and the run is recorded in the database when DATABASE_URL is set.

The command exits non-zero when any cell fails or errors.

Example:
  wranglerctl matrix run
  wranglerctl matrix run --parallelism 4 --dir ./pkg-src`,
	Run: func(cmd *cobra.Command, args []string) {
		failed, err := runMatrix(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
			os.Exit(1)
		}
		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	matrixCmd.AddCommand(matrixRunCmd)
	matrixRunCmd.Flags().Int("parallelism", 0, "cells in flight (overrides config)")
	matrixRunCmd.Flags().String("dir", ".", "working directory for cell commands")
	matrixRunCmd.Flags().String("run-id", "", "run identifier (default timestamp-based)")
}

func runMatrix(cmd *cobra.Command) (bool, error) {
	cfg := config.Get()

	m, ci, err := loadAutomationConfigs(cmd)
	if err != nil {
		return false, err
	}

	parallelism, _ := cmd.Flags().GetInt("parallelism")
	if parallelism == 0 {
		parallelism = cfg.Parallelism
	}
	dir, _ := cmd.Flags().GetString("dir")
	runID, _ := cmd.Flags().GetString("run-id")
	if runID == "" {
		runID = runner.NewRunID(time.Now())
	}

	var uploader runner.Uploader
	var artifactStore *upload.Store
	if cfg.UploadsEnabled() {
		artifactStore, err = upload.New(cfg.UploadConfig())
		if err != nil {
			return false, err
		}
		if err := artifactStore.EnsureBucket(context.Background()); err != nil {
			return false, err
		}
		uploader = artifactStore
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cells, err := matrix.Expand(ci, m)
	if err != nil {
		return false, err
	}
	audit.Log(audit.RunStartedEvent{RunID: runID, CellCount: len(cells), Source: cfg.MatrixPath})

	r := &runner.Runner{
		Matrix:      m,
		CI:          ci,
		Provisioner: &provision.Provisioner{},
		Uploader:    uploader,
		RunID:       runID,
		Dir:         dir,
		Parallelism: parallelism,
	}
	summary, err := r.Run(ctx)
	if err != nil {
		return false, err
	}

	counts := summary.Counts()
	audit.Log(audit.RunFinishedEvent{
		RunID:    summary.RunID,
		Passed:   counts[runner.StatePassed],
		Failed:   counts[runner.StateFailed],
		Errored:  counts[runner.StateErrored],
		Excluded: counts[runner.StateExcluded],
		Duration: summary.Finished.Sub(summary.Started),
	})

	for _, res := range summary.Results {
		line := fmt.Sprintf("%-30s %-8s %s", res.Cell.ID(), res.State, res.Duration.Round(time.Millisecond))
		if res.Err != nil {
			line += "  " + res.Err.Error()
		}
		fmt.Println(line)
	}

	if cfg.DatabaseURL != "" {
		if err := recordRun(cfg, ci, summary); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record run: %v\n", err)
		}
	}

	return summary.Failed(), nil
}

// recordRun persists the summary through the runs store.
func recordRun(cfg *config.Config, ci *matrix.CIDescriptor, summary *runner.Summary) error {
	database, err := db.Connect(db.Config{URL: cfg.DatabaseURL, Silent: true})
	if err != nil {
		return err
	}
	runsStore := storegorm.NewRunsStore(database)

	counts := summary.Counts()
	run := &store.Run{
		ID:           summary.RunID,
		CreatedAt:    summary.Started,
		Interpreters: ci.Interpreters,
		CellsTotal:   len(summary.Results),
		Passed:       counts[runner.StatePassed],
		Failed:       counts[runner.StateFailed],
		Errored:      counts[runner.StateErrored],
		Excluded:     counts[runner.StateExcluded],
		Status:       "passed",
	}
	if summary.Failed() {
		run.Status = "failed"
	}

	cells := make([]store.CellResult, len(summary.Results))
	var artifacts []store.Artifact
	for i, res := range summary.Results {
		var errMsg string
		if res.Err != nil {
			errMsg = res.Err.Error()
		}
		cells[i] = store.CellResult{
			RunID:        summary.RunID,
			Env:          res.Cell.Env.Name,
			Interpreter:  res.Cell.Interpreter,
			State:        res.State.String(),
			Duration:     res.Duration,
			OutputTail:   res.Output,
			CoveragePath: res.Coverage,
			ErrorMessage: errMsg,
		}
		if res.Artifact != "" {
			artifacts = append(artifacts, store.Artifact{
				RunID:      summary.RunID,
				Env:        res.Cell.Env.Name,
				Key:        res.Artifact,
				Size:       res.ArtifactSize,
				UploadedAt: summary.Finished,
			})
		}
	}

	return runsStore.CreateRun(run, cells, artifacts)
}
