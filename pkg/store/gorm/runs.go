package gorm

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"wrangler-in-go/pkg/model"
	"wrangler-in-go/pkg/store"
)

// Ensure RunsStore implements store.RunsStore
var _ store.RunsStore = (*RunsStore)(nil)

// RunsStore implements store.RunsStore using GORM
type RunsStore struct {
	db *gorm.DB
}

// NewRunsStore creates a new RunsStore
func NewRunsStore(db *gorm.DB) *RunsStore {
	return &RunsStore{db: db}
}

// CreateRun records a run together with its cell results and artifacts.
func (s *RunsStore) CreateRun(run *store.Run, cells []store.CellResult, artifacts []store.Artifact) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		row := model.Run{
			ID:           run.ID,
			CreatedAt:    run.CreatedAt,
			ConfigDigest: run.ConfigDigest,
			Interpreters: strings.Join(run.Interpreters, ","),
			CellsTotal:   run.CellsTotal,
			Passed:       run.Passed,
			Failed:       run.Failed,
			Errored:      run.Errored,
			Excluded:     run.Excluded,
			Status:       run.Status,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		for _, c := range cells {
			cr := model.CellResult{
				RunID:        run.ID,
				Env:          c.Env,
				Interpreter:  c.Interpreter,
				State:        c.State,
				DurationMS:   c.Duration.Milliseconds(),
				OutputTail:   c.OutputTail,
				CoveragePath: c.CoveragePath,
				ErrorMessage: c.ErrorMessage,
			}
			if err := tx.Create(&cr).Error; err != nil {
				return err
			}
		}
		for _, a := range artifacts {
			ar := model.Artifact{
				RunID:      run.ID,
				Env:        a.Env,
				Key:        a.Key,
				Size:       a.Size,
				UploadedAt: a.UploadedAt,
			}
			if err := tx.Create(&ar).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetRun retrieves a run with its cell results and artifacts.
func (s *RunsStore) GetRun(id string) (*store.Run, []store.CellResult, []store.Artifact, error) {
	var row model.Run
	if err := s.db.Where(map[string]interface{}{"id": id}).First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, nil, store.ErrRunNotFound
		}
		return nil, nil, nil, err
	}

	var cellRows []model.CellResult
	if err := s.db.Where("run_id = ?", id).Order("id").Find(&cellRows).Error; err != nil {
		return nil, nil, nil, err
	}
	var artifactRows []model.Artifact
	if err := s.db.Where("run_id = ?", id).Order("id").Find(&artifactRows).Error; err != nil {
		return nil, nil, nil, err
	}

	run := toStoreRun(row)
	cells := make([]store.CellResult, len(cellRows))
	for i, c := range cellRows {
		cells[i] = store.CellResult{
			RunID:        c.RunID,
			Env:          c.Env,
			Interpreter:  c.Interpreter,
			State:        c.State,
			Duration:     time.Duration(c.DurationMS) * time.Millisecond,
			OutputTail:   c.OutputTail,
			CoveragePath: c.CoveragePath,
			ErrorMessage: c.ErrorMessage,
		}
	}
	artifacts := make([]store.Artifact, len(artifactRows))
	for i, a := range artifactRows {
		artifacts[i] = store.Artifact{
			RunID:      a.RunID,
			Env:        a.Env,
			Key:        a.Key,
			Size:       a.Size,
			UploadedAt: a.UploadedAt,
		}
	}
	return run, cells, artifacts, nil
}

// ListRuns retrieves the most recent runs, newest first.
func (s *RunsStore) ListRuns(limit int) ([]store.Run, error) {
	tx := s.db.Order("created_at desc")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var rows []model.Run
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	runs := make([]store.Run, len(rows))
	for i, row := range rows {
		runs[i] = *toStoreRun(row)
	}
	return runs, nil
}

func toStoreRun(row model.Run) *store.Run {
	var interpreters []string
	if row.Interpreters != "" {
		interpreters = strings.Split(row.Interpreters, ",")
	}
	return &store.Run{
		ID:           row.ID,
		CreatedAt:    row.CreatedAt,
		ConfigDigest: row.ConfigDigest,
		Interpreters: interpreters,
		CellsTotal:   row.CellsTotal,
		Passed:       row.Passed,
		Failed:       row.Failed,
		Errored:      row.Errored,
		Excluded:     row.Excluded,
		Status:       row.Status,
	}
}
