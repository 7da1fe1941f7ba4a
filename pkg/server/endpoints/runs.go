package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"wrangler-in-go/pkg/audit"
	"wrangler-in-go/pkg/server"
	"wrangler-in-go/pkg/store"
)

// RunReport represents the body of POST /runs
type RunReport struct {
	ID           string           `json:"id"`
	ConfigDigest string           `json:"config_digest,omitempty"`
	Interpreters []string         `json:"interpreters,omitempty"`
	Cells        []CellReport     `json:"cells"`
	Artifacts    []ArtifactReport `json:"artifacts,omitempty"`
}

// CellReport is one cell outcome inside a RunReport
type CellReport struct {
	Env          string `json:"env"`
	Interpreter  string `json:"interpreter"`
	State        string `json:"state"`
	DurationMS   int64  `json:"duration_ms,omitempty"`
	OutputTail   string `json:"output_tail,omitempty"`
	CoveragePath string `json:"coverage_path,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// ArtifactReport is one uploaded artifact inside a RunReport
type ArtifactReport struct {
	Env  string `json:"env"`
	Key  string `json:"key"`
	Size int64  `json:"size,omitempty"`
}

// RunResponse represents one run in query responses
type RunResponse struct {
	ID           string           `json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	ConfigDigest string           `json:"config_digest,omitempty"`
	Interpreters []string         `json:"interpreters,omitempty"`
	CellsTotal   int              `json:"cells_total"`
	Passed       int              `json:"passed"`
	Failed       int              `json:"failed"`
	Errored      int              `json:"errored"`
	Excluded     int              `json:"excluded"`
	Status       string           `json:"status"`
	Cells        []CellReport     `json:"cells,omitempty"`
	Artifacts    []ArtifactReport `json:"artifacts,omitempty"`
}

// RegisterRunsEndpoints registers run reporting and querying. Reporting
// mutates the store and sits behind the bearer middleware.
func RegisterRunsEndpoints(s *server.Server) {
	s.Router.Handle("/runs", s.JWTMiddleware.Middleware(handleReportRun(s))).Methods("POST")
	s.Router.HandleFunc("/runs", handleListRuns(s)).Methods("GET")
	s.Router.HandleFunc("/runs/{id}", handleGetRun(s)).Methods("GET")
}

func handleReportRun(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.RunsStore == nil {
			writeError(w, http.StatusServiceUnavailable, "runs store is not configured")
			return
		}

		var report RunReport
		if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
			return
		}
		if report.ID == "" {
			writeError(w, http.StatusUnprocessableEntity, "run id is required")
			return
		}
		if len(report.Cells) == 0 {
			writeError(w, http.StatusUnprocessableEntity, "cells are required")
			return
		}

		run := &store.Run{
			ID:           report.ID,
			CreatedAt:    time.Now(),
			ConfigDigest: report.ConfigDigest,
			Interpreters: report.Interpreters,
			CellsTotal:   len(report.Cells),
		}
		cells := make([]store.CellResult, len(report.Cells))
		for i, c := range report.Cells {
			switch c.State {
			case "passed":
				run.Passed++
			case "failed":
				run.Failed++
			case "errored":
				run.Errored++
			case "excluded":
				run.Excluded++
			default:
				writeError(w, http.StatusUnprocessableEntity, "unknown cell state: "+c.State)
				return
			}
			cells[i] = store.CellResult{
				RunID:        report.ID,
				Env:          c.Env,
				Interpreter:  c.Interpreter,
				State:        c.State,
				Duration:     time.Duration(c.DurationMS) * time.Millisecond,
				OutputTail:   c.OutputTail,
				CoveragePath: c.CoveragePath,
				ErrorMessage: c.ErrorMessage,
			}
		}
		run.Status = "passed"
		if run.Failed > 0 || run.Errored > 0 {
			run.Status = "failed"
		}

		artifacts := make([]store.Artifact, len(report.Artifacts))
		for i, a := range report.Artifacts {
			artifacts[i] = store.Artifact{
				RunID:      report.ID,
				Env:        a.Env,
				Key:        a.Key,
				Size:       a.Size,
				UploadedAt: time.Now(),
			}
		}

		if err := s.RunsStore.CreateRun(run, cells, artifacts); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		audit.Log(audit.RunFinishedEvent{
			RunID:    run.ID,
			Passed:   run.Passed,
			Failed:   run.Failed,
			Errored:  run.Errored,
			Excluded: run.Excluded,
		})

		writeJSON(w, http.StatusCreated, toRunResponse(run, nil, nil))
	}
}

func handleListRuns(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.RunsStore == nil {
			writeError(w, http.StatusServiceUnavailable, "runs store is not configured")
			return
		}

		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				writeError(w, http.StatusBadRequest, "invalid limit: "+raw)
				return
			}
			limit = parsed
		}

		runs, err := s.RunsStore.ListRuns(limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		out := make([]RunResponse, len(runs))
		for i := range runs {
			out[i] = *toRunResponse(&runs[i], nil, nil)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleGetRun(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.RunsStore == nil {
			writeError(w, http.StatusServiceUnavailable, "runs store is not configured")
			return
		}

		id := mux.Vars(r)["id"]
		run, cells, artifacts, err := s.RunsStore.GetRun(id)
		if err != nil {
			if errors.Is(err, store.ErrRunNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, toRunResponse(run, cells, artifacts))
	}
}

func toRunResponse(run *store.Run, cells []store.CellResult, artifacts []store.Artifact) *RunResponse {
	resp := &RunResponse{
		ID:           run.ID,
		CreatedAt:    run.CreatedAt,
		ConfigDigest: run.ConfigDigest,
		Interpreters: run.Interpreters,
		CellsTotal:   run.CellsTotal,
		Passed:       run.Passed,
		Failed:       run.Failed,
		Errored:      run.Errored,
		Excluded:     run.Excluded,
		Status:       run.Status,
	}
	for _, c := range cells {
		resp.Cells = append(resp.Cells, CellReport{
			Env:          c.Env,
			Interpreter:  c.Interpreter,
			State:        c.State,
			DurationMS:   c.Duration.Milliseconds(),
			OutputTail:   c.OutputTail,
			CoveragePath: c.CoveragePath,
			ErrorMessage: c.ErrorMessage,
		})
	}
	for _, a := range artifacts {
		resp.Artifacts = append(resp.Artifacts, ArtifactReport{
			Env:  a.Env,
			Key:  a.Key,
			Size: a.Size,
		})
	}
	return resp
}
