package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"wrangler-in-go/pkg/audit"
	"wrangler-in-go/pkg/frame"
	"wrangler-in-go/pkg/server"
	"wrangler-in-go/pkg/wrangler"
	"wrangler-in-go/pkg/wrangler/engine"
	"wrangler-in-go/pkg/wrangler/interval"
)

// WrangleRequest represents the body of POST /wrangle
type WrangleRequest struct {
	Records []map[string]interface{} `json:"records"`
	Params  json.RawMessage          `json:"params"`
}

// WrangleResponse represents the response from POST /wrangle
type WrangleResponse struct {
	Records []map[string]interface{} `json:"records"`
	Engine  string                   `json:"engine"`
	Target  string                   `json:"target_column"`
}

// RegisterWrangleEndpoint registers the interval identification
// endpoint
func RegisterWrangleEndpoint(s *server.Server) {
	s.Router.HandleFunc("/wrangle", handleWrangle(s)).Methods("POST")
}

func handleWrangle(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req WrangleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
			return
		}
		if len(req.Records) == 0 {
			writeError(w, http.StatusUnprocessableEntity, "records are required")
			return
		}
		if len(req.Params) == 0 {
			writeError(w, http.StatusUnprocessableEntity, "params are required")
			return
		}

		plan, err := interval.ParsePlan(req.Params)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		ident, err := plan.Identifier()
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		engineName := plan.Engine
		if engineName == "" {
			engineName = s.Config.Engine
		}
		eng, err := s.Engines.Resolve(engineName)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		f, err := frameFromRecords(req.Records)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		out, err := eng.Transform(r.Context(), ident, f)

		audit.Log(audit.WrangleEvent{
			Rows:         f.Len(),
			Strategy:     ident.Strategy.String(),
			Engine:       eng.Name(),
			ClientIP:     clientIP(r),
			Success:      err == nil,
			ErrorMessage: errorMessage(err),
		})

		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, wrangler.ErrInvalidParams) ||
				errors.Is(err, frame.ErrColumnNotFound) ||
				errors.Is(err, engine.ErrOrderColumnsRequired) {
				status = http.StatusUnprocessableEntity
			}
			writeError(w, status, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, WrangleResponse{
			Records: recordsFromFrame(out),
			Engine:  eng.Name(),
			Target:  ident.TargetColumn(),
		})
	}
}

// frameFromRecords builds a frame from flat JSON objects. Columns are
// the union of the record keys in sorted order; absent keys become
// nulls.
func frameFromRecords(records []map[string]interface{}) (*frame.Frame, error) {
	keys := map[string]bool{}
	for _, rec := range records {
		for k := range rec {
			keys[k] = true
		}
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)

	cols := make([]frame.Column, len(names))
	for i, name := range names {
		values := make([]frame.Value, len(records))
		for j, rec := range records {
			values[j] = frame.FromGo(rec[name])
		}
		cols[i] = frame.Column{Name: name, Values: values}
	}
	return frame.New(cols...)
}

func recordsFromFrame(f *frame.Frame) []map[string]interface{} {
	names := f.Columns()
	records := make([]map[string]interface{}, f.Len())
	for i := range records {
		rec := make(map[string]interface{}, len(names))
		for j, v := range f.Row(i) {
			rec[names[j]] = v.Go()
		}
		records[i] = rec
	}
	return records
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
