package integration

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
)

// signToken issues a short-lived bearer token against the test secret
func signToken() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "integration-test",
		"exp": time.Now().Add(5 * time.Minute).Unix(),
	})
	return token.SignedString([]byte(testAPISecret))
}

func (s *StepsContext) iReportRunWithValidToken(body *godog.DocString) error {
	token, err := signToken()
	if err != nil {
		return err
	}
	if err := s.post("/runs", body.Content, token); err != nil {
		return err
	}
	s.lastRunID = runIDFrom(body.Content)
	return nil
}

func (s *StepsContext) iReportRunWithoutToken(body *godog.DocString) error {
	return s.post("/runs", body.Content, "")
}

// runIDFrom extracts the id field from a run report body
func runIDFrom(body string) string {
	var report struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal([]byte(body), &report)
	return report.ID
}

func (s *StepsContext) iFetchRun(id string) error {
	return s.get("/runs/" + id)
}

func (s *StepsContext) iListRecordedRuns() error {
	return s.get("/runs")
}

func (s *StepsContext) theRunShouldHaveStatus(status string) error {
	var run struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(s.responseBody, &run); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if run.Status != status {
		return fmt.Errorf("run has status %q, expected %q", run.Status, status)
	}
	return nil
}

func (s *StepsContext) theRunShouldHaveCells(count int) error {
	var run struct {
		CellsTotal int `json:"cells_total"`
	}
	if err := json.Unmarshal(s.responseBody, &run); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if run.CellsTotal != count {
		return fmt.Errorf("run has %d cells, expected %d", run.CellsTotal, count)
	}
	return nil
}

func (s *StepsContext) theResponseShouldContainRuns(count int) error {
	var runs []json.RawMessage
	if err := json.Unmarshal(s.responseBody, &runs); err != nil {
		return fmt.Errorf("response is not a JSON array: %w", err)
	}
	if len(runs) < count {
		return fmt.Errorf("response contains %d runs, expected at least %d", len(runs), count)
	}
	return nil
}

// theRunsTableShouldContain asserts against the database directly
func (s *StepsContext) theRunsTableShouldContain(id string) error {
	var n int64
	if err := s.tc.DB.Table("runs").Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("runs table has %d rows for %q, expected 1", n, id)
	}
	return nil
}
