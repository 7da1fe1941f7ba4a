package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	lastRunID    string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^a wrangler server is running$`, s.aWranglerServerIsRunning)

	// Status steps
	sc.Step(`^I request the server status$`, s.iRequestTheServerStatus)
	sc.Step(`^I request the engine list$`, s.iRequestTheEngineList)
	sc.Step(`^I request the server health$`, s.iRequestTheServerHealth)
	sc.Step(`^the response should list engine "([^"]*)"$`, s.theResponseShouldListEngine)

	// Wrangle steps
	sc.Step(`^I wrangle the following request:$`, s.iWrangleTheFollowingRequest)
	sc.Step(`^record (\d+) should have interval id (\d+)$`, s.recordShouldHaveIntervalID)
	sc.Step(`^the response should use engine "([^"]*)"$`, s.theResponseShouldUseEngine)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response error should mention "([^"]*)"$`, s.theResponseErrorShouldMention)

	// Run reporting steps
	sc.Step(`^I report the following run with a valid token:$`, s.iReportRunWithValidToken)
	sc.Step(`^I report the following run without a token:$`, s.iReportRunWithoutToken)
	sc.Step(`^I fetch run "([^"]*)"$`, s.iFetchRun)
	sc.Step(`^I list the recorded runs$`, s.iListRecordedRuns)
	sc.Step(`^the run should have status "([^"]*)"$`, s.theRunShouldHaveStatus)
	sc.Step(`^the run should have (\d+) cells$`, s.theRunShouldHaveCells)
	sc.Step(`^the response should contain at least (\d+) runs?$`, s.theResponseShouldContainRuns)
	sc.Step(`^the runs table should contain "([^"]*)"$`, s.theRunsTableShouldContain)
}

func (s *StepsContext) aWranglerServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

// get issues a GET and captures the response
func (s *StepsContext) get(path string) error {
	resp, err := s.tc.HTTPClient.Get(s.tc.ServerURL + path)
	if err != nil {
		return err
	}
	return s.capture(resp)
}

// post issues a POST with a JSON body and captures the response
func (s *StepsContext) post(path, body, token string) error {
	req, err := http.NewRequest("POST", s.tc.ServerURL+path, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	return s.capture(resp)
}

func (s *StepsContext) capture(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	s.response = resp
	s.responseBody = body
	return nil
}

func (s *StepsContext) iRequestTheServerStatus() error {
	return s.get("/")
}

func (s *StepsContext) iRequestTheEngineList() error {
	return s.get("/engines")
}

func (s *StepsContext) iRequestTheServerHealth() error {
	return s.get("/health")
}

func (s *StepsContext) theResponseShouldListEngine(name string) error {
	var payload struct {
		Engines []string `json:"engines"`
	}
	if err := json.Unmarshal(s.responseBody, &payload); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	for _, e := range payload.Engines {
		if e == name {
			return nil
		}
	}
	return fmt.Errorf("engine %q not in %v", name, payload.Engines)
}

func (s *StepsContext) iWrangleTheFollowingRequest(body *godog.DocString) error {
	return s.post("/wrangle", body.Content, "")
}

func (s *StepsContext) recordShouldHaveIntervalID(index, id int) error {
	var payload struct {
		Records []map[string]interface{} `json:"records"`
		Target  string                   `json:"target"`
	}
	if err := json.Unmarshal(s.responseBody, &payload); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if index >= len(payload.Records) {
		return fmt.Errorf("record %d out of range, got %d records", index, len(payload.Records))
	}
	got, ok := payload.Records[index][payload.Target].(float64)
	if !ok {
		return fmt.Errorf("record %d has no numeric %q column", index, payload.Target)
	}
	if int(got) != id {
		return fmt.Errorf("record %d has interval id %d, expected %d", index, int(got), id)
	}
	return nil
}

func (s *StepsContext) theResponseShouldUseEngine(name string) error {
	var payload struct {
		Engine string `json:"engine"`
	}
	if err := json.Unmarshal(s.responseBody, &payload); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if payload.Engine != name {
		return fmt.Errorf("response used engine %q, expected %q", payload.Engine, name)
	}
	return nil
}

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response captured")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d (body: %s)",
			status, s.response.StatusCode, truncate(s.responseBody, 200))
	}
	return nil
}

func (s *StepsContext) theResponseErrorShouldMention(fragment string) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(s.responseBody, &payload); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if !strings.Contains(payload.Error, fragment) {
		return fmt.Errorf("error %q does not mention %q", payload.Error, fragment)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
