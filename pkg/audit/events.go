package audit

import (
	"fmt"
	"strconv"
	"time"
)

// RunStartedEvent records the start of a matrix run
type RunStartedEvent struct {
	RunID     string
	CellCount int
	Source    string
}

func (e RunStartedEvent) MessageID() string {
	return "run-start"
}

func (e RunStartedEvent) Message() string {
	return fmt.Sprintf("run %s started with %d cells", e.RunID, e.CellCount)
}

func (e RunStartedEvent) Severity() Severity {
	return SeverityInfo
}

func (e RunStartedEvent) Facility() int {
	return FacilityUser
}

func (e RunStartedEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDRun: {
			"id":    e.RunID,
			"cells": strconv.Itoa(e.CellCount),
		},
		SDIDAction: {
			"operation": "run-start",
		},
	}
	if e.Source != "" {
		sd[SDIDRun]["source"] = e.Source
	}
	return sd
}

// RunFinishedEvent records the outcome of a matrix run
type RunFinishedEvent struct {
	RunID    string
	Passed   int
	Failed   int
	Errored  int
	Excluded int
	Duration time.Duration
}

func (e RunFinishedEvent) MessageID() string {
	return "run"
}

func (e RunFinishedEvent) Message() string {
	return fmt.Sprintf("run %s finished: %d passed, %d failed, %d errored, %d excluded in %s",
		e.RunID, e.Passed, e.Failed, e.Errored, e.Excluded, e.Duration.Round(time.Millisecond))
}

func (e RunFinishedEvent) Severity() Severity {
	if e.Failed > 0 || e.Errored > 0 {
		return SeverityWarning
	}
	return SeverityInfo
}

func (e RunFinishedEvent) Facility() int {
	return FacilityUser
}

func (e RunFinishedEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if e.Failed > 0 || e.Errored > 0 {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDRun: {
			"id":       e.RunID,
			"passed":   strconv.Itoa(e.Passed),
			"failed":   strconv.Itoa(e.Failed),
			"errored":  strconv.Itoa(e.Errored),
			"excluded": strconv.Itoa(e.Excluded),
		},
		SDIDAction: {
			"operation": "run",
			"result":    result,
		},
	}
}

// CellEvent records one cell reaching a terminal state
type CellEvent struct {
	RunID        string
	Env          string
	Interpreter  string
	State        string
	Duration     time.Duration
	ErrorMessage string
}

func (e CellEvent) MessageID() string {
	return "cell"
}

func (e CellEvent) Message() string {
	msg := fmt.Sprintf("cell %s/%s %s after %s", e.Interpreter, e.Env, e.State, e.Duration.Round(time.Millisecond))
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e CellEvent) Severity() Severity {
	switch e.State {
	case "failed", "errored":
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

func (e CellEvent) Facility() int {
	return FacilityUser
}

func (e CellEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDCell: {
			"run":         e.RunID,
			"env":         e.Env,
			"interpreter": e.Interpreter,
			"state":       e.State,
		},
		SDIDAction: {
			"operation": "cell",
			"result":    e.State,
		},
	}
}
