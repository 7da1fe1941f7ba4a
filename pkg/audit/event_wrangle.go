package audit

import (
	"fmt"
	"strconv"
)

// WrangleEvent records an interval identification request
type WrangleEvent struct {
	Rows         int
	Strategy     string
	Engine       string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e WrangleEvent) MessageID() string {
	return "wrangle"
}

func (e WrangleEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("wrangled %d rows with strategy %s on engine %s", e.Rows, e.Strategy, e.Engine)
	}
	msg := fmt.Sprintf("failed to wrangle %d rows with strategy %s", e.Rows, e.Strategy)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e WrangleEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e WrangleEvent) Facility() int {
	return FacilityDaemon
}

func (e WrangleEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDFrame: {
			"rows":     strconv.Itoa(e.Rows),
			"strategy": e.Strategy,
			"engine":   e.Engine,
		},
		SDIDAction: {
			"operation": "wrangle",
			"result":    result,
		},
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	return sd
}
