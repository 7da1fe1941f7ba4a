package audit

import (
	"fmt"
	"strconv"
)

// APIRequestEvent records one API request
type APIRequestEvent struct {
	Method   string
	Path     string
	ClientIP string
	Status   int
}

func (e APIRequestEvent) MessageID() string {
	return "api"
}

func (e APIRequestEvent) Message() string {
	return fmt.Sprintf("%s %s from %s: %d", e.Method, e.Path, e.ClientIP, e.Status)
}

func (e APIRequestEvent) Severity() Severity {
	if e.Status >= 500 {
		return SeverityWarning
	}
	return SeverityInfo
}

func (e APIRequestEvent) Facility() int {
	return FacilityDaemon
}

func (e APIRequestEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAction: {
			"operation": "api",
			"method":    e.Method,
			"path":      e.Path,
			"status":    strconv.Itoa(e.Status),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}
