package audit

import (
	"fmt"
	"strconv"
)

// UploadEvent records a coverage artifact upload
type UploadEvent struct {
	RunID        string
	Key          string
	Size         int64
	Success      bool
	ErrorMessage string
}

func (e UploadEvent) MessageID() string {
	return "upload"
}

func (e UploadEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("run %s uploaded %s (%d bytes)", e.RunID, e.Key, e.Size)
	}
	msg := fmt.Sprintf("run %s failed to upload %s", e.RunID, e.Key)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e UploadEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e UploadEvent) Facility() int {
	return FacilityUser
}

func (e UploadEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDRun: {
			"id":  e.RunID,
			"key": e.Key,
		},
		SDIDAction: {
			"operation": "upload",
			"result":    result,
		},
	}
	if e.Success {
		sd[SDIDRun]["size"] = strconv.FormatInt(e.Size, 10)
	}
	return sd
}
