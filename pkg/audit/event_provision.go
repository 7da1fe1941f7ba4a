package audit

import (
	"fmt"
	"strconv"
)

// ProvisionEvent records a Java provisioning decision for one env
type ProvisionEvent struct {
	Env          string
	Required     bool
	Major        int
	JavaHome     string
	Success      bool
	ErrorMessage string
}

func (e ProvisionEvent) MessageID() string {
	return "provision"
}

func (e ProvisionEvent) Message() string {
	if !e.Required {
		return fmt.Sprintf("env %s needs no runtime provisioning", e.Env)
	}
	if e.Success {
		return fmt.Sprintf("env %s uses java %d at %s", e.Env, e.Major, e.JavaHome)
	}
	msg := fmt.Sprintf("env %s failed java %d provisioning", e.Env, e.Major)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ProvisionEvent) Severity() Severity {
	if e.Required && !e.Success {
		return SeverityWarning
	}
	return SeverityInfo
}

func (e ProvisionEvent) Facility() int {
	return FacilityUser
}

func (e ProvisionEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if e.Required && !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDCell: {
			"env": e.Env,
		},
		SDIDAction: {
			"operation": "provision",
			"result":    result,
		},
	}
	if e.Required {
		sd[SDIDCell]["java_major"] = strconv.Itoa(e.Major)
	}
	if e.JavaHome != "" {
		sd[SDIDCell]["java_home"] = e.JavaHome
	}
	return sd
}
