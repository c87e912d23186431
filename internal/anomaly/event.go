// Package anomaly holds the inbound event model, the per-phase message
// renderer and the HTTP ingress handler.
package anomaly

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Phase is the lifecycle stage of an anomaly: onset or resolution.
type Phase string

const (
	PhaseStart Phase = "start"
	PhaseEnd   Phase = "end"
)

// flexString tolerates JSON numbers where a string is expected. Upstream
// detectors are loose about identifier and timestamp types; a numeric id
// must not fail the whole payload.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// Event is one inbound anomaly lifecycle event. It lives for a single
// request: decoded from the body, dispatched, discarded.
type Event struct {
	Action      flexString `json:"action"`
	ID          flexString `json:"id"`
	AnomalyType flexString `json:"anomaly_type"`
	MetricName  flexString `json:"metric_name"`
	Description flexString `json:"description"`
	StartTime   flexString `json:"start_time"`
	EndTime     flexString `json:"end_time"`
	Score       *float64   `json:"average_anom_score"`
}

// requiredFields are checked in this order; the first missing one is the
// one reported to the caller.
var requiredFields = []struct {
	name  string
	value func(*Event) string
}{
	{"action", func(e *Event) string { return string(e.Action) }},
	{"id", func(e *Event) string { return string(e.ID) }},
	{"anomaly_type", func(e *Event) string { return string(e.AnomalyType) }},
	{"metric_name", func(e *Event) string { return string(e.MetricName) }},
}

// Validate confirms every required field is present and non-empty.
func (e *Event) Validate() error {
	for _, f := range requiredFields {
		if strings.TrimSpace(f.value(e)) == "" {
			return fmt.Errorf("missing required field: %s", f.name)
		}
	}
	return nil
}

// Phase maps the action to a template phase. Anything but "start" selects
// the end template.
func (e *Event) Phase() Phase {
	if string(e.Action) == "start" {
		return PhaseStart
	}
	return PhaseEnd
}
