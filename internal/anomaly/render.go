package anomaly

import (
	"fmt"
	"strings"
)

// Placeholders for timestamps that were absent or failed to parse. They
// reach the user verbatim, so keep them readable.
const (
	timeNotSpecified = "not specified"
	timeInvalid      = "invalid time format"
	durationUnknown  = "unknown"
)

// Fields is the typed input of the renderer. Timestamps and duration
// arrive pre-formatted; normalization is the handler's job.
type Fields struct {
	AnomalyType string
	MetricName  string
	StartTime   string
	EndTime     string
	Description string
	Duration    string

	// Score is optional: when nil, the score line is omitted entirely
	// rather than rendered blank.
	Score *float64
}

// Render produces the plain-text message for a phase. It never fails:
// optional fields are simply left out. Escaping for the messaging dialect
// happens later, exactly once, in the dispatcher.
func Render(phase Phase, f Fields) string {
	if phase == PhaseStart {
		return renderStart(f)
	}
	return renderEnd(f)
}

func renderStart(f Fields) string {
	var b strings.Builder
	b.WriteString("🚨 Anomaly detected 🚨\n\n")
	b.WriteString("Type: " + f.AnomalyType + "\n")
	b.WriteString("Metric: " + f.MetricName + "\n")
	b.WriteString("Started: " + orNotSpecified(f.StartTime))
	if strings.TrimSpace(f.Description) != "" {
		b.WriteString("\nDescription: " + f.Description)
	}
	writeScore(&b, f.Score)
	return b.String()
}

func renderEnd(f Fields) string {
	var b strings.Builder
	b.WriteString("✅ Anomaly resolved ✅\n\n")
	b.WriteString("Type: " + f.AnomalyType + "\n")
	b.WriteString("Metric: " + f.MetricName + "\n")
	b.WriteString("Started: " + orNotSpecified(f.StartTime) + "\n")
	b.WriteString("Ended: " + orNotSpecified(f.EndTime) + "\n")
	b.WriteString("Duration: " + orUnknown(f.Duration))
	writeScore(&b, f.Score)
	return b.String()
}

func writeScore(b *strings.Builder, score *float64) {
	if score == nil {
		return
	}
	fmt.Fprintf(b, "\n\nAverage anomaly score: %.2f", *score)
}

func orNotSpecified(s string) string {
	if s == "" {
		return timeNotSpecified
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return durationUnknown
	}
	return s
}
