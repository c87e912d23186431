// Package isotime normalizes flexible ISO-8601 timestamp strings into
// canonical UTC instants and formats them for display.
package isotime

import (
	"fmt"
	"strings"
	"time"
)

// DisplayLayout is the canonical human-readable rendering, always UTC.
const DisplayLayout = "2006-01-02 15:04:05"

// layouts accepted by Parse, tried in order. A trailing "Z" and an
// explicit numeric offset are both valid; timestamps without any offset
// are interpreted as UTC.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parse converts raw into a UTC instant. The error is a soft failure:
// callers log it and fall back to a placeholder, never aborting the
// surrounding pipeline.
func Parse(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("isotime: empty timestamp")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("isotime: unrecognized timestamp %q", raw)
}

// Format renders t in UTC as "YYYY-MM-DD HH:MM:SS UTC".
func Format(t time.Time) string {
	return t.UTC().Format(DisplayLayout) + " UTC"
}
