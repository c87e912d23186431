package anomaly

import (
	"fmt"
	"strings"
	"time"
)

// formatDuration renders d with its two largest non-zero units out of
// days/hours/minutes/seconds, e.g. "2h 15m", "1d 3h", "45s". Sub-second
// durations collapse to "0s". Negative input (end before start) is not a
// meaningful duration and renders as unknown.
func formatDuration(d time.Duration) string {
	if d < 0 {
		return durationUnknown
	}
	d = d.Round(time.Second)

	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int(d / time.Minute)
	seconds := int((d - time.Duration(minutes)*time.Minute) / time.Second)

	parts := make([]string, 0, 2)
	for _, u := range []struct {
		n    int
		unit string
	}{{days, "d"}, {hours, "h"}, {minutes, "m"}, {seconds, "s"}} {
		if u.n > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", u.n, u.unit))
		}
		if len(parts) == 2 {
			break
		}
	}
	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, " ")
}
