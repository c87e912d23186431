package anomaly

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "seconds", d: 45 * time.Second, want: "45s"},
		{name: "minutes and seconds", d: 2*time.Minute + 10*time.Second, want: "2m 10s"},
		{name: "hours and minutes", d: 2*time.Hour + 15*time.Minute, want: "2h 15m"},
		{name: "third unit dropped", d: 2*time.Hour + 15*time.Minute + 40*time.Second, want: "2h 15m"},
		{name: "days and hours", d: 27 * time.Hour, want: "1d 3h"},
		{name: "skips zero middle unit", d: 24*time.Hour + 5*time.Minute, want: "1d 5m"},
		{name: "zero", d: 0, want: "0s"},
		{name: "sub-second", d: 300 * time.Millisecond, want: "0s"},
		{name: "negative is unknown", d: -time.Minute, want: "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDuration(tt.d); got != tt.want {
				t.Fatalf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
