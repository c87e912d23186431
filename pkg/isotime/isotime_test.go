package isotime

import (
	"testing"
	"time"
)

func TestParseVariants(t *testing.T) {
	t.Parallel()
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		raw  string
	}{
		{name: "zulu", raw: "2024-01-15T10:30:00Z"},
		{name: "explicit utc offset", raw: "2024-01-15T10:30:00+00:00"},
		{name: "no offset assumed utc", raw: "2024-01-15T10:30:00"},
		{name: "space separator", raw: "2024-01-15 10:30:00"},
		{name: "surrounding whitespace", raw: "  2024-01-15T10:30:00Z  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.raw, err)
			}
			if !got.Equal(want) {
				t.Fatalf("Parse(%q) = %v, want %v", tt.raw, got, want)
			}
		})
	}
}

func TestParseNonUTCOffset(t *testing.T) {
	t.Parallel()
	got, err := Parse("2024-01-15T13:30:00+03:00")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("offset not normalized to UTC: %v", got)
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", got.Location())
	}
}

func TestParseFractionalSeconds(t *testing.T) {
	t.Parallel()
	got, err := Parse("2024-01-15T10:30:00.250Z")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got.Nanosecond() != 250_000_000 {
		t.Fatalf("fraction lost: %v", got)
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", "not-a-date", "15/01/2024", "2024-13-40T99:99:99Z"} {
		if _, err := Parse(raw); err == nil {
			t.Fatalf("Parse(%q): expected error", raw)
		}
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("MSK", 3*3600)
	in := time.Date(2024, 1, 15, 13, 30, 0, 0, loc)
	if got := Format(in); got != "2024-01-15 10:30:00 UTC" {
		t.Fatalf("Format = %q", got)
	}
}

func TestZuluAndOffsetAgree(t *testing.T) {
	t.Parallel()
	a, err := Parse("2024-01-15T10:30:00Z")
	if err != nil {
		t.Fatalf("Parse Z: %v", err)
	}
	b, err := Parse("2024-01-15T10:30:00+00:00")
	if err != nil {
		t.Fatalf("Parse offset: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("instants differ: %v vs %v", a, b)
	}
	if Format(a) != Format(b) {
		t.Fatalf("formats differ: %q vs %q", Format(a), Format(b))
	}
}
