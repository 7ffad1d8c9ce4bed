package validate

import (
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}

func TestParseTimestamp_Absent(t *testing.T) {
	got, warn := ParseTimestamp("created_at", "  ", fixedNow)
	if warn != nil {
		t.Fatalf("expected no warning, got %v", warn)
	}
	if !got.Equal(fixedNow()) {
		t.Fatalf("expected now, got %s", got)
	}
}

func TestParseTimestamp_ISO(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2025-11-04T20:30:00", time.Date(2025, 11, 4, 20, 30, 0, 0, time.UTC)},
		{"2025-11-04T20:30", time.Date(2025, 11, 4, 20, 30, 0, 0, time.UTC)},
		{"2025-11-04 21:00:00", time.Date(2025, 11, 4, 21, 0, 0, 0, time.UTC)},
		{"2025-11-04", time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC)},
		{"2025-11-04T20:30:00.250", time.Date(2025, 11, 4, 20, 30, 0, 250_000_000, time.UTC)},
		{"2025-11-04T20:30:00Z", time.Date(2025, 11, 4, 20, 30, 0, 0, time.UTC)},
		{"2025-11-04T22:30:00+02:00", time.Date(2025, 11, 4, 20, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, warn := ParseTimestamp("created_at", tt.raw, fixedNow)
		if warn != nil {
			t.Fatalf("%q: unexpected warning %v", tt.raw, warn)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("%q: expected %s, got %s", tt.raw, tt.want, got)
		}
	}
}

func TestParseTimestamp_FallbackWarns(t *testing.T) {
	got, warn := ParseTimestamp("updated_at", "04/11/2025", fixedNow)
	if warn == nil {
		t.Fatalf("expected warning")
	}
	if warn.Field != "updated_at" || warn.Value != "04/11/2025" {
		t.Fatalf("unexpected warning contents: %+v", warn)
	}
	if !got.Equal(fixedNow()) || !warn.Fallback.Equal(fixedNow()) {
		t.Fatalf("expected fallback to now, got %s", got)
	}
}
