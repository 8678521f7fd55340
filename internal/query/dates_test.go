package query

import (
	"testing"
	"time"
)

func TestSafeRangeDefaults(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, loc)

	start, end := SafeRange("", "", loc, now)

	wantStart := time.Date(2025, 6, 8, 0, 0, 0, 0, loc)
	if !start.Equal(wantStart) {
		t.Fatalf("start=%v, want %v", start, wantStart)
	}
	if end.Year() != 2025 || end.Month() != 6 || end.Day() != 15 {
		t.Fatalf("end day=%v, want 2025-06-15", end)
	}
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Fatalf("end not normalized to end of day: %v", end)
	}
}

func TestSafeRangeMalformedFallsBack(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, loc)

	start, end := SafeRange("not-a-date", "also-bad", loc, now)

	if start.Day() != 8 {
		t.Fatalf("malformed start should fall back to now-7d, got %v", start)
	}
	if end.Day() != 15 {
		t.Fatalf("malformed end should fall back to now, got %v", end)
	}
}

func TestSafeRangeExplicit(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, loc)

	start, end := SafeRange("2025-01-10", "2025-01-12", loc, now)

	if start.Day() != 10 || start.Hour() != 0 {
		t.Fatalf("start=%v", start)
	}
	if end.Day() != 12 || end.Hour() != 23 {
		t.Fatalf("end=%v", end)
	}
}

func TestParseTimeFormats(t *testing.T) {
	loc := time.UTC
	cases := []string{
		"2025-06-15",
		"2025-06-15 10:00:00",
		"2025-06-15T10:00:00",
		"2025-06-15T10:00:00Z",
	}
	for _, in := range cases {
		if _, ok := ParseTime(in, loc); !ok {
			t.Fatalf("ParseTime(%q) failed", in)
		}
	}
	if _, ok := ParseTime("15/06/2025", loc); ok {
		t.Fatal("unexpected parse success for unsupported layout")
	}
}
