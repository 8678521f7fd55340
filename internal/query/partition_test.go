package query

import (
	"testing"
	"time"
)

func TestSpectrumPartition(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		ts   time.Time
		want string
	}{
		{
			name: "current_month_uses_live_table",
			ts:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			want: "plg_onto_spectrum",
		},
		{
			name: "previous_month",
			ts:   time.Date(2025, 5, 31, 23, 59, 59, 0, time.UTC),
			want: "plg_onto_spectrum_y2025m05",
		},
		{
			name: "old_year",
			ts:   time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			want: "plg_onto_spectrum_y2023m12",
		},
		{
			name: "same_month_different_year",
			ts:   time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			want: "plg_onto_spectrum_y2024m06",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SpectrumPartition(tc.ts, now)
			if got != tc.want {
				t.Fatalf("SpectrumPartition(%v)=%q, want %q", tc.ts, got, tc.want)
			}
		})
	}
}
