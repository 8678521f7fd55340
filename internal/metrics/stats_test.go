package metrics

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDerive(t *testing.T) {
	// values [10, 12, 14]: max=14 min=10 mean=12, sample stddev=2
	s := Derive(14, 10, 12, 2)

	if s.Range != 4 {
		t.Fatalf("range=%v, want 4", s.Range)
	}
	if !almostEqual(s.PercentStdDev, 2.0/12*100) {
		t.Fatalf("percentStdDev=%v", s.PercentStdDev)
	}
	if !almostEqual(s.PercentNonU, 4.0/(2*12)*100) {
		t.Fatalf("percentNonU=%v", s.PercentNonU)
	}
	// both come out ≈16.67
	if math.Abs(s.PercentStdDev-16.666666) > 1e-3 || math.Abs(s.PercentNonU-16.666666) > 1e-3 {
		t.Fatalf("expected ≈16.67, got %v / %v", s.PercentStdDev, s.PercentNonU)
	}
}

func TestDeriveZeroMean(t *testing.T) {
	s := Derive(5, -5, 0, 3)
	if s.PercentStdDev != 0 || s.PercentNonU != 0 {
		t.Fatalf("zero mean must give zero percentages, got %v / %v", s.PercentStdDev, s.PercentNonU)
	}
	if s.Range != 10 {
		t.Fatalf("range=%v, want 10", s.Range)
	}
}

func TestDeriveRangeInvariant(t *testing.T) {
	cases := []struct{ max, min float64 }{
		{14, 10}, {0, 0}, {-1, -7}, {2.5, 2.5},
	}
	for _, tc := range cases {
		s := Derive(tc.max, tc.min, 1, 0)
		if !almostEqual(s.Range, tc.max-tc.min) {
			t.Fatalf("range=%v, want %v", s.Range, tc.max-tc.min)
		}
	}
}

func TestSummarize(t *testing.T) {
	cases := []struct {
		name        string
		wavelengths []float64
		values      []float64
		want        OpticalSummary
	}{
		{
			name:        "normal",
			wavelengths: []float64{400, 500, 600},
			values:      []float64{0.1, 0.5, 0.2},
			want:        OpticalSummary{TotalIntensity: 0.8, PeakIntensity: 0.5, PeakWavelength: 500, DarkNoise: 0.1},
		},
		{
			name: "empty_values_all_zero",
			want: OpticalSummary{},
		},
		{
			name:        "values_longer_than_wavelengths",
			wavelengths: []float64{400},
			values:      []float64{0.1, 0.9},
			want:        OpticalSummary{TotalIntensity: 1.0, PeakIntensity: 0.9, PeakWavelength: 0, DarkNoise: 0.1},
		},
		{
			name:        "negative_floor",
			wavelengths: []float64{400, 500},
			values:      []float64{-0.2, 0.3},
			want:        OpticalSummary{TotalIntensity: 0.1, PeakIntensity: 0.3, PeakWavelength: 500, DarkNoise: -0.2},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Summarize(tc.wavelengths, tc.values)
			if !almostEqual(got.TotalIntensity, tc.want.TotalIntensity) ||
				!almostEqual(got.PeakIntensity, tc.want.PeakIntensity) ||
				!almostEqual(got.PeakWavelength, tc.want.PeakWavelength) ||
				!almostEqual(got.DarkNoise, tc.want.DarkNoise) {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
