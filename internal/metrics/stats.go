package metrics

// Stats is the per-metric aggregate bundle returned by the statistics
// endpoint. StdDev is the sample standard deviation; the aggregation
// itself runs in SQL, only the derived values are computed here.
type Stats struct {
	Max           float64 `json:"max"`
	Min           float64 `json:"min"`
	Range         float64 `json:"range"`
	Mean          float64 `json:"mean"`
	StdDev        float64 `json:"stdDev"`
	PercentStdDev float64 `json:"percentStdDev"`
	PercentNonU   float64 `json:"percentNonU"`
}

// Derive fills in range and the percent-of-mean uniformity figures.
// A zero mean yields zero percentages rather than a division blowup.
func Derive(max, min, mean, stdDev float64) Stats {
	s := Stats{
		Max:    max,
		Min:    min,
		Range:  max - min,
		Mean:   mean,
		StdDev: stdDev,
	}
	if mean != 0 {
		s.PercentStdDev = stdDev / mean * 100
		s.PercentNonU = s.Range / (2 * mean) * 100
	}
	return s
}

// OpticalSummary condenses one spectrum into the optical-trend derived
// quantities. Zero-length inputs produce all zeros.
type OpticalSummary struct {
	TotalIntensity float64 `json:"totalIntensity"`
	PeakIntensity  float64 `json:"peakIntensity"`
	PeakWavelength float64 `json:"peakWavelength"`
	DarkNoise      float64 `json:"darkNoise"`
}

func Summarize(wavelengths, values []float64) OpticalSummary {
	if len(values) == 0 {
		return OpticalSummary{}
	}
	total := 0.0
	maxVal := values[0]
	minVal := values[0]
	maxIdx := 0
	for i, v := range values {
		total += v
		if v > maxVal {
			maxVal = v
			maxIdx = i
		}
		if v < minVal {
			minVal = v
		}
	}
	peakWavelength := 0.0
	if maxIdx < len(wavelengths) {
		peakWavelength = wavelengths[maxIdx]
	}
	return OpticalSummary{
		TotalIntensity: total,
		PeakIntensity:  maxVal,
		PeakWavelength: peakWavelength,
		DarkNoise:      minVal,
	}
}
