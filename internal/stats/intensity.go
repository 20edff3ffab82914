// Package stats provides small numeric summaries for the dashboard
// readouts.
package stats

import (
	"math"
	"sort"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Percentile calculates the p-th percentile (0-100) using linear
// interpolation between closest ranks
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	index := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// ActiveFraction reports the share of values strictly above threshold.
// Used to describe how much of a density grid actually gets painted.
func ActiveFraction(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}

	active := 0
	for _, v := range values {
		if v > threshold {
			active++
		}
	}
	return float64(active) / float64(len(values))
}
