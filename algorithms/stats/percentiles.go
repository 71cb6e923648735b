package stats

import (
	"math"
	"sort"
)

// Order-statistic helpers shared by the light-curve feature extractors.
//
// Percentiles use linear interpolation between closest ranks at position
// h = (n-1)*p (the numpy/scipy "linear" convention, R-7). Feature values
// computed here have to stay comparable with catalogs produced by the
// survey's earlier tooling, which used that convention throughout.
//
// References:
//   - Hyndman, R.J., Fan, Y. (1996). "Sample Quantiles in Statistical Packages"
//   - Richards, J.W., et al. (2011). "On Machine-Learned Classification of
//     Variable Stars with Sparse and Noisy Time-Series Data"

// PercentileOfSorted returns the pct-th percentile (0..100) of data already
// sorted ascending. A single element is its own percentile for any pct, and
// an empty slice yields NaN.
func PercentileOfSorted(sorted []float64, pct float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	h := float64(n-1) * pct / 100.0
	lower := int(math.Floor(h))
	upper := int(math.Ceil(h))
	if lower < 0 {
		lower = 0
	}
	if upper > n-1 {
		upper = n - 1
	}
	if lower == upper {
		return sorted[lower]
	}

	weight := h - math.Floor(h)
	return sorted[lower]*(1.0-weight) + sorted[upper]*weight
}

// Percentile returns the pct-th percentile (0..100) of unsorted data.
func Percentile(values []float64, pct float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return PercentileOfSorted(sorted, pct)
}

// Percentiles evaluates several percentiles against a single sorted copy of
// the data, returned in the order requested.
func Percentiles(values []float64, pcts ...float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	out := make([]float64, len(pcts))
	for i, p := range pcts {
		out[i] = PercentileOfSorted(sorted, p)
	}
	return out
}

// Median returns the 50th percentile of unsorted data.
func Median(values []float64) float64 {
	return Percentile(values, 50)
}

// MedianAbsoluteDeviation returns the median of absolute deviations from the
// median, a spread measure robust to the flaring and eclipse excursions that
// distort the plain standard deviation of a variable-star curve.
func MedianAbsoluteDeviation(values []float64) float64 {
	med := Median(values)
	deviations := make([]float64, len(values))
	for i, v := range values {
		deviations[i] = math.Abs(v - med)
	}
	return Median(deviations)
}
