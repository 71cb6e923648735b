package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Distribution-shape measures for magnitude series. All of these use the
// biased (population) estimators: classifier features trained on the
// original survey catalogs were computed that way, and mixing estimator
// conventions would shift every persisted feature column.

// PopulationStd returns the population standard deviation (dividing by n,
// not n-1).
func PopulationStd(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.PopStdDev(values, nil)
}

// Skewness returns the biased Fisher-Pearson skewness coefficient
// g1 = m3 / m2^(3/2), with m2 and m3 population central moments.
func Skewness(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m2 := stat.Moment(2, values, nil)
	m3 := stat.Moment(3, values, nil)
	return m3 / math.Pow(m2, 1.5)
}

// ExcessKurtosis returns the biased excess kurtosis g2 = m4/m2^2 - 3,
// zero for a normal distribution.
func ExcessKurtosis(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m2 := stat.Moment(2, values, nil)
	m4 := stat.Moment(4, values, nil)
	return m4/(m2*m2) - 3.0
}
