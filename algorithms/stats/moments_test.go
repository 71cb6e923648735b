package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopulationStd(t *testing.T) {
	// mean 5, population variance 32/8 = 4
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.0, PopulationStd(data), 1e-12)
}

func TestPopulationStdConstant(t *testing.T) {
	assert.InDelta(t, 0.0, PopulationStd([]float64{3, 3, 3}), 1e-12)
}

func TestSkewnessSymmetric(t *testing.T) {
	assert.InDelta(t, 0.0, Skewness([]float64{1, 2, 3, 4, 5}), 1e-12)
}

func TestSkewnessRightTail(t *testing.T) {
	// m2 = 3/16, m3 = 3/32 -> g1 = 2/sqrt(3)
	data := []float64{0, 0, 0, 1}
	assert.InDelta(t, 2.0/math.Sqrt(3.0), Skewness(data), 1e-12)
}

func TestExcessKurtosis(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want float64
	}{
		// two-point symmetric distribution has g2 = -2
		{"bernoulli half", []float64{0, 0, 1, 1}, -2.0},
		// m2 = 2, m4 = 6.8 -> 6.8/4 - 3
		{"uniform five", []float64{1, 2, 3, 4, 5}, -1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ExcessKurtosis(tt.data), 1e-12)
		})
	}
}

func TestMomentsOfConstantSeriesAreNaN(t *testing.T) {
	// zero variance: the shape measures divide by m2 and must propagate NaN
	data := []float64{4, 4, 4, 4}
	assert.True(t, math.IsNaN(Skewness(data)))
	assert.True(t, math.IsNaN(ExcessKurtosis(data)))
}
