package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentileLinearInterpolation(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		name string
		pct  float64
		want float64
	}{
		{"min", 0, 1},
		{"p5", 5, 1.2},
		{"q1 lands on rank", 25, 2},
		{"median", 50, 3},
		{"q3 lands on rank", 75, 4},
		{"p95 interpolates", 95, 4.8},
		{"max", 100, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentile(data, tt.pct), 1e-12)
		})
	}
}

func TestPercentileUnsortedInputUnchanged(t *testing.T) {
	data := []float64{5, 1, 4, 2, 3}

	got := Percentile(data, 50)

	assert.InDelta(t, 3.0, got, 1e-12)
	assert.Equal(t, []float64{5, 1, 4, 2, 3}, data, "input must not be reordered")
}

func TestPercentileEdgeCases(t *testing.T) {
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
	assert.InDelta(t, 7.0, Percentile([]float64{7}, 0), 1e-12)
	assert.InDelta(t, 7.0, Percentile([]float64{7}, 95), 1e-12)
}

func TestPercentilesMatchesSingleCalls(t *testing.T) {
	data := []float64{0.3, 1.8, -2.5, 4.1, 0.0, 2.2, -1.1}
	pcts := []float64{5, 17.5, 32.5, 50, 67.5, 82.5, 95}

	batch := Percentiles(data, pcts...)

	require.Len(t, batch, len(pcts))
	for i, p := range pcts {
		assert.InDelta(t, Percentile(data, p), batch[i], 1e-12)
	}
}

func TestMedian(t *testing.T) {
	assert.InDelta(t, 2.0, Median([]float64{3, 1, 2}), 1e-12)
	assert.InDelta(t, 2.5, Median([]float64{4, 1, 3, 2}), 1e-12)
}

func TestMedianAbsoluteDeviation(t *testing.T) {
	// median 2, absolute deviations {1,1,0,0,2,4,7} -> median 1
	data := []float64{1, 1, 2, 2, 4, 6, 9}
	assert.InDelta(t, 1.0, MedianAbsoluteDeviation(data), 1e-12)
}

func TestMedianAbsoluteDeviationConstantSeries(t *testing.T) {
	data := []float64{5, 5, 5, 5}
	assert.InDelta(t, 0.0, MedianAbsoluteDeviation(data), 1e-12)
}
