package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RyanBlaney/stellar-sonar/algorithms/lombscargle"
)

// rampSeries is a symmetric rise-and-fall curve over a strictly regular
// cadence. Every expectation below is derived by hand from it.
func rampSeries() *NonPeriodic {
	return NewNonPeriodic(&lombscargle.CleanedSeries{
		Times: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		Mags:  []float64{1, 2, 3, 4, 5, 5, 4, 3, 2, 1},
	})
}

func TestNonPeriodicDistributionFeatures(t *testing.T) {
	np := rampSeries()

	tests := []struct {
		name string
		feat Feature
		want float64
	}{
		{"amplitude dif", np.AmplitudeDif(), 2.0},
		{"beyond one std", np.Beyond1st(), 40.0},
		{"median absolute deviation", np.MedianAbsoluteDeviation(), 1.0},
		{"median buffer range", np.MedianBufferRangePercentage(), 20.0},
		{"percent amplitude", np.PercentAmplitude(), 50.0},
		{"percent difference flux percentile", np.PercentDifferenceFluxPercentile(), 75.0},
		{"population std", np.Std(), math.Sqrt2},
		{"flux ratio mid20", np.FluxPercentileRatioMid20(), 0.2},
		{"flux ratio mid35", np.FluxPercentileRatioMid35(), 0.5},
		{"flux ratio mid50", np.FluxPercentileRatioMid50(), 0.5},
		{"flux ratio mid65", np.FluxPercentileRatioMid65(), 0.7125},
		{"flux ratio mid80", np.FluxPercentileRatioMid80(), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.feat.Value, 1e-9)
		})
	}
}

func TestNonPeriodicSymmetricSeriesHasNoTrend(t *testing.T) {
	np := rampSeries()

	assert.InDelta(t, 0.0, np.LinearTrend().Value, 1e-12)
	assert.InDelta(t, 0.0, np.Skew().Value, 1e-12)
	assert.InDelta(t, -1.3, np.Kurtosis().Value, 1e-9)
}

func TestNonPeriodicSlopesOnPerfectlyRegularCadence(t *testing.T) {
	// With every interval identical the cutoff equals the interval, the
	// strict comparison admits no pair, and both slope features are 0.
	np := rampSeries()

	assert.Zero(t, np.MaxSlope().Value)
	assert.Zero(t, np.PairSlopeTrend().Value)
}

func TestNonPeriodicSlopesSkipSamplingGaps(t *testing.T) {
	np := NewNonPeriodic(&lombscargle.CleanedSeries{
		Times: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 108},
		Mags:  []float64{0, 1, 3, 6, 2, 8, 4, 9, 5, 10000},
	})

	// The final pair jumps 9995 magnitudes across a 100-unit gap. The
	// gap exceeds mean+std of the intervals, so the pair is ignored and
	// the steepest admissible slope is the 2->8 rise.
	assert.InDelta(t, 6.0, np.MaxSlope().Value, 1e-9)

	// Window covers all 9 pairs; 5 admissible pairs rise.
	assert.InDelta(t, 500.0/9.0, np.PairSlopeTrend().Value, 1e-9)
}

func TestNonPeriodicConstantSeries(t *testing.T) {
	np := NewNonPeriodic(&lombscargle.CleanedSeries{
		Times: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		Mags:  []float64{7, 7, 7, 7, 7, 7, 7, 7, 7, 7},
	})

	assert.Zero(t, np.Std().Value)
	assert.Zero(t, np.Beyond1st().Value)
	assert.Zero(t, np.AmplitudeDif().Value)
	assert.Zero(t, np.MedianAbsoluteDeviation().Value)
	assert.Equal(t, 100.0, np.MedianBufferRangePercentage().Value)

	// Zero spread poisons the ratio features; the values propagate as
	// NaN/Inf and are caught by Vector.Validate, not masked here.
	assert.True(t, math.IsNaN(np.Skew().Value))
	assert.True(t, math.IsNaN(np.Kurtosis().Value))
	assert.True(t, math.IsNaN(np.PercentAmplitude().Value))
	assert.True(t, math.IsInf(np.PercentDifferenceFluxPercentile().Value, 1))
	assert.True(t, math.IsNaN(np.FluxPercentileRatioMid50().Value))
}

func TestNonPeriodicFeatureNames(t *testing.T) {
	np := rampSeries()

	assert.Equal(t, "Amp_diff", np.AmplitudeDif().Name)
	assert.Equal(t, "Beyond1st", np.Beyond1st().Name)
	assert.Equal(t, "Linear_Tren", np.LinearTrend().Name)
	assert.Equal(t, "Max_Slope", np.MaxSlope().Name)
	assert.Equal(t, "Median_Abs_Dev", np.MedianAbsoluteDeviation().Name)
	assert.Equal(t, "Median_Buff_Range_Percent", np.MedianBufferRangePercentage().Name)
	assert.Equal(t, "Pair_Slope_Trend", np.PairSlopeTrend().Name)
	assert.Equal(t, "Percent_Amplitude", np.PercentAmplitude().Name)
	assert.Equal(t, "Percent_Diff_flux_Percentile", np.PercentDifferenceFluxPercentile().Name)
	assert.Equal(t, "Skew", np.Skew().Name)
	assert.Equal(t, "Kurtosis", np.Kurtosis().Name)
	assert.Equal(t, "Stand_Dev", np.Std().Name)
	assert.Equal(t, "Flux_Percentile_Ratio_Mid20", np.FluxPercentileRatioMid20().Name)
	assert.Equal(t, "Flux_Percentile_Ratio_Mid80", np.FluxPercentileRatioMid80().Name)
}
