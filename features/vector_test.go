package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/stellar-sonar/algorithms/lombscargle"
)

// canonicalNames is the frozen column order of persisted feature files.
var canonicalNames = []string{
	"Fund_Freq_0", "Fund_Amp_0", "Amp_Harm_0", "Amp_Harm_1", "Amp_Harm_2", "Amp_Harm_3",
	"Fund_Freq_1", "Fund_Amp_1", "Amp_Harm_0", "Amp_Harm_1", "Amp_Harm_2", "Amp_Harm_3",
	"Fund_Freq_2", "Fund_Amp_2", "Amp_Harm_0", "Amp_Harm_1", "Amp_Harm_2", "Amp_Harm_3",
	"Freq_Offset",
	"Amp_diff", "Beyond1st", "Linear_Tren", "Max_Slope", "Median_Abs_Dev",
	"Median_Buff_Range_Percent", "Pair_Slope_Trend", "Percent_Amplitude",
	"Percent_Diff_flux_Percentile", "Skew", "Kurtosis", "Stand_Dev",
	"Flux_Percentile_Ratio_Mid20", "Flux_Percentile_Ratio_Mid35",
	"Flux_Percentile_Ratio_Mid50", "Flux_Percentile_Ratio_Mid65",
	"Flux_Percentile_Ratio_Mid80",
}

func sinusoidCurve(n int, f0, span float64) (times, mags []float64) {
	times = make([]float64, n)
	mags = make([]float64, n)
	for i := range times {
		times[i] = span * float64(i) / float64(n-1)
		mags[i] = 12.0 + 0.5*math.Sin(2.0*math.Pi*f0*times[i])
	}
	return times, mags
}

func TestAssembleProducesFixedColumnOrder(t *testing.T) {
	times, mags := sinusoidCurve(300, 0.4, 90)

	extractor := NewExtractor(lombscargle.Properties{
		FirstFreq:       0.01,
		MaxFreqToSeek:   3.0,
		FreqSampleCount: 300,
		NumPeaks:        3,
	})

	vec, err := extractor.Extract(times, mags)
	require.NoError(t, err)

	require.Len(t, vec, FeatureCount)
	require.Equal(t, 36, FeatureCount)
	assert.Equal(t, canonicalNames, vec.Names())
	assert.NoError(t, vec.Validate())

	values := vec.Values()
	require.Len(t, values, FeatureCount)
	for i, f := range vec {
		assert.Equal(t, f.Value, values[i])
	}
}

func TestNamesMatchAssembledVector(t *testing.T) {
	names := Names()
	require.Len(t, names, FeatureCount)
	assert.Equal(t, canonicalNames, names)
}

func TestAssembleFailsWithTooFewPeaks(t *testing.T) {
	spectrum := &lombscargle.Spectrum{
		Power:       []float64{1, 5, 2, 4},
		FirstFreq:   0,
		MaxFreq:     4,
		SampleCount: 4,
	}
	periodic := NewPeriodic(spectrum, 2)
	nonPeriodic := NewNonPeriodic(&lombscargle.CleanedSeries{
		Times: []float64{0, 1, 2, 3},
		Mags:  []float64{1, 2, 1, 2},
	})

	_, err := Assemble(periodic, nonPeriodic)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestVectorValidateFlagsNonFiniteColumns(t *testing.T) {
	vec := Vector{
		{Name: "Fund_Freq_0", Value: 1.5},
		{Name: "Skew", Value: math.NaN()},
		{Name: "Percent_Diff_flux_Percentile", Value: math.Inf(1)},
	}

	err := vec.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Skew")
	assert.Contains(t, err.Error(), "Percent_Diff_flux_Percentile")
	assert.NotContains(t, err.Error(), "Fund_Freq_0")
}

func TestEmptyVectorIsValidSentinel(t *testing.T) {
	var vec Vector

	assert.NoError(t, vec.Validate())
	assert.Empty(t, vec.Values())
	assert.Empty(t, vec.Names())
}
