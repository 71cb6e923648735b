package features

import (
	"fmt"
	"math"
	"strings"
)

// fundamentalCount is how many fundamental frequencies contribute to the
// vector. Together with the four harmonic slots and the offset this
// fixes the periodic block at 19 entries.
const fundamentalCount = 3

// FeatureCount is the length of every assembled vector: 3 fundamentals
// x (frequency + amplitude + 4 harmonics) + spectrum floor offset + 17
// non-periodic descriptors.
const FeatureCount = fundamentalCount*(2+harmonicCount) + 1 + 17

// Feature is one named scalar of the classification vector.
type Feature struct {
	Name  string
	Value float64
}

// Vector is the ordered feature set of one star in one filter. The
// order is a contract: persisted feature files and trained models index
// columns by position, so it never changes. A nil or empty Vector is
// the sentinel for a star whose extraction failed.
type Vector []Feature

// Assemble concatenates the periodic and non-periodic features in the
// canonical column order.
func Assemble(periodic *Periodic, nonPeriodic *NonPeriodic) (Vector, error) {
	vec := make(Vector, 0, FeatureCount)

	for n := 0; n < fundamentalCount; n++ {
		freq, err := periodic.FundamentalFrequency(n)
		if err != nil {
			return nil, err
		}
		vec = append(vec, freq)

		amp, err := periodic.Amplitude(n)
		if err != nil {
			return nil, err
		}
		vec = append(vec, amp)

		harms, err := periodic.HarmonicAmplitudes(n)
		if err != nil {
			return nil, err
		}
		vec = append(vec, harms...)
	}

	vec = append(vec, periodic.SpectrumFloorOffset())

	vec = append(vec,
		nonPeriodic.AmplitudeDif(),
		nonPeriodic.Beyond1st(),
		nonPeriodic.LinearTrend(),
		nonPeriodic.MaxSlope(),
		nonPeriodic.MedianAbsoluteDeviation(),
		nonPeriodic.MedianBufferRangePercentage(),
		nonPeriodic.PairSlopeTrend(),
		nonPeriodic.PercentAmplitude(),
		nonPeriodic.PercentDifferenceFluxPercentile(),
		nonPeriodic.Skew(),
		nonPeriodic.Kurtosis(),
		nonPeriodic.Std(),
		nonPeriodic.FluxPercentileRatioMid20(),
		nonPeriodic.FluxPercentileRatioMid35(),
		nonPeriodic.FluxPercentileRatioMid50(),
		nonPeriodic.FluxPercentileRatioMid65(),
		nonPeriodic.FluxPercentileRatioMid80(),
	)

	return vec, nil
}

// Names returns the canonical column names of an assembled vector. The
// feature-file writer uses it for headers so they exist even when every
// extraction in a run failed.
func Names() []string {
	names := make([]string, 0, FeatureCount)
	for n := 0; n < fundamentalCount; n++ {
		names = append(names, fmt.Sprintf("%s%d", fundFreqPrefix, n))
		names = append(names, fmt.Sprintf("%s%d", fundAmpPrefix, n))
		for h := 0; h < harmonicCount; h++ {
			names = append(names, fmt.Sprintf("%s%d", ampHarmPrefix, h))
		}
	}
	names = append(names, freqOffsetName)
	return append(names,
		nameAmpDif,
		nameBeyond1st,
		nameLinearTrend,
		nameMaxSlope,
		nameMedianAbsDev,
		nameMedianBufferRange,
		namePairSlopeTrend,
		namePercentAmplitude,
		namePercentDiffFlux,
		nameSkew,
		nameKurtosis,
		nameStd,
		nameFluxRatioMid20,
		nameFluxRatioMid35,
		nameFluxRatioMid50,
		nameFluxRatioMid65,
		nameFluxRatioMid80,
	)
}

// Values returns the bare numeric vector in column order.
func (v Vector) Values() []float64 {
	values := make([]float64, len(v))
	for i, f := range v {
		values[i] = f.Value
	}
	return values
}

// Names returns the column names in order.
func (v Vector) Names() []string {
	names := make([]string, len(v))
	for i, f := range v {
		names[i] = f.Name
	}
	return names
}

// Validate reports the columns holding NaN or Inf. Degenerate light
// curves (constant magnitudes, zero percentile spread) poison some
// formulas; the pipeline lets those values propagate and relies on this
// check to surface them before training.
func (v Vector) Validate() error {
	var bad []string
	for _, f := range v {
		if math.IsNaN(f.Value) || math.IsInf(f.Value, 0) {
			bad = append(bad, f.Name)
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("non-finite feature values: %s", strings.Join(bad, ", "))
	}
	return nil
}
