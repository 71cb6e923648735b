package features

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/stellar-sonar/algorithms/lombscargle"
	"github.com/RyanBlaney/stellar-sonar/algorithms/stats"
)

// Canonical column names of the non-periodic features. Spelling quirks
// (Linear_Tren, Percent_Diff_flux_Percentile, Amp_diff) are frozen: they
// are the headers of every persisted feature file and the column keys of
// every trained model.
const (
	nameAmpDif             = "Amp_diff"
	nameBeyond1st          = "Beyond1st"
	nameLinearTrend        = "Linear_Tren"
	nameMaxSlope           = "Max_Slope"
	nameMedianAbsDev       = "Median_Abs_Dev"
	nameMedianBufferRange  = "Median_Buff_Range_Percent"
	namePairSlopeTrend     = "Pair_Slope_Trend"
	namePercentAmplitude   = "Percent_Amplitude"
	namePercentDiffFlux    = "Percent_Diff_flux_Percentile"
	nameSkew               = "Skew"
	nameKurtosis           = "Kurtosis"
	nameStd                = "Stand_Dev"
	nameFluxRatioMid20     = "Flux_Percentile_Ratio_Mid20"
	nameFluxRatioMid35     = "Flux_Percentile_Ratio_Mid35"
	nameFluxRatioMid50     = "Flux_Percentile_Ratio_Mid50"
	nameFluxRatioMid65     = "Flux_Percentile_Ratio_Mid65"
	nameFluxRatioMid80     = "Flux_Percentile_Ratio_Mid80"
)

// pairSlopeWindow bounds how many trailing observations PairSlopeTrend
// looks at.
const pairSlopeWindow = 30

// NonPeriodic computes statistical descriptors of a cleaned light curve.
// Degenerate inputs (constant magnitudes, zero percentile spread) are
// not guarded: divisions by zero propagate as NaN or Inf and are caught
// later by Vector.Validate, so a poisoned column is visible instead of
// silently replaced.
type NonPeriodic struct {
	mags  []float64
	times []float64
}

// NewNonPeriodic returns an extractor over the cleaned series produced
// by the periodogram engine. Times are expected rebased to start at 0.
func NewNonPeriodic(series *lombscargle.CleanedSeries) *NonPeriodic {
	return &NonPeriodic{mags: series.Mags, times: series.Times}
}

// AmplitudeDif returns half the spread between the brightest and
// faintest observation.
func (np *NonPeriodic) AmplitudeDif() Feature {
	value := (floats.Max(np.mags) - floats.Min(np.mags)) / 2.0
	return Feature{Name: nameAmpDif, Value: value}
}

// Beyond1st returns the percentage of observations more than one
// standard deviation away from the mean magnitude.
func (np *NonPeriodic) Beyond1st() Feature {
	mean := stat.Mean(np.mags, nil)
	std := stats.PopulationStd(np.mags)

	beyond := 0
	for _, m := range np.mags {
		if m < mean-std || m > mean+std {
			beyond++
		}
	}
	value := float64(beyond) * 100.0 / float64(len(np.mags))
	return Feature{Name: nameBeyond1st, Value: value}
}

// LinearTrend returns the slope of an ordinary least-squares fit of
// magnitude against time.
func (np *NonPeriodic) LinearTrend() Feature {
	_, slope := stat.LinearRegression(np.times, np.mags, nil, false)
	return Feature{Name: nameLinearTrend, Value: slope}
}

// MaxSlope returns the largest absolute magnitude change rate between
// consecutive observations. Pairs separated by more than the mean
// interval plus one standard deviation are skipped: a jump across a
// sampling gap says nothing about the star.
func (np *NonPeriodic) MaxSlope() Feature {
	maxInterval := np.intervalCutoff()

	maxSlope := 0.0
	for n := 0; n < len(np.times)-1; n++ {
		if np.times[n+1]-np.times[n] < maxInterval {
			s := math.Abs(pairSlope(np.times[n], np.times[n+1], np.mags[n], np.mags[n+1]))
			if s > maxSlope {
				maxSlope = s
			}
		}
	}
	return Feature{Name: nameMaxSlope, Value: maxSlope}
}

// MedianAbsoluteDeviation returns the median discrepancy of the
// magnitudes from their median.
func (np *NonPeriodic) MedianAbsoluteDeviation() Feature {
	return Feature{Name: nameMedianAbsDev, Value: stats.MedianAbsoluteDeviation(np.mags)}
}

// MedianBufferRangePercentage returns the percentage of observations
// within ±10% of the median, the band being scaled by the median value
// itself rather than by the amplitude.
func (np *NonPeriodic) MedianBufferRangePercentage() Feature {
	median := stats.Median(np.mags)
	lower := median - 0.1*median
	upper := median + 0.1*median

	within := 0
	for _, m := range np.mags {
		if m >= lower && m <= upper {
			within++
		}
	}
	value := float64(within) * 100.0 / float64(len(np.mags))
	return Feature{Name: nameMedianBufferRange, Value: value}
}

// PairSlopeTrend returns the percentage of the last min(30, N)
// consecutive observation pairs with rising magnitude. The gap cutoff is
// computed over the whole series, not just the window.
func (np *NonPeriodic) PairSlopeTrend() Feature {
	window := pairSlopeWindow
	if window > len(np.times) {
		window = len(np.times)
	}

	maxInterval := np.intervalCutoff()

	positive := 0
	for n := len(np.times) - window; n < len(np.times)-1; n++ {
		if np.times[n+1]-np.times[n] < maxInterval {
			if pairSlope(np.times[n], np.times[n+1], np.mags[n], np.mags[n+1]) > 0 {
				positive++
			}
		}
	}
	value := float64(positive) * 100.0 / float64(window-1)
	return Feature{Name: namePairSlopeTrend, Value: value}
}

// PercentAmplitude returns the larger of (max-median) and (median-min)
// as a percentage of the full magnitude range.
func (np *NonPeriodic) PercentAmplitude() Feature {
	median := stats.Median(np.mags)
	maxMag := floats.Max(np.mags)
	minMag := floats.Min(np.mags)

	dif := maxMag - median
	if median-minMag > dif {
		dif = median - minMag
	}
	return Feature{Name: namePercentAmplitude, Value: dif * 100.0 / (maxMag - minMag)}
}

// PercentDifferenceFluxPercentile returns the median magnitude as a
// percentage of the 5th-to-95th percentile spread.
func (np *NonPeriodic) PercentDifferenceFluxPercentile() Feature {
	p := stats.Percentiles(np.mags, 5, 95)
	value := stats.Median(np.mags) * 100.0 / (p[1] - p[0])
	return Feature{Name: namePercentDiffFlux, Value: value}
}

// Skew returns the Fisher-Pearson skewness of the magnitudes.
func (np *NonPeriodic) Skew() Feature {
	return Feature{Name: nameSkew, Value: stats.Skewness(np.mags)}
}

// Kurtosis returns the excess kurtosis of the magnitudes.
func (np *NonPeriodic) Kurtosis() Feature {
	return Feature{Name: nameKurtosis, Value: stats.ExcessKurtosis(np.mags)}
}

// Std returns the population standard deviation of the magnitudes.
func (np *NonPeriodic) Std() Feature {
	return Feature{Name: nameStd, Value: stats.PopulationStd(np.mags)}
}

// FluxPercentileRatioMid20 returns the 40-60 percentile spread over the
// 5-95 spread.
func (np *NonPeriodic) FluxPercentileRatioMid20() Feature {
	return Feature{Name: nameFluxRatioMid20, Value: np.fluxPercentileRatio(40, 60)}
}

// FluxPercentileRatioMid35 returns the 32.5-67.5 percentile spread over
// the 5-95 spread.
func (np *NonPeriodic) FluxPercentileRatioMid35() Feature {
	return Feature{Name: nameFluxRatioMid35, Value: np.fluxPercentileRatio(32.5, 67.5)}
}

// FluxPercentileRatioMid50 returns the 25-75 percentile spread over the
// 5-95 spread.
func (np *NonPeriodic) FluxPercentileRatioMid50() Feature {
	return Feature{Name: nameFluxRatioMid50, Value: np.fluxPercentileRatio(25, 75)}
}

// FluxPercentileRatioMid65 returns the 17.5-82.5 percentile spread over
// the 5-95 spread.
func (np *NonPeriodic) FluxPercentileRatioMid65() Feature {
	return Feature{Name: nameFluxRatioMid65, Value: np.fluxPercentileRatio(17.5, 82.5)}
}

// FluxPercentileRatioMid80 returns the 10-90 percentile spread over the
// 5-95 spread.
func (np *NonPeriodic) FluxPercentileRatioMid80() Feature {
	return Feature{Name: nameFluxRatioMid80, Value: np.fluxPercentileRatio(10, 90)}
}

func (np *NonPeriodic) fluxPercentileRatio(lower, upper float64) float64 {
	p := stats.Percentiles(np.mags, lower, upper, 5, 95)
	return (p[1] - p[0]) / (p[3] - p[2])
}

// intervalCutoff returns the gap size beyond which a pair of consecutive
// observations is ignored by the slope features.
func (np *NonPeriodic) intervalCutoff() float64 {
	intervals := make([]float64, len(np.times)-1)
	for n := range intervals {
		intervals[n] = np.times[n+1] - np.times[n]
	}
	return stat.Mean(intervals, nil) + stats.PopulationStd(intervals)
}

func pairSlope(t1, t2, m1, m2 float64) float64 {
	return (m2 - m1) / (t2 - t1)
}
