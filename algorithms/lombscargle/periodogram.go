// Package lombscargle computes Lomb-Scargle periodograms of unevenly
// sampled light curves by direct evaluation over a linear frequency grid.
//
// The direct method handles the irregular cadence of survey photometry
// without interpolation, at O(grid size x observations) cost. Power is
// computed from the mean-subtracted signal and normalized by the sample
// variance, so a pure sinusoid scores close to N/2 regardless of its
// amplitude.
//
// References:
//   - Lomb, N.R. (1976). "Least-squares frequency analysis of unequally
//     spaced data". Astrophysics and Space Science 39, 447-462.
//   - Scargle, J.D. (1982). "Studies in astronomical time series analysis
//     II". The Astrophysical Journal 263, 835-853.
//   - Richards, J.W. et al. (2011). "On machine-learned classification of
//     variable stars with sparse and noisy time-series data". The
//     Astrophysical Journal 733, 10.
package lombscargle

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Error kinds reported by the engine. Callers match them with errors.Is
// and treat any of them as "skip this star", not as a run-level failure.
var (
	// ErrInvalidInput flags series the engine cannot interpret at all:
	// mismatched slice lengths or fewer than two observations.
	ErrInvalidInput = errors.New("invalid input series")

	// ErrInsufficientData flags series left with fewer than four
	// observations after leading-outlier rejection.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDegenerateTimeSpan flags series whose valid observations all
	// share one timestamp, which leaves no time base to resolve.
	ErrDegenerateTimeSpan = errors.New("degenerate time span")
)

// minObservations is the fewest cleaned samples a spectrum needs. Below
// this the sinusoid fit is underdetermined.
const minObservations = 4

// gridStartFreq anchors the low end of the search grid. Zero is excluded
// because the power expression divides by the angular frequency.
const gridStartFreq = 0.01

// Spectrum is an immutable periodogram result. Power[i] is the normalized
// Lomb-Scargle power of grid frequency i; the remaining fields record the
// geometry the feature extractors need to map bin indices back to
// frequencies.
type Spectrum struct {
	Power       []float64
	FirstFreq   float64
	MaxFreq     float64
	SampleCount int
}

// CleanedSeries is the input series after leading-outlier rejection, with
// times rebased so the first valid observation sits at zero.
type CleanedSeries struct {
	Times []float64
	Mags  []float64
}

// LombScargle evaluates periodograms under a fixed set of Properties.
type LombScargle struct {
	props Properties
}

// New returns an engine bound to the given search settings.
func New(props Properties) *LombScargle {
	return &LombScargle{props: props}
}

// Props returns the settings the engine was built with.
func (ls *LombScargle) Props() Properties {
	return ls.props
}

// RejectLeadingOutliers locates the first observation whose timestamp is
// consistent with the bulk cadence of the series. Bad header rows in
// survey photometry show up as one or two wildly early timestamps; a
// large leading gap inflates the apparent time span and drags the whole
// frequency grid down.
//
// The scan compares the running mean of the inter-observation gaps with
// the mean of the remaining gaps and stops as soon as the two agree
// within ten percent. Well behaved series stop immediately, returning 0.
func RejectLeadingOutliers(times []float64) (int, error) {
	if len(times) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 observations, got %d", ErrInvalidInput, len(times))
	}

	gaps := make([]float64, len(times)-1)
	for i := range gaps {
		gaps[i] = times[i+1] - times[i]
	}

	mean := stat.Mean(gaps, nil)
	for i := 1; i < len(gaps); i++ {
		rest := stat.Mean(gaps[i:], nil)
		if mean > 0.9*rest && mean < 1.1*rest {
			return i - 1, nil
		}
		mean = rest
	}
	return 0, nil
}

// Compute evaluates the periodogram of one light curve. It returns the
// spectrum together with the cleaned, rebased series so the non-periodic
// extractor can run on exactly the observations the spectrum saw.
//
// The frequency grid spans [0.01, maxFreq] inclusive, where maxFreq is
// the larger of half the mean sampling frequency and MaxFreqToSeek.
func (ls *LombScargle) Compute(times, mags []float64) (*Spectrum, *CleanedSeries, error) {
	if len(times) != len(mags) {
		return nil, nil, fmt.Errorf("%w: %d times vs %d magnitudes", ErrInvalidInput, len(times), len(mags))
	}

	first, err := RejectLeadingOutliers(times)
	if err != nil {
		return nil, nil, err
	}

	cleaned := &CleanedSeries{
		Times: make([]float64, len(times)-first),
		Mags:  make([]float64, len(mags)-first),
	}
	for i := first; i < len(times); i++ {
		cleaned.Times[i-first] = times[i] - times[first]
	}
	copy(cleaned.Mags, mags[first:])

	if len(cleaned.Mags) < minObservations {
		return nil, nil, fmt.Errorf("%w: %d observations after cleaning, need %d",
			ErrInsufficientData, len(cleaned.Mags), minObservations)
	}

	span := cleaned.Times[len(cleaned.Times)-1]
	if span == 0 {
		return nil, nil, fmt.Errorf("%w: all valid observations share timestamp %g",
			ErrDegenerateTimeSpan, times[first])
	}

	sampleFreq := float64(len(times)-1-first) / span
	maxFreq := sampleFreq / 2.0
	if ls.props.MaxFreqToSeek > maxFreq {
		maxFreq = ls.props.MaxFreqToSeek
	}

	freqs := linspace(gridStartFreq, maxFreq, ls.props.FreqSampleCount)
	power := periodogramPower(cleaned.Times, cleaned.Mags, freqs)

	return &Spectrum{
		Power:       power,
		FirstFreq:   ls.props.FirstFreq,
		MaxFreq:     maxFreq,
		SampleCount: ls.props.FreqSampleCount,
	}, cleaned, nil
}

// periodogramPower evaluates the normalized Lomb-Scargle power at each
// frequency. The phase offset tau makes the sine and cosine terms of the
// fit independent, which is what lets the two quotients be summed.
func periodogramPower(times, mags, freqs []float64) []float64 {
	mean := stat.Mean(mags, nil)
	variance := stat.Variance(mags, nil)

	centered := make([]float64, len(mags))
	for i, m := range mags {
		centered[i] = m - mean
	}

	power := make([]float64, len(freqs))
	for k, f := range freqs {
		omega := 2.0 * math.Pi * f

		var sin2, cos2 float64
		for _, t := range times {
			sin2 += math.Sin(2.0 * omega * t)
			cos2 += math.Cos(2.0 * omega * t)
		}
		tau := math.Atan2(sin2, cos2) / (2.0 * omega)

		var cy, cc, sy, ss float64
		for i, t := range times {
			arg := omega * (t - tau)
			c := math.Cos(arg)
			s := math.Sin(arg)
			cy += centered[i] * c
			cc += c * c
			sy += centered[i] * s
			ss += s * s
		}
		power[k] = (cy*cy/cc + sy*sy/ss) / (2.0 * variance)
	}
	return power
}

// linspace returns count samples spaced evenly over [start, stop], both
// endpoints included.
func linspace(start, stop float64, count int) []float64 {
	if count < 2 {
		return []float64{start}
	}
	out := make([]float64, count)
	step := (stop - start) / float64(count-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[count-1] = stop
	return out
}
