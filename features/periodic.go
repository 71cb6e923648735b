// Package features derives the classification features of a variable
// star from its periodogram and its cleaned light curve. Periodic
// features describe the dominant frequencies and their harmonics;
// non-periodic features describe the magnitude distribution and its
// short-term structure. Assemble concatenates both groups into the
// fixed 36-value vector the classifiers consume.
//
// References:
//   - Debosscher, J. et al. (2007). "Automated supervised classification
//     of variable stars". Astronomy & Astrophysics 475, 1159-1183.
//   - Richards, J.W. et al. (2011). "On machine-learned classification of
//     variable stars with sparse and noisy time-series data". The
//     Astrophysical Journal 733, 10.
package features

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/stellar-sonar/algorithms/lombscargle"
)

// ErrIndexOutOfRange flags a request for a peak, fundamental or spectrum
// bin beyond what was computed. Unlike the engine's data-quality errors
// this one signals a configuration or programming mistake.
var ErrIndexOutOfRange = errors.New("index out of range")

// Feature name prefixes. The full name carries the fundamental's ordinal
// (Fund_Freq_0, Fund_Amp_2). Harmonic names repeat per fundamental; the
// column position, not the name, identifies which fundamental they
// belong to. These strings are a persistence contract shared with saved
// feature files and trained models.
const (
	fundFreqPrefix = "Fund_Freq_"
	fundAmpPrefix  = "Fund_Amp_"
	ampHarmPrefix  = "Amp_Harm_"
	freqOffsetName = "Freq_Offset"
)

// harmonicCount is the number of harmonic amplitude slots reported per
// fundamental, counting the fundamental's own bin as the first slot.
const harmonicCount = 4

// Periodic extracts frequency-domain features from one spectrum. The
// peak set is located once at construction; every accessor after that is
// a read-only lookup.
type Periodic struct {
	spectrum *lombscargle.Spectrum
	peaks    []int
	numPeaks int
}

// NewPeriodic locates the numPeaks strongest spectrum bins and returns
// an extractor over them.
func NewPeriodic(spectrum *lombscargle.Spectrum, numPeaks int) *Periodic {
	return &Periodic{
		spectrum: spectrum,
		peaks:    lombscargle.FindPeaks(spectrum.Power, numPeaks),
		numPeaks: numPeaks,
	}
}

// Peaks returns the located peak indices, strongest first.
func (p *Periodic) Peaks() []int {
	out := make([]int, len(p.peaks))
	copy(out, p.peaks)
	return out
}

// FrequencyAt translates a spectrum bin index to a frequency. The
// translation divides the frequency range by the sample count, not by
// count-1, and anchors at the configured FirstFreq rather than the bin-0
// grid frequency. Both quirks are part of the model contract: features
// were trained against this mapping and must keep reproducing it.
func (p *Periodic) FrequencyAt(index int) (float64, error) {
	if index < 0 || index >= len(p.spectrum.Power) {
		return 0, fmt.Errorf("%w: bin %d outside spectrum [0:%d]",
			ErrIndexOutOfRange, index, len(p.spectrum.Power))
	}
	interval := (p.spectrum.MaxFreq - p.spectrum.FirstFreq) / float64(p.spectrum.SampleCount)
	return p.spectrum.FirstFreq + float64(index)*interval, nil
}

// FundamentalFrequency returns the frequency of the n-th strongest peak.
func (p *Periodic) FundamentalFrequency(n int) (Feature, error) {
	if err := p.checkPeak(n); err != nil {
		return Feature{}, err
	}
	freq, err := p.FrequencyAt(p.peaks[n])
	if err != nil {
		return Feature{}, err
	}
	return Feature{Name: fmt.Sprintf("%s%d", fundFreqPrefix, n), Value: freq}, nil
}

// Amplitude returns the raw spectral power at the n-th strongest peak.
func (p *Periodic) Amplitude(n int) (Feature, error) {
	if err := p.checkPeak(n); err != nil {
		return Feature{}, err
	}
	return Feature{
		Name:  fmt.Sprintf("%s%d", fundAmpPrefix, n),
		Value: p.spectrum.Power[p.peaks[n]],
	}, nil
}

// HarmonicAmplitudes returns the power at the first four harmonic
// positions of the n-th fundamental. Harmonic h lives at bin index
// peak*(h+1): the scaling is by bin position, not by frequency value,
// which is how the training catalogs were produced. Harmonics that
// fall past the end of the spectrum are reported as zero so the vector
// always carries exactly four slots per fundamental.
func (p *Periodic) HarmonicAmplitudes(n int) ([]Feature, error) {
	if err := p.checkPeak(n); err != nil {
		return nil, err
	}

	harms := make([]Feature, harmonicCount)
	for h := 0; h < harmonicCount; h++ {
		index := p.peaks[n] * (h + 1)
		value := 0.0
		if index < len(p.spectrum.Power) {
			value = p.spectrum.Power[index]
		}
		harms[h] = Feature{
			Name:  fmt.Sprintf("%s%d", ampHarmPrefix, h),
			Value: value,
		}
	}
	return harms, nil
}

// SpectrumFloorOffset returns the minimum power across the spectrum,
// used as a baseline feature for the peak amplitudes.
func (p *Periodic) SpectrumFloorOffset() Feature {
	return Feature{Name: freqOffsetName, Value: floats.Min(p.spectrum.Power)}
}

func (p *Periodic) checkPeak(n int) error {
	if n < 0 || n >= p.numPeaks || n >= len(p.peaks) {
		return fmt.Errorf("%w: fundamental %d, %d peaks located",
			ErrIndexOutOfRange, n, len(p.peaks))
	}
	return nil
}
