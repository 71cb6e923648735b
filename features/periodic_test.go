package features

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/stellar-sonar/algorithms/lombscargle"
)

// spectrumOf builds a spectrum whose index-to-frequency translation is
// the identity, which keeps expectations readable.
func spectrumOf(power []float64) *lombscargle.Spectrum {
	return &lombscargle.Spectrum{
		Power:       power,
		FirstFreq:   0,
		MaxFreq:     float64(len(power)),
		SampleCount: len(power),
	}
}

func TestFrequencyAtIsAffineAndMonotonic(t *testing.T) {
	spectrum := &lombscargle.Spectrum{
		Power:       make([]float64, 100),
		FirstFreq:   1.0,
		MaxFreq:     101.0,
		SampleCount: 100,
	}
	p := NewPeriodic(spectrum, 3)

	first, err := p.FrequencyAt(0)
	require.NoError(t, err)
	assert.Equal(t, spectrum.FirstFreq, first)

	prev := first
	for i := 1; i < len(spectrum.Power); i++ {
		freq, err := p.FrequencyAt(i)
		require.NoError(t, err)
		assert.Greater(t, freq, prev)
		prev = freq
	}

	// The interval divides by SampleCount, not SampleCount-1, so the
	// last bin maps below MaxFreq.
	last, err := p.FrequencyAt(99)
	require.NoError(t, err)
	assert.Equal(t, 100.0, last)
}

func TestFrequencyAtOutOfRange(t *testing.T) {
	p := NewPeriodic(spectrumOf([]float64{1, 2, 3}), 1)

	_, err := p.FrequencyAt(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = p.FrequencyAt(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestFundamentalFrequencyAndAmplitude(t *testing.T) {
	// Peaks land on bins 3, 5 and 1, strongest first.
	p := NewPeriodic(spectrumOf([]float64{0, 5, 1, 9, 2, 7, 0, 0, 0, 0}), 3)

	require.Equal(t, []int{3, 5, 1}, p.Peaks())

	tests := []struct {
		n        int
		wantFreq float64
		wantAmp  float64
	}{
		{n: 0, wantFreq: 3, wantAmp: 9},
		{n: 1, wantFreq: 5, wantAmp: 7},
		{n: 2, wantFreq: 1, wantAmp: 5},
	}

	for _, tt := range tests {
		freq, err := p.FundamentalFrequency(tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.wantFreq, freq.Value)
		assert.Equal(t, fmt.Sprintf("Fund_Freq_%d", tt.n), freq.Name)

		amp, err := p.Amplitude(tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.wantAmp, amp.Value)
		assert.Equal(t, fmt.Sprintf("Fund_Amp_%d", tt.n), amp.Name)
	}
}

func TestFundamentalBeyondPeakCountFails(t *testing.T) {
	p := NewPeriodic(spectrumOf([]float64{0, 5, 1, 9}), 3)

	_, err := p.FundamentalFrequency(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = p.Amplitude(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = p.HarmonicAmplitudes(5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestHarmonicAmplitudesScaleByBinIndex(t *testing.T) {
	// Strongest bin is 3, so harmonics live at bins 3, 6, 9 and 12.
	// Bin 12 is past the end and must come back as zero.
	power := []float64{0, 1, 2, 9, 4, 5, 6, 7, 8, 3}
	p := NewPeriodic(spectrumOf(power), 1)

	harms, err := p.HarmonicAmplitudes(0)
	require.NoError(t, err)
	require.Len(t, harms, 4)

	assert.Equal(t, 9.0, harms[0].Value)
	assert.Equal(t, 6.0, harms[1].Value)
	assert.Equal(t, 3.0, harms[2].Value)
	assert.Zero(t, harms[3].Value)

	for h, f := range harms {
		assert.Equal(t, fmt.Sprintf("Amp_Harm_%d", h), f.Name)
	}
}

func TestSpectrumFloorOffset(t *testing.T) {
	p := NewPeriodic(spectrumOf([]float64{4, 2, 9, 0.5, 3}), 3)

	offset := p.SpectrumFloorOffset()
	assert.Equal(t, "Freq_Offset", offset.Name)
	assert.Equal(t, 0.5, offset.Value)
}
