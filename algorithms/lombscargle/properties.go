package lombscargle

import "fmt"

// Properties carries the frequency-search settings for one extraction run.
// The engine and both feature extractors read it; nothing mutates it after
// construction, so a single value can back every star in a run.
type Properties struct {
	FirstFreq       float64 `json:"first_freq"`        // First frequency to search
	MaxFreqToSeek   float64 `json:"max_freq_to_seek"`  // Floor for the frequency upper bound
	FreqSampleCount int     `json:"freq_sample_count"` // Number of frequencies to calculate
	NumPeaks        int     `json:"num_peaks"`         // Number of spectral maxima to extract
}

// DefaultProperties returns the settings the classifier catalogs were
// produced with.
func DefaultProperties() Properties {
	return Properties{
		FirstFreq:       1.0,
		MaxFreqToSeek:   10000.0,
		FreqSampleCount: 200,
		NumPeaks:        3,
	}
}

// Validate reports whether the settings can drive a periodogram computation.
func (p Properties) Validate() error {
	if p.FreqSampleCount < 2 {
		return fmt.Errorf("freq sample count must be at least 2, got %d", p.FreqSampleCount)
	}
	if p.NumPeaks < 1 {
		return fmt.Errorf("num peaks must be at least 1, got %d", p.NumPeaks)
	}
	if p.MaxFreqToSeek <= 0 {
		return fmt.Errorf("max freq to seek must be positive, got %g", p.MaxFreqToSeek)
	}
	if p.FirstFreq < 0 {
		return fmt.Errorf("first freq must not be negative, got %g", p.FirstFreq)
	}
	return nil
}
