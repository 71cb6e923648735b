// Package lightcurve stores and retrieves photometric time series. Each
// star carries one light curve per filter: observation timestamps,
// instrumental magnitudes and, when the survey provides them, per-point
// signal-to-noise ratios.
package lightcurve

// LightCurve is one star's time series in a single filter. Times and
// Mags are parallel and ordered by time; SNRs is parallel too but may be
// nil for surveys that do not report it.
type LightCurve struct {
	Times []float64
	Mags  []float64
	SNRs  []float64
}

// Len returns the number of observations.
func (c *LightCurve) Len() int {
	return len(c.Times)
}
