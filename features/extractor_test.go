package features

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/stellar-sonar/algorithms/lombscargle"
	"github.com/RyanBlaney/stellar-sonar/lightcurve"
	"github.com/RyanBlaney/stellar-sonar/logging"
)

type fakeCurves struct {
	curves map[int]*lightcurve.LightCurve
	errs   map[int]error
}

func (f *fakeCurves) Curve(_ context.Context, _ string, starID int) (*lightcurve.LightCurve, error) {
	if err, ok := f.errs[starID]; ok {
		return nil, err
	}
	return f.curves[starID], nil
}

type fakeStars struct {
	ids      []int
	disabled map[int]bool
}

func (f *fakeStars) Len() int      { return len(f.ids) }
func (f *fakeStars) ID(i int) int  { return f.ids[i] }
func (f *fakeStars) Disable(i int) { f.disabled[i] = true }

func quietLogger(t *testing.T) {
	t.Helper()
	old := logging.GetGlobalLogger()
	logging.SetGlobalLogger(&logging.NoOpLogger{})
	t.Cleanup(func() { logging.SetGlobalLogger(old) })
}

func TestExtractAllIsolatesPerStarFailures(t *testing.T) {
	quietLogger(t)

	goodTimes, goodMags := sinusoidCurve(300, 0.4, 90)

	curves := &fakeCurves{
		curves: map[int]*lightcurve.LightCurve{
			11: {Times: goodTimes, Mags: goodMags},
			// Too short to support a spectrum.
			33: {Times: []float64{0, 1, 2}, Mags: []float64{5, 6, 7}},
		},
		errs: map[int]error{
			22: errors.New("photometry table truncated"),
		},
	}
	stars := &fakeStars{ids: []int{11, 22, 33}, disabled: map[int]bool{}}

	extractor := NewExtractor(lombscargle.Properties{
		FirstFreq:       0.01,
		MaxFreqToSeek:   3.0,
		FreqSampleCount: 300,
		NumPeaks:        3,
	})

	vectors, err := extractor.ExtractAll(context.Background(), curves, stars, "V")
	require.NoError(t, err, "per-star failures must not abort the run")
	require.Len(t, vectors, 3)

	assert.Len(t, vectors[0], FeatureCount)
	assert.Empty(t, vectors[1], "unreadable star gets the sentinel vector")
	assert.Empty(t, vectors[2], "underpopulated star gets the sentinel vector")

	assert.False(t, stars.disabled[0])
	assert.True(t, stars.disabled[1])
	assert.True(t, stars.disabled[2])
}

func TestExtractAllHonorsCancellation(t *testing.T) {
	quietLogger(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	curves := &fakeCurves{curves: map[int]*lightcurve.LightCurve{}}
	stars := &fakeStars{ids: []int{1}, disabled: map[int]bool{}}

	extractor := NewExtractor(lombscargle.DefaultProperties())

	_, err := extractor.ExtractAll(ctx, curves, stars, "V")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractSingleCurve(t *testing.T) {
	times, mags := sinusoidCurve(500, 2.0, 100)

	extractor := NewExtractor(lombscargle.Properties{
		FirstFreq:       0.01,
		MaxFreqToSeek:   5.0,
		FreqSampleCount: 500,
		NumPeaks:        3,
	})

	vec, err := extractor.Extract(times, mags)
	require.NoError(t, err)
	require.Len(t, vec, FeatureCount)

	// The strongest fundamental must round-trip to the injected 2.0
	// frequency within one sampling step of the index translation.
	step := (5.0 - 0.01) / 500.0
	assert.InDelta(t, 2.0, vec[0].Value, step+1e-9)
}

func TestExtractPropagatesEngineErrors(t *testing.T) {
	extractor := NewExtractor(lombscargle.DefaultProperties())

	_, err := extractor.Extract([]float64{0, 1}, []float64{1, 2})
	assert.ErrorIs(t, err, lombscargle.ErrInsufficientData)
}
