package features

import (
	"context"

	"github.com/RyanBlaney/stellar-sonar/algorithms/lombscargle"
	"github.com/RyanBlaney/stellar-sonar/lightcurve"
	"github.com/RyanBlaney/stellar-sonar/logging"
)

// CurveSource yields one light curve per star and filter.
type CurveSource interface {
	Curve(ctx context.Context, filterName string, starID int) (*lightcurve.LightCurve, error)
}

// StarSet is the star catalog view the extractor iterates. Disable
// marks a star whose features could not be computed; disabled stars
// keep their position so persisted rows stay aligned with the catalog.
type StarSet interface {
	Len() int
	ID(i int) int
	Disable(i int)
}

// Extractor runs the full periodogram-to-vector pipeline. One value
// serves a whole run: it holds only the immutable search settings and a
// component logger.
type Extractor struct {
	engine *lombscargle.LombScargle
	log    logging.Logger
}

// NewExtractor builds an extractor over the given search settings.
func NewExtractor(props lombscargle.Properties) *Extractor {
	return &Extractor{
		engine: lombscargle.New(props),
		log:    logging.WithFields(logging.Fields{"component": "feature_extractor"}),
	}
}

// Extract computes the feature vector of a single light curve.
func (e *Extractor) Extract(times, mags []float64) (Vector, error) {
	spectrum, cleaned, err := e.engine.Compute(times, mags)
	if err != nil {
		return nil, err
	}

	periodic := NewPeriodic(spectrum, e.engine.Props().NumPeaks)
	nonPeriodic := NewNonPeriodic(cleaned)

	return Assemble(periodic, nonPeriodic)
}

// ExtractAll computes one vector per star in the given filter. A star
// whose curve cannot be read or whose series is too poor to support a
// spectrum is disabled and represented by an empty sentinel vector;
// the run continues, so one bad star never aborts a catalog. The error
// return is reserved for cancellation.
func (e *Extractor) ExtractAll(ctx context.Context, curves CurveSource, stars StarSet, filterName string) ([]Vector, error) {
	total := stars.Len()
	vectors := make([]Vector, 0, total)

	progressStep := total / 10
	disabled := 0

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id := stars.ID(i)

		curve, err := curves.Curve(ctx, filterName, id)
		var vec Vector
		if err == nil {
			vec, err = e.Extract(curve.Times, curve.Mags)
		}
		if err != nil {
			e.log.Error(err, "disabling star after failed extraction", logging.Fields{
				"star_id": id,
				"filter":  filterName,
			})
			stars.Disable(i)
			disabled++
			vec = Vector{}
		}
		vectors = append(vectors, vec)

		if progressStep > 0 && i > 0 && i%progressStep == 0 {
			e.log.Info("feature extraction progress", logging.Fields{
				"filter":  filterName,
				"percent": i * 100 / total,
			})
		}
	}

	e.log.Info("feature extraction finished", logging.Fields{
		"filter":   filterName,
		"stars":    total,
		"disabled": disabled,
	})
	return vectors, nil
}
