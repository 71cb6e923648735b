package classify

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Prediction is the classification outcome for one star: the predicted
// class and the winning class's share of tree votes.
type Prediction struct {
	StarID     int
	Class      string
	Confidence float64
}

// PredictionsFileName names the per-filter prediction file inside dir.
func PredictionsFileName(dir, filterName string) string {
	return filepath.Join(dir, "prediction_"+filterName+".csv")
}

// WritePredictions writes one CSV row per star with its identifier,
// predicted class and confidence.
func WritePredictions(path string, predictions []Prediction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create prediction file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"ID", "PREDICTION", "CONF"}); err != nil {
		return err
	}
	for _, p := range predictions {
		record := []string{
			strconv.Itoa(p.StarID),
			p.Class,
			strconv.FormatFloat(p.Confidence, 'g', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
