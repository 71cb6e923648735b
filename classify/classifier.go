package classify

// Classifier is anything that can be fitted on labelled feature vectors
// and then classify new ones. Labels are integers in a contiguous
// [0, n) class space; PredictProba reports one probability per class.
type Classifier interface {
	Fit(features [][]float64, labels []int) error
	Predict(x []float64) (int, error)
	PredictProba(x []float64) ([]float64, error)
}

var _ Classifier = (*Forest)(nil)
