package classify

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ConfusionMatrix accumulates prediction outcomes over a fixed class
// list. Rows are predicted classes, columns are actual classes, so a
// perfect classifier fills only the diagonal.
type ConfusionMatrix struct {
	classes []string
	index   map[string]int
	counts  [][]int
}

// NewConfusionMatrix builds an empty matrix over the given classes.
func NewConfusionMatrix(classes []string) *ConfusionMatrix {
	m := &ConfusionMatrix{
		classes: append([]string(nil), classes...),
		index:   make(map[string]int, len(classes)),
		counts:  make([][]int, len(classes)),
	}
	for i, name := range m.classes {
		m.index[name] = i
		m.counts[i] = make([]int, len(m.classes))
	}
	return m
}

// Add records one outcome. Both classes are matched by name so the
// matrix space may be wider than the label space a model was trained
// on.
func (m *ConfusionMatrix) Add(predicted, actual string) error {
	p, ok := m.index[predicted]
	if !ok {
		return fmt.Errorf("unknown predicted class %q", predicted)
	}
	a, ok := m.index[actual]
	if !ok {
		return fmt.Errorf("unknown actual class %q", actual)
	}
	m.counts[p][a]++
	return nil
}

// Count returns how often predicted was reported for stars of actual.
func (m *ConfusionMatrix) Count(predicted, actual string) int {
	p, pok := m.index[predicted]
	a, aok := m.index[actual]
	if !pok || !aok {
		return 0
	}
	return m.counts[p][a]
}

// Totals returns the number of evaluated stars per actual class.
func (m *ConfusionMatrix) Totals() []int {
	totals := make([]int, len(m.classes))
	for _, row := range m.counts {
		for a, c := range row {
			totals[a] += c
		}
	}
	return totals
}

// CorrectPercent returns the percentage of correctly classified stars
// per actual class, zero for classes with no evaluated stars.
func (m *ConfusionMatrix) CorrectPercent() []float64 {
	totals := m.Totals()
	percents := make([]float64, len(m.classes))
	for i, total := range totals {
		if total > 0 {
			percents[i] = float64(m.counts[i][i]) * 100 / float64(total)
		}
	}
	return percents
}

// MatrixFileName names the per-filter confusion matrix file inside dir.
func MatrixFileName(dir, filterName string) string {
	return filepath.Join(dir, "conf_matrix_"+filterName+".csv")
}

// WriteCSV writes the matrix with one row per predicted class followed
// by a TOT row of per-class totals and a (CC) row of correctly
// classified percentages.
func (m *ConfusionMatrix) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create confusion matrix file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{""}, m.classes...)); err != nil {
		return err
	}
	for p, name := range m.classes {
		record := make([]string, 0, len(m.classes)+1)
		record = append(record, name)
		for _, c := range m.counts[p] {
			record = append(record, strconv.Itoa(c))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	totals := append([]string{"TOT"}, intFields(m.Totals())...)
	if err := w.Write(totals); err != nil {
		return err
	}
	correct := []string{"(CC)"}
	for _, pct := range m.CorrectPercent() {
		correct = append(correct, fmt.Sprintf("%2.f", pct))
	}
	if err := w.Write(correct); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func intFields(values []int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}
	return out
}
