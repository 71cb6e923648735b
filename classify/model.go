package classify

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RyanBlaney/stellar-sonar/catalog"
)

const modelExt = ".model"

// Model is a trained per-filter classifier together with the metadata
// needed to apply it later: which filter it was trained on and the
// class names its labels map to.
type Model struct {
	ID         uuid.UUID
	Filter     string
	ClassNames []string
	CreatedAt  time.Time
	Forest     *Forest
}

// NewModel wraps a trained forest for persistence.
func NewModel(filterName string, classNames []string, forest *Forest) *Model {
	return &Model{
		ID:         uuid.New(),
		Filter:     filterName,
		ClassNames: append([]string(nil), classNames...),
		CreatedAt:  time.Now().UTC(),
		Forest:     forest,
	}
}

// PredictClass classifies one feature vector and returns the class name
// and the winning class's share of tree votes.
func (m *Model) PredictClass(x []float64) (string, float64, error) {
	probs, err := m.Forest.PredictProba(x)
	if err != nil {
		return "", 0, err
	}
	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	if best >= len(m.ClassNames) {
		return "", 0, fmt.Errorf("model has %d class names but %d vote buckets", len(m.ClassNames), len(probs))
	}
	return m.ClassNames[best], probs[best], nil
}

// ModelFileName derives the per-filter model file name from a base
// name: the base without its extension, an underscore, the filter, and
// the base's extension (".model" when the base has none).
func ModelFileName(base, filterName string) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = modelExt
	}
	return stem + "_" + filterName + ext
}

// SaveModel writes the model to path with gob encoding.
func SaveModel(path string, m *Model) error {
	if m.Forest == nil {
		return fmt.Errorf("model has no forest")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(m); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return f.Close()
}

// LoadModel reads a gob-encoded model from path.
func LoadModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer f.Close()

	var m Model
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", path, err)
	}
	return &m, nil
}

// LoadModels discovers and loads every per-filter model next to base,
// keyed by the filter name embedded in each file name.
func LoadModels(base string) (map[string]*Model, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = modelExt
	}

	matches, err := filepath.Glob(stem + "*" + ext)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for model files: %w", err)
	}

	models := make(map[string]*Model)
	for _, path := range matches {
		filterName, ok := catalog.FilterFromFileName(filepath.Base(path))
		if !ok {
			continue
		}
		m, err := LoadModel(path)
		if err != nil {
			return nil, err
		}
		models[filterName] = m
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("no model files found for %s", base)
	}
	return models, nil
}
