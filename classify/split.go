package classify

import (
	"fmt"
	"math/rand"

	"github.com/RyanBlaney/stellar-sonar/catalog"
)

// SplitConfig controls how catalog stars are divided into training and
// evaluation sets.
type SplitConfig struct {
	// MinCardinal is the minimum number of enabled stars a class needs
	// to take part in training. Smaller classes are dropped entirely.
	MinCardinal int `json:"min_cardinal"`
	// TrainPercent is the percentage of each class used for training,
	// in [1, 100]. At 100 the evaluation set is empty.
	TrainPercent int `json:"train_percent"`
	// Seed drives the random draw so splits are reproducible.
	Seed int64 `json:"seed"`
}

// Split holds catalog indexes and class labels for the training and
// evaluation sets. Labels are positions in Classes, which lists only
// the classes that survived the cardinality cut.
type Split struct {
	Classes      []string
	TrainIndexes []int
	TrainLabels  []int
	EvalIndexes  []int
	EvalLabels   []int
}

// NewSplit draws a per-class random split over the enabled stars of the
// catalog. Within each retained class the training members are sampled
// without replacement; the remainder becomes the evaluation set, kept
// in catalog order.
func NewSplit(cat *catalog.Catalog, cfg SplitConfig) (*Split, error) {
	if cfg.TrainPercent < 1 || cfg.TrainPercent > 100 {
		return nil, fmt.Errorf("training percentage must be in [1, 100], got %d", cfg.TrainPercent)
	}

	counts := make(map[string]int)
	for i := 0; i < cat.Len(); i++ {
		if cat.IsEnabled(i) {
			counts[cat.Class(i)]++
		}
	}

	var classes []string
	for _, name := range cat.UniqueClasses() {
		if counts[name] >= cfg.MinCardinal {
			classes = append(classes, name)
		}
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("no class has at least %d enabled stars", cfg.MinCardinal)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	split := &Split{Classes: classes}

	for label, name := range classes {
		var members []int
		for i := 0; i < cat.Len(); i++ {
			if cat.IsEnabled(i) && cat.Class(i) == name {
				members = append(members, i)
			}
		}

		n := len(members)
		nTrain := n * cfg.TrainPercent / 100
		perm := rng.Perm(n)

		inTrain := make([]bool, n)
		for _, p := range perm[:nTrain] {
			inTrain[p] = true
			split.TrainIndexes = append(split.TrainIndexes, members[p])
			split.TrainLabels = append(split.TrainLabels, label)
		}
		for p := 0; p < n; p++ {
			if !inTrain[p] {
				split.EvalIndexes = append(split.EvalIndexes, members[p])
				split.EvalLabels = append(split.EvalLabels, label)
			}
		}
	}

	return split, nil
}

// ClassName resolves a label produced by this split back to its class
// name.
func (s *Split) ClassName(label int) (string, error) {
	if label < 0 || label >= len(s.Classes) {
		return "", fmt.Errorf("label %d outside [0, %d)", label, len(s.Classes))
	}
	return s.Classes[label], nil
}
