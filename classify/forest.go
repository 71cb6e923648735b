// Package classify trains and applies random-forest classifiers over
// per-star feature vectors and measures their accuracy.
//
// The forest is a bag of CART-style decision trees. Each tree grows on
// a bootstrap resample of the training set, each split draws a random
// subset of sqrt(d) features and keeps the threshold with the lowest
// weighted Gini impurity, and prediction is a majority vote across
// trees with vote fractions doubling as class probabilities.
//
// References:
//   - Breiman, L. (2001). Random forests.
//     Machine Learning, 45(1), 5-32.
//   - Breiman, L., Friedman, J., Olshen, R., Stone, C. (1984).
//     Classification and Regression Trees. Wadsworth.
package classify

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

const (
	defaultTrees   = 50
	defaultMinLeaf = 1
)

// ForestConfig controls random-forest training.
type ForestConfig struct {
	// Trees is the number of trees to grow. Defaults to 50.
	Trees int `json:"trees"`
	// MaxDepth bounds tree depth. Zero grows trees until leaves are
	// pure or too small to split.
	MaxDepth int `json:"max_depth"`
	// MinLeaf is the minimum number of samples per leaf. Defaults to 1.
	MinLeaf int `json:"min_leaf"`
	// Seed drives bootstrap and feature sampling so training is
	// reproducible.
	Seed int64 `json:"seed"`
}

// treeNode is one binary decision node. Fields are exported so trees
// survive gob encoding. Leaves have nil children; every node carries
// its majority class. Values below Threshold descend left; NaN never
// compares below and falls right.
type treeNode struct {
	Feature   int
	Threshold float64
	Left      *treeNode
	Right     *treeNode
	Class     int
}

// Forest is a random-forest classifier.
type Forest struct {
	Config      ForestConfig
	Trees       []*treeNode
	NumClasses  int
	NumFeatures int
}

// NewForest prepares an untrained forest for numClasses classes.
func NewForest(numClasses int, cfg ForestConfig) *Forest {
	return &Forest{Config: cfg, NumClasses: numClasses}
}

// TrainForest grows a forest from a feature matrix and parallel integer
// labels in [0, numClasses) in one call.
func TrainForest(features [][]float64, labels []int, numClasses int, cfg ForestConfig) (*Forest, error) {
	f := NewForest(numClasses, cfg)
	if err := f.Fit(features, labels); err != nil {
		return nil, err
	}
	return f, nil
}

// Fit grows the forest's trees. Refitting replaces them, reproducing
// the same forest for the same inputs and seed.
func (f *Forest) Fit(features [][]float64, labels []int) error {
	if len(features) == 0 {
		return fmt.Errorf("no training samples")
	}
	if len(features) != len(labels) {
		return fmt.Errorf("got %d samples but %d labels", len(features), len(labels))
	}
	if f.NumClasses < 1 {
		return fmt.Errorf("need at least one class, got %d", f.NumClasses)
	}

	numFeatures := len(features[0])
	if numFeatures == 0 {
		return fmt.Errorf("samples have no features")
	}
	for i, row := range features {
		if len(row) != numFeatures {
			return fmt.Errorf("sample %d has %d features, expected %d", i, len(row), numFeatures)
		}
	}
	for i, label := range labels {
		if label < 0 || label >= f.NumClasses {
			return fmt.Errorf("sample %d has label %d outside [0, %d)", i, label, f.NumClasses)
		}
	}

	numTrees := f.Config.Trees
	if numTrees <= 0 {
		numTrees = defaultTrees
	}
	minLeaf := f.Config.MinLeaf
	if minLeaf <= 0 {
		minLeaf = defaultMinLeaf
	}

	t := &trainer{
		features:    features,
		labels:      labels,
		numClasses:  f.NumClasses,
		numFeatures: numFeatures,
		subsample:   int(math.Sqrt(float64(numFeatures))),
		maxDepth:    f.Config.MaxDepth,
		minLeaf:     minLeaf,
		rng:         rand.New(rand.NewSource(f.Config.Seed)),
	}
	if t.subsample < 1 {
		t.subsample = 1
	}

	trees := make([]*treeNode, 0, numTrees)
	for i := 0; i < numTrees; i++ {
		samples := make([]int, len(features))
		for j := range samples {
			samples[j] = t.rng.Intn(len(features))
		}
		trees = append(trees, t.grow(samples, 0))
	}

	f.NumFeatures = numFeatures
	f.Trees = trees
	return nil
}

// Predict returns the majority-vote class for one feature vector. Ties
// resolve to the lowest class label.
func (f *Forest) Predict(x []float64) (int, error) {
	votes, err := f.votes(x)
	if err != nil {
		return 0, err
	}
	return argmax(votes), nil
}

// PredictProba returns the fraction of trees voting for each class.
func (f *Forest) PredictProba(x []float64) ([]float64, error) {
	votes, err := f.votes(x)
	if err != nil {
		return nil, err
	}
	probs := make([]float64, len(votes))
	for c, v := range votes {
		probs[c] = float64(v) / float64(len(f.Trees))
	}
	return probs, nil
}

func (f *Forest) votes(x []float64) ([]int, error) {
	if len(f.Trees) == 0 {
		return nil, fmt.Errorf("forest has no trees")
	}
	if len(x) != f.NumFeatures {
		return nil, fmt.Errorf("got %d features, model expects %d", len(x), f.NumFeatures)
	}

	votes := make([]int, f.NumClasses)
	for _, root := range f.Trees {
		node := root
		for node.Left != nil {
			if x[node.Feature] < node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
		votes[node.Class]++
	}
	return votes, nil
}

type trainer struct {
	features    [][]float64
	labels      []int
	numClasses  int
	numFeatures int
	subsample   int
	maxDepth    int
	minLeaf     int
	rng         *rand.Rand
}

type splitPoint struct {
	value float64
	label int
}

func (t *trainer) grow(samples []int, depth int) *treeNode {
	counts := make([]int, t.numClasses)
	for _, s := range samples {
		counts[t.labels[s]]++
	}
	majority := argmax(counts)

	if len(samples) < 2*t.minLeaf || pure(counts) {
		return &treeNode{Feature: -1, Class: majority}
	}
	if t.maxDepth > 0 && depth >= t.maxDepth {
		return &treeNode{Feature: -1, Class: majority}
	}

	feature, threshold, ok := t.bestSplit(samples, counts)
	if !ok {
		return &treeNode{Feature: -1, Class: majority}
	}

	var left, right []int
	for _, s := range samples {
		if t.features[s][feature] < threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      t.grow(left, depth+1),
		Right:     t.grow(right, depth+1),
		Class:     majority,
	}
}

// bestSplit scans a random feature subset for the threshold minimizing
// weighted Gini impurity. Candidate thresholds are the observed values
// themselves, so the left child holds exactly the samples strictly
// below. NaN values are excluded from candidates and counted on the
// right, matching how prediction routes them.
func (t *trainer) bestSplit(samples []int, counts []int) (int, float64, bool) {
	bestGini := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0
	found := false

	order := t.rng.Perm(t.numFeatures)
	cands := make([]splitPoint, 0, len(samples))
	leftCounts := make([]int, t.numClasses)

	for _, feature := range order[:t.subsample] {
		cands = cands[:0]
		for _, s := range samples {
			v := t.features[s][feature]
			if !math.IsNaN(v) {
				cands = append(cands, splitPoint{value: v, label: t.labels[s]})
			}
		}
		if len(cands) < 2 {
			continue
		}
		sort.Slice(cands, func(i, j int) bool { return cands[i].value < cands[j].value })

		for c := range leftCounts {
			leftCounts[c] = 0
		}
		n := len(samples)
		for i := 1; i < len(cands); i++ {
			leftCounts[cands[i-1].label]++
			if cands[i].value == cands[i-1].value {
				continue
			}
			nLeft, nRight := i, n-i
			if nLeft < t.minLeaf || nRight < t.minLeaf {
				continue
			}
			gini := weightedGini(leftCounts, counts, nLeft, nRight)
			if gini < bestGini {
				bestGini = gini
				bestFeature = feature
				bestThreshold = cands[i].value
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}

func weightedGini(left, total []int, nLeft, nRight int) float64 {
	giniLeft, giniRight := 1.0, 1.0
	for c := range left {
		pl := float64(left[c]) / float64(nLeft)
		pr := float64(total[c]-left[c]) / float64(nRight)
		giniLeft -= pl * pl
		giniRight -= pr * pr
	}
	n := float64(nLeft + nRight)
	return (float64(nLeft)*giniLeft + float64(nRight)*giniRight) / n
}

func pure(counts []int) bool {
	seen := 0
	for _, c := range counts {
		if c > 0 {
			seen++
		}
	}
	return seen <= 1
}

func argmax(counts []int) int {
	best := 0
	for c := 1; c < len(counts); c++ {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}
