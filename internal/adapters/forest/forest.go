// Package forest implements the classifier collaborator as a random
// forest of depth-limited decision trees, trained fresh each cycle.
package forest

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"quantBreakoutBot/internal/ports"
)

// Config holds forest hyperparameters.
type Config struct {
	Trees       int   // Number of trees (default 100)
	MaxDepth    int   // Maximum tree depth (default 6)
	MinLeafSize int   // Smallest node that may still split (default 5)
	Seed        int64 // RNG seed for bootstrap and feature sampling
}

// Forest is a bagged ensemble of CART trees. Each tree is grown on a
// bootstrap sample with a random feature subset considered per split;
// the predicted probability is the mean of the leaf class fractions.
type Forest struct {
	cfg         Config
	rng         *rand.Rand
	trees       []*node
	numFeatures int
}

type node struct {
	leaf      bool
	prob      float64 // Positive-class fraction at a leaf
	feature   int
	threshold float64
	left      *node
	right     *node
}

// New creates an untrained forest.
func New(cfg Config) *Forest {
	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 6
	}
	if cfg.MinLeafSize <= 0 {
		cfg.MinLeafSize = 5
	}
	return &Forest{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// Factory returns a ports.ClassifierFactory producing a fresh forest per
// invocation, so no fitted state survives a cycle.
func Factory(cfg Config) ports.ClassifierFactory {
	return func() ports.Classifier { return New(cfg) }
}

// Fit trains the forest on feature rows X and binary labels y.
func (f *Forest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 || len(X) != len(y) {
		return fmt.Errorf("training data invalid: %d rows, %d labels", len(X), len(y))
	}
	f.numFeatures = len(X[0])
	for i, row := range X {
		if len(row) != f.numFeatures {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), f.numFeatures)
		}
	}

	f.trees = make([]*node, f.cfg.Trees)
	for t := range f.trees {
		sample := f.bootstrap(len(X))
		f.trees[t] = f.grow(X, y, sample, 0)
	}
	return nil
}

// PredictProb returns the positive-class probability for one feature row.
func (f *Forest) PredictProb(x []float64) (float64, error) {
	if len(f.trees) == 0 {
		return 0, fmt.Errorf("forest is not fitted")
	}
	if len(x) != f.numFeatures {
		return 0, fmt.Errorf("row has %d features, want %d", len(x), f.numFeatures)
	}
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.trees)), nil
}

func (n *node) predict(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.prob
}

func (f *Forest) bootstrap(n int) []int {
	sample := make([]int, n)
	for i := range sample {
		sample[i] = f.rng.Intn(n)
	}
	return sample
}

func (f *Forest) grow(X [][]float64, y []int, idx []int, depth int) *node {
	positives := 0
	for _, i := range idx {
		positives += y[i]
	}
	prob := float64(positives) / float64(len(idx))

	if depth >= f.cfg.MaxDepth || len(idx) < 2*f.cfg.MinLeafSize || positives == 0 || positives == len(idx) {
		return &node{leaf: true, prob: prob}
	}

	feature, threshold, ok := f.bestSplit(X, y, idx)
	if !ok {
		return &node{leaf: true, prob: prob}
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	if len(leftIdx) < f.cfg.MinLeafSize || len(rightIdx) < f.cfg.MinLeafSize {
		return &node{leaf: true, prob: prob}
	}

	return &node{
		feature:   feature,
		threshold: threshold,
		left:      f.grow(X, y, leftIdx, depth+1),
		right:     f.grow(X, y, rightIdx, depth+1),
	}
}

// bestSplit searches a random sqrt-sized feature subset for the split
// with the lowest weighted Gini impurity.
func (f *Forest) bestSplit(X [][]float64, y []int, idx []int) (feature int, threshold float64, ok bool) {
	mtry := int(math.Sqrt(float64(f.numFeatures)))
	if mtry < 1 {
		mtry = 1
	}
	candidates := f.rng.Perm(f.numFeatures)[:mtry]

	bestGini := math.Inf(1)
	for _, feat := range candidates {
		values := make([]float64, 0, len(idx))
		for _, i := range idx {
			values = append(values, X[i][feat])
		}
		sort.Float64s(values)

		for v := 1; v < len(values); v++ {
			if values[v] == values[v-1] {
				continue
			}
			thr := (values[v] + values[v-1]) / 2
			gini := weightedGini(X, y, idx, feat, thr)
			if gini < bestGini {
				bestGini, feature, threshold, ok = gini, feat, thr, true
			}
		}
	}
	return feature, threshold, ok
}

func weightedGini(X [][]float64, y []int, idx []int, feature int, threshold float64) float64 {
	var nLeft, posLeft, nRight, posRight int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			nLeft++
			posLeft += y[i]
		} else {
			nRight++
			posRight += y[i]
		}
	}
	total := float64(nLeft + nRight)
	return float64(nLeft)/total*gini(posLeft, nLeft) + float64(nRight)/total*gini(posRight, nRight)
}

func gini(positives, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(positives) / float64(n)
	return 2 * p * (1 - p)
}
