package ensemble

import (
	"math"
	"math/rand"

	"github.com/fomastreeman/match-predictor/internal/models"
)

// treeNode is a node in a CART classification tree
type treeNode struct {
	leaf      bool
	probs     models.ProbabilityTriple
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

// decisionTree is a weighted CART classifier used as the building block
// for the bagged, extra-randomized and boosted ensembles
type decisionTree struct {
	maxDepth        int
	minSamples      int
	maxFeatures     int  // features considered per split; 0 means all
	randomThreshold bool // extra-trees style random split points
	rng             *rand.Rand
	root            *treeNode
}

// fitWeighted grows the tree on rows selected by idx with per-sample
// weights w (nil means uniform)
func (t *decisionTree) fitWeighted(X [][]float64, y []int, idx []int, w []float64) {
	if w == nil {
		w = make([]float64, len(y))
		for i := range w {
			w[i] = 1
		}
	}
	t.root = t.grow(X, y, idx, w, 0)
}

func (t *decisionTree) grow(X [][]float64, y []int, idx []int, w []float64, depth int) *treeNode {
	node := &treeNode{probs: classDistribution(y, idx, w)}

	if depth >= t.maxDepth || len(idx) < t.minSamples || isPure(y, idx) {
		node.leaf = true
		return node
	}

	feature, threshold, gain := t.bestSplit(X, y, idx, w)
	if gain <= 0 {
		node.leaf = true
		return node
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	if len(leftIdx) == 0 || len(rightIdx) == 0 {
		node.leaf = true
		return node
	}

	node.feature = feature
	node.threshold = threshold
	node.left = t.grow(X, y, leftIdx, w, depth+1)
	node.right = t.grow(X, y, rightIdx, w, depth+1)
	return node
}

// bestSplit searches candidate features for the split with the largest
// weighted gini impurity decrease
func (t *decisionTree) bestSplit(X [][]float64, y []int, idx []int, w []float64) (int, float64, float64) {
	dim := len(X[0])
	candidates := t.candidateFeatures(dim)

	parentImpurity := gini(y, idx, w)
	totalWeight := 0.0
	for _, i := range idx {
		totalWeight += w[i]
	}

	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0
	for _, feature := range candidates {
		for _, threshold := range t.candidateThresholds(X, idx, feature) {
			leftW, rightW := 0.0, 0.0
			leftCounts := [numClasses]float64{}
			rightCounts := [numClasses]float64{}
			for _, i := range idx {
				if X[i][feature] <= threshold {
					leftW += w[i]
					leftCounts[y[i]] += w[i]
				} else {
					rightW += w[i]
					rightCounts[y[i]] += w[i]
				}
			}
			if leftW == 0 || rightW == 0 {
				continue
			}
			child := (leftW*giniFromCounts(leftCounts, leftW) +
				rightW*giniFromCounts(rightCounts, rightW)) / totalWeight
			gain := parentImpurity - child
			if gain > bestGain {
				bestFeature, bestThreshold, bestGain = feature, threshold, gain
			}
		}
	}
	return bestFeature, bestThreshold, bestGain
}

func (t *decisionTree) candidateFeatures(dim int) []int {
	if t.maxFeatures <= 0 || t.maxFeatures >= dim {
		all := make([]int, dim)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return t.rng.Perm(dim)[:t.maxFeatures]
}

// candidateThresholds returns split points for a feature: midpoints of
// sorted unique values for exact search, or a single random cut for
// extra-randomized trees
func (t *decisionTree) candidateThresholds(X [][]float64, idx []int, feature int) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	values := make([]float64, 0, len(idx))
	for _, i := range idx {
		v := X[i][feature]
		values = append(values, v)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		return nil
	}
	if t.randomThreshold {
		return []float64{lo + t.rng.Float64()*(hi-lo)}
	}

	sortFloats(values)
	thresholds := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1] {
			thresholds = append(thresholds, (values[i]+values[i-1])/2)
		}
	}
	return thresholds
}

func (t *decisionTree) predictProba(x []float64) models.ProbabilityTriple {
	node := t.root
	if node == nil {
		return uniformTriple()
	}
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.probs
}

func (t *decisionTree) predictClass(x []float64) int {
	return argmaxProbs(t.predictProba(x))
}

func classDistribution(y []int, idx []int, w []float64) models.ProbabilityTriple {
	counts := [numClasses]float64{}
	total := 0.0
	for _, i := range idx {
		counts[y[i]] += w[i]
		total += w[i]
	}
	if total == 0 {
		return uniformTriple()
	}
	var p models.ProbabilityTriple
	for c := 0; c < numClasses; c++ {
		p[c] = counts[c] / total
	}
	return p
}

func gini(y []int, idx []int, w []float64) float64 {
	counts := [numClasses]float64{}
	total := 0.0
	for _, i := range idx {
		counts[y[i]] += w[i]
		total += w[i]
	}
	return giniFromCounts(counts, total)
}

func giniFromCounts(counts [numClasses]float64, total float64) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := c / total
		impurity -= p * p
	}
	return impurity
}

func isPure(y []int, idx []int) bool {
	if len(idx) == 0 {
		return true
	}
	first := y[idx[0]]
	for _, i := range idx[1:] {
		if y[i] != first {
			return false
		}
	}
	return true
}

func sortFloats(values []float64) {
	// Insertion sort; split candidate slices are small
	for i := 1; i < len(values); i++ {
		for j := i; j > 0 && values[j] < values[j-1]; j-- {
			values[j], values[j-1] = values[j-1], values[j]
		}
	}
}
