// Package anomaly scores transactions against a user's own history using
// an isolation forest ensemble.
package anomaly

import (
	"math"
	"math/rand"
)

const (
	eulerMascheroni = 0.5772156649015329

	// maxSample bounds the per-tree subsample, after the standard
	// isolation forest construction.
	maxSample = 256
)

// Forest is a fitted isolation forest.
type Forest struct {
	trees []*treeNode
	psi   int
}

type treeNode struct {
	attr  int
	split float64
	left  *treeNode
	right *treeNode
	size  int // leaf size; internal nodes have children set
}

func (n *treeNode) leaf() bool { return n.left == nil }

// FitForest builds an ensemble of `trees` randomized isolation trees over
// the matrix. The seeded generator makes the fit deterministic for a given
// input and seed.
func FitForest(x [][]float64, trees int, seed int64) *Forest {
	n := len(x)
	psi := n
	if psi > maxSample {
		psi = maxSample
	}

	f := &Forest{psi: psi}
	if n == 0 || trees <= 0 {
		return f
	}

	rng := rand.New(rand.NewSource(seed))
	depthLimit := int(math.Ceil(math.Log2(float64(psi))))
	if depthLimit < 1 {
		depthLimit = 1
	}

	f.trees = make([]*treeNode, trees)
	for i := range f.trees {
		sample := rng.Perm(n)[:psi]
		f.trees[i] = buildTree(x, sample, 0, depthLimit, rng)
	}
	return f
}

func buildTree(x [][]float64, idx []int, depth, limit int, rng *rand.Rand) *treeNode {
	if len(idx) <= 1 || depth >= limit {
		return &treeNode{size: len(idx)}
	}

	// Only attributes that still vary within this partition can split it.
	cols := len(x[idx[0]])
	type span struct {
		attr     int
		min, max float64
	}
	var candidates []span
	for a := 0; a < cols; a++ {
		lo, hi := x[idx[0]][a], x[idx[0]][a]
		for _, i := range idx[1:] {
			v := x[i][a]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if hi > lo {
			candidates = append(candidates, span{a, lo, hi})
		}
	}
	if len(candidates) == 0 {
		return &treeNode{size: len(idx)}
	}

	c := candidates[rng.Intn(len(candidates))]
	split := c.min + rng.Float64()*(c.max-c.min)

	var left, right []int
	for _, i := range idx {
		if x[i][c.attr] < split {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{size: len(idx)}
	}

	return &treeNode{
		attr:  c.attr,
		split: split,
		left:  buildTree(x, left, depth+1, limit, rng),
		right: buildTree(x, right, depth+1, limit, rng),
	}
}

// Score returns the anomaly score for one row: 2^(-E[h]/c(psi)), in (0, 1],
// where E[h] is the mean path length across trees. Higher means more
// isolated, hence more anomalous.
func (f *Forest) Score(row []float64) float64 {
	if len(f.trees) == 0 {
		return 0
	}
	var total float64
	for _, t := range f.trees {
		total += pathLength(t, row, 0)
	}
	avg := total / float64(len(f.trees))

	denom := avgPathLength(f.psi)
	if denom == 0 {
		return 0
	}
	return math.Pow(2, -avg/denom)
}

// Scores scores every row of a matrix.
func (f *Forest) Scores(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = f.Score(row)
	}
	return out
}

func pathLength(n *treeNode, row []float64, depth float64) float64 {
	if n.leaf() {
		return depth + avgPathLength(n.size)
	}
	if row[n.attr] < n.split {
		return pathLength(n.left, row, depth+1)
	}
	return pathLength(n.right, row, depth+1)
}

// avgPathLength is c(n), the expected path length of an unsuccessful BST
// search over n points; it normalizes raw isolation depths.
func avgPathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		h := math.Log(float64(n-1)) + eulerMascheroni
		return 2*h - 2*float64(n-1)/float64(n)
	}
}
