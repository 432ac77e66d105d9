package forest

import (
	"math/rand"
	"slices"
)

// leaf marks a node without children.
const leaf = -1

// Node is one node of a regression tree. Children are indices into
// Tree.Nodes. Samples with x[Feature] <= Threshold go left.
type Node struct {
	Feature   int
	Threshold float64
	Left      int32
	Right     int32
	Value     float64
	Samples   int
}

// Tree is a CART regression tree stored as a flat node slice; Nodes[0] is
// the root.
type Tree struct {
	Nodes []Node
}

// Predict walks the tree for one feature vector.
func (t *Tree) Predict(x []float64) float64 {
	n := &t.Nodes[0]
	for n.Feature != leaf {
		if x[n.Feature] <= n.Threshold {
			n = &t.Nodes[n.Left]
		} else {
			n = &t.Nodes[n.Right]
		}
	}
	return n.Value
}

// Depth returns the length of the longest root-to-leaf path.
func (t *Tree) Depth() int {
	var walk func(i int32) int
	walk = func(i int32) int {
		n := t.Nodes[i]
		if n.Feature == leaf {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	if len(t.Nodes) == 0 {
		return 0
	}
	return walk(0)
}

// Leaves counts terminal nodes.
func (t *Tree) Leaves() int {
	c := 0
	for _, n := range t.Nodes {
		if n.Feature == leaf {
			c++
		}
	}
	return c
}

type treeParams struct {
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
}

// builder grows one tree over a row-major feature matrix.
type builder struct {
	x         []float64
	y         []float64
	nFeatures int
	p         treeParams
	rng       *rand.Rand

	nodes       []Node
	importances []float64
	features    []int
	scratch     []int
}

func newBuilder(x, y []float64, nFeatures int, p treeParams, rng *rand.Rand) *builder {
	b := &builder{
		x:           x,
		y:           y,
		nFeatures:   nFeatures,
		p:           p,
		rng:         rng,
		importances: make([]float64, nFeatures),
		features:    make([]int, nFeatures),
	}
	for i := range b.features {
		b.features[i] = i
	}
	return b
}

// grow builds a tree over the given sample indices. Duplicated indices
// (bootstrap draws) count once per occurrence.
func (b *builder) grow(idx []int) *Tree {
	b.scratch = make([]int, len(idx))
	b.build(append([]int(nil), idx...), 0)
	return &Tree{Nodes: b.nodes}
}

func (b *builder) at(row, f int) float64 { return b.x[row*b.nFeatures+f] }

func (b *builder) build(idx []int, depth int) int32 {
	n := len(idx)
	var sum, sumSq float64
	for _, i := range idx {
		sum += b.y[i]
		sumSq += b.y[i] * b.y[i]
	}
	mean := sum / float64(n)
	sse := sumSq - sum*mean

	id := int32(len(b.nodes))
	b.nodes = append(b.nodes, Node{Feature: leaf, Value: mean, Samples: n, Left: leaf, Right: leaf})

	if (b.p.maxDepth > 0 && depth >= b.p.maxDepth) ||
		n < b.p.minSamplesSplit ||
		n < 2*b.p.minSamplesLeaf ||
		sse <= 1e-12*float64(n) {
		return id
	}

	feat, thr, pos, gain := b.bestSplit(idx, sum)
	if feat == leaf {
		return id
	}
	// Impurity decrease: parent SSE minus children SSE, which equals the
	// split score minus sum^2/n.
	b.importances[feat] += gain - sum*mean

	// idx is owned by this node; the children get disjoint halves of it.
	b.sortBy(idx, feat)
	left := b.build(idx[:pos], depth+1)
	right := b.build(idx[pos:], depth+1)
	nd := &b.nodes[id]
	nd.Feature, nd.Threshold, nd.Left, nd.Right = feat, thr, left, right
	return id
}

// sortBy orders sample indices by feature f.
func (b *builder) sortBy(idx []int, f int) {
	slices.SortFunc(idx, func(a, c int) int {
		va, vc := b.at(a, f), b.at(c, f)
		switch {
		case va < vc:
			return -1
		case va > vc:
			return 1
		}
		return 0
	})
}

// bestSplit scans a random subset of features and returns the split that
// maximizes sumL^2/nL + sumR^2/nR, where pos is the size of the left child
// once idx is ordered by the returned feature.
func (b *builder) bestSplit(idx []int, total float64) (feature int, threshold float64, pos int, score float64) {
	n := len(idx)
	minLeaf := b.p.minSamplesLeaf
	feature = leaf

	b.rng.Shuffle(len(b.features), func(i, j int) {
		b.features[i], b.features[j] = b.features[j], b.features[i]
	})
	for _, f := range b.features[:b.p.maxFeatures] {
		sorted := b.scratch[:n]
		copy(sorted, idx)
		b.sortBy(sorted, f)
		if b.at(sorted[0], f) == b.at(sorted[n-1], f) {
			continue
		}
		var sumL float64
		for p := 1; p < n; p++ {
			sumL += b.y[sorted[p-1]]
			if p < minLeaf || n-p < minLeaf {
				continue
			}
			lo, hi := b.at(sorted[p-1], f), b.at(sorted[p], f)
			if lo == hi {
				continue
			}
			sumR := total - sumL
			s := sumL*sumL/float64(p) + sumR*sumR/float64(n-p)
			if feature == leaf || s > score {
				feature, pos, score = f, p, s
				threshold = lo + (hi-lo)/2
				if threshold >= hi {
					threshold = lo
				}
			}
		}
	}
	return feature, threshold, pos, score
}
