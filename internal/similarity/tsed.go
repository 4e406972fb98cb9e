package similarity

import (
	"math"
	"sort"
)

// KernelSafetyCeiling is the node-count above which TSED refuses a pair
// outright. The pair orchestrator treats a tree exceeding this as
// unpairable rather than paying for an O(n^2) comparison against a
// hostile input.
const KernelSafetyCeiling = 10000

// TSEDKernel computes the normalized tree edit distance between two
// canonical trees using an APTED-style dynamic program over the
// post-order / left-most-leaf decomposition. It reuses the tree-distance
// matrix across pairs via a matrixPool; the forest-distance matrix is
// allocated afresh for each key-root pair.
type TSEDKernel struct {
	Cost  CostModel
	pool  matrixPool
}

// NewTSEDKernel constructs a kernel with the given cost model.
func NewTSEDKernel(cost CostModel) *TSEDKernel {
	return &TSEDKernel{Cost: cost}
}

// Overflowed reports whether a or b exceeds the kernel's safety ceiling.
func (k *TSEDKernel) Overflowed(a, b *Node) bool {
	return a.Size() > KernelSafetyCeiling || b.Size() > KernelSafetyCeiling
}

// Distance computes the ordered tree edit distance between a and b.
func (k *TSEDKernel) Distance(a, b *Node) float64 {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return subtreeInsertCost(k.Cost, b)
	}
	if b == nil {
		return subtreeDeleteCost(k.Cost, a)
	}

	nodesA, rootsA := Prepare(a)
	nodesB, rootsB := Prepare(b)

	// Key roots are processed in ascending post-order id so every subtree
	// distance a forest step reads from td has already been computed.
	sort.Ints(rootsA)
	sort.Ints(rootsB)

	td := k.pool.get(len(nodesA)+1, len(nodesB)+1)
	defer k.pool.put(td)

	for _, i := range rootsA {
		for _, j := range rootsB {
			k.forestDistance(nodesA, nodesB, i, j, td)
		}
	}
	return td[len(nodesA)][len(nodesB)]
}

// forestDistance fills in td[x+1][y+1] for the forest pair rooted at (i, j),
// the core Zhang-Shasha / APTED recurrence.
func (k *TSEDKernel) forestDistance(nodesA, nodesB []*Node, i, j int, td [][]float64) {
	lmI := nodesA[i].LeftMostLeaf
	lmJ := nodesB[j].LeftMostLeaf

	fd := newMatrix(i+2, j+2)

	for x := lmI; x <= i; x++ {
		fd[x+1][lmJ] = fd[x][lmJ] + k.Cost.Delete(nodesA[x])
	}
	for y := lmJ; y <= j; y++ {
		fd[lmI][y+1] = fd[lmI][y] + k.Cost.Insert(nodesB[y])
	}

	for x := lmI; x <= i; x++ {
		for y := lmJ; y <= j; y++ {
			lmX := nodesA[x].LeftMostLeaf
			lmY := nodesB[y].LeftMostLeaf

			deleteCost := fd[x][y+1] + k.Cost.Delete(nodesA[x])
			insertCost := fd[x+1][y] + k.Cost.Insert(nodesB[y])

			if lmX == lmI && lmY == lmJ {
				renameCost := fd[x][y] + k.Cost.Rename(nodesA[x], nodesB[y])
				fd[x+1][y+1] = min3(deleteCost, insertCost, renameCost)
				td[x+1][y+1] = fd[x+1][y+1]
			} else {
				subtreeCost := fd[lmX][lmY] + td[x+1][y+1]
				fd[x+1][y+1] = min3(deleteCost, insertCost, subtreeCost)
			}
		}
	}
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func subtreeInsertCost(cost CostModel, n *Node) float64 {
	if n == nil {
		return 0
	}
	total := cost.Insert(n)
	for _, c := range n.Children {
		total += subtreeInsertCost(cost, c)
	}
	return total
}

func subtreeDeleteCost(cost CostModel, n *Node) float64 {
	if n == nil {
		return 0
	}
	total := cost.Delete(n)
	for _, c := range n.Children {
		total += subtreeDeleteCost(cost, c)
	}
	return total
}

// Similarity computes tsed(a,b) = 1 - ted(a,b)/max(|a|,|b|), clamped to
// [0,1]. Two nil-equivalent empty trees are similarity 1.
func (k *TSEDKernel) Similarity(a, b *Node) float64 {
	maxSize := math.Max(float64(a.Size()), float64(b.Size()))
	if maxSize == 0 {
		return 1.0
	}
	dist := k.Distance(a, b)
	sim := 1.0 - dist/maxSize
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// matrixPool reuses the outer `td` distance matrix across kernel calls to
// cut allocation pressure in the hot path.
type matrixPool struct {
	free [][][]float64
}

func newMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	backing := make([]float64, rows*cols)
	for i := range m {
		m[i] = backing[i*cols : (i+1)*cols]
	}
	return m
}

func (p *matrixPool) get(rows, cols int) [][]float64 {
	for i, m := range p.free {
		if len(m) >= rows && len(m[0]) >= cols {
			p.free = append(p.free[:i], p.free[i+1:]...)
			for r := 0; r < rows; r++ {
				for c := 0; c < cols; c++ {
					m[r][c] = 0
				}
			}
			return m[:rows]
		}
	}
	return newMatrix(rows, cols)
}

func (p *matrixPool) put(m [][]float64) {
	if len(p.free) < 8 {
		p.free = append(p.free, m)
	}
}
