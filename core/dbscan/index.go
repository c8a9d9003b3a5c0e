package dbscan

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// node is a k-d tree entry remembering its position in the snapshot.
type node struct {
	point []float64
	index int
}

func (n node) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return n.point[d] - c.(node).point[d]
}

func (n node) Dims() int { return len(n.point) }

// Distance is the squared Euclidean distance, as kdtree expects.
func (n node) Distance(c kdtree.Comparable) float64 {
	q := c.(node)
	var sum float64
	for i, v := range n.point {
		d := v - q.point[i]
		sum += d * d
	}
	return sum
}

type nodes []node

func (ns nodes) Index(i int) kdtree.Comparable         { return ns[i] }
func (ns nodes) Len() int                              { return len(ns) }
func (ns nodes) Pivot(d kdtree.Dim) int                { return plane{Dim: d, nodes: ns}.Pivot() }
func (ns nodes) Slice(start, end int) kdtree.Interface { return ns[start:end] }

// plane sorts nodes along one dimension for tree construction.
type plane struct {
	kdtree.Dim
	nodes
}

func (p plane) Less(i, j int) bool {
	return p.nodes[i].point[p.Dim] < p.nodes[j].point[p.Dim]
}

func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.nodes = p.nodes[start:end]
	return p
}

func (p plane) Swap(i, j int) {
	p.nodes[i], p.nodes[j] = p.nodes[j], p.nodes[i]
}

// index answers fixed-radius queries over micro-cluster centers.
type index struct {
	tree *kdtree.Tree
}

func newIndex(centers [][]float64) *index {
	ns := make(nodes, len(centers))
	for i, c := range centers {
		ns[i] = node{point: c, index: i}
	}
	return &index{tree: kdtree.New(ns, false)}
}

// within returns the snapshot positions whose centers lie within r of q,
// sorted ascending.
func (ix *index) within(q []float64, r float64) []int {
	r2 := r * r
	// widen the keeper slightly and filter exactly below
	keeper := kdtree.NewDistKeeper(r2*(1+1e-9) + 1e-300)
	query := node{point: q, index: -1}
	ix.tree.NearestSet(keeper, query)

	out := make([]int, 0, keeper.Len())
	for _, cd := range keeper.Heap {
		if cd.Comparable == nil {
			continue
		}
		n := cd.Comparable.(node)
		if n.Distance(query) <= r2 {
			out = append(out, n.index)
		}
	}
	sort.Ints(out)
	return out
}
