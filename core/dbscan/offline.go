// Package dbscan runs the offline DenStream pass: a weighted DBSCAN over
// potential micro-cluster centers that turns the online summaries into final
// clusters.
package dbscan

import (
	"github.com/YuminosukeSato/denstream/core/microcluster"
	"github.com/YuminosukeSato/denstream/core/parallel"

	"gonum.org/v1/gonum/floats"
)

// Noise is the label of micro-clusters and points outside every cluster.
const Noise = -1

// DefaultParallelThreshold is the snapshot size above which neighbour lists
// are computed concurrently.
const DefaultParallelThreshold = 256

// Params configures the offline pass.
type Params struct {
	// Radius is the neighbourhood radius between centers (epsilon*offline multiplier).
	Radius float64
	// MinWeight is the summed neighbourhood weight a core micro-cluster needs (mu).
	MinWeight float64
	// ParallelThreshold overrides DefaultParallelThreshold when positive.
	ParallelThreshold int
}

// Cluster is one final cluster.
type Cluster struct {
	ID int
	// Center is the weight-averaged center of the members.
	Center  []float64
	Weight  float64
	Members []uint64
}

// Result maps micro-clusters to final clusters.
type Result struct {
	Labels    map[uint64]int
	NClusters int
	Clusters  []Cluster
	Noise     []uint64
}

// Label returns the cluster of micro-cluster id, Noise when unknown.
func (r Result) Label(id uint64) int {
	if l, ok := r.Labels[id]; ok {
		return l
	}
	return Noise
}

// Recluster groups the snapshot by density reachability. A micro-cluster is
// core when the weights of the micro-clusters within Radius of its center,
// itself included, sum to at least MinWeight. Clusters grow through core
// micro-clusters; non-core ones reached along the way are border members.
// Iteration follows snapshot order and cluster ids are assigned 0, 1, 2, ...
// in discovery order, so equal snapshots give equal results.
func Recluster(snap []microcluster.Snapshot, p Params) Result {
	res := Result{Labels: make(map[uint64]int, len(snap))}
	n := len(snap)
	if n == 0 {
		return res
	}

	centers := make([][]float64, n)
	for i := range snap {
		centers[i] = snap[i].Center
	}
	ix := newIndex(centers)

	threshold := p.ParallelThreshold
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}
	neighbours := make([][]int, n)
	core := make([]bool, n)
	parallel.ParallelizeWithThreshold(n, threshold, func(start, end int) {
		for i := start; i < end; i++ {
			neighbours[i] = ix.within(centers[i], p.Radius)
			var w float64
			for _, j := range neighbours[i] {
				w += snap[j].Weight
			}
			core[i] = w >= p.MinWeight
		}
	})

	labels := make([]int, n)
	for i := range labels {
		labels[i] = Noise
	}

	next := 0
	for i := 0; i < n; i++ {
		if labels[i] != Noise || !core[i] {
			continue
		}
		id := next
		next++
		labels[i] = id
		queue := []int{i}
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			for _, k := range neighbours[j] {
				if labels[k] != Noise {
					continue
				}
				labels[k] = id
				if core[k] {
					queue = append(queue, k)
				}
			}
		}
	}

	res.NClusters = next
	res.Clusters = make([]Cluster, next)
	for c := range res.Clusters {
		res.Clusters[c] = Cluster{ID: c, Center: make([]float64, len(centers[0]))}
	}
	for i, s := range snap {
		res.Labels[s.ID] = labels[i]
		if labels[i] == Noise {
			res.Noise = append(res.Noise, s.ID)
			continue
		}
		c := &res.Clusters[labels[i]]
		c.Members = append(c.Members, s.ID)
		c.Weight += s.Weight
		floats.AddScaled(c.Center, s.Weight, s.Center)
	}
	for c := range res.Clusters {
		if w := res.Clusters[c].Weight; w > 0 {
			floats.Scale(1/w, res.Clusters[c].Center)
		}
	}
	return res
}

// Relabel turns point ownership into point labels. Owner 0 (still buffered)
// and owners that are not in the result get Noise.
func Relabel(owners []uint64, r Result) []int {
	labels := make([]int, len(owners))
	for i, id := range owners {
		if id == 0 {
			labels[i] = Noise
			continue
		}
		labels[i] = r.Label(id)
	}
	return labels
}
