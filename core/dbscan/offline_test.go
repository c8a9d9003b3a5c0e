package dbscan

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/denstream/core/microcluster"
)

func snapshot(weights []float64, centers ...[]float64) []microcluster.Snapshot {
	out := make([]microcluster.Snapshot, len(centers))
	for i, c := range centers {
		out[i] = microcluster.Snapshot{
			ID:     uint64(i + 1),
			Kind:   microcluster.Potential,
			Weight: weights[i],
			Center: c,
		}
	}
	return out
}

func TestReclusterEmpty(t *testing.T) {
	res := Recluster(nil, Params{Radius: 1, MinWeight: 1})
	assert.Equal(t, 0, res.NClusters)
	assert.Empty(t, res.Labels)
	assert.Equal(t, Noise, res.Label(3))
}

func TestReclusterSingleHeavyMicroCluster(t *testing.T) {
	snap := snapshot([]float64{2}, []float64{0.05, 0.05})
	res := Recluster(snap, Params{Radius: 1, MinWeight: 1})

	assert.Equal(t, 1, res.NClusters)
	assert.Equal(t, 0, res.Label(1))
	require.Len(t, res.Clusters, 1)
	assert.Equal(t, []uint64{1}, res.Clusters[0].Members)
	assert.InDeltaSlice(t, []float64{0.05, 0.05}, res.Clusters[0].Center, 1e-12)
	assert.Empty(t, res.Noise)
}

func TestReclusterChainAndNoise(t *testing.T) {
	// a chain 0-1-2 within radius, an isolated light micro-cluster, and a
	// second dense pair far away
	snap := snapshot(
		[]float64{1, 1, 1, 0.5, 1, 1},
		[]float64{0}, []float64{0.9}, []float64{1.8},
		[]float64{50},
		[]float64{100}, []float64{100.5},
	)
	res := Recluster(snap, Params{Radius: 1, MinWeight: 2})

	assert.Equal(t, 2, res.NClusters)
	want := map[uint64]int{1: 0, 2: 0, 3: 0, 4: Noise, 5: 1, 6: 1}
	if diff := cmp.Diff(want, res.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []uint64{4}, res.Noise)
	assert.InDelta(t, 3.0, res.Clusters[0].Weight, 1e-12)
	assert.InDeltaSlice(t, []float64{0.9}, res.Clusters[0].Center, 1e-12)
}

func TestReclusterBorderDoesNotExpand(t *testing.T) {
	// 1 is core through 2 and 3; 3 only reaches weight 1.9 so it is a
	// border member and 4 stays noise
	snap := snapshot(
		[]float64{1, 1, 0.5, 0.4},
		[]float64{0}, []float64{-1}, []float64{1}, []float64{2},
	)
	res := Recluster(snap, Params{Radius: 1, MinWeight: 2})

	assert.Equal(t, 1, res.NClusters)
	assert.Equal(t, 0, res.Label(1))
	assert.Equal(t, 0, res.Label(2))
	assert.Equal(t, 0, res.Label(3))
	assert.Equal(t, Noise, res.Label(4))
}

func TestReclusterRadiusIsInclusive(t *testing.T) {
	snap := snapshot([]float64{1, 1}, []float64{0, 0}, []float64{3, 4})
	res := Recluster(snap, Params{Radius: 5, MinWeight: 2})
	assert.Equal(t, 1, res.NClusters)

	res = Recluster(snap, Params{Radius: 4.999, MinWeight: 2})
	assert.Equal(t, 0, res.NClusters)
}

func TestRelabel(t *testing.T) {
	res := Result{Labels: map[uint64]int{1: 0, 2: Noise, 3: 1}}
	got := Relabel([]uint64{1, 1, 2, 0, 3, 9}, res)
	assert.Equal(t, []int{0, 0, Noise, Noise, 1, Noise}, got)
}

func bruteNeighbours(centers [][]float64, r float64) [][]int {
	out := make([][]int, len(centers))
	for i := range centers {
		for j := range centers {
			var s float64
			for d := range centers[i] {
				diff := centers[i][d] - centers[j][d]
				s += diff * diff
			}
			if math.Sqrt(s) <= r {
				out[i] = append(out[i], j)
			}
		}
	}
	return out
}

func TestIndexMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	centers := make([][]float64, 400)
	for i := range centers {
		centers[i] = []float64{rng.Float64() * 10, rng.Float64() * 10, rng.Float64() * 10}
	}
	want := bruteNeighbours(centers, 1.2)

	ix := newIndex(append([][]float64(nil), centers...))
	for i, c := range centers {
		got := ix.within(c, 1.2)
		require.True(t, sort.IntsAreSorted(got))
		if diff := cmp.Diff(want[i], got); diff != "" {
			t.Fatalf("neighbours of %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestReclusterParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n := 1000
	weights := make([]float64, n)
	centers := make([][]float64, n)
	for i := range centers {
		base := float64(i%5) * 10
		centers[i] = []float64{base + rng.NormFloat64(), base + rng.NormFloat64()}
		weights[i] = 0.5 + rng.Float64()
	}
	snap := snapshot(weights, centers...)

	seq := Recluster(snap, Params{Radius: 0.8, MinWeight: 3, ParallelThreshold: n + 1})
	par := Recluster(snap, Params{Radius: 0.8, MinWeight: 3, ParallelThreshold: 1})

	if diff := cmp.Diff(seq, par); diff != "" {
		t.Errorf("parallel result differs (-seq +par):\n%s", diff)
	}
	assert.Equal(t, seq, Recluster(snap, Params{Radius: 0.8, MinWeight: 3}))
}
