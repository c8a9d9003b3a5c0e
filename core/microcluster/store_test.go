package microcluster

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreWith(points ...[]float64) *Store {
	s := NewStore()
	for _, p := range points {
		s.Add(New(s.NextID(), p, 0), Outlier)
	}
	return s
}

func TestStoreInsertionOrder(t *testing.T) {
	s := newStoreWith([]float64{0}, []float64{1}, []float64{2})
	s.SetKind(2, Potential)

	assert.Equal(t, []uint64{1, 3}, s.IDs(Outlier))
	assert.Equal(t, []uint64{2}, s.IDs(Potential))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 1, s.Count(Potential))
	assert.Equal(t, 2, s.Count(Outlier))
	require.Len(t, s.Potential(), 1)
	require.Len(t, s.Outliers(), 2)

	removed := s.Remove(1, 42)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []uint64{3}, s.IDs(Outlier))
	assert.False(t, s.Has(1))

	// ids are never reused
	assert.Equal(t, uint64(4), s.NextID())
}

func TestStoreNearestTieBreak(t *testing.T) {
	s := newStoreWith([]float64{-1, 0}, []float64{1, 0})

	mc, d, ok := s.Nearest([]float64{0, 0}, Outlier)
	require.True(t, ok)
	assert.Equal(t, uint64(1), mc.ID)
	assert.InDelta(t, 1.0, d, 1e-12)

	_, _, ok = s.Nearest([]float64{0, 0}, Potential)
	assert.False(t, ok)
}

func TestStoreNearestPicksClosest(t *testing.T) {
	s := newStoreWith([]float64{5, 5}, []float64{0.2, 0}, []float64{-3, 0})
	mc, _, ok := s.Nearest([]float64{0, 0}, Outlier)
	require.True(t, ok)
	assert.Equal(t, uint64(2), mc.ID)
}

func TestStoreSnapshotDoesNotMutate(t *testing.T) {
	s := newStoreWith([]float64{1, 1})
	s.SetKind(1, Potential)

	snap := s.Snapshot(4, 0.25)
	require.Len(t, snap, 1)
	assert.InDelta(t, 0.5, snap[0].Weight, 1e-12)
	assert.Equal(t, Potential, snap[0].Kind)

	snap[0].Center[0] = 99
	mc, _, _ := s.Get(1)
	assert.Equal(t, 1.0, mc.Weight)
	assert.Equal(t, []float64{1, 1}, mc.Center())

	assert.Empty(t, s.Snapshot(4, 0.25, Outlier))
}

func TestStoreTotalWeight(t *testing.T) {
	s := newStoreWith([]float64{0}, []float64{1})
	assert.InDelta(t, 2.0, s.TotalWeight(0, 0.25), 1e-12)
	assert.InDelta(t, 1.0, s.TotalWeight(4, 0.25), 1e-12)
}

func TestStoreEntriesRestore(t *testing.T) {
	s := newStoreWith([]float64{0}, []float64{1}, []float64{2})
	s.SetKind(3, Potential)
	s.Remove(2)

	entries := s.Entries()
	restored := NewStore()
	restored.Restore(entries, s.PeekNextID())

	if diff := cmp.Diff(s.Entries(), restored.Entries()); diff != "" {
		t.Errorf("restored entries mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []uint64{3}, restored.IDs(Potential))
	assert.Equal(t, uint64(4), restored.NextID())
}
