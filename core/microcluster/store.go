package microcluster

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Entry pairs a micro-cluster with its kind. Used for persistence.
type Entry struct {
	Cluster MicroCluster
	Kind    Kind
}

// Snapshot is a read-only copy of a micro-cluster with its weight projected
// to the snapshot time.
type Snapshot struct {
	ID        uint64
	Kind      Kind
	Weight    float64
	Center    []float64
	Radius    float64
	CreatedAt int64
	UpdatedAt int64
	Points    int
}

type entry struct {
	mc   *MicroCluster
	kind Kind
}

// Store keeps micro-clusters keyed by ID in insertion order. Iteration and
// nearest-neighbour ties follow that order, which keeps the engine
// deterministic. Store is not safe for concurrent use.
type Store struct {
	order  []uint64
	items  map[uint64]*entry
	nextID uint64
}

// NewStore creates an empty store. IDs start at 1.
func NewStore() *Store {
	return &Store{
		items:  make(map[uint64]*entry),
		nextID: 1,
	}
}

// NextID reserves a fresh identifier.
func (s *Store) NextID() uint64 {
	id := s.nextID
	s.nextID++
	return id
}

// Add inserts mc with the given kind. An existing ID is replaced in place.
func (s *Store) Add(mc *MicroCluster, kind Kind) {
	if e, ok := s.items[mc.ID]; ok {
		e.mc = mc
		e.kind = kind
		return
	}
	s.items[mc.ID] = &entry{mc: mc, kind: kind}
	s.order = append(s.order, mc.ID)
	if mc.ID >= s.nextID {
		s.nextID = mc.ID + 1
	}
}

// Get returns the micro-cluster and its kind.
func (s *Store) Get(id uint64) (*MicroCluster, Kind, bool) {
	e, ok := s.items[id]
	if !ok {
		return nil, Outlier, false
	}
	return e.mc, e.kind, true
}

// Has reports whether id is live.
func (s *Store) Has(id uint64) bool {
	_, ok := s.items[id]
	return ok
}

// SetKind changes the kind of a live micro-cluster.
func (s *Store) SetKind(id uint64, kind Kind) bool {
	e, ok := s.items[id]
	if !ok {
		return false
	}
	e.kind = kind
	return true
}

// Remove deletes the given ids, preserving the order of the rest.
func (s *Store) Remove(ids ...uint64) int {
	removed := 0
	for _, id := range ids {
		if _, ok := s.items[id]; ok {
			delete(s.items, id)
			removed++
		}
	}
	if removed == 0 {
		return 0
	}
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.items[id]; ok {
			kept = append(kept, id)
		}
	}
	s.order = kept
	return removed
}

// Len returns the number of live micro-clusters.
func (s *Store) Len() int {
	return len(s.order)
}

// Count returns the number of micro-clusters of the given kind.
func (s *Store) Count(kind Kind) int {
	n := 0
	for _, id := range s.order {
		if s.items[id].kind == kind {
			n++
		}
	}
	return n
}

// Each calls fn for every micro-cluster of the given kind in insertion order.
func (s *Store) Each(kind Kind, fn func(mc *MicroCluster)) {
	for _, id := range s.order {
		if e := s.items[id]; e.kind == kind {
			fn(e.mc)
		}
	}
}

// All calls fn for every micro-cluster in insertion order.
func (s *Store) All(fn func(mc *MicroCluster, kind Kind)) {
	for _, id := range s.order {
		e := s.items[id]
		fn(e.mc, e.kind)
	}
}

// IDs returns the ids of the given kind in insertion order.
func (s *Store) IDs(kind Kind) []uint64 {
	var ids []uint64
	s.Each(kind, func(mc *MicroCluster) {
		ids = append(ids, mc.ID)
	})
	return ids
}

// Nearest returns the micro-cluster of the given kind whose center is closest
// to point. Ties go to the earliest inserted.
func (s *Store) Nearest(point []float64, kind Kind) (*MicroCluster, float64, bool) {
	var (
		best     *MicroCluster
		bestDist = math.Inf(1)
	)
	center := make([]float64, len(point))
	s.Each(kind, func(mc *MicroCluster) {
		if mc.Weight <= 0 {
			return
		}
		floats.ScaleTo(center, 1/mc.Weight, mc.LS)
		d := floats.Distance(center, point, 2)
		if d < bestDist {
			best = mc
			bestDist = d
		}
	})
	return best, bestDist, best != nil
}

// TotalWeight sums the weights of all micro-clusters projected to t.
func (s *Store) TotalWeight(t int64, lambda float64) float64 {
	var total float64
	for _, id := range s.order {
		total += s.items[id].mc.WeightAt(t, lambda)
	}
	return total
}

// Snapshot copies every micro-cluster of the requested kinds with weights
// projected to t. No kinds means all kinds. The store is not modified.
func (s *Store) Snapshot(t int64, lambda float64, kinds ...Kind) []Snapshot {
	want := func(k Kind) bool {
		if len(kinds) == 0 {
			return true
		}
		for _, kk := range kinds {
			if kk == k {
				return true
			}
		}
		return false
	}

	out := make([]Snapshot, 0, len(s.order))
	for _, id := range s.order {
		e := s.items[id]
		if !want(e.kind) {
			continue
		}
		out = append(out, Snapshot{
			ID:        e.mc.ID,
			Kind:      e.kind,
			Weight:    e.mc.WeightAt(t, lambda),
			Center:    e.mc.Center(),
			Radius:    e.mc.Radius(),
			CreatedAt: e.mc.CreatedAt,
			UpdatedAt: e.mc.UpdatedAt,
			Points:    e.mc.Points,
		})
	}
	return out
}

// Entries returns deep copies of all entries in insertion order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		e := s.items[id]
		out = append(out, Entry{Cluster: *e.mc.Clone(), Kind: e.kind})
	}
	return out
}

// Restore replaces the contents of the store.
func (s *Store) Restore(entries []Entry, nextID uint64) {
	s.order = s.order[:0]
	s.items = make(map[uint64]*entry, len(entries))
	s.nextID = 1
	for i := range entries {
		mc := entries[i].Cluster.Clone()
		s.Add(mc, entries[i].Kind)
	}
	if nextID > s.nextID {
		s.nextID = nextID
	}
}

// PeekNextID returns the id the next NextID call will hand out.
func (s *Store) PeekNextID() uint64 {
	return s.nextID
}

// Potential returns the potential micro-clusters in insertion order.
func (s *Store) Potential() []*MicroCluster {
	return s.ofKind(Potential)
}

// Outliers returns the outlier micro-clusters in insertion order.
func (s *Store) Outliers() []*MicroCluster {
	return s.ofKind(Outlier)
}

func (s *Store) ofKind(kind Kind) []*MicroCluster {
	var out []*MicroCluster
	s.Each(kind, func(mc *MicroCluster) {
		out = append(out, mc)
	})
	return out
}
