package denstream

import (
	"github.com/YuminosukeSato/denstream/core/microcluster"
	"github.com/YuminosukeSato/denstream/pkg/errors"
)

// State is the gob-encodable form of an engine.
type State struct {
	Config      Config
	Clock       int64
	LastPrune   int64
	Initialized bool
	Buffer      [][]float64
	BufferIndex []int
	Owners      []uint64
	Entries     []microcluster.Entry
	NextID      uint64

	Merged, Created, Promoted, Demoted, Pruned, Prunes int64
}

// State captures a deep copy of the engine.
func (e *Engine) State() State {
	s := State{
		Config:      e.cfg,
		Clock:       e.clock,
		LastPrune:   e.lastPrune,
		Initialized: e.initialized,
		Owners:      e.Owners(),
		Entries:     e.store.Entries(),
		NextID:      e.store.PeekNextID(),
		Merged:      e.counters.merged,
		Created:     e.counters.created,
		Promoted:    e.counters.promoted,
		Demoted:     e.counters.demoted,
		Pruned:      e.counters.pruned,
		Prunes:      e.counters.prunes,
	}
	for _, bp := range e.buffer {
		s.Buffer = append(s.Buffer, append([]float64(nil), bp.point...))
		s.BufferIndex = append(s.BufferIndex, bp.index)
	}
	return s
}

// Restore builds an engine from a captured State. Inconsistent states are
// rejected with ErrCorruptState.
func Restore(s State) (*Engine, error) {
	e, err := New(s.Config)
	if err != nil {
		return nil, err
	}
	if err := s.check(); err != nil {
		return nil, err
	}

	e.clock = s.Clock
	e.lastPrune = s.LastPrune
	e.initialized = s.Initialized
	e.owners = append([]uint64(nil), s.Owners...)
	for i, p := range s.Buffer {
		e.buffer = append(e.buffer, bufferedPoint{index: s.BufferIndex[i], point: append([]float64(nil), p...)})
	}
	e.store.Restore(s.Entries, s.NextID)
	e.counters = counters{
		merged:   s.Merged,
		created:  s.Created,
		promoted: s.Promoted,
		demoted:  s.Demoted,
		pruned:   s.Pruned,
		prunes:   s.Prunes,
	}
	return e, nil
}

func (s State) check() error {
	if len(s.Buffer) != len(s.BufferIndex) {
		return errors.Wrap(errors.ErrCorruptState, "buffer and buffer index lengths differ")
	}
	if s.Initialized && len(s.Buffer) > 0 {
		return errors.Wrap(errors.ErrCorruptState, "initialized engine with buffered points")
	}
	if s.LastPrune > s.Clock {
		return errors.Wrap(errors.ErrCorruptState, "last prune after clock")
	}
	for i, idx := range s.BufferIndex {
		if idx < 0 || idx >= len(s.Owners) {
			return errors.Wrapf(errors.ErrCorruptState, "buffer entry %d points past the ownership array", i)
		}
		if len(s.Buffer[i]) != s.Config.Dimensions {
			return errors.Wrapf(errors.ErrCorruptState, "buffer entry %d has %d dimensions", i, len(s.Buffer[i]))
		}
	}
	for i, en := range s.Entries {
		if err := errors.CheckScalar("restore", en.Cluster.Weight, i); err != nil || en.Cluster.Weight < 0 {
			return errors.Wrapf(errors.ErrCorruptState, "micro-cluster %d has weight %v", en.Cluster.ID, en.Cluster.Weight)
		}
		if len(en.Cluster.LS) != s.Config.Dimensions || len(en.Cluster.SS) != s.Config.Dimensions {
			return errors.Wrapf(errors.ErrCorruptState, "micro-cluster %d has wrong dimensions", en.Cluster.ID)
		}
		if en.Cluster.ID == 0 || en.Cluster.ID >= s.NextID {
			return errors.Wrapf(errors.ErrCorruptState, "micro-cluster id %d out of range", en.Cluster.ID)
		}
	}
	return nil
}
