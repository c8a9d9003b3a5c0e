package denstream

import "github.com/YuminosukeSato/denstream/core/microcluster"

// Stats is a point-in-time summary of the engine.
type Stats struct {
	Clock         int64
	Processed     int64
	Buffered      int
	Initialized   bool
	Potential     int
	Outlier       int
	Merged        int64
	Created       int64
	Promoted      int64
	Demoted       int64
	Pruned        int64
	Prunes        int64
	LastPrune     int64
	PruningPeriod int64
	TotalWeight   float64
}

// Stats returns the current counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Clock:         e.clock,
		Processed:     e.Processed(),
		Buffered:      len(e.buffer),
		Initialized:   e.initialized,
		Potential:     e.store.Count(microcluster.Potential),
		Outlier:       e.store.Count(microcluster.Outlier),
		Merged:        e.counters.merged,
		Created:       e.counters.created,
		Promoted:      e.counters.promoted,
		Demoted:       e.counters.demoted,
		Pruned:        e.counters.pruned,
		Prunes:        e.counters.prunes,
		LastPrune:     e.lastPrune,
		PruningPeriod: e.tp,
		TotalWeight:   e.store.TotalWeight(e.clock, e.cfg.Lambda),
	}
}
