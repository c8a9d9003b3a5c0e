package denstream

import (
	"github.com/YuminosukeSato/denstream/core/microcluster"
	"github.com/YuminosukeSato/denstream/pkg/log"

	"gonum.org/v1/gonum/floats"
)

// initialize turns the buffered points into potential micro-clusters.
// Each uncovered point, in arrival order, gathers the uncovered points within
// epsilon of it. A group of at least mu points becomes a potential
// micro-cluster. The remaining points go through the online path. Everything
// is inserted at time t.
func (e *Engine) initialize(t int64) {
	covered := make([]bool, len(e.buffer))
	eps := e.cfg.Epsilon
	lambda := e.cfg.Lambda
	created := 0

	for i := range e.buffer {
		if covered[i] {
			continue
		}
		group := []int{i}
		for j := i + 1; j < len(e.buffer); j++ {
			if covered[j] {
				continue
			}
			if floats.Distance(e.buffer[i].point, e.buffer[j].point, 2) <= eps {
				group = append(group, j)
			}
		}
		if float64(len(group)) < e.cfg.Mu {
			continue
		}

		mc := microcluster.New(e.store.NextID(), e.buffer[i].point, t)
		for _, j := range group[1:] {
			mc.Insert(e.buffer[j].point, t, lambda)
		}
		e.store.Add(mc, microcluster.Potential)
		e.counters.created++
		created++
		for _, j := range group {
			covered[j] = true
			e.owners[e.buffer[j].index] = mc.ID
		}
	}

	for i, bp := range e.buffer {
		if !covered[i] {
			e.owners[bp.index] = e.place(bp.point, t)
		}
	}

	e.logger.Info("Initialization finished",
		log.SamplesKey, len(e.buffer),
		log.PotentialKey, created,
		log.MicroClustersKey, e.store.Len(),
		log.ClockKey, t,
	)

	e.buffer = nil
	e.initialized = true
	e.maybePrune()
}
