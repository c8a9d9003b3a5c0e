package denstream

import (
	"math"

	"github.com/YuminosukeSato/denstream/core/microcluster"
	"github.com/YuminosukeSato/denstream/pkg/log"
)

// maybePrune runs a pruning pass once Tp time units have passed since the last one.
func (e *Engine) maybePrune() {
	if !e.initialized || e.clock-e.lastPrune < e.tp {
		return
	}
	e.prune(e.clock)
}

// prune decays every micro-cluster to t, removes outliers lighter than
// their lower limit xi, then demotes potentials lighter than beta*mu.
// Demoted clusters are judged against xi from the next pass on.
func (e *Engine) prune(t int64) {
	lambda := e.cfg.Lambda
	threshold := e.cfg.PotentialThreshold()

	var drop, demote []uint64
	e.store.All(func(mc *microcluster.MicroCluster, kind microcluster.Kind) {
		mc.DecayTo(t, lambda)
		switch kind {
		case microcluster.Outlier:
			if mc.Weight < e.xi(t, mc.CreatedAt) {
				drop = append(drop, mc.ID)
			}
		case microcluster.Potential:
			if mc.Weight < threshold {
				demote = append(demote, mc.ID)
			}
		}
	})

	e.store.Remove(drop...)
	for _, id := range demote {
		e.store.SetKind(id, microcluster.Outlier)
	}

	e.lastPrune = t
	e.counters.prunes++
	e.counters.pruned += int64(len(drop))
	e.counters.demoted += int64(len(demote))

	if len(drop) > 0 || len(demote) > 0 {
		e.logger.Debug("Pruned micro-clusters",
			log.ClockKey, t,
			log.PrunedKey, len(drop),
			log.DemotedKey, len(demote),
			log.MicroClustersKey, e.store.Len(),
		)
	}
}

// xi is the lower weight limit of an outlier created at t0:
//
//	(2^(-lambda*(t-t0+Tp)) - 1) / (2^(-lambda*Tp) - 1)
func (e *Engine) xi(t, t0 int64) float64 {
	lambda := e.cfg.Lambda
	tp := float64(e.tp)
	num := math.Exp2(-lambda*(float64(t-t0)+tp)) - 1
	den := math.Exp2(-lambda*tp) - 1
	return num / den
}
