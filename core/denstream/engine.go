// Package denstream implements the fading-window update engine of DenStream:
// points are absorbed one at a time into potential and outlier
// micro-clusters whose weights decay as 2^(-lambda*dt), and a periodic pruning
// pass demotes or drops the ones that faded away.
package denstream

import (
	"github.com/YuminosukeSato/denstream/core/microcluster"
	"github.com/YuminosukeSato/denstream/pkg/errors"
	"github.com/YuminosukeSato/denstream/pkg/log"
)

type bufferedPoint struct {
	index int
	point []float64
}

// Engine owns the micro-cluster store. It is not safe for concurrent use;
// callers serialize access.
type Engine struct {
	cfg    Config
	tp     int64
	store  *microcluster.Store
	logger log.Logger

	clock       int64
	lastPrune   int64
	initialized bool
	buffer      []bufferedPoint

	// owners[i] is the micro-cluster that absorbed point i, 0 while buffered.
	owners []uint64

	counters counters
}

type counters struct {
	merged   int64
	created  int64
	promoted int64
	demoted  int64
	pruned   int64
	prunes   int64
}

// New validates cfg and returns an empty engine. A ParameterWarning is
// raised when beta*mu <= 1, since the pruning period then falls back to one
// time unit.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.PotentialThreshold() <= 1 {
		errors.Warn(errors.NewParameterWarning("beta*mu", cfg.PotentialThreshold(),
			"pruning period is undefined for beta*mu <= 1; pruning every time unit"))
	}
	return &Engine{
		cfg:         cfg,
		tp:          cfg.PruningPeriod(),
		store:       microcluster.NewStore(),
		logger:      log.GetLoggerWithName("denstream.engine"),
		initialized: cfg.InitPoints == 0,
	}, nil
}

// SetLogger replaces the engine logger.
func (e *Engine) SetLogger(l log.Logger) {
	if l != nil {
		e.logger = l
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Clock returns the current engine time.
func (e *Engine) Clock() int64 {
	return e.clock
}

// Processed returns the number of absorbed points, buffered ones included.
func (e *Engine) Processed() int64 {
	return int64(len(e.owners))
}

// Initialized reports whether batch initialization has completed.
func (e *Engine) Initialized() bool {
	return e.initialized
}

// PruningPeriod returns Tp in time units.
func (e *Engine) PruningPeriod() int64 {
	return e.tp
}

// Tick converts a processed-point count into engine time. The count
// includes the point about to be absorbed.
func (e *Engine) Tick(processed int64) int64 {
	return processed / int64(e.cfg.ProcessingSpeed)
}

// AbsorbNext absorbs point at the time derived from the processed count.
func (e *Engine) AbsorbNext(point []float64) error {
	return e.Absorb(point, e.Tick(e.Processed()+1))
}

// Absorb feeds one point that arrived at time t. The point is validated
// before any state changes: a wrong length gives a DimensionError, NaN or Inf
// a NumericalInstabilityError, and t earlier than the clock a ValueError.
func (e *Engine) Absorb(point []float64, t int64) error {
	index := len(e.owners)
	if len(point) != e.cfg.Dimensions {
		return errors.NewDimensionError("absorb", e.cfg.Dimensions, len(point), 1)
	}
	if err := errors.CheckNumericalStability("absorb", point, index); err != nil {
		return err
	}
	if t < e.clock {
		return errors.NewValueError("absorb", "arrival time moved backwards")
	}

	p := append([]float64(nil), point...)
	e.clock = t
	e.owners = append(e.owners, 0)

	if !e.initialized {
		e.buffer = append(e.buffer, bufferedPoint{index: index, point: p})
		if len(e.buffer) >= e.cfg.InitPoints {
			e.initialize(t)
		}
		return nil
	}

	e.owners[index] = e.place(p, t)
	e.maybePrune()
	return nil
}

// place runs the online assignment of one point and returns its owner.
func (e *Engine) place(p []float64, t int64) uint64 {
	lambda := e.cfg.Lambda

	if mc, _, ok := e.store.Nearest(p, microcluster.Potential); ok {
		if mc.RadiusWith(p, t, lambda) <= e.cfg.Epsilon {
			mc.Insert(p, t, lambda)
			e.counters.merged++
			return mc.ID
		}
	}

	if mc, _, ok := e.store.Nearest(p, microcluster.Outlier); ok {
		if mc.RadiusWith(p, t, lambda) <= e.cfg.Epsilon {
			mc.Insert(p, t, lambda)
			e.counters.merged++
			if mc.Weight >= e.cfg.PotentialThreshold() {
				e.store.SetKind(mc.ID, microcluster.Potential)
				e.counters.promoted++
			}
			return mc.ID
		}
	}

	mc := microcluster.New(e.store.NextID(), p, t)
	e.store.Add(mc, microcluster.Outlier)
	e.counters.created++
	return mc.ID
}

// DecayTo advances the clock to t and eagerly decays every micro-cluster.
func (e *Engine) DecayTo(t int64) error {
	if t < e.clock {
		return errors.NewValueError("decay", "time moved backwards")
	}
	e.clock = t
	lambda := e.cfg.Lambda
	e.store.All(func(mc *microcluster.MicroCluster, _ microcluster.Kind) {
		mc.DecayTo(t, lambda)
	})
	e.maybePrune()
	return nil
}

// Snapshot returns copies of every micro-cluster with weights projected to
// the current clock. The store is not modified.
func (e *Engine) Snapshot(kinds ...microcluster.Kind) []microcluster.Snapshot {
	return e.store.Snapshot(e.clock, e.cfg.Lambda, kinds...)
}

// Owners returns a copy of the point ownership array.
func (e *Engine) Owners() []uint64 {
	return append([]uint64(nil), e.owners...)
}

// Live reports whether micro-cluster id still exists.
func (e *Engine) Live(id uint64) bool {
	return e.store.Has(id)
}
