package denstream

import (
	"math"

	"github.com/YuminosukeSato/denstream/pkg/errors"
)

// Config holds the DenStream hyperparameters. A validated Config is treated
// as immutable by the engine.
type Config struct {
	// Dimensions is the length of every point.
	Dimensions int `mapstructure:"dimensions" json:"dimensions" yaml:"dimensions"`
	// WindowRange is the horizon in time units. It caps the pruning period.
	WindowRange int64 `mapstructure:"window_range" json:"window_range" yaml:"window_range"`
	// Epsilon is the maximum micro-cluster radius.
	Epsilon float64 `mapstructure:"epsilon" json:"epsilon" yaml:"epsilon"`
	// Beta scales Mu into the potential weight threshold.
	Beta float64 `mapstructure:"beta" json:"beta" yaml:"beta"`
	// Mu is the core weight threshold.
	Mu float64 `mapstructure:"mu" json:"mu" yaml:"mu"`
	// InitPoints is the size of the initialization buffer. Zero disables batch initialization.
	InitPoints int `mapstructure:"init_points" json:"init_points" yaml:"init_points"`
	// OfflineMultiplier scales Epsilon into the offline neighbourhood radius.
	OfflineMultiplier float64 `mapstructure:"offline_multiplier" json:"offline_multiplier" yaml:"offline_multiplier"`
	// Lambda is the decay rate of the fading function 2^(-lambda*dt).
	Lambda float64 `mapstructure:"lambda" json:"lambda" yaml:"lambda"`
	// ProcessingSpeed is the number of points per time unit.
	ProcessingSpeed int `mapstructure:"processing_speed" json:"processing_speed" yaml:"processing_speed"`
}

// DefaultConfig returns the stock hyperparameters for the given dimensionality.
func DefaultConfig(dimensions int) Config {
	return Config{
		Dimensions:        dimensions,
		WindowRange:       1000,
		Epsilon:           0.02,
		Beta:              0.2,
		Mu:                1.0,
		InitPoints:        1000,
		OfflineMultiplier: 2.0,
		Lambda:            0.25,
		ProcessingSpeed:   100,
	}
}

// Validate checks every parameter and reports the first offending one as a
// ConfigurationError.
func (c Config) Validate() error {
	if c.Dimensions <= 0 {
		return errors.NewConfigurationError("dimensions", "must be positive", c.Dimensions)
	}
	if c.WindowRange <= 0 {
		return errors.NewConfigurationError("window_range", "must be positive", c.WindowRange)
	}
	if !positive(c.Epsilon) {
		return errors.NewConfigurationError("epsilon", "must be a positive finite number", c.Epsilon)
	}
	if !positive(c.Beta) || c.Beta > 1 {
		return errors.NewConfigurationError("beta", "must be in (0, 1]", c.Beta)
	}
	if !positive(c.Mu) {
		return errors.NewConfigurationError("mu", "must be a positive finite number", c.Mu)
	}
	if c.InitPoints < 0 {
		return errors.NewConfigurationError("init_points", "must be non-negative", c.InitPoints)
	}
	if !positive(c.OfflineMultiplier) {
		return errors.NewConfigurationError("offline_multiplier", "must be a positive finite number", c.OfflineMultiplier)
	}
	if !positive(c.Lambda) {
		return errors.NewConfigurationError("lambda", "must be a positive finite number", c.Lambda)
	}
	if c.ProcessingSpeed <= 0 {
		return errors.NewConfigurationError("processing_speed", "must be positive", c.ProcessingSpeed)
	}
	return nil
}

// PotentialThreshold returns beta*mu.
func (c Config) PotentialThreshold() float64 {
	return c.Beta * c.Mu
}

// OfflineRadius returns epsilon*offline_multiplier.
func (c Config) OfflineRadius() float64 {
	return c.Epsilon * c.OfflineMultiplier
}

// PruningPeriod returns Tp in time units:
//
//	Tp = ceil((1/lambda) * log2(beta*mu / (beta*mu - 1)))
//
// clamped to [1, WindowRange]. When beta*mu <= 1 the formula is undefined
// and the period falls back to one time unit.
func (c Config) PruningPeriod() int64 {
	bm := c.PotentialThreshold()
	tp := int64(1)
	if bm > 1 {
		v := math.Ceil(math.Log2(bm/(bm-1)) / c.Lambda)
		if v < math.MaxInt64/2 {
			tp = int64(v)
		} else {
			tp = c.WindowRange
		}
	}
	if tp > c.WindowRange {
		tp = c.WindowRange
	}
	if tp < 1 {
		tp = 1
	}
	return tp
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
