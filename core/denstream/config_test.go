package denstream

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/denstream/pkg/errors"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig(2)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.WindowRange != 1000 || cfg.Epsilon != 0.02 || cfg.Beta != 0.2 || cfg.Mu != 1 ||
		cfg.InitPoints != 1000 || cfg.OfflineMultiplier != 2 || cfg.Lambda != 0.25 || cfg.ProcessingSpeed != 100 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		param  string
	}{
		{"zero dimensions", func(c *Config) { c.Dimensions = 0 }, "dimensions"},
		{"zero window", func(c *Config) { c.WindowRange = 0 }, "window_range"},
		{"negative epsilon", func(c *Config) { c.Epsilon = -1 }, "epsilon"},
		{"nan epsilon", func(c *Config) { c.Epsilon = math.NaN() }, "epsilon"},
		{"beta above one", func(c *Config) { c.Beta = 1.5 }, "beta"},
		{"zero beta", func(c *Config) { c.Beta = 0 }, "beta"},
		{"zero mu", func(c *Config) { c.Mu = 0 }, "mu"},
		{"negative init points", func(c *Config) { c.InitPoints = -1 }, "init_points"},
		{"zero offline multiplier", func(c *Config) { c.OfflineMultiplier = 0 }, "offline_multiplier"},
		{"inf lambda", func(c *Config) { c.Lambda = math.Inf(1) }, "lambda"},
		{"zero processing speed", func(c *Config) { c.ProcessingSpeed = 0 }, "processing_speed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(2)
			tt.mutate(&cfg)
			err := cfg.Validate()
			var cerr *errors.ConfigurationError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
			if cerr.ParamName != tt.param {
				t.Errorf("ParamName = %q, want %q", cerr.ParamName, tt.param)
			}
		})
	}
}

func TestPruningPeriod(t *testing.T) {
	tests := []struct {
		name   string
		beta   float64
		mu     float64
		lambda float64
		window int64
		want   int64
	}{
		{"beta*mu=2", 1, 2, 0.25, 1000, 4},
		{"beta*mu=1.5", 0.5, 3, 0.25, 1000, 7},
		{"undefined falls back", 0.2, 1, 0.25, 1000, 1},
		{"capped by window", 1, 2, 0.01, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(1)
			cfg.Beta, cfg.Mu, cfg.Lambda, cfg.WindowRange = tt.beta, tt.mu, tt.lambda, tt.window
			if got := cfg.PruningPeriod(); got != tt.want {
				t.Errorf("PruningPeriod() = %d, want %d", got, tt.want)
			}
		})
	}
}
