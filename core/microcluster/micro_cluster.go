// Package microcluster holds the decaying cluster-feature summaries that
// DenStream maintains over a data stream, and the insertion-ordered store
// that owns them.
package microcluster

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/denstream/pkg/errors"
)

// Kind classifies a micro-cluster. The kind is store membership: it changes
// only through promotion after an absorption or demotion during pruning.
type Kind int

const (
	// Outlier micro-clusters have weight below beta*mu or have not yet been promoted.
	Outlier Kind = iota
	// Potential micro-clusters take part in the offline pass.
	Potential
)

func (k Kind) String() string {
	switch k {
	case Potential:
		return "potential"
	case Outlier:
		return "outlier"
	default:
		return "unknown"
	}
}

// MicroCluster is a fading cluster feature (W, LS, SS) valid as of UpdatedAt.
// Fields are exported for gob encoding; mutate through the methods.
type MicroCluster struct {
	ID        uint64
	Weight    float64
	LS        []float64
	SS        []float64
	CreatedAt int64
	UpdatedAt int64
	// Points counts absorbed points without decay.
	Points int
}

// DecayFactor returns 2^(-lambda*dt). Non-positive dt yields 1.
func DecayFactor(lambda float64, dt int64) float64 {
	if dt <= 0 {
		return 1
	}
	return math.Exp2(-lambda * float64(dt))
}

// New creates a micro-cluster holding a single point observed at t.
func New(id uint64, point []float64, t int64) *MicroCluster {
	ls := make([]float64, len(point))
	copy(ls, point)
	ss := make([]float64, len(point))
	floats.MulTo(ss, point, point)
	return &MicroCluster{
		ID:        id,
		Weight:    1,
		LS:        ls,
		SS:        ss,
		CreatedAt: t,
		UpdatedAt: t,
		Points:    1,
	}
}

// Dims returns the dimensionality.
func (mc *MicroCluster) Dims() int {
	return len(mc.LS)
}

// DecayTo fades W, LS and SS from UpdatedAt to t. Times at or before
// UpdatedAt leave the cluster untouched.
func (mc *MicroCluster) DecayTo(t int64, lambda float64) {
	dt := t - mc.UpdatedAt
	if dt <= 0 {
		return
	}
	f := DecayFactor(lambda, dt)
	mc.Weight *= f
	floats.Scale(f, mc.LS)
	floats.Scale(f, mc.SS)
	mc.UpdatedAt = t
}

// WeightAt returns the weight projected to t without mutating the cluster.
func (mc *MicroCluster) WeightAt(t int64, lambda float64) float64 {
	return mc.Weight * DecayFactor(lambda, t-mc.UpdatedAt)
}

// Insert decays the cluster to t and absorbs point with weight 1.
func (mc *MicroCluster) Insert(point []float64, t int64, lambda float64) {
	mc.DecayTo(t, lambda)
	mc.Weight++
	floats.Add(mc.LS, point)
	for i, v := range point {
		mc.SS[i] += v * v
	}
	mc.Points++
}

// Center returns LS/W. Decay scales LS and W alike, so the center does not
// depend on time.
func (mc *MicroCluster) Center() []float64 {
	c := make([]float64, len(mc.LS))
	if mc.Weight <= 0 {
		return c
	}
	floats.ScaleTo(c, 1/mc.Weight, mc.LS)
	return c
}

// Radius returns sqrt(sum_d SS_d/W - (LS_d/W)^2), clamped at zero.
func (mc *MicroCluster) Radius() float64 {
	return radius(mc.Weight, mc.LS, mc.SS, 1, nil)
}

// RadiusWith returns the radius the cluster would have after absorbing point
// at time t. The cluster is not modified.
func (mc *MicroCluster) RadiusWith(point []float64, t int64, lambda float64) float64 {
	return radius(mc.Weight, mc.LS, mc.SS, DecayFactor(lambda, t-mc.UpdatedAt), point)
}

// Distance returns the Euclidean distance from the center to point.
func (mc *MicroCluster) Distance(point []float64) float64 {
	return floats.Distance(mc.Center(), point, 2)
}

// Clone returns a deep copy.
func (mc *MicroCluster) Clone() *MicroCluster {
	out := *mc
	out.LS = append([]float64(nil), mc.LS...)
	out.SS = append([]float64(nil), mc.SS...)
	return &out
}

// radius evaluates the variance radius of (f*w, f*ls, f*ss) plus an optional
// unit-weight point.
func radius(w float64, ls, ss []float64, f float64, point []float64) float64 {
	w *= f
	if point != nil {
		w++
	}
	if w <= 0 {
		return 0
	}
	var sum float64
	for d := range ls {
		l := f * ls[d]
		s := f * ss[d]
		if point != nil {
			l += point[d]
			s += point[d] * point[d]
		}
		mean := l / w
		sum += s/w - mean*mean
	}
	return math.Sqrt(errors.ClampNonNegative(sum))
}
