package assignment

import (
	"errors"
	"math"
	"sync"

	"dispatch/internal/pkg/errs"
)

const (
	DefaultDistanceWeight    = 0.40
	DefaultPerformanceWeight = 0.25
	DefaultLoadWeight        = 0.20
	DefaultZoneWeight        = 0.15
)

// Weights is the relative importance of each component score. Values built
// through DefaultWeights or Apply are non-negative and sum to 1, so the
// weighted final score stays in [0, 1].
type Weights struct {
	Distance    float64
	Performance float64
	Load        float64
	Zone        float64
}

// WeightsUpdate carries the fields a caller wants to change; nil fields keep
// their current value.
type WeightsUpdate struct {
	Distance    *float64
	Performance *float64
	Load        *float64
	Zone        *float64
}

func DefaultWeights() Weights {
	return Weights{
		Distance:    DefaultDistanceWeight,
		Performance: DefaultPerformanceWeight,
		Load:        DefaultLoadWeight,
		Zone:        DefaultZoneWeight,
	}
}

// Sum of the four weights.
func (w Weights) Sum() float64 {
	return w.Distance + w.Performance + w.Load + w.Zone
}

// Apply overwrites the supplied fields and renormalizes all four weights to
// sum to 1. Negative or non-finite values are rejected. When every weight ends
// up zero the defaults are restored.
func (w Weights) Apply(update WeightsUpdate) (Weights, error) {
	if err := errors.Join(
		checkWeight("distance weight", update.Distance),
		checkWeight("performance weight", update.Performance),
		checkWeight("load weight", update.Load),
		checkWeight("zone weight", update.Zone),
	); err != nil {
		return w, err
	}

	next := w
	if update.Distance != nil {
		next.Distance = *update.Distance
	}
	if update.Performance != nil {
		next.Performance = *update.Performance
	}
	if update.Load != nil {
		next.Load = *update.Load
	}
	if update.Zone != nil {
		next.Zone = *update.Zone
	}

	return next.Normalize(), nil
}

// Normalize scales the weights to sum to 1. Negative entries are treated as
// zero; an all-zero set yields DefaultWeights.
func (w Weights) Normalize() Weights {
	w.Distance = math.Max(0, w.Distance)
	w.Performance = math.Max(0, w.Performance)
	w.Load = math.Max(0, w.Load)
	w.Zone = math.Max(0, w.Zone)

	sum := w.Sum()
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return DefaultWeights()
	}

	return Weights{
		Distance:    w.Distance / sum,
		Performance: w.Performance / sum,
		Load:        w.Load / sum,
		Zone:        w.Zone / sum,
	}
}

func checkWeight(name string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return errs.NewValueIsOutOfRangeError(name, *v, 0, math.Inf(1))
	}
	return nil
}

// WeightRegistry is the mutable weight configuration owned by one engine
// instance. Updates apply to every assignment that starts afterwards.
type WeightRegistry struct {
	mu      sync.RWMutex
	weights Weights
}

// NewWeightRegistry starts from initial, normalized.
func NewWeightRegistry(initial Weights) *WeightRegistry {
	return &WeightRegistry{weights: initial.Normalize()}
}

func (r *WeightRegistry) Get() Weights {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.weights
}

// Set applies a partial update and returns the resulting normalized weights.
func (r *WeightRegistry) Set(update WeightsUpdate) (Weights, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := r.weights.Apply(update)
	if err != nil {
		return r.weights, err
	}
	r.weights = next
	return next, nil
}

// Reset restores DefaultWeights.
func (r *WeightRegistry) Reset() Weights {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.weights = DefaultWeights()
	return r.weights
}
