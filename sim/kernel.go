package sim

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultWindow is the number of day offsets a transition is spread across.
const DefaultWindow = 21

// KernelWeight returns the probability that a transition with mean delay rate
// (in days) completes exactly k days after it is scheduled. The weight is the
// Poisson probability mass at k. A zero rate puts all mass at k == 0.
// Underflow, NaN and out-of-range values collapse to 0.
func KernelWeight(k int, rate float64) float64 {
	if k < 0 || rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0
	}
	if rate == 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	w := distuv.Poisson{Lambda: rate}.Prob(float64(k))
	if math.IsNaN(w) || w < 0 {
		return 0
	}
	return math.Min(w, 1)
}

// DelayKernel is a Poisson delay distribution truncated to a fixed window.
// Probability beyond the last offset is dropped, not renormalised; TailMass
// reports how much was lost.
type DelayKernel struct {
	Rate    float64
	Window  int
	weights []float64
}

// NewDelayKernel precomputes the window weights for rate.
func NewDelayKernel(rate float64, window int) DelayKernel {
	if window < 1 {
		window = 1
	}
	w := make([]float64, window)
	for k := range w {
		w[k] = KernelWeight(k, rate)
	}
	return DelayKernel{Rate: rate, Window: window, weights: w}
}

// Weight returns the cached weight at offset k, or 0 outside the window.
func (dk DelayKernel) Weight(k int) float64 {
	if k < 0 || k >= len(dk.weights) {
		return 0
	}
	return dk.weights[k]
}

// Weights returns a copy of the window weights.
func (dk DelayKernel) Weights() []float64 {
	out := make([]float64, len(dk.weights))
	copy(out, dk.weights)
	return out
}

// Sum returns the probability retained inside the window.
func (dk DelayKernel) Sum() float64 {
	var s float64
	for _, w := range dk.weights {
		s += w
	}
	return s
}

// TailMass returns the probability that the delay is at least Window days,
// i.e. the mass silently discarded by truncation.
func (dk DelayKernel) TailMass() float64 {
	if dk.Rate <= 0 || math.IsNaN(dk.Rate) {
		return 0
	}
	tail := 1 - distuv.Poisson{Lambda: dk.Rate}.CDF(float64(dk.Window-1))
	if tail < 0 || math.IsNaN(tail) {
		return 0
	}
	return tail
}
