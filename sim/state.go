package sim

import "math"

// CompartmentState is the live population vector plus the total it started
// with. Only the Simulator mutates it, through apply.
type CompartmentState struct {
	current Population
	initial float64
}

// NewCompartmentState seeds the state from an initial population.
func NewCompartmentState(p Population) *CompartmentState {
	return &CompartmentState{current: p, initial: p.Total()}
}

// Population returns a copy of the current population vector.
func (s *CompartmentState) Population() Population {
	return s.current
}

// Get returns the current mass in compartment c.
func (s *CompartmentState) Get(c Compartment) float64 {
	return s.current[c]
}

// InitialTotal returns the total population the state was seeded with.
func (s *CompartmentState) InitialTotal() float64 {
	return s.initial
}

// Drift returns the relative difference between the current total and the
// initial total. It is 0 for an empty population.
func (s *CompartmentState) Drift() float64 {
	if s.initial == 0 {
		return math.Abs(s.current.Total())
	}
	return math.Abs(s.current.Total()-s.initial) / s.initial
}

// Conserved reports whether Drift is within tol.
func (s *CompartmentState) Conserved(tol float64) bool {
	return s.Drift() <= tol
}

// guardTolerance is the relative slack allowed when comparing a day's outflow
// with the source population. Leg pairs such as p and 1-p can round one ulp
// past the population they split.
const guardTolerance = 1e-12

// violations returns the compartments whose outflow exceeds what they hold.
func (s *CompartmentState) violations(outflow Population, sources [NumCompartments]bool) []Compartment {
	var bad []Compartment
	for c := range outflow {
		if sources[c] && outflow[c] > s.current[c]*(1+guardTolerance) {
			bad = append(bad, Compartment(c))
		}
	}
	return bad
}

// apply moves inflow into each compartment and removes outflow from each source.
// Callers must have checked violations first; residue below zero left by the
// guard tolerance is clamped.
func (s *CompartmentState) apply(inflow, outflow Population) {
	for c := range s.current {
		s.current[c] += inflow[c] - outflow[c]
		if s.current[c] < 0 {
			s.current[c] = 0
		}
	}
}
