package sim

import (
	"fmt"
	"math"
)

// Compartment is one health state of the population model. The order of the
// constants is the only legal direction of travel: a transition always moves
// mass to a compartment with a larger index.
type Compartment int

const (
	Susceptible Compartment = iota
	Exposed
	PreSymptomatic
	Asymptomatic
	Ill
	Dead
	Recovered
)

// NumCompartments is the size of the closed compartment set.
const NumCompartments = 7

var compartmentNames = [NumCompartments]string{
	"Susceptible",
	"Exposed",
	"Pre-Symptomatic",
	"Asymptomatic",
	"Ill",
	"Dead",
	"Recovered",
}

func (c Compartment) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Compartment(%d)", int(c))
	}
	return compartmentNames[c]
}

// Valid reports whether c indexes the compartment set.
func (c Compartment) Valid() bool {
	return c >= 0 && c < NumCompartments
}

// ParseCompartment maps a compartment name (as returned by String) back to its value.
func ParseCompartment(name string) (Compartment, error) {
	for i, n := range compartmentNames {
		if n == name {
			return Compartment(i), nil
		}
	}
	return 0, fmt.Errorf("unknown compartment %q", name)
}

// AllCompartments returns every compartment in model order.
func AllCompartments() []Compartment {
	out := make([]Compartment, NumCompartments)
	for i := range out {
		out[i] = Compartment(i)
	}
	return out
}

// Population holds one non-negative mass per compartment. It is an array so
// that assignment copies it; a stored snapshot never aliases live state.
type Population [NumCompartments]float64

// Total returns the summed mass across all compartments.
func (p Population) Total() float64 {
	var sum float64
	for _, v := range p {
		sum += v
	}
	return sum
}

// Get returns the mass in compartment c.
func (p Population) Get(c Compartment) float64 {
	return p[c]
}

// PopulationFromSlice converts a caller-supplied vector into a Population.
// The vector must hold exactly NumCompartments finite, non-negative values.
func PopulationFromSlice(values []float64) (Population, error) {
	var p Population
	if len(values) != NumCompartments {
		return p, &ConfigurationError{
			Field:  "population",
			Reason: fmt.Sprintf("expected %d values, got %d", NumCompartments, len(values)),
		}
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return p, &ConfigurationError{
				Field:  "population",
				Reason: fmt.Sprintf("%s must be a finite number, got %f", Compartment(i), v),
			}
		}
		if v < 0 {
			return p, &ConfigurationError{
				Field:  "population",
				Reason: fmt.Sprintf("%s must be non-negative, got %f", Compartment(i), v),
			}
		}
		p[i] = v
	}
	return p, nil
}
