package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompartmentState_Drift(t *testing.T) {
	s := NewCompartmentState(allSusceptible(1000))
	assert.Equal(t, 1000.0, s.InitialTotal())
	assert.Equal(t, 0.0, s.Drift())
	assert.True(t, s.Conserved(0))

	s.current[Exposed] += 1
	assert.InDelta(t, 1e-3, s.Drift(), 1e-15)
	assert.False(t, s.Conserved(1e-6))
}

func TestCompartmentState_EmptyPopulation_Drift(t *testing.T) {
	s := NewCompartmentState(Population{})
	assert.Equal(t, 0.0, s.Drift())
	assert.True(t, s.Conserved(0))
}

func TestCompartmentState_Violations_OnlySources(t *testing.T) {
	s := NewCompartmentState(Population{Susceptible: 10, Exposed: 1})
	var sources [NumCompartments]bool
	sources[Susceptible] = true
	sources[Exposed] = true

	assert.Empty(t, s.violations(Population{Susceptible: 10, Exposed: 1}, sources), "outflow equal to population is allowed")
	assert.Equal(t, []Compartment{Exposed}, s.violations(Population{Susceptible: 3, Exposed: 2}, sources))
	// Non-source compartments are never checked.
	assert.Empty(t, s.violations(Population{Dead: 100}, sources))
}

func TestCompartmentState_Apply_MovesMass(t *testing.T) {
	s := NewCompartmentState(Population{Susceptible: 10, Exposed: 2})

	s.apply(Population{Exposed: 4, PreSymptomatic: 1}, Population{Susceptible: 4, Exposed: 1})

	assert.Equal(t, Population{Susceptible: 6, Exposed: 5, PreSymptomatic: 1}, s.Population())
	assert.Equal(t, 0.0, s.Drift())
}

func TestCompartmentState_Apply_ClampsRoundingResidue(t *testing.T) {
	s := NewCompartmentState(Population{PreSymptomatic: 1})

	s.apply(Population{Asymptomatic: 0.8, Ill: 0.2}, Population{PreSymptomatic: 1 + 1e-15})

	assert.Equal(t, 0.0, s.Get(PreSymptomatic))
}
