package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// allSusceptible returns a population with n individuals, all Susceptible.
func allSusceptible(n float64) Population {
	return Population{Susceptible: n}
}

func mustSimulator(t *testing.T, pop Population, horizon int, cfg TransitionConfig, opts ...Option) *Simulator {
	t.Helper()
	sim, err := NewSimulator("test", pop, horizon, cfg, opts...)
	require.NoError(t, err)
	return sim
}

// assertHistoryInvariants checks conservation, non-negativity and that Dead
// and Recovered never decrease.
func assertHistoryInvariants(t *testing.T, sim *Simulator) {
	t.Helper()
	initial := sim.InitialPopulation().Total()
	var prev Population
	for day, p := range sim.History().All() {
		if initial > 0 {
			drift := (p.Total() - initial) / initial
			if drift > 1e-6 || drift < -1e-6 {
				t.Errorf("day %d: total %f drifted from %f", day, p.Total(), initial)
			}
		} else if p.Total() != 0 {
			t.Errorf("day %d: empty population gained mass %f", day, p.Total())
		}
		for c, v := range p {
			if v < 0 {
				t.Errorf("day %d: %s is negative (%g)", day, Compartment(c), v)
			}
		}
		if day > 0 {
			if p[Dead] < prev[Dead] {
				t.Errorf("day %d: Dead decreased %g -> %g", day, prev[Dead], p[Dead])
			}
			if p[Recovered] < prev[Recovered] {
				t.Errorf("day %d: Recovered decreased %g -> %g", day, prev[Recovered], p[Recovered])
			}
		}
		prev = p
	}
}
