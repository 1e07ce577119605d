package sim

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/compartment-sim/sim/internal/testutil"
)

// TestSimulator_GoldenDataset replays every reference trajectory in
// testdata/goldendataset.json and compares each day's snapshot.
func TestSimulator_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	require.NotEmpty(t, dataset.Tests)

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			pop, err := PopulationFromSlice(tc.Population)
			require.NoError(t, err)
			cfg := TransitionConfig{
				ExposureRate:           tc.Transitions.ExposureRate,
				ExposureProportion:     tc.Transitions.ExposureProportion,
				IncubationRate:         tc.Transitions.IncubationRate,
				SymptomSplitRate:       tc.Transitions.SymptomSplitRate,
				AsymptomaticProportion: tc.Transitions.AsymptomaticProportion,
				OutcomeRate:            tc.Transitions.OutcomeRate,
				DeathProportion:        tc.Transitions.DeathProportion,
			}
			sim, err := NewSimulator(tc.Label, pop, tc.Horizon, cfg)
			require.NoError(t, err)

			reason := sim.Run()

			assert.Equal(t, tc.HaltReason, reason.String())
			assert.Equal(t, tc.DaysSimulated, sim.DaysSimulated())
			require.Equal(t, len(tc.History), sim.History().Len())

			absTol := 1e-9 * math.Max(pop.Total(), 1)
			for day, got := range sim.History().All() {
				want := tc.History[day]
				require.Len(t, want, NumCompartments)
				for c := range got {
					testutil.AssertFloat64Close(t, fmt.Sprintf("day %d %s", day, Compartment(c)),
						want[c], got[c], 1e-9, absTol)
				}
			}
		})
	}
}
