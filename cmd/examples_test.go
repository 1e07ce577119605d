package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/compartment-sim/sim"
)

// TestExampleConfigs_SeededTown verifies that seeded-town.yaml loads and
// matches the default transitions it spells out.
func TestExampleConfigs_SeededTown(t *testing.T) {
	// GIVEN the seeded-town.yaml example config
	rc, err := LoadRunConfig(filepath.Join("..", "examples", "seeded-town.yaml"))
	require.NoError(t, err, "failed to load seeded-town.yaml")

	// THEN it builds a scenario
	sc, err := rc.Scenario()
	require.NoError(t, err)

	// THEN the explicit transitions equal the defaults
	assert.Equal(t, sim.DefaultTransitionConfig(), sc.Config)
	assert.Equal(t, 10.0, sc.Population[sim.Exposed])
	assert.Equal(t, 30, sc.Horizon)
}

// TestExampleConfigs_DeathShareSweep verifies that death-share-sweep.yaml
// loads, varies only the death share, and runs.
func TestExampleConfigs_DeathShareSweep(t *testing.T) {
	// GIVEN the death-share-sweep.yaml example config
	cfg, err := LoadSweepConfig(filepath.Join("..", "examples", "death-share-sweep.yaml"))
	require.NoError(t, err, "failed to load death-share-sweep.yaml")
	require.Len(t, cfg.Scenarios, 3)

	// THEN each scenario differs from the defaults only in death share
	want := []float64{0.01, 0.02, 0.05}
	for i, rc := range cfg.Scenarios {
		sc, err := rc.Scenario()
		require.NoError(t, err)
		expected := sim.DefaultTransitionConfig()
		expected.DeathProportion = want[i]
		assert.Equal(t, expected, sc.Config, rc.Label)
	}

	// THEN the sweep runs
	var out bytes.Buffer
	require.NoError(t, executeSweep(context.Background(), cfg, &out))
	assert.Contains(t, out.String(), "San Diego dp=0.05")
}
