package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/compartment-sim/sim"
)

// repoDefaultsPath locates defaults.yaml from the package directory.
func repoDefaultsPath(t *testing.T) string {
	t.Helper()
	for _, path := range []string{"defaults.yaml", "../defaults.yaml"} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	t.Skip("defaults.yaml not found, skipping integration test")
	return ""
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestShippedPresets_AllRunnable(t *testing.T) {
	// GIVEN the presets file shipped with the repo
	cfg, err := loadDefaultsConfig(repoDefaultsPath(t))
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Presets)

	// THEN every preset builds a valid simulator
	for _, name := range cfg.PresetNames() {
		rc, err := GetPreset(name, repoDefaultsPath(t))
		require.NoError(t, err, name)
		sc, err := rc.Scenario()
		require.NoError(t, err, name)
		_, err = sim.NewSimulator(sc.Label, sc.Population, sc.Horizon, sc.Config)
		assert.NoError(t, err, name)
	}
}

func TestGetPreset_SanDiego(t *testing.T) {
	rc, err := GetPreset("san-diego", repoDefaultsPath(t))
	require.NoError(t, err)

	sc, err := rc.Scenario()
	require.NoError(t, err)

	assert.Equal(t, "San Diego", sc.Label)
	assert.Equal(t, 1426000.0, sc.Population[sim.Susceptible])
	assert.Equal(t, 20, sc.Horizon)
	assert.Equal(t, sim.DefaultTransitionConfig(), sc.Config)
}

func TestGetPreset_PartialTransitionsKeepDefaults(t *testing.T) {
	// GIVEN a preset that only sets two transition fields
	path := writeTemp(t, "defaults.yaml", `
presets:
  draft:
    population: [2000, 0, 0, 0, 0, 0, 0]
    transitions:
      exposure_proportion: 0.3
      death_proportion: 0.2
`)

	// WHEN it is loaded
	rc, err := GetPreset("draft", path)
	require.NoError(t, err)
	sc, err := rc.Scenario()
	require.NoError(t, err)

	// THEN the named fields change and everything else is a default
	want := sim.DefaultTransitionConfig()
	want.ExposureProportion = 0.3
	want.DeathProportion = 0.2
	assert.Equal(t, want, sc.Config)
	assert.Equal(t, "draft", sc.Label, "label falls back to the preset name")
	assert.Equal(t, defaultHorizon, sc.Horizon)
}

func TestGetPreset_Unknown(t *testing.T) {
	path := writeTemp(t, "defaults.yaml", "presets:\n  a:\n    population: [1, 0, 0, 0, 0, 0, 0]\n")

	_, err := GetPreset("b", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown preset "b"`)
	assert.Contains(t, err.Error(), "[a]")
}

func TestLoadDefaultsConfig_StrictFields(t *testing.T) {
	// GIVEN a typo in a transition field
	path := writeTemp(t, "defaults.yaml", `
presets:
  typo:
    population: [1000, 0, 0, 0, 0, 0, 0]
    transitions:
      exposure_rat: 2
`)

	// THEN parsing fails instead of silently using the default
	_, err := loadDefaultsConfig(path)
	assert.Error(t, err)
}

func TestLoadDefaultsConfig_MissingFile(t *testing.T) {
	_, err := loadDefaultsConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
