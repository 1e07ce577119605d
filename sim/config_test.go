package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTransitionConfig_Values(t *testing.T) {
	want := TransitionConfig{
		ExposureRate:           2,
		ExposureProportion:     0.03,
		IncubationRate:         3,
		SymptomSplitRate:       4,
		AsymptomaticProportion: 0.8,
		OutcomeRate:            5,
		DeathProportion:        0.02,
	}
	assert.Equal(t, want, DefaultTransitionConfig())
	assert.NoError(t, DefaultTransitionConfig().Validate())
}

func TestTransitionConfig_Validate_BoundaryValuesAccepted(t *testing.T) {
	cfg := TransitionConfig{
		ExposureProportion:     1,
		AsymptomaticProportion: 0,
		DeathProportion:        1,
	}
	assert.NoError(t, cfg.Validate())
}

func TestTransitionConfig_Validate_ReportsYAMLFieldName(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TransitionConfig)
		field  string
	}{
		{"negative exposure rate", func(c *TransitionConfig) { c.ExposureRate = -1 }, "exposure_rate"},
		{"exposure proportion above one", func(c *TransitionConfig) { c.ExposureProportion = 1.5 }, "exposure_proportion"},
		{"negative incubation rate", func(c *TransitionConfig) { c.IncubationRate = -0.5 }, "incubation_rate"},
		{"negative symptom split rate", func(c *TransitionConfig) { c.SymptomSplitRate = -2 }, "symptom_split_rate"},
		{"negative asymptomatic proportion", func(c *TransitionConfig) { c.AsymptomaticProportion = -0.1 }, "asymptomatic_proportion"},
		{"negative outcome rate", func(c *TransitionConfig) { c.OutcomeRate = -5 }, "outcome_rate"},
		{"death proportion above one", func(c *TransitionConfig) { c.DeathProportion = 2 }, "death_proportion"},
		{"NaN proportion", func(c *TransitionConfig) { c.DeathProportion = math.NaN() }, "death_proportion"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultTransitionConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %v", err)
			assert.Equal(t, tc.field, cfgErr.Field)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestTransitionConfig_Channels_FixedOrder(t *testing.T) {
	chans := DefaultTransitionConfig().Channels(DefaultWindow)
	require.Len(t, chans, 4)

	names := []string{chans[0].Name, chans[1].Name, chans[2].Name, chans[3].Name}
	assert.Equal(t, []string{"exposure", "incubation", "symptom-onset", "outcome"}, names)

	sources := []Compartment{chans[0].Source, chans[1].Source, chans[2].Source, chans[3].Source}
	assert.Equal(t, []Compartment{Susceptible, Exposed, PreSymptomatic, Ill}, sources)

	assert.Equal(t, []Leg{{Destination: Dead, Proportion: 0.02}, {Destination: Recovered, Proportion: 0.98}}, chans[3].Legs)
	assert.Equal(t, 5.0, chans[3].Rate)
}
