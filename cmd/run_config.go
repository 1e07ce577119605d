package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/compartment-sim/sim"
	"github.com/inference-sim/compartment-sim/sim/sweep"
)

// defaultHorizon is used when a run config leaves horizon unset.
const defaultHorizon = 20

// RunConfig is one run as written in YAML (run --config, sweep scenarios, presets).
type RunConfig struct {
	Label       string              `yaml:"label"`
	Population  []float64           `yaml:"population"`
	Horizon     int                 `yaml:"horizon"`
	Transitions TransitionOverrides `yaml:"transitions,omitempty"`
}

// TransitionOverrides holds the transition fields a YAML file actually set.
// Nil fields fall through to the base configuration.
type TransitionOverrides struct {
	ExposureRate           *float64 `yaml:"exposure_rate,omitempty"`
	ExposureProportion     *float64 `yaml:"exposure_proportion,omitempty"`
	IncubationRate         *float64 `yaml:"incubation_rate,omitempty"`
	SymptomSplitRate       *float64 `yaml:"symptom_split_rate,omitempty"`
	AsymptomaticProportion *float64 `yaml:"asymptomatic_proportion,omitempty"`
	OutcomeRate            *float64 `yaml:"outcome_rate,omitempty"`
	DeathProportion        *float64 `yaml:"death_proportion,omitempty"`
}

// Apply returns base with every set override applied.
func (o TransitionOverrides) Apply(base sim.TransitionConfig) sim.TransitionConfig {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&base.ExposureRate, o.ExposureRate)
	set(&base.ExposureProportion, o.ExposureProportion)
	set(&base.IncubationRate, o.IncubationRate)
	set(&base.SymptomSplitRate, o.SymptomSplitRate)
	set(&base.AsymptomaticProportion, o.AsymptomaticProportion)
	set(&base.OutcomeRate, o.OutcomeRate)
	set(&base.DeathProportion, o.DeathProportion)
	return base
}

// Scenario converts the YAML form into a runnable scenario. Omitted transition
// fields take sim.DefaultTransitionConfig values; an omitted horizon is
// defaultHorizon days.
func (rc RunConfig) Scenario() (sweep.Scenario, error) {
	pop, err := sim.PopulationFromSlice(rc.Population)
	if err != nil {
		return sweep.Scenario{}, fmt.Errorf("run %q: %w", rc.Label, err)
	}
	horizon := rc.Horizon
	if horizon == 0 {
		horizon = defaultHorizon
	}
	return sweep.Scenario{
		Label:      rc.Label,
		Population: pop,
		Horizon:    horizon,
		Config:     rc.Transitions.Apply(sim.DefaultTransitionConfig()),
	}, nil
}

// SweepConfig lists several runs to execute concurrently.
type SweepConfig struct {
	Parallelism int         `yaml:"parallelism"`
	Scenarios   []RunConfig `yaml:"scenarios"`
}

// LoadRunConfig reads a single run from a YAML file with strict field checking.
func LoadRunConfig(path string) (RunConfig, error) {
	var rc RunConfig
	if err := decodeStrict(path, &rc); err != nil {
		return RunConfig{}, err
	}
	return rc, nil
}

// LoadSweepConfig reads a sweep definition from a YAML file with strict field checking.
func LoadSweepConfig(path string) (*SweepConfig, error) {
	var sc SweepConfig
	if err := decodeStrict(path, &sc); err != nil {
		return nil, err
	}
	if len(sc.Scenarios) == 0 {
		return nil, fmt.Errorf("sweep config %s has no scenarios", path)
	}
	return &sc, nil
}

func decodeStrict(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}
