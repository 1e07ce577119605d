package sim

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ConfigurationError reports a construction-time problem: a proportion outside
// [0, 1], a negative rate or population, a malformed population vector, or a
// non-positive horizon. No Simulator is built when one is returned.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// TransitionConfig holds the tunables of the four transition channels.
// Rates are mean delays in days; proportions are shares of the source population.
type TransitionConfig struct {
	ExposureRate           float64 `yaml:"exposure_rate" json:"exposure_rate" validate:"gte=0"`
	ExposureProportion     float64 `yaml:"exposure_proportion" json:"exposure_proportion" validate:"gte=0,lte=1"`
	IncubationRate         float64 `yaml:"incubation_rate" json:"incubation_rate" validate:"gte=0"`
	SymptomSplitRate       float64 `yaml:"symptom_split_rate" json:"symptom_split_rate" validate:"gte=0"`
	AsymptomaticProportion float64 `yaml:"asymptomatic_proportion" json:"asymptomatic_proportion" validate:"gte=0,lte=1"`
	OutcomeRate            float64 `yaml:"outcome_rate" json:"outcome_rate" validate:"gte=0"`
	DeathProportion        float64 `yaml:"death_proportion" json:"death_proportion" validate:"gte=0,lte=1"`
}

// DefaultTransitionConfig returns the calibrated defaults.
func DefaultTransitionConfig() TransitionConfig {
	return TransitionConfig{
		ExposureRate:           2,
		ExposureProportion:     0.03,
		IncubationRate:         3,
		SymptomSplitRate:       4,
		AsymptomaticProportion: 0.8,
		OutcomeRate:            5,
		DeathProportion:        0.02,
	}
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	// Report yaml field names so errors match what users wrote.
	configValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks every tunable against its documented range.
func (c TransitionConfig) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ConfigurationError{
			Field:  fe.Field(),
			Reason: fmt.Sprintf("must satisfy %s=%s, got %v", fe.Tag(), fe.Param(), fe.Value()),
		}
	}
	return fmt.Errorf("validating transition config: %w", err)
}

// Channels builds the transition graph in compartment order:
// Susceptible -> Exposed -> Pre-Symptomatic -> {Asymptomatic, Ill} -> {Dead, Recovered}.
func (c TransitionConfig) Channels(window int) []TransitionChannel {
	return []TransitionChannel{
		NewTransitionChannel("exposure", Susceptible, c.ExposureRate, window,
			Leg{Destination: Exposed, Proportion: c.ExposureProportion}),
		NewTransitionChannel("incubation", Exposed, c.IncubationRate, window,
			Leg{Destination: PreSymptomatic, Proportion: 1}),
		NewTransitionChannel("symptom-onset", PreSymptomatic, c.SymptomSplitRate, window,
			Leg{Destination: Asymptomatic, Proportion: c.AsymptomaticProportion},
			Leg{Destination: Ill, Proportion: 1 - c.AsymptomaticProportion}),
		NewTransitionChannel("outcome", Ill, c.OutcomeRate, window,
			Leg{Destination: Dead, Proportion: c.DeathProportion},
			Leg{Destination: Recovered, Proportion: 1 - c.DeathProportion}),
	}
}
