package sim

import (
	"fmt"
	"math"
)

// Leg is one destination of a TransitionChannel and the share of the source
// population routed to it.
type Leg struct {
	Destination Compartment
	Proportion  float64
}

// TransitionChannel moves mass out of one source compartment into one or more
// destinations, spread over future days by a DelayKernel. Legs of the same
// channel share its kernel. If the leg proportions sum to less than one the
// remainder stays in the source.
type TransitionChannel struct {
	Name   string
	Source Compartment
	Legs   []Leg
	Rate   float64
	kernel DelayKernel
}

// NewTransitionChannel builds a channel and precomputes its kernel over window days.
func NewTransitionChannel(name string, source Compartment, rate float64, window int, legs ...Leg) TransitionChannel {
	return TransitionChannel{
		Name:   name,
		Source: source,
		Legs:   legs,
		Rate:   rate,
		kernel: NewDelayKernel(rate, window),
	}
}

// Kernel returns the channel's delay kernel.
func (tc TransitionChannel) Kernel() DelayKernel {
	return tc.kernel
}

// Schedule reads the source population from state and adds the kernel-weighted
// share of every leg into the ledger. It returns the total mass scheduled.
// state is not modified.
func (tc TransitionChannel) Schedule(ledger *PendingLedger, state Population) float64 {
	source := state[tc.Source]
	if !(source > 0) {
		return 0
	}
	var scheduled float64
	for _, leg := range tc.Legs {
		eligible := source * leg.Proportion
		if !(eligible > 0) {
			continue
		}
		for k := 0; k < ledger.Window(); k++ {
			mass := eligible * tc.kernel.Weight(k)
			if mass > 0 {
				ledger.Add(k, leg.Destination, mass)
				scheduled += mass
			}
		}
	}
	return scheduled
}

func (tc TransitionChannel) validate() error {
	if !tc.Source.Valid() {
		return &ConfigurationError{Field: tc.Name, Reason: fmt.Sprintf("invalid source compartment %d", tc.Source)}
	}
	if tc.Rate < 0 || math.IsNaN(tc.Rate) || math.IsInf(tc.Rate, 0) {
		return &ConfigurationError{Field: tc.Name, Reason: fmt.Sprintf("rate must be a finite non-negative number, got %f", tc.Rate)}
	}
	if len(tc.Legs) == 0 {
		return &ConfigurationError{Field: tc.Name, Reason: "channel has no destinations"}
	}
	var total float64
	for _, leg := range tc.Legs {
		if !leg.Destination.Valid() || leg.Destination <= tc.Source {
			return &ConfigurationError{
				Field:  tc.Name,
				Reason: fmt.Sprintf("%s -> %s does not move forward in compartment order", tc.Source, leg.Destination),
			}
		}
		if leg.Proportion < 0 || leg.Proportion > 1 || math.IsNaN(leg.Proportion) {
			return &ConfigurationError{
				Field:  tc.Name,
				Reason: fmt.Sprintf("proportion to %s must be in [0, 1], got %f", leg.Destination, leg.Proportion),
			}
		}
		total += leg.Proportion
	}
	if total > 1+proportionTolerance {
		return &ConfigurationError{Field: tc.Name, Reason: fmt.Sprintf("leg proportions sum to %f, more than 1", total)}
	}
	return nil
}

// proportionTolerance absorbs rounding in p + (1-p) style leg pairs.
const proportionTolerance = 1e-12

// channelSet is the validated, ordered channel list plus the reverse map from
// each destination to the compartment that feeds it.
type channelSet struct {
	channels []TransitionChannel
	sourceOf [NumCompartments]Compartment
	isDest   [NumCompartments]bool
	isSource [NumCompartments]bool
}

func newChannelSet(channels []TransitionChannel) (*channelSet, error) {
	cs := &channelSet{channels: channels}
	for _, ch := range channels {
		if err := ch.validate(); err != nil {
			return nil, err
		}
		cs.isSource[ch.Source] = true
		for _, leg := range ch.Legs {
			d := leg.Destination
			if cs.isDest[d] && cs.sourceOf[d] != ch.Source {
				return nil, &ConfigurationError{
					Field:  ch.Name,
					Reason: fmt.Sprintf("%s is already fed by %s", d, cs.sourceOf[d]),
				}
			}
			cs.isDest[d] = true
			cs.sourceOf[d] = ch.Source
		}
	}
	return cs, nil
}

// outflows folds per-destination inflows back onto their source compartments.
func (cs *channelSet) outflows(due Population) Population {
	var out Population
	for d := range due {
		if cs.isDest[d] {
			out[cs.sourceOf[d]] += due[d]
		}
	}
	return out
}
