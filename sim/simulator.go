// sim/simulator.go
package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/compartment-sim/sim/trace"
)

// tailWarnThreshold is the truncated kernel mass above which construction warns.
const tailWarnThreshold = 1e-4

// Option customises a Simulator at construction.
type Option func(*Simulator)

// WithTrace records every day's due flows and guard outcome into st.
func WithTrace(st *trace.SimulationTrace) Option {
	return func(sim *Simulator) {
		sim.trace = st
	}
}

// WithWindow overrides the ledger window (DefaultWindow days).
func WithWindow(days int) Option {
	return func(sim *Simulator) {
		sim.window = days
	}
}

// Simulator is the day-stepped transition engine. Each Step schedules every
// channel's future outflow into the ledger, checks the inflows due today
// against the source populations, and commits or rejects the whole day.
//
// A Simulator owns all of its state and is not safe for concurrent use; run
// independent parameter sets on independent Simulators.
type Simulator struct {
	label    string
	horizon  int
	window   int
	config   TransitionConfig
	initial  Population
	channels *channelSet
	ledger   *PendingLedger
	state    *CompartmentState
	history  *History
	trace    *trace.SimulationTrace
	day      int
	halt     HaltReason
}

// NewSimulator validates the configuration and returns an engine positioned at
// day 0. label is carried through to reports and is not interpreted.
func NewSimulator(label string, population Population, horizon int, cfg TransitionConfig, opts ...Option) (*Simulator, error) {
	if _, err := PopulationFromSlice(population[:]); err != nil {
		return nil, err
	}
	if horizon <= 0 {
		return nil, &ConfigurationError{Field: "horizon", Reason: "must be a positive number of days"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sim := &Simulator{
		label:   label,
		horizon: horizon,
		window:  DefaultWindow,
		config:  cfg,
		initial: population,
	}
	for _, opt := range opts {
		opt(sim)
	}
	if sim.window < 1 {
		return nil, &ConfigurationError{Field: "window", Reason: "must be at least one day"}
	}

	channels, err := newChannelSet(cfg.Channels(sim.window))
	if err != nil {
		return nil, err
	}
	for _, ch := range channels.channels {
		if tail := ch.Kernel().TailMass(); tail > tailWarnThreshold {
			logrus.Warnf("channel %s: %d-day window truncates %.2e of the delay distribution (rate=%.2f)",
				ch.Name, sim.window, tail, ch.Rate)
		}
	}

	sim.channels = channels
	sim.ledger = NewPendingLedger(sim.window)
	sim.state = NewCompartmentState(population)
	sim.history = newHistory(population, min(horizon, 4096))
	return sim, nil
}

// Step simulates one day and returns the resulting run state. Once the
// simulator has halted, Step changes nothing and returns the halt reason.
func (sim *Simulator) Step() HaltReason {
	if sim.halt.Halted() {
		return sim.halt
	}
	day := sim.day + 1

	// Channels run in compartment order against the live state.
	for _, ch := range sim.channels.channels {
		ch.Schedule(sim.ledger, sim.state.Population())
	}

	due := sim.ledger.PeekDue()
	outflow := sim.channels.outflows(due)

	// All-or-nothing: a day that would drive any source negative is rejected whole.
	if bad := sim.state.violations(outflow, sim.channels.isSource); len(bad) > 0 {
		names := make([]string, len(bad))
		for i, c := range bad {
			names[i] = c.String()
		}
		sim.recordDay(day, due, outflow, false, names)
		logrus.Warnf("[day %04d] Rejected: due outflow exceeds population in %v", day, names)
		sim.halt = HaltedExhausted
		logrus.Infof("[day %04d] Simulation halted: %s", sim.day, sim.halt)
		return sim.halt
	}

	sim.state.apply(due, outflow)
	sim.ledger.Advance()
	sim.day = day
	sim.history.append(sim.state.Population())
	sim.recordDay(day, due, outflow, true, nil)
	logrus.Debugf("[day %04d] Committed %v", day, sim.state.Population())

	if sim.day >= sim.horizon {
		sim.halt = HaltedHorizon
		logrus.Infof("[day %04d] Simulation halted: %s", sim.day, sim.halt)
	}
	return sim.halt
}

// Run steps until the simulator halts and returns the halt reason.
func (sim *Simulator) Run() HaltReason {
	logrus.Infof("Starting simulation %q: horizon=%d days, population=%v", sim.label, sim.horizon, sim.initial)
	for !sim.halt.Halted() {
		sim.Step()
	}
	return sim.halt
}

func (sim *Simulator) recordDay(day int, due, outflow Population, committed bool, violations []string) {
	if !sim.trace.Enabled() {
		return
	}
	sim.trace.RecordDay(trace.DayRecord{
		Day:        day,
		Inflow:     due,
		Outflow:    outflow,
		Pending:    sim.ledger.Pending(),
		Committed:  committed,
		Violations: violations,
	})
}

// Label returns the run label given at construction.
func (sim *Simulator) Label() string { return sim.label }

// Horizon returns the configured maximum number of days.
func (sim *Simulator) Horizon() int { return sim.horizon }

// Config returns the transition configuration the run was built with.
func (sim *Simulator) Config() TransitionConfig { return sim.config }

// InitialPopulation returns the day-0 population.
func (sim *Simulator) InitialPopulation() Population { return sim.initial }

// DaysSimulated returns the number of committed days.
func (sim *Simulator) DaysSimulated() int { return sim.day }

// HaltReason returns RUNNING until the simulator halts, then the terminal reason.
func (sim *Simulator) HaltReason() HaltReason { return sim.halt }

// FinalState returns the population after the last committed day.
func (sim *Simulator) FinalState() Population { return sim.state.Population() }

// State exposes the conservation bookkeeping of the live population.
func (sim *Simulator) State() *CompartmentState { return sim.state }

// History returns the per-day snapshots recorded so far. Callers can read but
// not modify it.
func (sim *Simulator) History() *History { return sim.history }

// Channels returns the transition channels in application order.
func (sim *Simulator) Channels() []TransitionChannel {
	out := make([]TransitionChannel, len(sim.channels.channels))
	copy(out, sim.channels.channels)
	return out
}
