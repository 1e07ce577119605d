// Summarises a finished (or halted) run for reporting.

package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/sirupsen/logrus"
)

// Metrics aggregates statistics about a simulation run for final reporting.
type Metrics struct {
	Label           string     `json:"label"`
	HaltReason      HaltReason `json:"halt_reason"`
	DaysSimulated   int        `json:"days_simulated"`
	Horizon         int        `json:"horizon"`
	TotalPopulation float64    `json:"total_population"`
	Final           Population `json:"final_population"`

	PeakIll        float64 `json:"peak_ill"`
	PeakIllDay     int     `json:"peak_ill_day"`
	PeakExposed    float64 `json:"peak_exposed"`
	PeakExposedDay int     `json:"peak_exposed_day"`
	AttackRate     float64 `json:"attack_rate"` // share of initial Susceptible that left Susceptible
	MaxDrift       float64 `json:"max_conservation_drift"`
}

// ComputeMetrics derives run statistics from the simulator's history.
func ComputeMetrics(sim *Simulator) *Metrics {
	m := &Metrics{
		Label:           sim.Label(),
		HaltReason:      sim.HaltReason(),
		DaysSimulated:   sim.DaysSimulated(),
		Horizon:         sim.Horizon(),
		TotalPopulation: sim.InitialPopulation().Total(),
		Final:           sim.FinalState(),
	}
	for day, p := range sim.History().All() {
		if p[Ill] > m.PeakIll {
			m.PeakIll, m.PeakIllDay = p[Ill], day
		}
		if p[Exposed] > m.PeakExposed {
			m.PeakExposed, m.PeakExposedDay = p[Exposed], day
		}
		if m.TotalPopulation > 0 {
			m.MaxDrift = math.Max(m.MaxDrift, math.Abs(p.Total()-m.TotalPopulation)/m.TotalPopulation)
		}
	}
	if s0 := sim.InitialPopulation()[Susceptible]; s0 > 0 {
		m.AttackRate = (s0 - m.Final[Susceptible]) / s0
	}
	return m
}

// Print writes a human-readable summary to w.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Label                : %s\n", m.Label)
	fmt.Fprintf(w, "Halt Reason          : %s\n", m.HaltReason)
	fmt.Fprintf(w, "Days Simulated       : %d / %d\n", m.DaysSimulated, m.Horizon)
	fmt.Fprintf(w, "Total Population     : %.2f\n", m.TotalPopulation)
	for _, c := range AllCompartments() {
		fmt.Fprintf(w, "  %-19s: %.4f\n", c, m.Final[c])
	}
	fmt.Fprintf(w, "Peak Exposed         : %.4f (day %d)\n", m.PeakExposed, m.PeakExposedDay)
	fmt.Fprintf(w, "Peak Ill             : %.4f (day %d)\n", m.PeakIll, m.PeakIllDay)
	fmt.Fprintf(w, "Attack Rate          : %.4f\n", m.AttackRate)
	fmt.Fprintf(w, "Max Drift            : %.3e\n", m.MaxDrift)
}

// SaveResults writes the metrics as indented JSON to path.
func (m *Metrics) SaveResults(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metrics: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	logrus.Debugf("Successfully wrote metrics to '%s'", path)
	return nil
}
