// Package sweep runs several independent parameter sets concurrently, one
// Simulator per scenario.
package sweep

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/compartment-sim/sim"
)

// Scenario is one parameter set to simulate.
type Scenario struct {
	Label      string
	Population sim.Population
	Horizon    int
	Config     sim.TransitionConfig
}

// Result pairs a scenario with its finished simulator and run summary.
type Result struct {
	Scenario  Scenario
	Simulator *sim.Simulator
	Metrics   *sim.Metrics
}

// Run simulates every scenario with at most parallelism running at once
// (GOMAXPROCS when parallelism <= 0). Results are in input order. The first
// construction error cancels scenarios that have not started and is returned
// with the scenario's index and label.
func Run(ctx context.Context, scenarios []Scenario, parallelism int) ([]Result, error) {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(scenarios))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, sc := range scenarios {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			s, err := sim.NewSimulator(sc.Label, sc.Population, sc.Horizon, sc.Config)
			if err != nil {
				return fmt.Errorf("scenario %d (%s): %w", i, sc.Label, err)
			}
			for !s.Step().Halted() {
				if err := gCtx.Err(); err != nil {
					return err
				}
			}
			logrus.Debugf("scenario %d (%s): %s after %d days", i, sc.Label, s.HaltReason(), s.DaysSimulated())
			results[i] = Result{Scenario: sc, Simulator: s, Metrics: sim.ComputeMetrics(s)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
