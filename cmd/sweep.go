package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/compartment-sim/sim"
	"github.com/inference-sim/compartment-sim/sim/store"
	"github.com/inference-sim/compartment-sim/sim/sweep"
)

var (
	sweepConfigPath  string
	sweepParallelism int
	sweepDBPath      string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run several parameter sets concurrently",
	Long:  "Load a sweep YAML file listing scenarios, simulate each on its own engine, and print one summary row per scenario.",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		cfg, err := LoadSweepConfig(sweepConfigPath)
		if err != nil {
			logrus.Fatalf("Failed to load sweep config: %v", err)
		}
		if cmd.Flags().Changed("parallelism") {
			cfg.Parallelism = sweepParallelism
		}
		if err := executeSweep(cmd.Context(), cfg, os.Stdout); err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
	},
}

func executeSweep(ctx context.Context, cfg *SweepConfig, out io.Writer) error {
	scenarios := make([]sweep.Scenario, len(cfg.Scenarios))
	for i, rc := range cfg.Scenarios {
		sc, err := rc.Scenario()
		if err != nil {
			return fmt.Errorf("scenario %d: %w", i, err)
		}
		scenarios[i] = sc
	}

	results, err := sweep.Run(ctx, scenarios, cfg.Parallelism)
	if err != nil {
		return err
	}

	var ids []string
	if sweepDBPath != "" {
		db, err := store.Open(sweepDBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		for _, r := range results {
			id, err := db.SaveSimulation(ctx, r.Simulator)
			if err != nil {
				return fmt.Errorf("saving %q: %w", r.Scenario.Label, err)
			}
			ids = append(ids, id)
		}
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		id := "-"
		if ids != nil {
			id = ids[i]
		}
		m := r.Metrics
		rows[i] = []string{
			m.Label,
			m.HaltReason.String(),
			fmt.Sprintf("%d/%d", m.DaysSimulated, m.Horizon),
			fmt.Sprintf("%.2f (day %d)", m.PeakIll, m.PeakIllDay),
			fmt.Sprintf("%.4f", m.AttackRate),
			fmt.Sprintf("%.2f", m.Final[sim.Dead]),
			id,
		}
	}
	return renderTable(out, []string{"LABEL", "HALT", "DAYS", "PEAK ILL", "ATTACK RATE", "DEAD", "RUN ID"}, rows)
}

func init() {
	sweepCmd.Flags().StringVar(&sweepConfigPath, "config", "", "Sweep YAML file (parallelism, scenarios)")
	_ = sweepCmd.MarkFlagRequired("config")
	sweepCmd.Flags().IntVar(&sweepParallelism, "parallelism", 0, "Maximum concurrent scenarios (0 = GOMAXPROCS)")
	sweepCmd.Flags().StringVar(&sweepDBPath, "db", "", "Store every run in this SQLite database")

	rootCmd.AddCommand(sweepCmd)
}
