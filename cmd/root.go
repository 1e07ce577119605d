package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/compartment-sim/sim"
	"github.com/inference-sim/compartment-sim/sim/report"
	"github.com/inference-sim/compartment-sim/sim/store"
	"github.com/inference-sim/compartment-sim/sim/sweep"
	"github.com/inference-sim/compartment-sim/sim/trace"
)

var (
	// Run inputs
	configPath       string    // YAML run config
	presetName       string    // Preset from defaults.yaml
	defaultsFilePath string    // Path to defaults.yaml
	label            string    // Run label
	population       []float64 // Initial population, one value per compartment
	horizon          int       // Maximum number of days
	window           int       // Delay kernel window in days
	logLevel         string    // Log verbosity level

	// Transition flags
	exposureRate           float64
	exposureProportion     float64
	incubationRate         float64
	symptomSplitRate       float64
	asymptomaticProportion float64
	outcomeRate            float64
	deathProportion        float64

	// Outputs
	csvPath     string // History CSV
	jsonPath    string // History JSON
	metricsPath string // Metrics JSON
	dbPath      string // SQLite run store
	traceLevel  string // Per-day decision trace
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "compartment-sim",
	Short: "Day-stepped compartment epidemic simulator with delay-distributed transitions",
}

// runCmd executes one simulation using a config file, a preset, and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s (valid: %s, %s)", traceLevel, trace.TraceLevelNone, trace.TraceLevelDays)
		}
		sc, err := resolveScenario(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := executeRun(cmd.Context(), sc, os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// resolveScenario layers the run inputs: defaults, then --preset or --config,
// then any flag the user set explicitly.
func resolveScenario(cmd *cobra.Command) (sweep.Scenario, error) {
	rc := RunConfig{Label: label, Population: population, Horizon: horizon}
	switch {
	case presetName != "":
		preset, err := GetPreset(presetName, defaultsFilePath)
		if err != nil {
			return sweep.Scenario{}, err
		}
		rc = preset
	case configPath != "":
		loaded, err := LoadRunConfig(configPath)
		if err != nil {
			return sweep.Scenario{}, err
		}
		rc = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("label") || rc.Label == "" {
		rc.Label = label
	}
	if flags.Changed("population") || rc.Population == nil {
		rc.Population = population
	}
	if flags.Changed("horizon") {
		rc.Horizon = horizon
	}
	overrides := []struct {
		flag string
		dst  **float64
		val  float64
	}{
		{"exposure-rate", &rc.Transitions.ExposureRate, exposureRate},
		{"exposure-proportion", &rc.Transitions.ExposureProportion, exposureProportion},
		{"incubation-rate", &rc.Transitions.IncubationRate, incubationRate},
		{"symptom-split-rate", &rc.Transitions.SymptomSplitRate, symptomSplitRate},
		{"asymptomatic-proportion", &rc.Transitions.AsymptomaticProportion, asymptomaticProportion},
		{"outcome-rate", &rc.Transitions.OutcomeRate, outcomeRate},
		{"death-proportion", &rc.Transitions.DeathProportion, deathProportion},
	}
	for _, o := range overrides {
		if flags.Changed(o.flag) {
			v := o.val
			*o.dst = &v
		}
	}
	return rc.Scenario()
}

// executeRun simulates sc, prints its metrics to out, and writes whichever
// outputs were requested.
func executeRun(ctx context.Context, sc sweep.Scenario, out io.Writer) error {
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(traceLevel)})
	s, err := sim.NewSimulator(sc.Label, sc.Population, sc.Horizon, sc.Config,
		sim.WithTrace(st), sim.WithWindow(window))
	if err != nil {
		return err
	}

	startTime := time.Now()
	s.Run()
	logrus.Infof("Simulated %d days in %s", s.DaysSimulated(), time.Since(startTime))

	m := sim.ComputeMetrics(s)
	m.Print(out)
	if st.Enabled() {
		printTraceSummary(out, trace.Summarize(st))
	}

	if metricsPath != "" {
		if err := m.SaveResults(metricsPath); err != nil {
			return err
		}
	}
	if csvPath != "" {
		if err := writeFile(csvPath, func(w io.Writer) error { return report.WriteCSV(w, s) }); err != nil {
			return err
		}
	}
	if jsonPath != "" {
		if err := writeFile(jsonPath, func(w io.Writer) error { return report.WriteJSON(w, s) }); err != nil {
			return err
		}
	}
	if dbPath != "" {
		db, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		id, err := db.SaveSimulation(ctx, s)
		if err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
		fmt.Fprintf(out, "Run ID               : %s\n", id)
	}
	return nil
}

func printTraceSummary(out io.Writer, ts *trace.TraceSummary) {
	fmt.Fprintln(out, "=== Trace Summary ===")
	fmt.Fprintf(out, "Committed Days       : %d\n", ts.CommittedDays)
	fmt.Fprintf(out, "Rejected Days        : %d\n", ts.RejectedDays)
	if ts.FirstRejectedDay >= 0 {
		fmt.Fprintf(out, "First Rejected Day   : %d %v\n", ts.FirstRejectedDay, ts.ViolationCounts)
	}
	fmt.Fprintf(out, "Peak Daily Outflow   : %.4f (day %d)\n", ts.PeakOutflow, ts.PeakOutflowDay)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	logrus.Debugf("Successfully wrote '%s'", path)
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags binds the run flags to their package-level variables,
// resetting each to its default.
func registerRunFlags(cmd *cobra.Command) {
	defaults := sim.DefaultTransitionConfig()

	cmd.Flags().StringVar(&configPath, "config", "", "YAML run config (label, population, horizon, transitions)")
	cmd.Flags().StringVar(&presetName, "preset", "", "Named preset from the defaults file")
	cmd.MarkFlagsMutuallyExclusive("config", "preset")
	cmd.Flags().StringVar(&label, "label", "default", "Run label carried into reports")
	cmd.Flags().Float64SliceVar(&population, "population", []float64{1000, 0, 0, 0, 0, 0, 0},
		"Initial population: Susceptible,Exposed,Pre-Symptomatic,Asymptomatic,Ill,Dead,Recovered")
	cmd.Flags().IntVar(&horizon, "horizon", defaultHorizon, "Maximum number of days to simulate")
	cmd.Flags().IntVar(&window, "window", sim.DefaultWindow, "Delay kernel window in days")

	// Transition parameters
	cmd.Flags().Float64Var(&exposureRate, "exposure-rate", defaults.ExposureRate, "Mean delay (days) from Susceptible to Exposed")
	cmd.Flags().Float64Var(&exposureProportion, "exposure-proportion", defaults.ExposureProportion, "Share of Susceptible exposed per day")
	cmd.Flags().Float64Var(&incubationRate, "incubation-rate", defaults.IncubationRate, "Mean delay (days) from Exposed to Pre-Symptomatic")
	cmd.Flags().Float64Var(&symptomSplitRate, "symptom-split-rate", defaults.SymptomSplitRate, "Mean delay (days) from Pre-Symptomatic to Asymptomatic or Ill")
	cmd.Flags().Float64Var(&asymptomaticProportion, "asymptomatic-proportion", defaults.AsymptomaticProportion, "Share of Pre-Symptomatic that become Asymptomatic")
	cmd.Flags().Float64Var(&outcomeRate, "outcome-rate", defaults.OutcomeRate, "Mean delay (days) from Ill to Dead or Recovered")
	cmd.Flags().Float64Var(&deathProportion, "death-proportion", defaults.DeathProportion, "Share of Ill that die")

	// Outputs
	cmd.Flags().StringVar(&csvPath, "csv", "", "Write the daily history as CSV to this path")
	cmd.Flags().StringVar(&jsonPath, "json", "", "Write the daily history as JSON to this path")
	cmd.Flags().StringVar(&metricsPath, "metrics", "", "Write run metrics as JSON to this path")
	cmd.Flags().StringVar(&dbPath, "db", "", "Store the run in this SQLite database")
	cmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Decision trace level (none, days)")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&defaultsFilePath, "defaults-filepath", "defaults.yaml", "Path to the presets file")

	registerRunFlags(runCmd)

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
