package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/compartment-sim/sim/report"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert presets and histories between formats",
	Long:  "Expand presets into editable run or sweep YAML, or turn a history CSV into JSON. Output is written to stdout for piping.",
}

// --- compartment-sim convert preset ---

var convertPresetName string

var convertPresetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Write a named preset as a run config YAML",
	Run: func(cmd *cobra.Command, args []string) {
		rc, err := GetPreset(convertPresetName, defaultsFilePath)
		if err != nil {
			logrus.Fatalf("Preset conversion failed: %v", err)
		}
		writeYAMLToStdout(rc)
	},
}

// --- compartment-sim convert sweep ---

var (
	convertSweepPresets     []string
	convertSweepParallelism int
)

var convertSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Combine several presets into one sweep YAML",
	Run: func(cmd *cobra.Command, args []string) {
		sc, err := presetsToSweep(convertSweepPresets, convertSweepParallelism, defaultsFilePath)
		if err != nil {
			logrus.Fatalf("Sweep conversion failed: %v", err)
		}
		writeYAMLToStdout(sc)
	},
}

// --- compartment-sim convert csv ---

var convertCSVPath string

var convertCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Convert a history CSV into a JSON array of daily populations",
	Run: func(cmd *cobra.Command, args []string) {
		if err := historyCSVToJSON(convertCSVPath, os.Stdout); err != nil {
			logrus.Fatalf("CSV conversion failed: %v", err)
		}
	},
}

func presetsToSweep(names []string, parallelism int, defaultsPath string) (*SweepConfig, error) {
	sc := &SweepConfig{Parallelism: parallelism}
	for _, name := range names {
		rc, err := GetPreset(name, defaultsPath)
		if err != nil {
			return nil, err
		}
		sc.Scenarios = append(sc.Scenarios, rc)
	}
	return sc, nil
}

func historyCSVToJSON(path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer func() { _ = f.Close() }()

	days, err := report.ReadCSV(f)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(days)
}

// writeYAMLToStdout marshals v to YAML and writes it to stdout.
func writeYAMLToStdout(v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		logrus.Fatalf("YAML marshal failed: %v", err)
	}
	fmt.Print(string(data))
}

func init() {
	convertPresetCmd.Flags().StringVar(&convertPresetName, "name", "", "Preset name (see `compartment-sim presets`)")
	_ = convertPresetCmd.MarkFlagRequired("name")

	convertSweepCmd.Flags().StringSliceVar(&convertSweepPresets, "presets", nil, "Comma-separated preset names")
	convertSweepCmd.Flags().IntVar(&convertSweepParallelism, "parallelism", 0, "Parallelism to record in the sweep (0 = GOMAXPROCS)")
	_ = convertSweepCmd.MarkFlagRequired("presets")

	convertCSVCmd.Flags().StringVar(&convertCSVPath, "file", "", "History CSV written by `run --csv`")
	_ = convertCSVCmd.MarkFlagRequired("file")

	convertCmd.AddCommand(convertPresetCmd)
	convertCmd.AddCommand(convertSweepCmd)
	convertCmd.AddCommand(convertCSVCmd)

	rootCmd.AddCommand(convertCmd)
}
