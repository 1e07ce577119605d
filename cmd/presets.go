package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the presets in the defaults file",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		cfg, err := loadDefaultsConfig(defaultsFilePath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := printPresets(cfg, os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func printPresets(cfg *Config, out io.Writer) error {
	var rows [][]string
	for _, name := range cfg.PresetNames() {
		p := cfg.Presets[name]
		var total float64
		for _, v := range p.RunConfig.Population {
			total += v
		}
		rows = append(rows, []string{
			name,
			p.RunConfig.Label,
			fmt.Sprintf("%.0f", total),
			fmt.Sprintf("%d", p.RunConfig.Horizon),
			p.Description,
		})
	}
	return renderTable(out, []string{"NAME", "LABEL", "POPULATION", "HORIZON", "DESCRIPTION"}, rows)
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
