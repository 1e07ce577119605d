package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/compartment-sim/sim/report"
	"github.com/inference-sim/compartment-sim/sim/store"
)

var (
	historyDBPath string
	historyRunID  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored runs or print one run's history as CSV",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		db, err := store.Open(historyDBPath)
		if err != nil {
			logrus.Fatalf("Failed to open run store: %v", err)
		}
		defer db.Close()

		if historyRunID == "" {
			err = listRuns(cmd.Context(), db, os.Stdout)
		} else {
			err = printRunHistory(cmd.Context(), db, historyRunID, os.Stdout)
		}
		if err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func listRuns(ctx context.Context, db *store.Store, out io.Writer) error {
	runs, err := db.ListRuns(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			r.ID,
			r.Label,
			r.HaltReason,
			fmt.Sprintf("%d/%d", r.DaysSimulated, r.Horizon),
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		}
	}
	return renderTable(out, []string{"ID", "LABEL", "HALT", "DAYS", "CREATED"}, rows)
}

func printRunHistory(ctx context.Context, db *store.Store, id string, out io.Writer) error {
	history, err := db.LoadHistory(ctx, id)
	if err != nil {
		return err
	}
	return report.WriteHistoryCSV(out, slices.All(history))
}

func init() {
	historyCmd.Flags().StringVar(&historyDBPath, "db", "", "SQLite run store")
	_ = historyCmd.MarkFlagRequired("db")
	historyCmd.Flags().StringVar(&historyRunID, "run", "", "Run ID to print (lists all runs when empty)")

	rootCmd.AddCommand(historyCmd)
}
