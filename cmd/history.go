package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/legistyr/termbench/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent translation runs",
	Long:  `Prints recent runs from the local SQLite ledger, newest first.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show")
	historyCmd.Flags().String("model", "", "only show runs for this model")
	historyCmd.Flags().String("source", "", "only show runs for this dataset")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	model, _ := cmd.Flags().GetString("model")
	source, _ := cmd.Flags().GetString("source")

	store, db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := store.List(ctx, history.Filter{Model: model, Source: source, Limit: limit})
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("Showing %d run(s):\n\n", len(runs))
	for i, r := range runs {
		cost := "n/a"
		if r.TotalCost != nil {
			cost = fmt.Sprintf("$%.6f", *r.TotalCost)
		}
		fmt.Printf("  %d. %s  %s (%s)\n", i+1, r.StartedAt.Format("2006-01-02 15:04"), r.Model, r.Source)
		fmt.Printf("     %d/%d rows ok, cost %s, took %s\n", r.Succeeded, r.RowCount, cost, r.Duration.Round(time.Second))
		fmt.Printf("     %s\n\n", r.CSVPath)
	}
	return nil
}
