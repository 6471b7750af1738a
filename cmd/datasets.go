package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/legistyr/termbench/internal/dataset"
	"github.com/legistyr/termbench/internal/prompt"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List datasets available under the data directory",
	Long: `Scans the configured data directory for LegISTyr__<name>.csv files and
lists the dataset names accepted by --source.`,
	RunE: runDatasets,
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}

func runDatasets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	names, err := dataset.Discover(cfg.DataDir)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Printf("No datasets found under %s.\n", cfg.DataDir)
		return nil
	}

	fmt.Printf("Found %d dataset(s) under %s:\n\n", len(names), cfg.DataDir)
	for _, name := range names {
		if _, err := prompt.Lookup(name); err != nil {
			fmt.Printf("  %s  (no matching template; pass --template on run)\n", name)
			continue
		}
		fmt.Printf("  %s\n", name)
	}
	return nil
}
