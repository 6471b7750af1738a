package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/legistyr/termbench/internal/output"
	"github.com/legistyr/termbench/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a Markdown and HTML report for a recorded run",
	Long: `Reads the CSV artifact written by termbench run and renders a
human-readable report with metrics, translations, and reasoning traces.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("model", "", "model identifier the artifact was written for")
	reportCmd.Flags().String("source", "", "dataset name (only affects report naming)")
	_ = reportCmd.MarkFlagRequired("model")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	model, _ := cmd.Flags().GetString("model")
	source, _ := cmd.Flags().GetString("source")

	csvPath := filepath.Join(cfg.CSVDir, output.BaseName(model)+".csv")
	records, err := output.ReadCSV(csvPath)
	if err != nil {
		return fmt.Errorf("reading artifact: %w\nRun `termbench run` first to produce it", err)
	}

	gen := report.NewGenerator(cfg.ReportDir)
	mdPath, htmlPath, err := gen.Generate(model, source, records)
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	fmt.Println("Report generated!")
	fmt.Printf("  Markdown: %s\n", mdPath)
	fmt.Printf("  HTML:     %s\n", htmlPath)
	return nil
}
