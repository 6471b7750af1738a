package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/legistyr/termbench/internal/config"
	"github.com/legistyr/termbench/internal/dataset"
	"github.com/legistyr/termbench/internal/dispatch"
	"github.com/legistyr/termbench/internal/history"
	"github.com/legistyr/termbench/internal/openrouter"
	"github.com/legistyr/termbench/internal/output"
	"github.com/legistyr/termbench/internal/progress"
	"github.com/legistyr/termbench/internal/prompt"
)

// maxFailuresListed caps the per-row failure listing printed after a run.
const maxFailuresListed = 10

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Translate a dataset through the configured model",
	Long: `Loads a LegISTyr dataset, builds one terminologically constrained prompt
per row, sends them to OpenRouter with bounded concurrency, and writes the
answers as CSV and TXT artifacts.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("source", "", "dataset name, e.g. \"homonyms\" for LegISTyr__homonyms.csv")
	runCmd.Flags().String("template", "", "prompt template (defaults to the source name)")
	runCmd.Flags().String("model", "", "model identifier (overrides config)")
	runCmd.Flags().String("api-key", "", "OpenRouter API key (defaults to OPENROUTER_API_KEY)")
	runCmd.Flags().Int("max-tokens", 0, "maximum completion tokens (overrides config)")
	runCmd.Flags().Float64("temperature", 0, "sampling temperature (overrides config)")
	runCmd.Flags().Int("max-concurrent", 0, "max parallel requests (overrides config)")
	_ = runCmd.MarkFlagRequired("source")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := context.Background()

	// Load config.
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	source, _ := cmd.Flags().GetString("source")
	applyRunOverrides(cmd, cfg)

	// Resolve the template before anything costs money.
	templateName, _ := cmd.Flags().GetString("template")
	if templateName == "" {
		templateName = source
	}
	tmpl, err := prompt.Lookup(templateName)
	if err != nil {
		return err
	}

	apiKeyFlag, _ := cmd.Flags().GetString("api-key")
	apiKey, err := config.ResolveAPIKey(apiKeyFlag)
	if err != nil {
		return err
	}

	// Load dataset.
	sourcePath := dataset.FilePath(cfg.DataDir, source)
	if verbose {
		fmt.Fprintf(os.Stderr, "Loading dataset from %s...\n", sourcePath)
	}
	rows, err := dataset.Load(sourcePath, tmpl.OptionsColumn())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No rows found to translate.")
		return nil
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d rows, translating with %s\n", len(rows), cfg.Model)
	}

	client := openrouter.New(openrouter.Config{
		APIKey:      apiKey,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     time.Duration(cfg.RequestTimeout) * time.Second,
		Retry:       retryPolicy(cfg.Retry),
	})

	// Set up progress reporting.
	reporter := progress.NewReporter()
	reporter.Start(len(rows))
	dispatcher := dispatch.New(client, cfg.MaxConcurrent, func(done, total int) {
		reporter.Update(done, "")
	})

	results := dispatcher.Run(ctx, rows, tmpl.Build)
	reporter.Finish()

	// Write artifacts.
	writer := output.NewWriter(cfg.CSVDir, cfg.TXTDir)
	csvPath, txtPath, err := writer.Write(cfg.Model, results)
	if err != nil {
		return fmt.Errorf("writing artifacts: %w", err)
	}

	summary := dispatch.Summarize(results)
	duration := time.Since(start)

	// Record the run; a broken ledger must not fail a finished run.
	recordRun(ctx, cfg, source, templateName, summary, len(rows), start, duration, csvPath, txtPath)

	// Print summary. Row failures are reported but never change the exit code.
	fmt.Println()
	fmt.Println("Translation run complete!")
	fmt.Printf("  Rows translated: %d\n", summary.Succeeded)
	fmt.Printf("  Rows failed:     %d\n", summary.Failed)
	fmt.Printf("  Tokens used:     %d prompt, %d output\n", summary.PromptTokens, summary.OutputTokens)
	if summary.CostKnown {
		fmt.Printf("  Reported cost:   $%.6f\n", summary.TotalCost)
	}
	fmt.Printf("  Duration:        %s\n", duration.Round(time.Millisecond))
	fmt.Printf("  CSV output:      %s\n", csvPath)
	fmt.Printf("  TXT output:      %s\n", txtPath)

	printFailures(results)

	return nil
}

// applyRunOverrides copies explicit run flags over the loaded config.
func applyRunOverrides(cmd *cobra.Command, cfg *config.Config) {
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Model = model
	}
	if maxTokens, _ := cmd.Flags().GetInt("max-tokens"); maxTokens > 0 {
		cfg.MaxTokens = maxTokens
	}
	// Zero is a valid temperature, so only an explicitly set flag counts.
	if cmd.Flags().Changed("temperature") {
		cfg.Temperature, _ = cmd.Flags().GetFloat64("temperature")
	}
	if maxConcurrent, _ := cmd.Flags().GetInt("max-concurrent"); maxConcurrent > 0 {
		cfg.MaxConcurrent = maxConcurrent
	}
}

// recordRun appends the run to the SQLite ledger, warning instead of failing.
func recordRun(ctx context.Context, cfg *config.Config, source, template string, summary dispatch.Summary, rowCount int, started time.Time, duration time.Duration, csvPath, txtPath string) {
	store, db, err := openHistory(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return
	}
	defer db.Close()

	run := history.Run{
		StartedAt:    started,
		Duration:     duration,
		Source:       source,
		Template:     template,
		Model:        cfg.Model,
		RowCount:     rowCount,
		Succeeded:    summary.Succeeded,
		Failed:       summary.Failed,
		PromptTokens: summary.PromptTokens,
		OutputTokens: summary.OutputTokens,
		CSVPath:      csvPath,
		TXTPath:      txtPath,
	}
	if summary.CostKnown {
		run.TotalCost = &summary.TotalCost
	}

	if _, err := store.Record(ctx, run); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record run: %v\n", err)
	} else if verbose {
		fmt.Fprintf(os.Stderr, "Run recorded in %s\n", cfg.HistoryPath)
	}
}

// printFailures lists failed rows on stderr, capped to keep the output sane.
func printFailures(results []dispatch.Result) {
	var failed []dispatch.Result
	for _, r := range results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	if len(failed) == 0 {
		return
	}

	fmt.Fprintf(os.Stderr, "\nFailed rows (%d):\n", len(failed))
	for i, r := range failed {
		if i == maxFailuresListed {
			fmt.Fprintf(os.Stderr, "  ... and %d more\n", len(failed)-maxFailuresListed)
			break
		}
		fmt.Fprintf(os.Stderr, "  - row %d: %v\n", r.Index, r.Err)
	}
}
