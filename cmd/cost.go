package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/legistyr/termbench/internal/config"
	"github.com/legistyr/termbench/internal/dataset"
	"github.com/legistyr/termbench/internal/openrouter"
	"github.com/legistyr/termbench/internal/prompt"
)

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Estimate API costs for a translation run",
	Long: `Performs a dry run that loads the dataset, builds every prompt, estimates
tokens, and calculates the expected API cost without making any calls.`,
	RunE: runCost,
}

func init() {
	costCmd.Flags().String("source", "", "dataset name, e.g. \"homonyms\"")
	costCmd.Flags().String("template", "", "prompt template (defaults to the source name)")
	costCmd.Flags().String("model", "", "model identifier (overrides config)")
	costCmd.Flags().Int("max-tokens", 0, "maximum completion tokens (overrides config)")
	_ = costCmd.MarkFlagRequired("source")
	rootCmd.AddCommand(costCmd)
}

func runCost(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	source, _ := cmd.Flags().GetString("source")
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Model = model
	}
	if maxTokens, _ := cmd.Flags().GetInt("max-tokens"); maxTokens > 0 {
		cfg.MaxTokens = maxTokens
	}

	templateName, _ := cmd.Flags().GetString("template")
	if templateName == "" {
		templateName = source
	}
	tmpl, err := prompt.Lookup(templateName)
	if err != nil {
		return err
	}

	rows, err := dataset.Load(dataset.FilePath(cfg.DataDir, source), tmpl.OptionsColumn())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No rows found to estimate.")
		return nil
	}

	// Prompt tokens come from the rendered messages; completion tokens are
	// bounded by max_tokens, so the total is a worst-case figure.
	var promptTokens int
	for _, row := range rows {
		for _, msg := range tmpl.Build(row) {
			promptTokens += openrouter.EstimateTokens(msg.Content)
		}
	}
	outputTokens := len(rows) * cfg.MaxTokens

	fmt.Println("Cost Estimate")
	fmt.Println("=============")
	fmt.Printf("  Rows:                %d\n", len(rows))
	fmt.Printf("  Estimated tokens:    %d prompt, up to %d output\n", promptTokens, outputTokens)
	if openrouter.KnownModel(cfg.Model) {
		fmt.Printf("  Estimated total:     $%.4f\n", openrouter.EstimateCost(cfg.Model, promptTokens, outputTokens))
	} else {
		fmt.Printf("  Estimated total:     unknown (no pricing for %s)\n", cfg.Model)
	}
	fmt.Println()

	// Show how the same run would price on other models.
	fmt.Println("  Model Comparison:")
	for _, model := range config.SuggestedModels {
		if !openrouter.KnownModel(model) {
			continue
		}
		marker := " "
		if model == cfg.Model {
			marker = "*"
		}
		fmt.Printf("  %s %-36s ~$%.4f\n", marker, model, openrouter.EstimateCost(model, promptTokens, outputTokens))
	}
	fmt.Println()
	fmt.Println("  * = current configuration")
	fmt.Println()
	fmt.Printf("  Model:      %s\n", cfg.Model)
	fmt.Printf("  Max tokens: %d\n", cfg.MaxTokens)

	return nil
}
