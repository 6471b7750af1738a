package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/legistyr/termbench/internal/config"
	"github.com/legistyr/termbench/internal/models"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available on OpenRouter",
	Long: `Queries the OpenRouter model catalog for the configured API key.
Use --filter to narrow the listing by substring.`,
	RunE: runModels,
}

func init() {
	modelsCmd.Flags().String("filter", "", "only list models whose identifier contains this substring")
	modelsCmd.Flags().String("api-key", "", "OpenRouter API key (defaults to OPENROUTER_API_KEY)")
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	apiKeyFlag, _ := cmd.Flags().GetString("api-key")
	apiKey, err := config.ResolveAPIKey(apiKeyFlag)
	if err != nil {
		return err
	}

	filter, _ := cmd.Flags().GetString("filter")

	lister := models.NewLister(apiKey)
	ids, err := lister.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing models: %w", err)
	}

	if len(ids) == 0 {
		fmt.Println("No models matched.")
		return nil
	}

	fmt.Printf("Found %d model(s):\n\n", len(ids))
	for _, id := range ids {
		fmt.Printf("  %s\n", id)
	}
	return nil
}
