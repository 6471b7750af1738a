package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "termbench",
	Short: "Terminology-constrained translation benchmarks against OpenRouter",
	Long: `termbench runs LegISTyr terminology benchmarks: it builds terminologically
constrained translation prompts from a dataset, fans them out to an LLM
through the OpenRouter API, and stores the answers as CSV and plain-text
artifacts for evaluation.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".termbench.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
