package cmd

import (
	"github.com/spf13/cobra"
	"github.com/legistyr/termbench/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize termbench configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure termbench for your datasets and generates a .termbench.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
