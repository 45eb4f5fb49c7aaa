package cmd

import (
	"github.com/spf13/cobra"

	"github.com/contentloop/contentloop/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize contentloop configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure contentloop and generates a .contentloop.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
