package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contentloop/contentloop/internal/vectordb"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show document counts for every collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := buildApp()
		if err != nil {
			return err
		}
		defer application.Close()

		stats := application.store.Stats()
		for _, col := range vectordb.Collections {
			fmt.Printf("%-20s %d\n", col, stats[col])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
