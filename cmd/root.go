package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "contentloop",
	Short: "RAG memory and performance feedback for marketing content agents",
	Long: `Contentloop gives content-generation agents long-term memory: it stores
every agent output, brand knowledge, and visual theme in a semantic
vector store, retrieves agent-specific context on demand, and promotes
content that performs well back into the retrieval corpus.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".contentloop.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
