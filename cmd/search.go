package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/contentloop/contentloop/internal/retrieval"
)

var (
	searchAgent    string
	searchCategory string
	searchType     string
	searchLimit    int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stored content and knowledge",
	Long: `Searches the vector store semantically. With --agent, runs the agent's
full retrieval strategy; otherwise searches the knowledge base, or past
content when --type is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		application, err := buildApp()
		if err != nil {
			return err
		}
		defer application.Close()

		ctx := cmd.Context()

		if searchAgent != "" {
			result, err := application.retriever.AgentContext(ctx, searchAgent, query)
			if err != nil {
				return err
			}
			printContext(result)
			return nil
		}

		var items []retrieval.Item
		if searchType != "" {
			items, err = application.retriever.SimilarContent(ctx, query, searchType, searchLimit)
		} else {
			items, err = application.retriever.SearchKnowledge(ctx, query, searchCategory, searchLimit)
		}
		if err != nil {
			return err
		}

		if len(items) == 0 {
			fmt.Println("No results.")
			return nil
		}
		for i, item := range items {
			fmt.Printf("%d. (%.2f) %s\n", i+1, item.Score, item.Content)
			if item.Source != "" {
				fmt.Printf("   source: %s\n", item.Source)
			}
		}
		return nil
	},
}

func printContext(c *retrieval.Context) {
	fmt.Printf("Context for %s:\n", c.Agent)
	for _, section := range c.Sections {
		if len(section.Items) == 0 {
			continue
		}
		fmt.Printf("\n%s:\n", section.Name)
		for _, item := range section.Items {
			fmt.Printf("  - (%.2f) %s\n", item.Score, item.Content)
		}
	}
}

func init() {
	searchCmd.Flags().StringVar(&searchAgent, "agent", "", "run a full agent retrieval strategy")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "knowledge category filter")
	searchCmd.Flags().StringVar(&searchType, "type", "", "search past content of this type instead of knowledge")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 5, "maximum results")
	rootCmd.AddCommand(searchCmd)
}
