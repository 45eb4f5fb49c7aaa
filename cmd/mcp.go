package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/contentloop/contentloop/internal/mcp"
	"github.com/contentloop/contentloop/internal/vectordb"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing retrieval and analytics tools for content agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := buildApp()
		if err != nil {
			return err
		}
		defer application.Close()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "contentloop MCP server started on stdio (history=%d, knowledge=%d)\n",
			application.store.Count(vectordb.ContentHistory),
			application.store.Count(vectordb.KnowledgeBase),
		)

		srv := mcpserver.NewServer(application.retriever, application.analyzer)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
