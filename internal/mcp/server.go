package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/contentloop/contentloop/internal/analytics"
	"github.com/contentloop/contentloop/internal/retrieval"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes contentloop's retrieval and
// analytics operations as agent tools.
type Server struct {
	retriever *retrieval.System
	analyzer  *analytics.System
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(retriever *retrieval.System, analyzer *analytics.System) *Server {
	s := &Server{
		retriever: retriever,
		analyzer:  analyzer,
	}

	s.mcp = server.NewMCPServer(
		"contentloop",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(retrieveContextTool, s.handleRetrieveContext)
	s.mcp.AddTool(checkDuplicateTool, s.handleCheckDuplicate)
	s.mcp.AddTool(searchKnowledgeTool, s.handleSearchKnowledge)
	s.mcp.AddTool(getStyleExamplesTool, s.handleGetStyleExamples)
	s.mcp.AddTool(storeContentTool, s.handleStoreContent)
	s.mcp.AddTool(trackPerformanceTool, s.handleTrackPerformance)
	s.mcp.AddTool(getTopContentTool, s.handleGetTopContent)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
