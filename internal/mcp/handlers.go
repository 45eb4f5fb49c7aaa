package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/contentloop/contentloop/internal/analytics"
	"github.com/contentloop/contentloop/internal/retrieval"
	"github.com/contentloop/contentloop/internal/vectordb"
)

// handleRetrieveContext assembles agent-specific context and renders it as text.
func (s *Server) handleRetrieveContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agent, err := request.RequireString("agent")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: agent"), nil
	}
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	result, err := s.retriever.AgentContext(ctx, agent, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("context retrieval failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatContext(result)), nil
}

// handleCheckDuplicate checks draft content against existing history.
func (s *Server) handleCheckDuplicate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: content"), nil
	}

	result, err := s.retriever.CheckDuplicate(ctx, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("duplicate check failed: %v", err)), nil
	}

	if !result.IsDuplicate {
		return mcp.NewToolResultText("No duplicate found. The content is sufficiently original."), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Duplicate detected (similarity %.2f) of %s:\n%s",
		result.Similarity, result.ContentID, result.Content,
	)), nil
}

// handleSearchKnowledge performs semantic search over the knowledge base.
func (s *Server) handleSearchKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	items, err := s.retriever.SearchKnowledge(ctx, query, request.GetString("category", ""), limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("knowledge search failed: %v", err)), nil
	}

	if len(items) == 0 {
		return mcp.NewToolResultText("No knowledge found. Run `contentloop ingest` to load reference documents."), nil
	}
	return mcp.NewToolResultText(formatItems(items, "relevance")), nil
}

// handleGetStyleExamples returns high performers for one content type.
func (s *Server) handleGetStyleExamples(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contentType, err := request.RequireString("content_type")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: content_type"), nil
	}

	items, err := s.retriever.StyleExamples(ctx, contentType)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("style example lookup failed: %v", err)), nil
	}

	if len(items) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No style examples for %q yet. Examples appear once tracked content scores high enough.",
			contentType,
		)), nil
	}
	return mcp.NewToolResultText(formatItems(items, "score")), nil
}

// handleStoreContent files an agent output into content history.
func (s *Server) handleStoreContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agent, err := request.RequireString("agent")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: agent"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: content"), nil
	}

	meta := vectordb.Metadata{Source: request.GetString("source", "")}
	id, err := s.retriever.StoreOutput(ctx, agent, content, meta)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("storing content failed: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Stored as %s (type %s).", id, retrieval.ContentTypeForAgent(agent))), nil
}

// handleTrackPerformance records metrics and reports any promotion.
func (s *Server) handleTrackPerformance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contentID, err := request.RequireString("content_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: content_id"), nil
	}

	metrics := analytics.Metrics{
		Engagement: analytics.Engagement{
			Likes:    request.GetInt("likes", 0),
			Comments: request.GetInt("comments", 0),
			Shares:   request.GetInt("shares", 0),
		},
		Reach:       request.GetInt("reach", 0),
		Conversions: request.GetInt("conversions", 0),
		Sentiment:   request.GetString("sentiment", ""),
	}

	result, err := s.analyzer.TrackPerformance(ctx, contentID, metrics)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("tracking failed: %v", err)), nil
	}

	text := fmt.Sprintf("Recorded metric %s with score %.2f.", result.MetricID, result.Score)
	switch {
	case result.Promoted:
		text += fmt.Sprintf(" Promoted to style example %s.", result.StyleExampleID)
	case result.PromotionNote != "":
		text += " Promotion " + result.PromotionNote + "."
	}
	return mcp.NewToolResultText(text), nil
}

// handleGetTopContent lists the highest scorers.
func (s *Server) handleGetTopContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	performers, err := s.analyzer.TopPerformers(ctx, request.GetString("content_type", ""), limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("top content lookup failed: %v", err)), nil
	}

	if len(performers) == 0 {
		return mcp.NewToolResultText("No promoted content yet. Track performance metrics to populate style examples."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Top %d performer(s):\n", len(performers))
	for i, p := range performers {
		fmt.Fprintf(&sb, "\n%d. [%s] score %.2f\n%s\n", i+1, p.ContentType, p.PerformanceScore, p.Content)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatContext renders an agent context section by section.
func formatContext(c *retrieval.Context) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Context for %s:\n", c.Agent)

	empty := true
	for _, section := range c.Sections {
		if len(section.Items) == 0 {
			continue
		}
		empty = false
		fmt.Fprintf(&sb, "\n## %s\n", section.Name)
		for _, item := range section.Items {
			fmt.Fprintf(&sb, "- %s (%.2f)\n", item.Content, item.Score)
		}
	}

	if empty {
		sb.WriteString("\nNothing retrieved yet; the store may be empty.\n")
	}
	return sb.String()
}

// formatItems renders retrieval items with a named score annotation.
func formatItems(items []retrieval.Item, scoreLabel string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d result(s):\n", len(items))
	for i, item := range items {
		fmt.Fprintf(&sb, "\n%d. (%s %.2f", i+1, scoreLabel, item.Score)
		if item.Source != "" {
			fmt.Fprintf(&sb, ", source %s", item.Source)
		}
		sb.WriteString(")\n")
		sb.WriteString(item.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
