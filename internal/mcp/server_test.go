package mcp

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/contentloop/contentloop/internal/analytics"
	"github.com/contentloop/contentloop/internal/retrieval"
	"github.com/contentloop/contentloop/internal/vectordb"
)

// stubEmbedder produces deterministic vectors so tests never call a provider.
type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 32)
		for j, ch := range text {
			vec[(int(ch)+j)%32] += 1.0
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v * v)
		}
		norm = math.Sqrt(norm)
		if norm > 0 {
			for j := range vec {
				vec[j] = float32(float64(vec[j]) / norm)
			}
		}
		results[i] = vec
	}
	return results, nil
}

func (stubEmbedder) Dimensions() int { return 32 }
func (stubEmbedder) Name() string    { return "stub" }

func setupServer(t *testing.T) (*Server, vectordb.Store) {
	t.Helper()
	store, err := vectordb.NewChromemStore("", stubEmbedder{})
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	retriever := retrieval.New(store, nil)
	analyzer := analytics.New(store, nil)
	return NewServer(retriever, analyzer), store
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("result content is not text: %#v", result.Content[0])
	}
	return tc.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"retrieve_context", retrieveContextTool, "retrieve_context"},
		{"check_duplicate", checkDuplicateTool, "check_duplicate"},
		{"search_knowledge", searchKnowledgeTool, "search_knowledge"},
		{"get_style_examples", getStyleExamplesTool, "get_style_examples"},
		{"store_content", storeContentTool, "store_content"},
		{"track_performance", trackPerformanceTool, "track_performance"},
		{"get_top_content", getTopContentTool, "get_top_content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv, _ := setupServer(t)

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.retriever == nil || srv.analyzer == nil {
		t.Error("dependencies not set")
	}
}

func TestHandleRetrieveContext(t *testing.T) {
	srv, store := setupServer(t)
	ctx := context.Background()

	if _, err := store.AddContent(ctx, "brief", "Q3 developer launch brief", vectordb.Metadata{}); err != nil {
		t.Fatalf("AddContent: %v", err)
	}

	t.Run("known agent", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"agent": "Planner",
			"query": "developer launch",
		}

		result, err := srv.handleRetrieveContext(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if !strings.Contains(textContent(t, result), "similar_briefs") {
			t.Error("expected similar_briefs section in output")
		}
	})

	t.Run("missing agent", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "anything"}

		result, err := srv.handleRetrieveContext(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing agent")
		}
	})
}

func TestHandleCheckDuplicate(t *testing.T) {
	srv, store := setupServer(t)
	ctx := context.Background()

	text := "Announcing our winter release with realtime sync"
	if _, err := store.AddContent(ctx, "blog", text, vectordb.Metadata{}); err != nil {
		t.Fatalf("AddContent: %v", err)
	}

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"content": text}

	result, err := srv.handleCheckDuplicate(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	if !strings.Contains(textContent(t, result), "Duplicate detected") {
		t.Error("expected duplicate report for identical content")
	}
}

func TestHandleSearchKnowledgeEmpty(t *testing.T) {
	srv, _ := setupServer(t)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"query": "anything"}

	result, err := srv.handleSearchKnowledge(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	if !strings.Contains(textContent(t, result), "No knowledge found") {
		t.Error("expected empty-store guidance")
	}
}

func TestHandleStoreAndTrack(t *testing.T) {
	srv, store := setupServer(t)
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{
		"agent":   "Blog Writer",
		"content": "A finished blog post about the release.",
	}

	result, err := srv.handleStoreContent(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	if store.Count(vectordb.ContentHistory) != 1 {
		t.Fatal("content not stored")
	}

	text := textContent(t, result)
	id := strings.TrimSuffix(strings.TrimPrefix(text, "Stored as "), " (type blog).")
	if id == text {
		t.Fatalf("unexpected store response: %q", text)
	}

	track := mcp.CallToolRequest{}
	track.Params.Arguments = map[string]any{
		"content_id":  id,
		"likes":       float64(10000),
		"reach":       float64(10000),
		"conversions": float64(100),
		"sentiment":   "positive",
	}

	result, err = srv.handleTrackPerformance(ctx, track)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	if !strings.Contains(textContent(t, result), "Promoted to style example") {
		t.Errorf("expected promotion in response: %q", textContent(t, result))
	}

	top := mcp.CallToolRequest{}
	top.Params.Arguments = map[string]any{"content_type": "blog"}

	result, err = srv.handleGetTopContent(ctx, top)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(textContent(t, result), "Top 1 performer(s)") {
		t.Errorf("expected one top performer: %q", textContent(t, result))
	}
}
