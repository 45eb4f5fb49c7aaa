package retrieval

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/contentloop/contentloop/internal/embeddings"
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

func newTestSystem(t *testing.T) (*System, vectordb.Store) {
	t.Helper()
	cache := embeddings.NewCachingEmbedder(stubEmbedder{})
	store, err := vectordb.NewChromemStore("", cache)
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	return New(store, cache), store
}

func sectionNames(c *Context) []string {
	names := make([]string, 0, len(c.Sections))
	for _, s := range c.Sections {
		names = append(names, s.Name)
	}
	return names
}

func TestAgentContextPlanner(t *testing.T) {
	ctx := context.Background()
	system, store := newTestSystem(t)

	if _, err := store.AddContent(ctx, "brief", "Q3 campaign brief for the developer platform launch", vectordb.Metadata{}); err != nil {
		t.Fatalf("AddContent: %v", err)
	}
	if _, err := store.AddKnowledge(ctx, "product", "The platform ships with a REST API and webhooks", vectordb.Metadata{Source: "docs"}); err != nil {
		t.Fatalf("AddKnowledge: %v", err)
	}

	result, err := system.AgentContext(ctx, "Planner", "launch campaign for developers")
	if err != nil {
		t.Fatalf("AgentContext: %v", err)
	}

	want := []string{"similar_briefs", "knowledge"}
	got := sectionNames(result)
	if len(got) != len(want) {
		t.Fatalf("sections = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("section[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if len(result.Sections[0].Items) != 1 {
		t.Errorf("similar_briefs items = %d, want 1", len(result.Sections[0].Items))
	}
	if len(result.Sections[1].Items) != 1 {
		t.Fatalf("knowledge items = %d, want 1", len(result.Sections[1].Items))
	}
	if result.Sections[1].Items[0].Source != "docs" {
		t.Errorf("knowledge source = %q, want docs", result.Sections[1].Items[0].Source)
	}
}

func TestAgentContextBlogWriterIncludesStyle(t *testing.T) {
	ctx := context.Background()
	system, store := newTestSystem(t)

	if _, err := store.AddStyleExample(ctx, "blog", "A crisp technical deep dive", 0.9, vectordb.Metadata{OriginalID: "blog_x"}); err != nil {
		t.Fatalf("AddStyleExample: %v", err)
	}

	result, err := system.AgentContext(ctx, "Blog Writer", "write about the new API")
	if err != nil {
		t.Fatalf("AgentContext: %v", err)
	}

	want := []string{"similar_blogs", "style_examples", "technical_docs"}
	got := sectionNames(result)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("sections = %v, want %v", got, want)
	}

	style := result.Sections[1]
	if len(style.Items) != 1 {
		t.Fatalf("style items = %d, want 1", len(style.Items))
	}
	if style.Items[0].Score != 0.9 {
		t.Errorf("style score = %v, want 0.9 (performance, not similarity)", style.Items[0].Score)
	}
}

func TestAgentContextStyleFloor(t *testing.T) {
	ctx := context.Background()
	system, store := newTestSystem(t)

	if _, err := store.AddStyleExample(ctx, "linkedin", "mediocre post", 0.5, vectordb.Metadata{OriginalID: "li_a"}); err != nil {
		t.Fatalf("AddStyleExample: %v", err)
	}
	if _, err := store.AddStyleExample(ctx, "linkedin", "strong post", 0.85, vectordb.Metadata{OriginalID: "li_b"}); err != nil {
		t.Fatalf("AddStyleExample: %v", err)
	}

	result, err := system.AgentContext(ctx, "LinkedIn Writer", "announce the enterprise tier")
	if err != nil {
		t.Fatalf("AgentContext: %v", err)
	}

	items := result.Sections[0].Items
	if len(items) != 1 {
		t.Fatalf("items above the 0.7 floor = %d, want 1", len(items))
	}
	if items[0].Content != "strong post" {
		t.Errorf("kept item = %q, want the high scorer", items[0].Content)
	}
}

func TestAgentContextUnknownAgent(t *testing.T) {
	ctx := context.Background()
	system, _ := newTestSystem(t)

	result, err := system.AgentContext(ctx, "Mystery Agent", "anything at all")
	if err != nil {
		t.Fatalf("unknown agent must not error: %v", err)
	}

	want := []string{"similar_content", "knowledge"}
	got := sectionNames(result)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("generic sections = %v, want %v", got, want)
	}
}

func TestStoreOutputContentTypes(t *testing.T) {
	ctx := context.Background()
	system, store := newTestSystem(t)

	tests := []struct {
		agent string
		want  string
	}{
		{"Blog Writer", "blog"},
		{"X Dev Writer", "x_developer"},
		{"Image Maker", "image_asset"},
		{"Somebody New", "general"},
	}

	for _, tt := range tests {
		id, err := system.StoreOutput(ctx, tt.agent, "output from "+tt.agent, vectordb.Metadata{})
		if err != nil {
			t.Fatalf("StoreOutput(%s): %v", tt.agent, err)
		}

		doc, err := store.GetContent(ctx, id)
		if err != nil {
			t.Fatalf("GetContent: %v", err)
		}
		if doc.Metadata.ContentType != tt.want {
			t.Errorf("%s filed as %q, want %q", tt.agent, doc.Metadata.ContentType, tt.want)
		}
		if doc.Metadata.Agent != tt.agent {
			t.Errorf("agent metadata = %q, want %q", doc.Metadata.Agent, tt.agent)
		}
	}
}

func TestCheckDuplicate(t *testing.T) {
	ctx := context.Background()
	system, store := newTestSystem(t)

	text := "Introducing our new real-time collaboration features for remote teams"
	id, err := store.AddContent(ctx, "blog", text, vectordb.Metadata{})
	if err != nil {
		t.Fatalf("AddContent: %v", err)
	}

	result, err := system.CheckDuplicate(ctx, text)
	if err != nil {
		t.Fatalf("CheckDuplicate: %v", err)
	}
	if !result.IsDuplicate {
		t.Fatal("identical text not flagged as duplicate")
	}
	if result.ContentID != id {
		t.Errorf("match id = %q, want %q", result.ContentID, id)
	}
	if result.Similarity < 0.95 {
		t.Errorf("similarity = %v, want >= 0.95", result.Similarity)
	}

	fresh, err := system.CheckDuplicate(ctx, "zq 9 xv entirely dissimilar gibberish 42")
	if err != nil {
		t.Fatalf("CheckDuplicate fresh: %v", err)
	}
	if fresh.IsDuplicate {
		t.Error("unrelated text flagged as duplicate")
	}
}

func TestStatsIncludesCacheSize(t *testing.T) {
	ctx := context.Background()
	system, store := newTestSystem(t)

	if _, err := store.AddContent(ctx, "blog", "one stored item", vectordb.Metadata{}); err != nil {
		t.Fatalf("AddContent: %v", err)
	}

	stats := system.Stats()
	if stats["content_history"] != 1 {
		t.Errorf("content_history = %d, want 1", stats["content_history"])
	}
	if _, ok := stats["embedding_cache_size"]; !ok {
		t.Error("stats missing embedding_cache_size")
	}
	if stats["embedding_cache_size"] < 1 {
		t.Errorf("embedding_cache_size = %d, want >= 1 after an insert", stats["embedding_cache_size"])
	}
}

func TestBuildAugmentedPrompt(t *testing.T) {
	long := strings.Repeat("x", 250)
	c := &Context{
		Agent: "Blog Writer",
		Query: "write about caching",
		Sections: []Section{
			{Name: "similar_blogs", Kind: kindSimilar, Items: []Item{
				{Content: long, Score: 0.91},
				{Content: "second similar post", Score: 0.82},
				{Content: "third similar post", Score: 0.75},
			}},
			{Name: "technical_docs", Kind: kindKnowledge, Items: []Item{
				{Content: "cache invalidation notes", Source: "wiki", Score: 0.8},
			}},
			{Name: "style_examples", Kind: kindStyle, Items: []Item{
				{Content: "a winning blog opener", Score: 0.88},
			}},
		},
	}

	prompt := BuildAugmentedPrompt("Write a blog post about caching.", c)

	if !strings.HasPrefix(prompt, "Write a blog post about caching.\n\n### Retrieved Context:\n") {
		t.Error("prompt does not start with base + context header")
	}
	if !strings.HasSuffix(prompt, "\n### Original Request:\n") {
		t.Error("prompt does not end with the original-request marker")
	}

	simIdx := strings.Index(prompt, "**Similar Previous Content:**")
	knowIdx := strings.Index(prompt, "**Relevant Knowledge:**")
	styleIdx := strings.Index(prompt, "**High-Performing Examples:**")
	if simIdx == -1 || knowIdx == -1 || styleIdx == -1 {
		t.Fatal("missing section headers")
	}
	if !(simIdx < knowIdx && knowIdx < styleIdx) {
		t.Error("sections out of fixed order")
	}

	if strings.Contains(prompt, "third similar post") {
		t.Error("similar content not capped at 2 items")
	}
	if !strings.Contains(prompt, strings.Repeat("x", 200)+"...") {
		t.Error("long content not truncated to 200 chars with ellipsis")
	}
	if strings.Contains(prompt, strings.Repeat("x", 201)) {
		t.Error("excerpt exceeds 200 chars")
	}
	if !strings.Contains(prompt, "(similarity: 0.91)") {
		t.Error("missing similarity annotation")
	}
	if !strings.Contains(prompt, "(source: wiki)") {
		t.Error("missing source annotation")
	}
	if !strings.Contains(prompt, "(score: 0.88)") {
		t.Error("missing score annotation")
	}
}

func TestBuildAugmentedPromptEmptyContext(t *testing.T) {
	prompt := BuildAugmentedPrompt("Base.", &Context{Agent: "Planner", Query: "q"})

	if !strings.Contains(prompt, "### Retrieved Context:") {
		t.Error("missing context header")
	}
	if strings.Contains(prompt, "**") {
		t.Error("empty context should render no section headers")
	}
	if !strings.HasSuffix(prompt, "\n### Original Request:\n") {
		t.Error("missing original-request marker")
	}
}
