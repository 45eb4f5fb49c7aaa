package vectordb

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

// mockEmbedder returns deterministic embeddings based on text content.
// Shared characters contribute to the same positions, so similar texts
// produce similar vectors.
type mockEmbedder struct {
	dims int
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = m.vector(text)
	}
	return results, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }
func (m *mockEmbedder) Name() string    { return "mock" }

func (m *mockEmbedder) vector(text string) []float32 {
	vec := make([]float32, m.dims)
	for i, ch := range text {
		vec[(int(ch)+i)%m.dims] += 1.0
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

func newTestStore(t *testing.T) *ChromemStore {
	t.Helper()
	store, err := NewChromemStore("", &mockEmbedder{dims: 64})
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	return store
}

func TestAddContentSetsServerMetadata(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.AddContent(ctx, "blog", "Announcing our new vector search feature", Metadata{
		Agent: "Blog Writer",
		Extra: map[string]string{"campaign": "launch", "content_type": "spoofed"},
	})
	if err != nil {
		t.Fatalf("AddContent: %v", err)
	}
	if !strings.HasPrefix(id, "blog_") {
		t.Errorf("id %q missing content-type prefix", id)
	}

	doc, err := store.GetContent(ctx, id)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	// Server-set fields win over caller Extra keys of the same name.
	if doc.Metadata.ContentType != "blog" {
		t.Errorf("content_type = %q, want blog", doc.Metadata.ContentType)
	}
	if doc.Metadata.Timestamp.IsZero() {
		t.Error("server timestamp not set")
	}
	if doc.Metadata.Agent != "Blog Writer" {
		t.Errorf("agent = %q, want Blog Writer", doc.Metadata.Agent)
	}
	if doc.Metadata.Extra["campaign"] != "launch" {
		t.Errorf("extra campaign = %q, want launch", doc.Metadata.Extra["campaign"])
	}
}

func TestIDsUniqueUnderRapidInserts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id, err := store.AddContent(ctx, "brief", "identical text every time", Metadata{})
		if err != nil {
			t.Fatalf("AddContent %d: %v", i, err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q on insert %d", id, i)
		}
		seen[id] = true
	}
	if store.Count(ContentHistory) != 20 {
		t.Errorf("Count = %d, want 20", store.Count(ContentHistory))
	}
}

func TestValidationFailsBeforeMutation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	var valErr *ValidationError

	_, err := store.AddKnowledge(ctx, "", "orphan knowledge", Metadata{})
	if !errors.As(err, &valErr) {
		t.Errorf("missing category: got %v, want ValidationError", err)
	}

	_, err = store.AddContent(ctx, "blog", "", Metadata{})
	if !errors.As(err, &valErr) {
		t.Errorf("empty text: got %v, want ValidationError", err)
	}

	_, err = store.AddStyleExample(ctx, "blog", "great post", 0.9, Metadata{})
	if !errors.As(err, &valErr) {
		t.Errorf("style example without original_id: got %v, want ValidationError", err)
	}

	_, err = store.insert(ctx, PerformanceMetrics, "metric_x", "{}", Metadata{})
	if !errors.As(err, &valErr) {
		t.Errorf("metric without content_id: got %v, want ValidationError", err)
	}

	for _, c := range Collections {
		if n := store.Count(c); n != 0 {
			t.Errorf("collection %s mutated by failed insert: %d docs", c, n)
		}
	}
}

func TestSearchKnowledgeByCategory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.AddKnowledge(ctx, "pricing", "Our pricing has three tiers: starter, growth and enterprise", Metadata{Source: "pricing.md"})
	if err != nil {
		t.Fatalf("AddKnowledge: %v", err)
	}
	_, err = store.AddKnowledge(ctx, "brand", "Brand voice is friendly and direct", Metadata{Source: "brand.md"})
	if err != nil {
		t.Fatalf("AddKnowledge: %v", err)
	}

	results, err := store.SearchKnowledge(ctx, "pricing tiers", "pricing", 5)
	if err != nil {
		t.Fatalf("SearchKnowledge: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Document.Metadata.Category != "pricing" {
		t.Errorf("category = %q, want pricing", results[0].Document.Metadata.Category)
	}
	if results[0].Similarity <= 0.01 {
		t.Errorf("similarity %v not above near-zero floor", results[0].Similarity)
	}
}

func TestCheckDuplicate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	text := "Introducing contentloop, the feedback-driven content engine"
	if _, err := store.AddContent(ctx, "blog", text, Metadata{}); err != nil {
		t.Fatalf("AddContent: %v", err)
	}
	if _, err := store.AddContent(ctx, "blog", text, Metadata{}); err != nil {
		t.Fatalf("AddContent (second): %v", err)
	}

	isDup, nearest, err := store.CheckDuplicate(ctx, text, 0.95)
	if err != nil {
		t.Fatalf("CheckDuplicate: %v", err)
	}
	if !isDup {
		t.Error("identical text not flagged as duplicate")
	}
	if nearest == nil || nearest.Document.Text != text {
		t.Error("duplicate check did not return the nearest document")
	}

	isDup, _, err = store.CheckDuplicate(ctx, "a completely different topic about quarterly hiring", 0.95)
	if err != nil {
		t.Fatalf("CheckDuplicate: %v", err)
	}
	if isDup {
		t.Error("unrelated text flagged as duplicate")
	}
}

func TestCheckDuplicateEmptyHistory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	isDup, nearest, err := store.CheckDuplicate(ctx, "anything", 0.95)
	if err != nil {
		t.Fatalf("CheckDuplicate on empty store: %v", err)
	}
	if isDup || nearest != nil {
		t.Error("empty history must not report duplicates")
	}
}

func TestStyleExamplesFilterAndFloor(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	add := func(contentType string, score float64) {
		t.Helper()
		_, err := store.AddStyleExample(ctx, contentType, "example for "+contentType, score, Metadata{
			OriginalID: "blog_original",
		})
		if err != nil {
			t.Fatalf("AddStyleExample: %v", err)
		}
	}
	add("blog", 0.95)
	add("blog", 0.75)
	add("linkedin", 0.9)

	results, err := store.StyleExamplesFor(ctx, "blog", 0.8, 10)
	if err != nil {
		t.Fatalf("StyleExamplesFor: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (type blog, score >= 0.8)", len(results))
	}
	if results[0].Document.Metadata.PerformanceScore != 0.95 {
		t.Errorf("score = %v, want 0.95", results[0].Document.Metadata.PerformanceScore)
	}

	// No document meets the floor: empty result, not an error.
	results, err = store.StyleExamplesFor(ctx, "blog", 0.99, 10)
	if err != nil {
		t.Fatalf("StyleExamplesFor: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestMetricsForIncludingOrphans(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	// Metrics may reference content that was never stored or was pruned.
	if _, err := store.AddMetric(ctx, "blog_gone", `{"reach":100}`, Metadata{}); err != nil {
		t.Fatalf("AddMetric: %v", err)
	}
	if _, err := store.AddMetric(ctx, "blog_gone", `{"reach":500}`, Metadata{}); err != nil {
		t.Fatalf("AddMetric: %v", err)
	}
	if _, err := store.AddMetric(ctx, "blog_other", `{"reach":1}`, Metadata{}); err != nil {
		t.Fatalf("AddMetric: %v", err)
	}

	results, err := store.MetricsFor(ctx, "blog_gone", 0)
	if err != nil {
		t.Fatalf("MetricsFor: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d metric records, want 2", len(results))
	}
	for _, r := range results {
		if r.Document.Metadata.ContentID != "blog_gone" {
			t.Errorf("content_id = %q, want blog_gone", r.Document.Metadata.ContentID)
		}
	}
}

func TestGetContentNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.GetContent(ctx, "blog_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestRecentContentWindow(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.AddContent(ctx, "blog", "windowed content item", Metadata{}); err != nil {
		t.Fatalf("AddContent: %v", err)
	}

	results, err := store.RecentContent(ctx, time.Now().Add(-time.Hour), 0)
	if err != nil {
		t.Fatalf("RecentContent: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("trailing window got %d results, want 1", len(results))
	}

	results, err = store.RecentContent(ctx, time.Now().Add(time.Hour), 0)
	if err != nil {
		t.Fatalf("RecentContent: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("future window got %d results, want 0", len(results))
	}
}

func TestClearCollection(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.AddContent(ctx, "blog", "to be cleared", Metadata{}); err != nil {
		t.Fatalf("AddContent: %v", err)
	}
	if _, err := store.AddKnowledge(ctx, "brand", "survives the clear", Metadata{}); err != nil {
		t.Fatalf("AddKnowledge: %v", err)
	}

	if err := store.Clear(ctx, ContentHistory); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n := store.Count(ContentHistory); n != 0 {
		t.Errorf("content_history count after clear = %d, want 0", n)
	}
	if n := store.Count(KnowledgeBase); n != 1 {
		t.Errorf("knowledge_base count after clear = %d, want 1", n)
	}

	// Collection is usable again after the clear.
	if _, err := store.AddContent(ctx, "blog", "fresh start", Metadata{}); err != nil {
		t.Fatalf("AddContent after clear: %v", err)
	}
}

func TestPersistAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	embedder := &mockEmbedder{dims: 64}

	store, err := NewChromemStore(dir, embedder)
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	id, err := store.AddContent(ctx, "blog", "durable content survives restarts", Metadata{Agent: "Blog Writer"})
	if err != nil {
		t.Fatalf("AddContent: %v", err)
	}

	reopened, err := NewChromemStore(dir, embedder)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if n := reopened.Count(ContentHistory); n != 1 {
		t.Fatalf("count after reopen = %d, want 1", n)
	}
	doc, err := reopened.GetContent(ctx, id)
	if err != nil {
		t.Fatalf("GetContent after reopen: %v", err)
	}
	if doc.Metadata.Agent != "Blog Writer" {
		t.Errorf("agent after reopen = %q, want Blog Writer", doc.Metadata.Agent)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.AddContent(ctx, "blog", "one content item", Metadata{}); err != nil {
		t.Fatalf("AddContent: %v", err)
	}
	if _, err := store.AddKnowledge(ctx, "product", "one knowledge item", Metadata{}); err != nil {
		t.Fatalf("AddKnowledge: %v", err)
	}

	stats := store.Stats()
	if len(stats) != len(Collections) {
		t.Errorf("stats has %d collections, want %d", len(stats), len(Collections))
	}
	if stats[ContentHistory] != 1 || stats[KnowledgeBase] != 1 || stats[StyleExamples] != 0 {
		t.Errorf("unexpected stats: %v", stats)
	}
}
