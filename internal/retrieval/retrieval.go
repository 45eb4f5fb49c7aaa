package retrieval

import (
	"context"
	"fmt"

	"github.com/contentloop/contentloop/internal/embeddings"
	"github.com/contentloop/contentloop/internal/vectordb"
)

// DefaultMinStyleScore is the performance floor for style-example retrieval.
const DefaultMinStyleScore = 0.7

// Item is one retrieved piece of context, formatted for agent consumption.
// Score carries cosine similarity for content and knowledge items, and the
// recorded performance score for style examples.
type Item struct {
	Content  string            `json:"content"`
	Metadata vectordb.Metadata `json:"-"`
	Source   string            `json:"source,omitempty"`
	Category string            `json:"category,omitempty"`
	Score    float64           `json:"score"`
}

// Section is a named, ordered group of items within an agent context.
type Section struct {
	Name  string      `json:"name"`
	Kind  sectionKind `json:"-"`
	Items []Item      `json:"items"`
}

// Context is the full retrieved context for one agent invocation. Sections
// appear in strategy order.
type Context struct {
	Agent    string    `json:"agent"`
	Query    string    `json:"query"`
	Sections []Section `json:"sections"`
}

// DuplicateResult reports the outcome of a near-duplicate check. A positive
// result is still a successful check, not an error.
type DuplicateResult struct {
	IsDuplicate bool    `json:"is_duplicate"`
	Similarity  float64 `json:"similarity,omitempty"`
	Content     string  `json:"content,omitempty"`
	ContentID   string  `json:"content_id,omitempty"`
	ContentType string  `json:"content_type,omitempty"`
}

// System answers context-retrieval requests on behalf of content agents.
type System struct {
	store              vectordb.Store
	cache              *embeddings.CachingEmbedder // optional; enables cache stats
	duplicateThreshold float64
	minStyleScore      float64
}

// New creates a retrieval System over the given store. cache may be nil when
// the embedder is not wrapped with caching.
func New(store vectordb.Store, cache *embeddings.CachingEmbedder) *System {
	return &System{
		store:              store,
		cache:              cache,
		duplicateThreshold: vectordb.DefaultDuplicateThreshold,
		minStyleScore:      DefaultMinStyleScore,
	}
}

// SetDuplicateThreshold overrides the similarity bar for duplicate checks.
func (s *System) SetDuplicateThreshold(threshold float64) {
	if threshold > 0 && threshold <= 1 {
		s.duplicateThreshold = threshold
	}
}

// SetMinStyleScore overrides the performance floor for style retrieval.
func (s *System) SetMinStyleScore(score float64) {
	if score >= 0 {
		s.minStyleScore = score
	}
}

// SimilarContent returns prior agent output ranked by similarity to query,
// optionally restricted to one content type.
func (s *System) SimilarContent(ctx context.Context, query, contentType string, limit int) ([]Item, error) {
	results, err := s.store.SearchContent(ctx, query, contentType, limit)
	if err != nil {
		return nil, fmt.Errorf("searching content history: %w", err)
	}
	return contentItems(results), nil
}

// SearchKnowledge returns knowledge-base entries ranked by similarity,
// optionally restricted to one category.
func (s *System) SearchKnowledge(ctx context.Context, query, category string, limit int) ([]Item, error) {
	results, err := s.store.SearchKnowledge(ctx, query, category, limit)
	if err != nil {
		return nil, fmt.Errorf("searching knowledge base: %w", err)
	}
	return knowledgeItems(results), nil
}

// StyleExamples returns high-performing examples for a content type, using
// the configured performance floor.
func (s *System) StyleExamples(ctx context.Context, contentType string) ([]Item, error) {
	results, err := s.store.StyleExamplesFor(ctx, contentType, s.minStyleScore, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching style examples: %w", err)
	}
	return styleItems(results), nil
}

// CheckDuplicate reports whether text is near-identical to existing content
// history, returning the closest match when it is.
func (s *System) CheckDuplicate(ctx context.Context, text string) (*DuplicateResult, error) {
	isDup, match, err := s.store.CheckDuplicate(ctx, text, s.duplicateThreshold)
	if err != nil {
		return nil, fmt.Errorf("checking duplicate: %w", err)
	}
	if !isDup || match == nil {
		return &DuplicateResult{}, nil
	}
	return &DuplicateResult{
		IsDuplicate: true,
		Similarity:  float64(match.Similarity),
		Content:     match.Document.Text,
		ContentID:   match.Document.ID,
		ContentType: match.Document.Metadata.ContentType,
	}, nil
}

// AgentContext assembles the full retrieved context for one agent and query
// by running the agent's strategy. Unknown agents get the generic plan.
// A failing step fails the whole call; partial context would be misleading.
func (s *System) AgentContext(ctx context.Context, agent, query string) (*Context, error) {
	result := &Context{Agent: agent, Query: query}

	for _, st := range strategyFor(agent) {
		stepQuery := query
		if st.query != "" {
			stepQuery = st.query
		}

		var (
			items []Item
			err   error
		)
		switch st.kind {
		case kindSimilar:
			if st.fromAssets {
				var results []vectordb.Result
				results, err = s.store.SearchAssets(ctx, stepQuery, st.contentType, st.limit)
				items = contentItems(results)
			} else {
				items, err = s.SimilarContent(ctx, stepQuery, st.contentType, st.limit)
			}
		case kindKnowledge:
			items, err = s.SearchKnowledge(ctx, stepQuery, st.category, st.limit)
		case kindStyle:
			items, err = s.StyleExamples(ctx, st.contentType)
		}
		if err != nil {
			return nil, fmt.Errorf("agent %q section %q: %w", agent, st.section, err)
		}

		result.Sections = append(result.Sections, Section{
			Name:  st.section,
			Kind:  st.kind,
			Items: items,
		})
	}

	return result, nil
}

// StoreOutput files an agent's output into content_history under the
// agent's content type and returns the new document id.
func (s *System) StoreOutput(ctx context.Context, agent, text string, meta vectordb.Metadata) (string, error) {
	meta.Agent = agent
	id, err := s.store.AddContent(ctx, ContentTypeForAgent(agent), text, meta)
	if err != nil {
		return "", fmt.Errorf("storing output for %q: %w", agent, err)
	}
	return id, nil
}

// Stats returns per-collection document counts plus the embedding cache
// size when a caching embedder is attached.
func (s *System) Stats() map[string]int {
	stats := make(map[string]int, len(vectordb.Collections)+1)
	for col, n := range s.store.Stats() {
		stats[string(col)] = n
	}
	if s.cache != nil {
		stats["embedding_cache_size"] = s.cache.CacheSize()
	}
	return stats
}

func contentItems(results []vectordb.Result) []Item {
	items := make([]Item, 0, len(results))
	for _, r := range results {
		items = append(items, Item{
			Content:  r.Document.Text,
			Metadata: r.Document.Metadata,
			Score:    float64(r.Similarity),
		})
	}
	return items
}

func knowledgeItems(results []vectordb.Result) []Item {
	items := make([]Item, 0, len(results))
	for _, r := range results {
		source := r.Document.Metadata.Source
		if source == "" {
			source = "unknown"
		}
		category := r.Document.Metadata.Category
		if category == "" {
			category = "general"
		}
		items = append(items, Item{
			Content:  r.Document.Text,
			Metadata: r.Document.Metadata,
			Source:   source,
			Category: category,
			Score:    float64(r.Similarity),
		})
	}
	return items
}

func styleItems(results []vectordb.Result) []Item {
	items := make([]Item, 0, len(results))
	for _, r := range results {
		items = append(items, Item{
			Content:  r.Document.Text,
			Metadata: r.Document.Metadata,
			Score:    r.Document.Metadata.PerformanceScore,
		})
	}
	return items
}
