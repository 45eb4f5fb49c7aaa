package vectordb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"

	"github.com/contentloop/contentloop/internal/embeddings"
)

// DefaultDuplicateThreshold flags near-identical text, not topical similarity.
const DefaultDuplicateThreshold = 0.95

// ChromemStore implements Store using chromem-go. With a data directory it
// is durable across restarts; with an empty directory it is in-memory
// (used by tests).
type ChromemStore struct {
	db        *chromem.DB
	embedFunc chromem.EmbeddingFunc

	mu   sync.RWMutex
	cols map[Collection]*chromem.Collection
}

// NewChromemStore opens (or creates) the store in dir. Collections are
// created lazily on first open and persist across process restarts.
func NewChromemStore(dir string, embedder embeddings.Embedder) (*ChromemStore, error) {
	var db *chromem.DB
	var err error
	if dir == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dir, true)
		if err != nil {
			return nil, fmt.Errorf("opening vector store at %s: %w", dir, err)
		}
	}

	s := &ChromemStore{
		db:        db,
		embedFunc: embeddings.ToChromemFunc(embedder),
		cols:      make(map[Collection]*chromem.Collection, len(Collections)),
	}

	for _, c := range Collections {
		col, err := db.GetOrCreateCollection(string(c), nil, s.embedFunc)
		if err != nil {
			return nil, fmt.Errorf("creating collection %s: %w", c, err)
		}
		s.cols[c] = col
	}

	return s, nil
}

func (s *ChromemStore) collection(c Collection) *chromem.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cols[c]
}

// insert validates, stamps the server timestamp, embeds and stores.
// The document either fully lands or the call fails; there is no partial
// metadata-without-embedding state.
func (s *ChromemStore) insert(ctx context.Context, col Collection, id, text string, meta Metadata) (string, error) {
	meta.Timestamp = time.Now().UTC()
	if err := validate(col, text, meta); err != nil {
		return "", err
	}

	c := s.collection(col)
	if c == nil {
		return "", &ValidationError{Collection: col, Field: "collection", Reason: "is unknown"}
	}

	err := c.AddDocument(ctx, chromem.Document{
		ID:       id,
		Content:  text,
		Metadata: meta.flatten(),
	})
	if err != nil {
		return "", fmt.Errorf("inserting into %s: %w", col, err)
	}
	return id, nil
}

// newID builds a collision-resistant document id with a readable prefix.
// The original scheme keyed ids on the insert timestamp alone, which
// collides under rapid concurrent inserts.
func newID(prefix string) string {
	return prefix + "_" + uuid.New().String()
}

func (s *ChromemStore) AddContent(ctx context.Context, contentType, text string, meta Metadata) (string, error) {
	meta.ContentType = contentType
	return s.insert(ctx, ContentHistory, newID(contentType), text, meta)
}

func (s *ChromemStore) AddKnowledge(ctx context.Context, category, text string, meta Metadata) (string, error) {
	meta.Category = category
	return s.insert(ctx, KnowledgeBase, newID("knowledge_"+category), text, meta)
}

func (s *ChromemStore) AddStyleExample(ctx context.Context, contentType, text string, score float64, meta Metadata) (string, error) {
	meta.ContentType = contentType
	meta.PerformanceScore = score
	return s.insert(ctx, StyleExamples, newID("style_"+contentType), text, meta)
}

func (s *ChromemStore) AddBrandAsset(ctx context.Context, contentType, text string, meta Metadata) (string, error) {
	meta.ContentType = contentType
	return s.insert(ctx, BrandAssets, newID("asset_"+contentType), text, meta)
}

func (s *ChromemStore) AddMetric(ctx context.Context, contentID, payload string, meta Metadata) (string, error) {
	meta.ContentID = contentID
	return s.insert(ctx, PerformanceMetrics, newID("metric_"+contentID), payload, meta)
}

// query ranks a whole collection by similarity to queryText, then applies
// match and cuts to limit. chromem where-clauses are equality-only, so
// range predicates (score, timestamp) are applied here; ranking order is
// preserved because chromem returns results sorted by similarity.
func (s *ChromemStore) query(ctx context.Context, col Collection, queryText string, match func(Metadata) bool, limit int) ([]Result, error) {
	c := s.collection(col)
	count := c.Count()
	if count == 0 {
		return nil, nil
	}

	raw, err := c.Query(ctx, queryText, count, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", col, err)
	}

	var results []Result
	for _, r := range raw {
		meta := parseMetadata(r.Metadata)
		if match != nil && !match(meta) {
			continue
		}
		results = append(results, Result{
			Document: Document{
				ID:       r.ID,
				Text:     r.Content,
				Metadata: meta,
			},
			Similarity: r.Similarity,
		})
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

func (s *ChromemStore) SearchContent(ctx context.Context, query, contentType string, limit int) ([]Result, error) {
	var match func(Metadata) bool
	if contentType != "" {
		match = func(m Metadata) bool { return m.ContentType == contentType }
	}
	return s.query(ctx, ContentHistory, query, match, limit)
}

func (s *ChromemStore) SearchKnowledge(ctx context.Context, query, category string, limit int) ([]Result, error) {
	var match func(Metadata) bool
	if category != "" {
		match = func(m Metadata) bool { return m.Category == category }
	}
	return s.query(ctx, KnowledgeBase, query, match, limit)
}

func (s *ChromemStore) SearchAssets(ctx context.Context, query, contentType string, limit int) ([]Result, error) {
	var match func(Metadata) bool
	if contentType != "" {
		match = func(m Metadata) bool { return m.ContentType == contentType }
	}
	return s.query(ctx, BrandAssets, query, match, limit)
}

func (s *ChromemStore) StyleExamplesFor(ctx context.Context, contentType string, minScore float64, limit int) ([]Result, error) {
	query := "high performing content"
	if contentType != "" {
		query = fmt.Sprintf("high performing %s content", contentType)
	}
	match := func(m Metadata) bool {
		if contentType != "" && m.ContentType != contentType {
			return false
		}
		return m.PerformanceScore >= minScore
	}
	return s.query(ctx, StyleExamples, query, match, limit)
}

func (s *ChromemStore) CheckDuplicate(ctx context.Context, text string, threshold float64) (bool, *Result, error) {
	if threshold <= 0 {
		threshold = DefaultDuplicateThreshold
	}

	results, err := s.query(ctx, ContentHistory, text, nil, 1)
	if err != nil {
		return false, nil, err
	}
	if len(results) == 0 {
		return false, nil, nil
	}

	nearest := results[0]
	if float64(nearest.Similarity) >= threshold {
		return true, &nearest, nil
	}
	return false, nil, nil
}

func (s *ChromemStore) MetricsFor(ctx context.Context, contentID string, limit int) ([]Result, error) {
	match := func(m Metadata) bool { return m.ContentID == contentID }
	return s.query(ctx, PerformanceMetrics, contentID, match, limit)
}

func (s *ChromemStore) RecentContent(ctx context.Context, since time.Time, limit int) ([]Result, error) {
	match := func(m Metadata) bool { return !m.Timestamp.Before(since) }
	return s.query(ctx, ContentHistory, "recent content", match, limit)
}

func (s *ChromemStore) GetContent(ctx context.Context, id string) (*Document, error) {
	doc, err := s.collection(ContentHistory).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &Document{
		ID:       doc.ID,
		Text:     doc.Content,
		Metadata: parseMetadata(doc.Metadata),
	}, nil
}

// Clear irreversibly deletes every document in the collection and
// recreates it empty. The audit ledger, which lives outside the vector
// store, is not affected.
func (s *ChromemStore) Clear(ctx context.Context, col Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cols[col]; !ok {
		return &ValidationError{Collection: col, Field: "collection", Reason: "is unknown"}
	}

	if err := s.db.DeleteCollection(string(col)); err != nil {
		return fmt.Errorf("deleting collection %s: %w", col, err)
	}

	fresh, err := s.db.GetOrCreateCollection(string(col), nil, s.embedFunc)
	if err != nil {
		return fmt.Errorf("recreating collection %s: %w", col, err)
	}
	s.cols[col] = fresh
	return nil
}

func (s *ChromemStore) Count(col Collection) int {
	c := s.collection(col)
	if c == nil {
		return 0
	}
	return c.Count()
}

func (s *ChromemStore) Stats() map[Collection]int {
	stats := make(map[Collection]int, len(Collections))
	for _, c := range Collections {
		stats[c] = s.Count(c)
	}
	return stats
}
