package vectordb

import (
	"context"
	"time"
)

// Store is the durable multi-collection vector index backing retrieval and
// analytics. One Store handle is constructed at process start and injected
// into the components that need it.
//
// All inserts embed the text, stamp server-set metadata, and return an id
// unique within the collection. There is no update-in-place; corrections
// are new inserts, and metric documents are append-only.
type Store interface {
	// AddContent inserts an agent output into content_history.
	AddContent(ctx context.Context, contentType, text string, meta Metadata) (string, error)

	// AddKnowledge inserts reference text into knowledge_base.
	AddKnowledge(ctx context.Context, category, text string, meta Metadata) (string, error)

	// AddStyleExample inserts promoted content into style_examples.
	// meta.OriginalID must reference the content_history id it came from.
	AddStyleExample(ctx context.Context, contentType, text string, score float64, meta Metadata) (string, error)

	// AddBrandAsset inserts a visual prompt or theme into brand_assets.
	AddBrandAsset(ctx context.Context, contentType, text string, meta Metadata) (string, error)

	// AddMetric appends a metric record to performance_metrics.
	// meta.ContentID must be set; it may reference pruned content.
	AddMetric(ctx context.Context, contentID, payload string, meta Metadata) (string, error)

	// SearchContent ranks content_history by similarity to query,
	// optionally restricted to a content type.
	SearchContent(ctx context.Context, query, contentType string, limit int) ([]Result, error)

	// SearchKnowledge ranks knowledge_base by similarity to query,
	// optionally restricted to a category.
	SearchKnowledge(ctx context.Context, query, category string, limit int) ([]Result, error)

	// SearchAssets ranks brand_assets by similarity to query,
	// optionally restricted to a content type.
	SearchAssets(ctx context.Context, query, contentType string, limit int) ([]Result, error)

	// StyleExamplesFor returns style examples with performance_score >=
	// minScore, restricted to contentType when non-empty. An empty result
	// is a success.
	StyleExamplesFor(ctx context.Context, contentType string, minScore float64, limit int) ([]Result, error)

	// CheckDuplicate reports whether content_history holds a near-identical
	// document (nearest-neighbor similarity >= threshold) and returns it.
	CheckDuplicate(ctx context.Context, text string, threshold float64) (bool, *Result, error)

	// MetricsFor returns all metric records for a content id.
	MetricsFor(ctx context.Context, contentID string, limit int) ([]Result, error)

	// RecentContent returns content_history documents created at or after
	// the given time.
	RecentContent(ctx context.Context, since time.Time, limit int) ([]Result, error)

	// GetContent fetches a content_history document by id.
	// Returns ErrNotFound if the id does not exist.
	GetContent(ctx context.Context, id string) (*Document, error)

	// Clear irreversibly deletes every document in a collection.
	Clear(ctx context.Context, col Collection) error

	// Count returns the number of documents in a collection.
	Count(col Collection) int

	// Stats returns document counts for every collection.
	Stats() map[Collection]int
}
