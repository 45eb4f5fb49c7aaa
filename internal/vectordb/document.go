package vectordb

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Collection names a partition of the vector store holding semantically
// related documents.
type Collection string

const (
	// ContentHistory holds every agent output, for similarity search and
	// duplicate detection.
	ContentHistory Collection = "content_history"
	// KnowledgeBase holds curated product/brand reference text, keyed by category.
	KnowledgeBase Collection = "knowledge_base"
	// StyleExamples holds content promoted for high performance scores.
	StyleExamples Collection = "style_examples"
	// BrandAssets holds visual prompts and successful image themes.
	BrandAssets Collection = "brand_assets"
	// PerformanceMetrics holds one append-only record per tracked metric event.
	PerformanceMetrics Collection = "performance_metrics"
)

// Collections lists every collection managed by the store.
var Collections = []Collection{
	ContentHistory,
	KnowledgeBase,
	StyleExamples,
	BrandAssets,
	PerformanceMetrics,
}

// ErrNotFound is returned when a document id does not exist in a collection.
var ErrNotFound = errors.New("document not found")

// ValidationError reports malformed metadata or missing required fields on
// insert. It is raised before any store mutation.
type ValidationError struct {
	Collection Collection
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s document: %s %s", e.Collection, e.Field, e.Reason)
}

// Metadata is the typed metadata record shared by all collections. Fixed
// fields are validated per collection at insert time; Extra carries
// unvalidated caller tags. Server-set fields (Timestamp plus the
// content_type/category of the insert call) win over Extra keys of the
// same name.
type Metadata struct {
	ContentType      string
	Category         string
	Source           string
	Agent            string
	ContentID        string // performance_metrics: FK into content_history
	OriginalID       string // style_examples: content_history id promoted from
	PerformanceScore float64
	Timestamp        time.Time
	Extra            map[string]string
}

// Document is an immutable stored item. Corrections are new inserts.
type Document struct {
	ID       string
	Text     string
	Metadata Metadata
}

// Result pairs a document with its similarity to the query.
// Similarity is cosine similarity, equal to 1 - cosine distance on the
// normalized embeddings chromem stores.
type Result struct {
	Document   Document
	Similarity float32
}

// reserved metadata keys written by the store itself.
const (
	keyContentType = "content_type"
	keyCategory    = "category"
	keySource      = "source"
	keyAgent       = "agent"
	keyContentID   = "content_id"
	keyOriginalID  = "original_id"
	keyScore       = "performance_score"
	keyTimestamp   = "timestamp"
)

// flatten converts Metadata to the flat map[string]string chromem stores.
// Extra is written first so fixed fields win on key conflicts.
func (m Metadata) flatten() map[string]string {
	md := make(map[string]string, len(m.Extra)+8)
	for k, v := range m.Extra {
		md[k] = v
	}

	if m.ContentType != "" {
		md[keyContentType] = m.ContentType
	}
	if m.Category != "" {
		md[keyCategory] = m.Category
	}
	if m.Source != "" {
		md[keySource] = m.Source
	}
	if m.Agent != "" {
		md[keyAgent] = m.Agent
	}
	if m.ContentID != "" {
		md[keyContentID] = m.ContentID
	}
	if m.OriginalID != "" {
		md[keyOriginalID] = m.OriginalID
	}
	if m.PerformanceScore != 0 {
		md[keyScore] = strconv.FormatFloat(m.PerformanceScore, 'f', -1, 64)
	}
	if !m.Timestamp.IsZero() {
		md[keyTimestamp] = m.Timestamp.UTC().Format(time.RFC3339Nano)
	}
	return md
}

// parseMetadata converts a flat map back to Metadata. Unknown keys land in Extra.
func parseMetadata(md map[string]string) Metadata {
	m := Metadata{}
	for k, v := range md {
		switch k {
		case keyContentType:
			m.ContentType = v
		case keyCategory:
			m.Category = v
		case keySource:
			m.Source = v
		case keyAgent:
			m.Agent = v
		case keyContentID:
			m.ContentID = v
		case keyOriginalID:
			m.OriginalID = v
		case keyScore:
			m.PerformanceScore, _ = strconv.ParseFloat(v, 64)
		case keyTimestamp:
			m.Timestamp, _ = time.Parse(time.RFC3339Nano, v)
		default:
			if m.Extra == nil {
				m.Extra = make(map[string]string)
			}
			m.Extra[k] = v
		}
	}
	return m
}

// validate enforces per-collection required fields before any mutation.
func validate(col Collection, text string, m Metadata) error {
	if text == "" {
		return &ValidationError{Collection: col, Field: "text", Reason: "must not be empty"}
	}

	switch col {
	case ContentHistory:
		if m.ContentType == "" {
			return &ValidationError{Collection: col, Field: "content_type", Reason: "is required"}
		}
	case KnowledgeBase:
		if m.Category == "" {
			return &ValidationError{Collection: col, Field: "category", Reason: "is required"}
		}
	case StyleExamples:
		if m.ContentType == "" {
			return &ValidationError{Collection: col, Field: "content_type", Reason: "is required"}
		}
		if m.OriginalID == "" {
			return &ValidationError{Collection: col, Field: "original_id", Reason: "is required for traceability"}
		}
		if m.PerformanceScore <= 0 {
			return &ValidationError{Collection: col, Field: "performance_score", Reason: "must be positive"}
		}
	case BrandAssets:
		if m.ContentType == "" {
			return &ValidationError{Collection: col, Field: "content_type", Reason: "is required"}
		}
	case PerformanceMetrics:
		if m.ContentID == "" {
			return &ValidationError{Collection: col, Field: "content_id", Reason: "is required"}
		}
	default:
		return &ValidationError{Collection: col, Field: "collection", Reason: "is unknown"}
	}
	return nil
}
