package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/contentloop/contentloop/internal/audit"
	"github.com/contentloop/contentloop/internal/vectordb"
)

// DefaultPromotionThreshold is the score at which content enters
// style_examples. The boundary is inclusive: 0.80 promotes, 0.79 does not.
const DefaultPromotionThreshold = 0.8

// System tracks content performance and closes the feedback loop by
// promoting high performers into the retrieval corpus.
type System struct {
	store              vectordb.Store
	auditor            *audit.Store // optional; nil disables ledger writes
	promotionThreshold float64
}

// New creates an analytics System over the given store. auditor may be nil.
func New(store vectordb.Store, auditor *audit.Store) *System {
	return &System{
		store:              store,
		auditor:            auditor,
		promotionThreshold: DefaultPromotionThreshold,
	}
}

// SetPromotionThreshold overrides the promotion boundary.
func (s *System) SetPromotionThreshold(threshold float64) {
	if threshold > 0 {
		s.promotionThreshold = threshold
	}
}

// TrackPerformance records one metric observation for a content item and,
// when the computed score reaches the promotion threshold, promotes the
// original content into style_examples.
//
// Each qualifying observation re-promotes; the resulting style-example
// snapshots are intentional, not deduplicated. A missing original is a
// logged no-op, never an error.
func (s *System) TrackPerformance(ctx context.Context, contentID string, m Metrics) (*TrackResult, error) {
	if contentID == "" {
		return nil, fmt.Errorf("track performance: content_id is required")
	}

	score := PerformanceScore(m)
	now := time.Now().UTC()

	record := metricRecord{
		ContentID:        contentID,
		Timestamp:        now,
		Engagement:       m.Engagement,
		Reach:            m.Reach,
		Conversions:      m.Conversions,
		Sentiment:        m.Sentiment,
		Feedback:         m.Feedback,
		PerformanceScore: score,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshalling metric record: %w", err)
	}

	metricID, err := s.store.AddMetric(ctx, contentID, string(payload), vectordb.Metadata{
		PerformanceScore: score,
	})
	if err != nil {
		return nil, fmt.Errorf("recording metric: %w", err)
	}

	result := &TrackResult{MetricID: metricID, Score: score}

	if score >= s.promotionThreshold {
		styleID, err := s.promote(ctx, contentID, score)
		switch {
		case errors.Is(err, vectordb.ErrNotFound):
			log.Printf("promotion skipped: content %s not in history", contentID)
			result.PromotionNote = "skipped: original content not found"
		case err != nil:
			return nil, err
		default:
			result.Promoted = true
			result.StyleExampleID = styleID
		}
	}

	return result, nil
}

// promote copies the original content into style_examples with a
// back-reference to its content_history id.
func (s *System) promote(ctx context.Context, contentID string, score float64) (string, error) {
	doc, err := s.store.GetContent(ctx, contentID)
	if err != nil {
		return "", err
	}

	contentType := doc.Metadata.ContentType
	if contentType == "" {
		contentType = "general"
	}

	styleID, err := s.store.AddStyleExample(ctx, contentType, doc.Text, score, vectordb.Metadata{
		OriginalID: contentID,
		Agent:      doc.Metadata.Agent,
		Extra:      map[string]string{"promoted_at": time.Now().UTC().Format(time.RFC3339)},
	})
	if err != nil {
		return "", fmt.Errorf("promoting %s: %w", contentID, err)
	}

	if s.auditor != nil {
		err := s.auditor.Log(ctx, audit.Entry{
			Action:     audit.ActionPromotion,
			Collection: string(vectordb.StyleExamples),
			Subject:    contentID,
			Detail:     "promoted as " + styleID,
			Score:      score,
		})
		if err != nil {
			log.Printf("audit log failed for promotion of %s: %v", contentID, err)
		}
	}

	return styleID, nil
}

// ContentAnalytics aggregates all metric records for one content item into
// a time series with running totals. Zero records yields a no_data status,
// never a zero-valued aggregate that could be misread as a real score.
func (s *System) ContentAnalytics(ctx context.Context, contentID string) (*ContentAnalytics, error) {
	results, err := s.store.MetricsFor(ctx, contentID, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching metrics for %s: %w", contentID, err)
	}

	if len(results) == 0 {
		return &ContentAnalytics{ContentID: contentID, Status: StatusNoData}, nil
	}

	agg := &ContentAnalytics{ContentID: contentID, Status: StatusOK}
	var scoreSum float64

	for _, r := range results {
		var record metricRecord
		if err := json.Unmarshal([]byte(r.Document.Text), &record); err != nil {
			// Fall back to the indexed metadata for malformed payloads.
			record.Timestamp = r.Document.Metadata.Timestamp
			record.PerformanceScore = r.Document.Metadata.PerformanceScore
		}

		agg.MetricsOverTime = append(agg.MetricsOverTime, MetricPoint{
			Timestamp:        record.Timestamp,
			PerformanceScore: record.PerformanceScore,
			Reach:            record.Reach,
			Conversions:      record.Conversions,
		})
		agg.TotalReach += record.Reach
		agg.TotalConversions += record.Conversions
		scoreSum += record.PerformanceScore
	}

	sort.Slice(agg.MetricsOverTime, func(i, j int) bool {
		return agg.MetricsOverTime[i].Timestamp.Before(agg.MetricsOverTime[j].Timestamp)
	})

	agg.MetricsCount = len(agg.MetricsOverTime)
	agg.AveragePerformance = scoreSum / float64(agg.MetricsCount)
	return agg, nil
}

// TopPerformers returns style examples ordered by performance score
// descending, optionally restricted to one content type. The sort happens
// here: the store ranks by similarity, which is independent of score.
func (s *System) TopPerformers(ctx context.Context, contentType string, limit int) ([]TopPerformer, error) {
	if limit <= 0 {
		limit = 10
	}

	results, err := s.store.StyleExamplesFor(ctx, contentType, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching style examples: %w", err)
	}

	performers := make([]TopPerformer, 0, len(results))
	for _, r := range results {
		performers = append(performers, TopPerformer{
			Content:          excerpt(r.Document.Text, 200),
			ContentType:      r.Document.Metadata.ContentType,
			PerformanceScore: r.Document.Metadata.PerformanceScore,
			Timestamp:        r.Document.Metadata.Timestamp,
		})
	}

	sort.SliceStable(performers, func(i, j int) bool {
		return performers[i].PerformanceScore > performers[j].PerformanceScore
	})

	if len(performers) > limit {
		performers = performers[:limit]
	}
	return performers, nil
}

// AnalyzeTrends counts content created within the trailing window, grouped
// by content type. Topic extraction is left as an extension point.
func (s *System) AnalyzeTrends(ctx context.Context, days int) (*Trends, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	results, err := s.store.RecentContent(ctx, cutoff, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching recent content: %w", err)
	}

	trends := &Trends{
		PeriodDays:     days,
		ContentByType:  make(map[string]int),
		TrendingTopics: []string{},
	}

	trends.TotalContentCreated = len(results)
	for _, r := range results {
		contentType := r.Document.Metadata.ContentType
		if contentType == "" {
			contentType = "unknown"
		}
		trends.ContentByType[contentType]++
	}

	return trends, nil
}

// LearningInsights derives guidance from the current corpus state.
func (s *System) LearningInsights(ctx context.Context) (*Insights, error) {
	insights := &Insights{
		HighPerformingPatterns: []Pattern{},
		ImprovementAreas:       []string{},
		Recommendations:        []string{},
	}

	top, err := s.TopPerformers(ctx, "", 5)
	if err != nil {
		return nil, err
	}
	for _, performer := range top {
		insights.HighPerformingPatterns = append(insights.HighPerformingPatterns, Pattern{
			Pattern: fmt.Sprintf("%s with score %.2f", performer.ContentType, performer.PerformanceScore),
			Example: excerpt(performer.Content, 100),
		})
	}

	stats := s.store.Stats()
	if stats[vectordb.StyleExamples] < 10 {
		insights.Recommendations = append(insights.Recommendations,
			"Collect more performance data to build better style examples")
	}
	if stats[vectordb.KnowledgeBase] < 20 {
		insights.Recommendations = append(insights.Recommendations,
			"Expand knowledge base with more product documentation")
	}

	return insights, nil
}

// ExportReport assembles the full analytics snapshot.
func (s *System) ExportReport(ctx context.Context) (*Report, error) {
	trends, err := s.AnalyzeTrends(ctx, 30)
	if err != nil {
		return nil, err
	}
	top, err := s.TopPerformers(ctx, "", 10)
	if err != nil {
		return nil, err
	}
	insights, err := s.LearningInsights(ctx)
	if err != nil {
		return nil, err
	}

	return &Report{
		GeneratedAt:   time.Now().UTC(),
		Statistics:    s.store.Stats(),
		Trends:        *trends,
		TopPerformers: top,
		Insights:      *insights,
	}, nil
}

// excerpt truncates s to at most n characters, appending an ellipsis when cut.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
