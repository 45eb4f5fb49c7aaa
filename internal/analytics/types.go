package analytics

import (
	"time"

	"github.com/contentloop/contentloop/internal/vectordb"
)

// Engagement is the raw interaction breakdown supplied by the metrics caller.
type Engagement struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
}

// Metrics is one external engagement observation for a content item.
type Metrics struct {
	Engagement  Engagement `json:"engagement"`
	Reach       int        `json:"reach"`
	Conversions int        `json:"conversions"`
	Sentiment   string     `json:"sentiment"`
	Feedback    []string   `json:"feedback,omitempty"`
}

// TrackResult is the outcome of recording one metric observation.
// A skipped promotion (original content gone) is a successful result.
type TrackResult struct {
	MetricID       string  `json:"metric_id"`
	Score          float64 `json:"score"`
	Promoted       bool    `json:"promoted"`
	StyleExampleID string  `json:"style_example_id,omitempty"`
	PromotionNote  string  `json:"promotion_note,omitempty"`
}

// metricRecord is the JSON payload stored as the metric document text.
type metricRecord struct {
	ContentID        string     `json:"content_id"`
	Timestamp        time.Time  `json:"timestamp"`
	Engagement       Engagement `json:"engagement"`
	Reach            int        `json:"reach"`
	Conversions      int        `json:"conversions"`
	Sentiment        string     `json:"sentiment"`
	Feedback         []string   `json:"feedback,omitempty"`
	PerformanceScore float64    `json:"performance_score"`
}

// MetricPoint is one entry of a content item's metric time series.
type MetricPoint struct {
	Timestamp        time.Time `json:"timestamp"`
	PerformanceScore float64   `json:"performance_score"`
	Reach            int       `json:"reach"`
	Conversions      int       `json:"conversions"`
}

// Analytics status values. StatusNoData distinguishes "never measured"
// from a real zero score.
const (
	StatusOK     = "ok"
	StatusNoData = "no_data"
)

// ContentAnalytics aggregates every metric record for one content item.
type ContentAnalytics struct {
	ContentID          string        `json:"content_id"`
	Status             string        `json:"status"`
	MetricsCount       int           `json:"metrics_count"`
	MetricsOverTime    []MetricPoint `json:"metrics_over_time,omitempty"`
	TotalReach         int           `json:"total_reach"`
	TotalConversions   int           `json:"total_conversions"`
	AveragePerformance float64       `json:"average_performance"`
}

// TopPerformer is a style-example document ranked by performance score.
type TopPerformer struct {
	Content          string    `json:"content"`
	ContentType      string    `json:"content_type"`
	PerformanceScore float64   `json:"performance_score"`
	Timestamp        time.Time `json:"timestamp"`
}

// Trends summarizes content created within a trailing window.
// TrendingTopics is an extension point; topic extraction is not built.
type Trends struct {
	PeriodDays          int            `json:"period_days"`
	TotalContentCreated int            `json:"total_content_created"`
	ContentByType       map[string]int `json:"content_by_type"`
	TrendingTopics      []string       `json:"trending_topics"`
}

// Pattern describes one observed high-performing content pattern.
type Pattern struct {
	Pattern string `json:"pattern"`
	Example string `json:"example"`
}

// Insights collects guidance derived from the corpus state.
type Insights struct {
	HighPerformingPatterns []Pattern `json:"high_performing_patterns"`
	ImprovementAreas       []string  `json:"improvement_areas"`
	Recommendations        []string  `json:"recommendations"`
}

// Report is the full exported analytics snapshot.
type Report struct {
	GeneratedAt   time.Time                   `json:"generated_at"`
	Statistics    map[vectordb.Collection]int `json:"statistics"`
	Trends        Trends                      `json:"trends"`
	TopPerformers []TopPerformer              `json:"top_performers"`
	Insights      Insights                    `json:"insights"`
}
