package analytics

import "math"

// Scoring weights are a fixed policy, not learned. They sum to 1.0;
// changing them changes promotion behavior.
const (
	weightEngagement  = 0.3
	weightReach       = 0.2
	weightConversions = 0.3
	weightSentiment   = 0.2

	// Normalization anchors: 10k reach and 100 conversions are "excellent".
	reachCeiling      = 10000.0
	conversionCeiling = 100.0
)

// PerformanceScore computes the normalized score in [0, 1], rounded to two
// decimals.
//
// Engagement rate weights comments 2x and shares 3x relative to likes and
// contributes nothing when reach is zero.
func PerformanceScore(m Metrics) float64 {
	var score float64

	if m.Reach > 0 {
		totalEngagement := float64(m.Engagement.Likes) +
			float64(m.Engagement.Comments)*2 +
			float64(m.Engagement.Shares)*3
		engagementRate := math.Min(totalEngagement/float64(m.Reach), 1.0)
		score += engagementRate * weightEngagement
	}

	reachScore := math.Min(float64(m.Reach)/reachCeiling, 1.0)
	score += reachScore * weightReach

	conversionScore := math.Min(float64(m.Conversions)/conversionCeiling, 1.0)
	score += conversionScore * weightConversions

	score += sentimentScore(m.Sentiment) * weightSentiment

	return math.Round(score*100) / 100
}

// sentimentScore maps sentiment labels to [0, 1]. Absent or unrecognized
// labels count as neutral.
func sentimentScore(sentiment string) float64 {
	switch sentiment {
	case "positive":
		return 1.0
	case "negative":
		return 0.0
	default:
		return 0.5
	}
}
