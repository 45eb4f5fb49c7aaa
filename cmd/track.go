package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contentloop/contentloop/internal/analytics"
)

var (
	trackLikes       int
	trackComments    int
	trackShares      int
	trackReach       int
	trackConversions int
	trackSentiment   string
	trackFeedback    string
)

var trackCmd = &cobra.Command{
	Use:   "track <content-id>",
	Short: "Record performance metrics for a content item",
	Long: `Records one metric observation. Content scoring at or above the
promotion threshold is copied into style examples for future retrieval.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := buildApp()
		if err != nil {
			return err
		}
		defer application.Close()

		var feedback []string
		if trackFeedback != "" {
			feedback = []string{trackFeedback}
		}

		result, err := application.analyzer.TrackPerformance(cmd.Context(), args[0], analytics.Metrics{
			Engagement: analytics.Engagement{
				Likes:    trackLikes,
				Comments: trackComments,
				Shares:   trackShares,
			},
			Reach:       trackReach,
			Conversions: trackConversions,
			Sentiment:   trackSentiment,
			Feedback:    feedback,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Recorded %s with score %.2f.\n", result.MetricID, result.Score)
		switch {
		case result.Promoted:
			fmt.Printf("Promoted to style example %s.\n", result.StyleExampleID)
		case result.PromotionNote != "":
			fmt.Printf("Promotion %s.\n", result.PromotionNote)
		}
		return nil
	},
}

func init() {
	trackCmd.Flags().IntVar(&trackLikes, "likes", 0, "like count")
	trackCmd.Flags().IntVar(&trackComments, "comments", 0, "comment count")
	trackCmd.Flags().IntVar(&trackShares, "shares", 0, "share count")
	trackCmd.Flags().IntVar(&trackReach, "reach", 0, "audience reach")
	trackCmd.Flags().IntVar(&trackConversions, "conversions", 0, "conversion count")
	trackCmd.Flags().StringVar(&trackSentiment, "sentiment", "neutral", "positive, neutral, or negative")
	trackCmd.Flags().StringVar(&trackFeedback, "feedback", "", "free-form qualitative feedback")
	rootCmd.AddCommand(trackCmd)
}
