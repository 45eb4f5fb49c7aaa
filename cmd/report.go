package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var reportJSON bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the analytics report: trends, top performers, and insights",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := buildApp()
		if err != nil {
			return err
		}
		defer application.Close()

		report, err := application.analyzer.ExportReport(cmd.Context())
		if err != nil {
			return err
		}

		if reportJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		fmt.Printf("Report generated %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04 MST"))

		fmt.Println("Collections:")
		for col, n := range report.Statistics {
			fmt.Printf("  %-20s %d\n", col, n)
		}

		fmt.Printf("\nContent created in the last %d days: %d\n",
			report.Trends.PeriodDays, report.Trends.TotalContentCreated)
		for contentType, n := range report.Trends.ContentByType {
			fmt.Printf("  %-20s %d\n", contentType, n)
		}

		if len(report.TopPerformers) > 0 {
			fmt.Println("\nTop performers:")
			for i, p := range report.TopPerformers {
				fmt.Printf("  %d. [%s] %.2f %s\n", i+1, p.ContentType, p.PerformanceScore, p.Content)
			}
		}

		if len(report.Insights.Recommendations) > 0 {
			fmt.Println("\nRecommendations:")
			for _, rec := range report.Insights.Recommendations {
				fmt.Printf("  - %s\n", rec)
			}
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(reportCmd)
}
