package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contentloop/contentloop/internal/ingest"
	"github.com/contentloop/contentloop/internal/progress"
)

var (
	ingestDir      string
	ingestCategory string
	ingestInclude  []string
	ingestExclude  []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load markdown and text documents into the knowledge base",
	Long: `Walks a directory and inserts its markdown/text documents into the
knowledge base. Large markdown files are split per heading. The category
defaults to the top-level directory of each file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := buildApp()
		if err != nil {
			return err
		}
		defer application.Close()

		opts := ingest.Options{
			Dir:      application.cfg.Ingest.Dir,
			Category: ingestCategory,
			Include:  application.cfg.Ingest.Include,
			Exclude:  application.cfg.Ingest.Exclude,
		}
		if ingestDir != "" {
			opts.Dir = ingestDir
		}
		if len(ingestInclude) > 0 {
			opts.Include = ingestInclude
		}
		if len(ingestExclude) > 0 {
			opts.Exclude = ingestExclude
		}

		ingester := ingest.New(application.store, application.auditor, progress.NewReporter())
		result, err := ingester.Run(cmd.Context(), opts)
		if err != nil {
			return err
		}

		fmt.Printf("Ingested %d entries from %d of %d files.\n",
			result.Entries, result.FilesIngested, result.FilesScanned)
		for _, skipped := range result.Skipped {
			fmt.Printf("  skipped: %s\n", skipped)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDir, "dir", "", "directory to ingest (defaults to config ingest.dir)")
	ingestCmd.Flags().StringVar(&ingestCategory, "category", "", "fixed category for all entries")
	ingestCmd.Flags().StringSliceVar(&ingestInclude, "include", nil, "include glob patterns")
	ingestCmd.Flags().StringSliceVar(&ingestExclude, "exclude", nil, "exclude glob patterns")
	rootCmd.AddCommand(ingestCmd)
}
