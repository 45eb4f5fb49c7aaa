package cmd

import (
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/contentloop/contentloop/internal/audit"
	"github.com/contentloop/contentloop/internal/vectordb"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear <collection|all>",
	Short: "Irreversibly delete every document in a collection",
	Long: `Deletes all documents from one collection, or every collection with
"all". The audit ledger is kept; the clear itself is recorded there.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]

		var cols []vectordb.Collection
		if target == "all" {
			cols = vectordb.Collections
		} else {
			col := vectordb.Collection(target)
			known := false
			for _, c := range vectordb.Collections {
				if c == col {
					known = true
					break
				}
			}
			if !known {
				return fmt.Errorf("unknown collection %q", target)
			}
			cols = []vectordb.Collection{col}
		}

		if !clearYes {
			confirm := promptui.Prompt{
				Label:     fmt.Sprintf("Delete all documents in %s? This cannot be undone", target),
				IsConfirm: true,
			}
			if _, err := confirm.Run(); err != nil {
				fmt.Println("Aborted.")
				return nil
			}
		}

		application, err := buildApp()
		if err != nil {
			return err
		}
		defer application.Close()

		ctx := cmd.Context()
		for _, col := range cols {
			if err := application.store.Clear(ctx, col); err != nil {
				return fmt.Errorf("clearing %s: %w", col, err)
			}
			err := application.auditor.Log(ctx, audit.Entry{
				Action:     audit.ActionCollectionClear,
				Collection: string(col),
				Detail:     "cleared via CLI",
			})
			if err != nil {
				log.Printf("audit log failed for clear of %s: %v", col, err)
			}
			fmt.Printf("Cleared %s.\n", col)
		}
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}
