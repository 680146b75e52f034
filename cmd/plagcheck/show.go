package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:      "show [batch-id]",
	Short:    "Show a stored batch, or list stored batches",
	Args:     cobra.MaximumNArgs(1),
	PreRunE:  setupApp,
	RunE:     runShow,
	PostRunE: teardownApp,
}

var showDelete bool

func init() {
	showCmd.Flags().Float64Var(&batchThreshold, "threshold", -1, "suspicion threshold in percent (default from config)")
	showCmd.Flags().BoolVar(&batchJSON, "json", false, "output the result as JSON")
	showCmd.Flags().BoolVar(&showDelete, "delete", false, "delete the batch instead of showing it")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	batches := application.StorageApp.Batches()

	if len(args) == 0 {
		list, err := batches.ListBatches(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list batches: %w", err)
		}
		if batchJSON {
			return printJSON(cmd, list)
		}
		if len(list) == 0 {
			cmd.Println("No stored batches.")
			return nil
		}
		for _, b := range list {
			cmd.Printf("  %s  %s  %d documents, %d pairs\n", b.ID, labelStyle.Render(b.CreatedAt), len(b.DocumentNames), b.Pairs)
		}
		return nil
	}

	if showDelete {
		if err := batches.DeleteBatch(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}
		cmd.Printf("Deleted batch %s\n", args[0])
		return nil
	}

	result, err := batches.GetBatch(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("show failed: %w", err)
	}
	return outputBatch(cmd, result, effectiveThreshold(batchThreshold))
}
