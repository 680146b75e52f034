package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:      "history",
	Short:    "Print aggregate counts of past comparisons",
	Args:     cobra.NoArgs,
	PreRunE:  setupApp,
	RunE:     runHistory,
	PostRunE: teardownApp,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	stats, err := application.StorageApp.History().Counts(cmd.Context())
	if err != nil {
		return fmt.Errorf("history failed: %w", err)
	}

	cmd.Println(titleStyle.Render("Comparison history"))
	cmd.Printf("  %s %d\n", labelStyle.Render("total:"), stats.TotalChecks)
	cmd.Printf("  %s %d\n", labelStyle.Render("pairwise checks:"), stats.PairwiseCount)
	cmd.Printf("  %s %d\n", labelStyle.Render("batch pairs:"), stats.BatchPairs)
	cmd.Printf("  %s %.1f%%\n", labelStyle.Render("average similarity:"), stats.AvgSimilarity)
	return nil
}
