package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"plagcheck/internal/domain/models"
	"plagcheck/internal/services/batch"
)

var (
	batchThreshold float64
	batchJSON      bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <file> <file> [file...]",
	Short: "Cross-compare every pair of a document set",
	Long: `Compares every unordered pair of the given documents, prints the similarity
matrix, the pairs at or above the threshold and summary statistics, and stores
the result so it can be shown or reviewed later by its batch id.`,
	Args:     cobra.MinimumNArgs(1),
	PreRunE:  setupApp,
	RunE:     runBatch,
	PostRunE: teardownApp,
}

func init() {
	batchCmd.Flags().Float64Var(&batchThreshold, "threshold", -1, "suspicion threshold in percent (default from config)")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	result, err := application.RunBatch(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	return outputBatch(cmd, result, effectiveThreshold(batchThreshold))
}

func effectiveThreshold(flagValue float64) float64 {
	if flagValue >= 0 {
		return flagValue
	}
	return cfg.Batch.Threshold
}

type batchOutput struct {
	*models.BatchResult
	Threshold  float64                 `json:"threshold"`
	Suspicious []models.PairComparison `json:"suspicious_pairs"`
	Stats      models.Stats            `json:"stats"`
}

func outputBatch(cmd *cobra.Command, result *models.BatchResult, threshold float64) error {
	if batchJSON {
		return printJSON(cmd, batchOutput{
			BatchResult: result,
			Threshold:   threshold,
			Suspicious:  batch.SuspiciousPairs(result.Pairs, threshold),
			Stats:       batch.ComputeStats(result.Pairs),
		})
	}

	printBatch(cmd, result, threshold)
	return nil
}
