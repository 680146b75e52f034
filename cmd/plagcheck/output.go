package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"plagcheck/internal/domain/models"
	"plagcheck/internal/services/batch"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	riskStyles = map[batch.Risk]lipgloss.Style{
		batch.RiskHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		batch.RiskMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		batch.RiskLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
)

func formatScore(score float64) string {
	return riskStyles[batch.RiskLevel(score)].Render(fmt.Sprintf("%.2f%%", score))
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printMatrix(cmd *cobra.Command, result *models.BatchResult) {
	names := result.DocumentNames
	width := 8
	for _, n := range names {
		width = max(width, len(n)+2)
	}

	var header strings.Builder
	header.WriteString(strings.Repeat(" ", width))
	for _, n := range names {
		header.WriteString(fmt.Sprintf("%*s", width, n))
	}
	cmd.Println(labelStyle.Render(header.String()))

	for _, row := range names {
		var line strings.Builder
		line.WriteString(fmt.Sprintf("%-*s", width, row))
		for _, col := range names {
			score, ok := result.Matrix.Score(row, col)
			if !ok {
				line.WriteString(fmt.Sprintf("%*s", width, "-"))
				continue
			}
			line.WriteString(fmt.Sprintf("%*.2f", width, score))
		}
		cmd.Println(line.String())
	}
}

func printBatch(cmd *cobra.Command, result *models.BatchResult, threshold float64) {
	cmd.Println(titleStyle.Render("Batch " + result.ID))
	cmd.Println()
	printMatrix(cmd, result)
	cmd.Println()

	suspicious := batch.SuspiciousPairs(result.Pairs, threshold)
	cmd.Println(titleStyle.Render(fmt.Sprintf("Suspicious pairs (>= %g%%): %d", threshold, len(suspicious))))
	for i, p := range suspicious {
		cmd.Printf("  [%d] %s <-> %s  %s  (%d matches)\n", i+1, p.Doc1Name, p.Doc2Name, formatScore(p.Similarity), len(p.Matches))
	}
	cmd.Println()

	stats := batch.ComputeStats(result.Pairs)
	cmd.Println(titleStyle.Render("Statistics"))
	cmd.Printf("  %s %d\n", labelStyle.Render("comparisons:"), stats.TotalComparisons)
	cmd.Printf("  %s %.1f%%  %s %.2f%%  %s %.2f%%\n",
		labelStyle.Render("avg:"), stats.AvgSimilarity,
		labelStyle.Render("max:"), stats.MaxSimilarity,
		labelStyle.Render("min:"), stats.MinSimilarity)
	cmd.Printf("  %s %d  %s %d  %s %d\n",
		riskStyles[batch.RiskHigh].Render("high:"), stats.HighRiskCount,
		riskStyles[batch.RiskMedium].Render("medium:"), stats.MediumRiskCount,
		riskStyles[batch.RiskLow].Render("low:"), stats.LowRiskCount)
}
