package batch

import (
	"math"
	"sort"

	"plagcheck/internal/domain/models"
)

const (
	DefaultThreshold = 50.0

	highRiskAbove   = 50.0
	mediumRiskAbove = 20.0
)

// SuspiciousPairs returns the pairs scoring at least threshold, highest
// first; equal scores keep their original order.
func SuspiciousPairs(pairs []models.PairComparison, threshold float64) []models.PairComparison {
	suspicious := make([]models.PairComparison, 0, len(pairs))
	for _, p := range pairs {
		if p.Similarity >= threshold {
			suspicious = append(suspicious, p)
		}
	}
	sort.SliceStable(suspicious, func(i, j int) bool {
		return suspicious[i].Similarity > suspicious[j].Similarity
	})
	return suspicious
}

// ComputeStats summarizes pair scores. The three risk buckets partition pairs.
func ComputeStats(pairs []models.PairComparison) models.Stats {
	if len(pairs) == 0 {
		return models.Stats{}
	}

	stats := models.Stats{
		TotalComparisons: len(pairs),
		MaxSimilarity:    pairs[0].Similarity,
		MinSimilarity:    pairs[0].Similarity,
	}

	var sum float64
	for _, p := range pairs {
		s := p.Similarity
		sum += s
		stats.MaxSimilarity = math.Max(stats.MaxSimilarity, s)
		stats.MinSimilarity = math.Min(stats.MinSimilarity, s)

		switch RiskLevel(s) {
		case RiskHigh:
			stats.HighRiskCount++
		case RiskMedium:
			stats.MediumRiskCount++
		default:
			stats.LowRiskCount++
		}
	}
	stats.AvgSimilarity = math.Round(sum/float64(len(pairs))*10) / 10

	return stats
}

type Risk string

const (
	RiskHigh   Risk = "high"
	RiskMedium Risk = "medium"
	RiskLow    Risk = "low"
)

func RiskLevel(similarity float64) Risk {
	switch {
	case similarity > highRiskAbove:
		return RiskHigh
	case similarity > mediumRiskAbove:
		return RiskMedium
	default:
		return RiskLow
	}
}
