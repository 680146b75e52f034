package models

import "time"

// PairComparison is the result for one unordered document pair of a batch.
type PairComparison struct {
	Doc1Name   string       `json:"doc1_name"`
	Doc2Name   string       `json:"doc2_name"`
	Doc1Text   string       `json:"doc1_text"`
	Doc2Text   string       `json:"doc2_text"`
	Doc1Images []RasterPage `json:"-"`
	Doc2Images []RasterPage `json:"-"`
	Similarity float64      `json:"similarity"`
	Matches    []Fragment   `json:"matches"`
}

// Matrix holds one symmetric score per document pair; the diagonal is nil.
type Matrix map[string]map[string]*float64

func (m Matrix) Score(a, b string) (float64, bool) {
	row, ok := m[a]
	if !ok {
		return 0, false
	}
	v, ok := row[b]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

type BatchResult struct {
	ID            string            `json:"id"`
	Matrix        Matrix            `json:"matrix"`
	Pairs         []PairComparison  `json:"pairs"`
	DocumentNames []string          `json:"document_names"`
	Timings       map[string]string `json:"timings,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

type Stats struct {
	TotalComparisons int     `json:"total_comparisons"`
	AvgSimilarity    float64 `json:"avg_similarity"`
	MaxSimilarity    float64 `json:"max_similarity"`
	MinSimilarity    float64 `json:"min_similarity"`
	HighRiskCount    int     `json:"high_risk_count"`
	MediumRiskCount  int     `json:"medium_risk_count"`
	LowRiskCount     int     `json:"low_risk_count"`
}
