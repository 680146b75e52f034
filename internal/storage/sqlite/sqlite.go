package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type ComparisonKind string

const (
	PairwiseCheck ComparisonKind = "pairwise"
	BatchPair     ComparisonKind = "batch_pair"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS comparisons (
    id INTEGER PRIMARY KEY,
    kind TEXT NOT NULL,
    similarity REAL NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// Storage keeps aggregate counts of performed comparisons. Document text and
// results are never written here.
type Storage struct {
	db *sql.DB
}

// HistoryStats is the aggregate over every recorded comparison.
type HistoryStats struct {
	TotalChecks   int
	PairwiseCount int
	BatchPairs    int
	AvgSimilarity float64
}

func New(path string) (*Storage, error) {
	const op = "storage.sqlite.New"

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: apply schema: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) RecordComparison(ctx context.Context, kind ComparisonKind, similarity float64) error {
	const op = "storage.sqlite.RecordComparison"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comparisons (kind, similarity) VALUES (?, ?)`,
		string(kind), similarity,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Counts(ctx context.Context) (HistoryStats, error) {
	const op = "storage.sqlite.Counts"

	var stats HistoryStats
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(similarity), 0)
		FROM comparisons`,
		string(PairwiseCheck), string(BatchPair),
	)
	if err := row.Scan(&stats.TotalChecks, &stats.PairwiseCount, &stats.BatchPairs, &stats.AvgSimilarity); err != nil {
		return HistoryStats{}, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}
