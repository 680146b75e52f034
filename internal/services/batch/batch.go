package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"plagcheck/internal/domain/models"
	"plagcheck/internal/services/matcher"
	"plagcheck/internal/services/normalizer"
	utils "plagcheck/internal/utils/format"
	"plagcheck/internal/utils/frequency"
	"plagcheck/internal/utils/metrics"
	"plagcheck/internal/workers"
)

const progressInterval = time.Second

var (
	ErrTooFewDocuments = errors.New("at least two documents are required")
	ErrDuplicateName   = errors.New("duplicate document name")
)

// Service cross-compares every pair of a document set. It holds no state
// between calls besides job metrics.
type Service struct {
	log     *slog.Logger
	profile *normalizer.LanguageProfile
	k       int
	workers int
	metrics *metrics.Metrics
}

func New(log *slog.Logger, profile *normalizer.LanguageProfile, k int, workersCount int) (*Service, error) {
	if k <= 0 {
		return nil, matcher.ErrInvalidK
	}
	if profile == nil {
		return nil, normalizer.ErrUnknownLanguage
	}
	return &Service{
		log:     log,
		profile: profile,
		k:       k,
		workers: workersCount,
		metrics: &metrics.Metrics{},
	}, nil
}

func (s *Service) Metrics() *metrics.Metrics {
	return s.metrics
}

type pairTask struct {
	index int
	i, j  int
}

type pairOutcome struct {
	index int
	pair  models.PairComparison
}

// CompareAll runs the matcher over all C(N,2) unordered pairs. Pairs are
// returned in combinatorial order (i<j) and both matrix cells of a pair hold
// the score of doc i as suspect against doc j as source.
func (s *Service) CompareAll(ctx context.Context, documents []models.Document) (*models.BatchResult, error) {
	const op = "batch.Service.CompareAll"

	if len(documents) < 2 {
		return nil, fmt.Errorf("%s: %w: got %d", op, ErrTooFewDocuments, len(documents))
	}

	names := make([]string, 0, len(documents))
	seen := make(map[string]struct{}, len(documents))
	for _, doc := range documents {
		if _, dup := seen[doc.Name]; dup {
			return nil, fmt.Errorf("%s: %w: %q", op, ErrDuplicateName, doc.Name)
		}
		seen[doc.Name] = struct{}{}
		names = append(names, doc.Name)
	}

	startTime := time.Now()
	timings := make(map[string]string)

	normalizeStart := time.Now()
	normalized := make([]string, len(documents))
	for i, doc := range documents {
		normalized[i] = normalizer.Normalize(doc.RawText, s.profile)
	}
	timings["normalize"] = utils.FormatDuration(time.Since(normalizeStart))

	var tasks []pairTask
	for i := 0; i < len(documents); i++ {
		for j := i + 1; j < len(documents); j++ {
			tasks = append(tasks, pairTask{index: len(tasks), i: i, j: j})
		}
	}

	matchStart := time.Now()
	pairs, err := s.runPairs(ctx, tasks, func(_ context.Context, t pairTask) (pairOutcome, error) {
		result, err := matcher.CompareNormalized(normalized[t.i], normalized[t.j], s.k)
		if err != nil {
			return pairOutcome{}, err
		}
		doc1, doc2 := documents[t.i], documents[t.j]
		return pairOutcome{
			index: t.index,
			pair: models.PairComparison{
				Doc1Name:   doc1.Name,
				Doc2Name:   doc2.Name,
				Doc1Text:   doc1.RawText,
				Doc2Text:   doc2.RawText,
				Doc1Images: doc1.Images,
				Doc2Images: doc2.Images,
				Similarity: result.SimilarityScore,
				Matches:    result.Fragments,
			},
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	timings["match"] = utils.FormatDuration(time.Since(matchStart))

	matrix := NewMatrix(names)
	for _, p := range pairs {
		score := p.Similarity
		matrix[p.Doc1Name][p.Doc2Name] = &score
		matrix[p.Doc2Name][p.Doc1Name] = &score
	}
	timings["total"] = utils.FormatDuration(time.Since(startTime))

	s.log.Debug("batch compared", "documents", len(documents), "pairs", len(pairs), "took", timings["total"])
	s.metrics.PrintMetrics(s.log)

	return &models.BatchResult{
		ID:            uuid.New().String(),
		Matrix:        matrix,
		Pairs:         pairs,
		DocumentNames: names,
		Timings:       timings,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// runPairs fans tasks out to the worker pool and puts every outcome back in
// its task slot, so the result order does not depend on scheduling.
func (s *Service) runPairs(ctx context.Context, tasks []pairTask, fn workers.ExecutionFn[pairTask, pairOutcome]) ([]models.PairComparison, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := workers.New[pairTask, pairOutcome](s.workers, s.metrics)
	go pool.Run(ctx)
	go func() {
		defer pool.CloseJobs()
		for _, t := range tasks {
			job := workers.Job[pairTask, pairOutcome]{
				Description: workers.JobDescriptor{
					ID:      workers.JobID(fmt.Sprintf("pair-%d", t.index)),
					JobType: "compare",
				},
				ExecFn: fn,
				Args:   t,
			}
			if err := pool.AddJob(ctx, job); err != nil {
				return
			}
		}
	}()

	progress := frequency.New(progressInterval)
	pairs := make([]models.PairComparison, len(tasks))
	var firstErr error
	for res := range pool.Results() {
		progress.Add(1)
		progress.Check(s.log, "pairs compared")
		if res.Err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", res.Description.ID, res.Err)
				cancel()
			}
			continue
		}
		pairs[res.Value.index] = res.Value.pair
	}
	<-pool.Done

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pairs, nil
}

// NewMatrix returns a matrix with 0 for every ordered pair of distinct names
// and nil on the diagonal.
func NewMatrix(names []string) models.Matrix {
	matrix := make(models.Matrix, len(names))
	for _, a := range names {
		row := make(map[string]*float64, len(names))
		for _, b := range names {
			if a == b {
				row[b] = nil
				continue
			}
			zero := 0.0
			row[b] = &zero
		}
		matrix[a] = row
	}
	return matrix
}
