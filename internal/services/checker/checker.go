package checker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"plagcheck/internal/domain/models"
	"plagcheck/internal/lib/logger/sl"
	"plagcheck/internal/services/highlight"
	"plagcheck/internal/services/matcher"
	"plagcheck/internal/services/normalizer"
	"plagcheck/internal/services/ocr"
	"plagcheck/internal/storage/sqlite"
)

var ErrNothingToCompare = errors.New("document has no comparable text")

type PageProjector interface {
	ProjectOnPages(ctx context.Context, pages []models.RasterPage, fragments []models.Fragment) ([]models.RasterPage, error)
}

type HistoryRecorder interface {
	RecordComparison(ctx context.Context, kind sqlite.ComparisonKind, similarity float64) error
}

// Report is the outcome of one suspect/source check. Highlighted texts are
// HTML; pages are only set for documents that carry images.
type Report struct {
	ID                 string              `json:"id"`
	SuspectName        string              `json:"suspect"`
	SourceName         string              `json:"source"`
	Result             models.MatchResult  `json:"result"`
	SuspectHighlighted string              `json:"suspect_highlighted"`
	SourceHighlighted  string              `json:"source_highlighted"`
	SuspectPages       []models.RasterPage `json:"-"`
	SourcePages        []models.RasterPage `json:"-"`
	CreatedAt          time.Time           `json:"created_at"`
}

type Checker struct {
	log       *slog.Logger
	profile   *normalizer.LanguageProfile
	k         int
	projector PageProjector
	history   HistoryRecorder
}

// New returns a checker. projector and history may be nil; without a
// projector pages are never highlighted.
func New(
	log *slog.Logger,
	profile *normalizer.LanguageProfile,
	k int,
	projector PageProjector,
	history HistoryRecorder,
) (*Checker, error) {
	if k <= 0 {
		return nil, matcher.ErrInvalidK
	}
	if profile == nil {
		return nil, normalizer.ErrUnknownLanguage
	}
	return &Checker{
		log:       log,
		profile:   profile,
		k:         k,
		projector: projector,
		history:   history,
	}, nil
}

func (c *Checker) Check(ctx context.Context, suspect, source models.Document) (*Report, error) {
	const op = "checker.Check"

	log := c.log.With(slog.String("op", op), slog.String("suspect", suspect.Name), slog.String("source", source.Name))

	suspectNormalized := normalizer.Normalize(suspect.RawText, c.profile)
	sourceNormalized := normalizer.Normalize(source.RawText, c.profile)
	if suspectNormalized == "" {
		return nil, fmt.Errorf("%s: %q: %w", op, suspect.Name, ErrNothingToCompare)
	}
	if sourceNormalized == "" {
		return nil, fmt.Errorf("%s: %q: %w", op, source.Name, ErrNothingToCompare)
	}

	result, err := matcher.CompareNormalized(suspectNormalized, sourceNormalized, c.k)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report := &Report{
		ID:                 uuid.New().String(),
		SuspectName:        suspect.Name,
		SourceName:         source.Name,
		Result:             result,
		SuspectHighlighted: highlight.Project(suspect.RawText, result.Fragments, highlight.DefaultHTMLMarker),
		SourceHighlighted:  highlight.Project(source.RawText, result.Fragments, highlight.DefaultHTMLMarker),
		CreatedAt:          time.Now().UTC(),
	}

	if c.projector != nil && result.HasMatches() {
		if report.SuspectPages, err = c.projectPages(ctx, log, suspect, result.Fragments); err != nil {
			return nil, fmt.Errorf("%s: suspect pages: %w", op, err)
		}
		if report.SourcePages, err = c.projectPages(ctx, log, source, result.Fragments); err != nil {
			return nil, fmt.Errorf("%s: source pages: %w", op, err)
		}
	}

	if c.history != nil {
		if err := c.history.RecordComparison(ctx, sqlite.PairwiseCheck, result.SimilarityScore); err != nil {
			log.Warn("failed to record comparison", sl.Err(err))
		}
	}

	log.Debug("check finished",
		slog.Float64("similarity", result.SimilarityScore),
		slog.Int("fragments", len(result.Fragments)),
	)

	return report, nil
}

// projectPages highlights doc's pages. A missing OCR binary only costs the
// page highlights, since text-layer PDFs carry pages too.
func (c *Checker) projectPages(
	ctx context.Context,
	log *slog.Logger,
	doc models.Document,
	fragments []models.Fragment,
) ([]models.RasterPage, error) {
	if !doc.HasImages() {
		return nil, nil
	}

	pages, err := c.projector.ProjectOnPages(ctx, doc.Images, fragments)
	if errors.Is(err, ocr.ErrRecognizerUnavailable) {
		log.Warn("pages not highlighted", slog.String("document", doc.Name), sl.Err(err))
		return nil, nil
	}
	return pages, err
}
