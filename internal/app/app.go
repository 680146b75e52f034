package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"plagcheck/config"
	"plagcheck/internal/domain/models"
	"plagcheck/internal/lib/logger/sl"
	"plagcheck/internal/services/batch"
	"plagcheck/internal/services/checker"
	"plagcheck/internal/services/highlight"
	"plagcheck/internal/services/ingest"
	"plagcheck/internal/services/normalizer"
	"plagcheck/internal/services/ocr"
	"plagcheck/internal/storage/sqlite"
)

var ErrDocumentCount = errors.New("document count out of range")

type App struct {
	log        *slog.Logger
	cfg        *config.Config
	Loader     *ingest.Loader
	Checker    *checker.Checker
	Batch      *batch.Service
	StorageApp *StorageApp
}

func New(log *slog.Logger, cfg *config.Config) (*App, error) {
	profile, err := loadProfile(cfg.Matcher)
	if err != nil {
		return nil, err
	}

	c, err := highlight.ParseHexColor(cfg.Highlight.Color)
	if err != nil {
		return nil, err
	}

	storageApp, err := NewStorageApp(cfg.StoragePath, cfg.HistoryPath)
	if err != nil {
		return nil, err
	}

	tesseract := ocr.NewTesseract(log, ocr.Options{
		Binary:   cfg.OCR.Binary,
		Language: cfg.OCR.Language,
		Timeout:  cfg.OCR.Timeout,
	})
	poppler := ocr.NewPoppler(log, ocr.RasterOptions{
		Binary:  cfg.OCR.PDFBinary,
		DPI:     cfg.OCR.DPI,
		Timeout: cfg.OCR.Timeout,
	})
	projector := highlight.NewImageProjector(log, tesseract, highlight.ImageOptions{
		MinConfidence: cfg.OCR.MinConfidence,
		Color:         c,
		StrokeWidth:   cfg.Highlight.StrokeWidth,
	})

	checkerService, err := checker.New(log, profile, cfg.Matcher.K, projector, storageApp.History())
	if err != nil {
		_ = storageApp.Stop()
		return nil, err
	}

	batchService, err := batch.New(log, profile, cfg.Matcher.K, cfg.Batch.Workers)
	if err != nil {
		_ = storageApp.Stop()
		return nil, err
	}

	return &App{
		log:        log,
		cfg:        cfg,
		Loader:     ingest.NewLoader(log, tesseract, poppler),
		Checker:    checkerService,
		Batch:      batchService,
		StorageApp: storageApp,
	}, nil
}

// loadProfile extends the built-in indonesian roots with the configured
// dictionary file, if any.
func loadProfile(cfg config.MatcherConfig) (*normalizer.LanguageProfile, error) {
	if cfg.Dictionary == "" || cfg.Language != normalizer.Indonesian {
		return normalizer.Profile(cfg.Language)
	}
	dict, err := normalizer.LoadDictionaryFile(cfg.Dictionary)
	if err != nil {
		return nil, err
	}
	return normalizer.NewIndonesianProfile(dict), nil
}

// CompareResult is a finished pairwise check plus the files its
// highlighted pages were written to.
type CompareResult struct {
	Report     *checker.Report
	Suspect    *models.Document
	Source     *models.Document
	SavedPages []string
}

// ManualInputName names documents given as text rather than as a file.
const ManualInputName = "manual_input"

// Input is one side of a pairwise check: a file, or text pasted or piped in.
type Input struct {
	Path string
	Text string
}

func FileInput(path string) Input {
	return Input{Path: path}
}

func TextInput(text string) Input {
	return Input{Text: text}
}

func (a *App) load(ctx context.Context, in Input) (*models.Document, error) {
	if in.Path == "" {
		return models.NewDocument(ManualInputName, in.Text), nil
	}
	return a.Loader.Load(ctx, in.Path)
}

func (a *App) Compare(ctx context.Context, suspectInput, sourceInput Input) (*CompareResult, error) {
	const op = "app.Compare"

	suspect, err := a.load(ctx, suspectInput)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	source, err := a.load(ctx, sourceInput)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report, err := a.Checker.Check(ctx, *suspect, *source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &CompareResult{Report: report, Suspect: suspect, Source: source}
	for _, set := range []struct {
		role  string
		pages []models.RasterPage
	}{
		{"suspect", report.SuspectPages},
		{"source", report.SourcePages},
	} {
		if len(set.pages) == 0 {
			continue
		}
		paths, err := highlight.SavePages(a.cfg.OutputDir, pagePrefix(set.role, report.ID), set.pages)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.SavedPages = append(result.SavedPages, paths...)
	}

	return result, nil
}

// RunBatch loads the files, compares every pair and stores the result in the
// batch cache. The number of files must be within the configured bounds.
func (a *App) RunBatch(ctx context.Context, paths []string) (*models.BatchResult, error) {
	const op = "app.RunBatch"

	if n := len(paths); n < a.cfg.Batch.MinDocuments || n > a.cfg.Batch.MaxDocuments {
		return nil, fmt.Errorf("%s: %w: got %d, want %d..%d",
			op, ErrDocumentCount, n, a.cfg.Batch.MinDocuments, a.cfg.Batch.MaxDocuments)
	}

	docs, err := a.Loader.LoadAll(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := a.Batch.CompareAll(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.StorageApp.Batches().SaveBatch(ctx, result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, p := range result.Pairs {
		if err := a.StorageApp.History().RecordComparison(ctx, sqlite.BatchPair, p.Similarity); err != nil {
			a.log.Warn("failed to record batch pair", sl.Err(err))
			break
		}
	}

	return result, nil
}

func (a *App) Stop() error {
	return a.StorageApp.Stop()
}

func pagePrefix(role, id string) string {
	short, _, _ := strings.Cut(id, "-")
	return filepath.Base(role + "_" + short)
}
