package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plagcheck/config"
	"plagcheck/internal/services/checker"
)

const essay = "Algoritma Rabin Karp adalah algoritma pencarian string yang menggunakan fungsi hash " +
	"untuk mencocokkan pola dengan teks secara efisien."

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Env:         "local",
		StoragePath: filepath.Join(dir, "batches"),
		HistoryPath: filepath.Join(dir, "history.db"),
		OutputDir:   filepath.Join(dir, "highlighted"),
		Matcher:     config.MatcherConfig{K: 5, Language: "indonesian"},
		Batch:       config.BatchConfig{Threshold: 50, MinDocuments: 2, MaxDocuments: 3, Workers: 2},
		OCR:         config.OCRConfig{Binary: "tesseract", Language: "ind+eng"},
		Highlight:   config.HighlightConfig{Color: "#ff0000", StrokeWidth: 3},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	application, err := New(slog.New(slog.NewTextHandler(io.Discard, nil)), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Stop() })
	return application
}

func writeDoc(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestCompare(t *testing.T) {
	application := newTestApp(t)

	result, err := application.Compare(context.Background(),
		FileInput(writeDoc(t, "suspect.txt", essay)), FileInput(writeDoc(t, "source.txt", essay)))
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.Report.Result.SimilarityScore)
	assert.Empty(t, result.SavedPages)

	stats, err := application.StorageApp.History().Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PairwiseCount)
}

func TestCompareEmptyDocument(t *testing.T) {
	application := newTestApp(t)

	_, err := application.Compare(context.Background(),
		FileInput(writeDoc(t, "empty.txt", "   ")), FileInput(writeDoc(t, "source.txt", essay)))
	assert.ErrorIs(t, err, checker.ErrNothingToCompare)
}

func TestCompareTextInput(t *testing.T) {
	application := newTestApp(t)

	result, err := application.Compare(context.Background(),
		TextInput(essay), FileInput(writeDoc(t, "source.txt", essay)))
	require.NoError(t, err)

	assert.Equal(t, ManualInputName, result.Suspect.Name)
	assert.Equal(t, ManualInputName, result.Report.SuspectName)
	assert.Equal(t, "source.txt", result.Source.Name)
	assert.Equal(t, 100.0, result.Report.Result.SimilarityScore)
}

func TestRunBatchStoresResult(t *testing.T) {
	application := newTestApp(t)
	ctx := context.Background()

	paths := []string{
		writeDoc(t, "a.txt", essay),
		writeDoc(t, "b.txt", essay),
		writeDoc(t, "c.txt", "kucing hitam tidur nyenyak di bawah pohon mangga besar"),
	}

	result, err := application.RunBatch(ctx, paths)
	require.NoError(t, err)
	require.Len(t, result.Pairs, 3)

	stored, err := application.StorageApp.Batches().GetBatch(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.DocumentNames, stored.DocumentNames)
	assert.Equal(t, 100.0, stored.Pairs[0].Similarity)

	stats, err := application.StorageApp.History().Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.BatchPairs)
}

func TestRunBatchEnforcesBounds(t *testing.T) {
	application := newTestApp(t)
	a := writeDoc(t, "a.txt", essay)

	_, err := application.RunBatch(context.Background(), []string{a})
	assert.ErrorIs(t, err, ErrDocumentCount)

	_, err = application.RunBatch(context.Background(), []string{a, a, a, a})
	assert.ErrorIs(t, err, ErrDocumentCount)
}

func TestNewRejectsBadColor(t *testing.T) {
	cfg := testConfig(t)
	cfg.Highlight.Color = "crimson"

	_, err := New(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)
	assert.Error(t, err)
}

func TestPagePrefix(t *testing.T) {
	assert.Equal(t, "suspect_1b4e28ba", pagePrefix("suspect", "1b4e28ba-2fa1-11d2-883f-0016d3cca427"))
}

func TestLoadProfileWithDictionary(t *testing.T) {
	path := writeDoc(t, "roots.txt", "# extra roots\nplagiat\n")

	profile, err := loadProfile(config.MatcherConfig{Language: "indonesian", Dictionary: path})
	require.NoError(t, err)
	assert.Equal(t, "plagiat", profile.Stem("memplagiatkan"))
	assert.Equal(t, "tarik", profile.Stem("ketertarikan"))

	_, err = loadProfile(config.MatcherConfig{Language: "indonesian", Dictionary: filepath.Join(t.TempDir(), "missing.txt")})
	assert.Error(t, err)

	profile, err = loadProfile(config.MatcherConfig{Language: "plain", Dictionary: path})
	require.NoError(t, err)
	assert.Equal(t, "plain", profile.Name())
}
