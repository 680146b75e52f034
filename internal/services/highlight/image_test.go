package highlight

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plagcheck/internal/domain/models"
	"plagcheck/internal/services/ocr"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

type fakeRecognizer struct {
	words []ocr.Word
	err   error
	calls int
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ image.Image) ([]ocr.Word, error) {
	f.calls++
	return f.words, f.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func whitePage(w, h int) models.RasterPage {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, white)
		}
	}
	return models.RasterPage{Number: 1, Image: img}
}

var pageWords = []ocr.Word{
	{Text: "Algoritma", Left: 10, Top: 10, Width: 30, Height: 10, Confidence: 95},
	{Text: "Rabin", Left: 45, Top: 12, Width: 20, Height: 10, Confidence: 92},
	{Text: "Karp,", Left: 70, Top: 10, Width: 20, Height: 10, Confidence: 90},
	{Text: "cepat", Left: 10, Top: 40, Width: 25, Height: 10, Confidence: 0},
}

func TestProjectOnPagesWithoutFragmentsCopiesPages(t *testing.T) {
	recognizer := &fakeRecognizer{words: pageWords}
	projector := NewImageProjector(newTestLogger(), recognizer, ImageOptions{})
	page := whitePage(20, 10)
	page.Image.(*image.RGBA).SetRGBA(3, 4, color.RGBA{B: 200, A: 255})

	out, err := projector.ProjectOnPages(context.Background(), []models.RasterPage{page}, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, 0, recognizer.calls)
	assert.Equal(t, page.Image.(*image.RGBA).Pix, out[0].Image.(*image.RGBA).Pix)
	assert.NotSame(t, page.Image, out[0].Image)
}

func TestProjectOnPagesDrawsMatchedPhrase(t *testing.T) {
	recognizer := &fakeRecognizer{words: pageWords}
	projector := NewImageProjector(newTestLogger(), recognizer, ImageOptions{})
	page := whitePage(100, 60)
	original := append([]byte(nil), page.Image.(*image.RGBA).Pix...)

	out, err := projector.ProjectOnPages(context.Background(), []models.RasterPage{page},
		models.FragmentsFromTexts(models.KGramFragment, "algoritma rabin"))
	require.NoError(t, err)
	require.Len(t, out, 1)

	highlighted := out[0].Image
	assert.Equal(t, page.Image.Bounds(), highlighted.Bounds())
	assert.Equal(t, original, page.Image.(*image.RGBA).Pix, "input page must not change")

	red := color.RGBAModel.Convert(DefaultColor)
	assert.Equal(t, red, color.RGBAModel.Convert(highlighted.At(10, 10)))
	assert.Equal(t, red, color.RGBAModel.Convert(highlighted.At(12, 16)))
	assert.Equal(t, red, color.RGBAModel.Convert(highlighted.At(65, 22)))
	assert.Equal(t, white, color.RGBAModel.Convert(highlighted.At(30, 16)))
	assert.Equal(t, white, color.RGBAModel.Convert(highlighted.At(80, 15)))
}

func TestProjectOnPagesNoTokens(t *testing.T) {
	recognizer := &fakeRecognizer{}
	projector := NewImageProjector(newTestLogger(), recognizer, ImageOptions{})
	page := whitePage(10, 10)

	out, err := projector.ProjectOnPages(context.Background(), []models.RasterPage{page},
		models.FragmentsFromTexts(models.WordFragment, "algoritma"))
	require.NoError(t, err)

	assert.Equal(t, 1, recognizer.calls)
	assert.Equal(t, page.Image.(*image.RGBA).Pix, out[0].Image.(*image.RGBA).Pix)
}

func TestProjectOnPagesRecognizerError(t *testing.T) {
	recognizer := &fakeRecognizer{err: errors.New("boom")}
	projector := NewImageProjector(newTestLogger(), recognizer, ImageOptions{})

	_, err := projector.ProjectOnPages(context.Background(), []models.RasterPage{whitePage(4, 4)},
		models.FragmentsFromTexts(models.WordFragment, "algoritma"))
	assert.ErrorContains(t, err, "boom")
}

func TestFindMatchedBoxes(t *testing.T) {
	tests := []struct {
		name      string
		fragments []models.Fragment
		expected  []models.BoundingBox
	}{
		{
			name:      "consecutive phrase merges boxes",
			fragments: models.FragmentsFromTexts(models.KGramFragment, "algoritma rabin karp"),
			expected:  []models.BoundingBox{{X1: 10, Y1: 10, X2: 90, Y2: 22}},
		},
		{
			name:      "substring absorbs ocr noise",
			fragments: models.FragmentsFromTexts(models.WordFragment, "algoritmanya"),
			expected:  []models.BoundingBox{{X1: 10, Y1: 10, X2: 40, Y2: 20}},
		},
		{
			name:      "non consecutive phrase does not match",
			fragments: models.FragmentsFromTexts(models.KGramFragment, "algoritma karp"),
			expected:  nil,
		},
		{
			name:      "empty fragment ignored",
			fragments: models.FragmentsFromTexts(models.WordFragment, "", "!!"),
			expected:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FindMatchedBoxes(pageWords[:3], tt.fragments))
		})
	}
}

func TestLowConfidenceWordsAreDiscarded(t *testing.T) {
	kept := filterConfident(pageWords, 0)
	assert.Len(t, kept, 3)

	boxes := FindMatchedBoxes(kept, models.FragmentsFromTexts(models.WordFragment, "cepat"))
	assert.Empty(t, boxes)
}

func TestDrawHighlightsClipsToBounds(t *testing.T) {
	page := whitePage(10, 10)

	out := DrawHighlights(page.Image, []models.BoundingBox{{X1: 5, Y1: 5, X2: 50, Y2: 50}}, DefaultColor, 2)

	assert.Equal(t, page.Image.Bounds(), out.Bounds())
	assert.Equal(t, DefaultColor, out.RGBAAt(5, 5))
	assert.Equal(t, DefaultColor, out.RGBAAt(9, 6))
	assert.Equal(t, white, out.RGBAAt(8, 8))
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#00ff7f")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{G: 255, B: 127, A: 255}, c)

	_, err = ParseHexColor("red")
	assert.Error(t, err)
}

func TestSavePages(t *testing.T) {
	dir := t.TempDir()
	pages := []models.RasterPage{whitePage(4, 4), {Number: 2, Image: whitePage(4, 4).Image}}

	paths, err := SavePages(dir+"/highlighted", "suspect_abc", pages)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.FileExists(t, paths[0])
	assert.Contains(t, paths[1], "suspect_abc_page_2.png")
	info, err := os.Stat(paths[0])
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
