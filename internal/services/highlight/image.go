package highlight

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"plagcheck/internal/domain/models"
	"plagcheck/internal/services/ocr"
)

const (
	DefaultStrokeWidth = 3
)

var DefaultColor = color.RGBA{R: 255, A: 255}

// WordRecognizer is the word-position OCR pass; it is separate from the
// plain-text pass used during ingestion.
type WordRecognizer interface {
	Recognize(ctx context.Context, img image.Image) ([]ocr.Word, error)
}

type ImageOptions struct {
	// Words with confidence at or below MinConfidence are discarded.
	MinConfidence float64
	Color         color.Color
	StrokeWidth   int
}

type ImageProjector struct {
	log        *slog.Logger
	recognizer WordRecognizer
	opts       ImageOptions
}

func NewImageProjector(log *slog.Logger, recognizer WordRecognizer, opts ImageOptions) *ImageProjector {
	if opts.Color == nil {
		opts.Color = DefaultColor
	}
	if opts.StrokeWidth <= 0 {
		opts.StrokeWidth = DefaultStrokeWidth
	}
	return &ImageProjector{
		log:        log,
		recognizer: recognizer,
		opts:       opts,
	}
}

// ProjectOnPages returns a highlighted copy of every page. The input pages
// are never modified. Without fragments no recognition pass is run.
func (p *ImageProjector) ProjectOnPages(ctx context.Context, pages []models.RasterPage, fragments []models.Fragment) ([]models.RasterPage, error) {
	const op = "highlight.ImageProjector.ProjectOnPages"

	out := make([]models.RasterPage, 0, len(pages))
	for _, page := range pages {
		if len(fragments) == 0 {
			out = append(out, models.RasterPage{Number: page.Number, Image: copyImage(page.Image)})
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		words, err := p.recognizer.Recognize(ctx, page.Image)
		if err != nil {
			return nil, fmt.Errorf("%s: page %d: %w", op, page.Number, err)
		}

		boxes := FindMatchedBoxes(filterConfident(words, p.opts.MinConfidence), fragments)
		p.log.Debug("highlight regions found", "page", page.Number, "words", len(words), "regions", len(boxes))

		out = append(out, models.RasterPage{
			Number: page.Number,
			Image:  DrawHighlights(page.Image, boxes, p.opts.Color, p.opts.StrokeWidth),
		})
	}
	return out, nil
}

func filterConfident(words []ocr.Word, floor float64) []ocr.Word {
	kept := make([]ocr.Word, 0, len(words))
	for _, w := range words {
		if w.Confidence > floor {
			kept = append(kept, w)
		}
	}
	return kept
}

type recognizedToken struct {
	normalized string
	word       ocr.Word
}

// NormalizeToken lowercases and drops every rune that is not a letter or digit.
// Letters outside ASCII are kept, so "café" stays "café" instead of becoming
// "caf"; it must agree with normalizer.Strip or fragments never match.
func NormalizeToken(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, strings.ToLower(s))
}

// tokensMatch is deliberately loose: OCR often merges or splits words, so a
// substring in either direction counts.
func tokensMatch(ocrWord, fragmentWord string) bool {
	return ocrWord == fragmentWord ||
		strings.Contains(ocrWord, fragmentWord) ||
		strings.Contains(fragmentWord, ocrWord)
}

// FindMatchedBoxes returns one merged box per consecutive run of recognized
// words matching a fragment. Words that normalize to nothing are skipped.
func FindMatchedBoxes(words []ocr.Word, fragments []models.Fragment) []models.BoundingBox {
	tokens := make([]recognizedToken, 0, len(words))
	for _, w := range words {
		if n := NormalizeToken(w.Text); n != "" {
			tokens = append(tokens, recognizedToken{normalized: n, word: w})
		}
	}

	var boxes []models.BoundingBox
	for _, fragment := range fragments {
		var phrase []string
		for _, w := range strings.Fields(fragment.Text) {
			if n := NormalizeToken(w); n != "" {
				phrase = append(phrase, n)
			}
		}
		if len(phrase) == 0 {
			continue
		}

		for i := 0; i+len(phrase) <= len(tokens); i++ {
			matched := true
			for j, fw := range phrase {
				if !tokensMatch(tokens[i+j].normalized, fw) {
					matched = false
					break
				}
			}
			if matched {
				boxes = append(boxes, mergeBoxes(tokens[i:i+len(phrase)]))
			}
		}
	}
	return boxes
}

func mergeBoxes(tokens []recognizedToken) models.BoundingBox {
	first := tokens[0].word
	box := models.BoundingBox{
		X1: first.Left,
		Y1: first.Top,
		X2: first.Left + first.Width,
		Y2: first.Top + first.Height,
	}
	for _, t := range tokens[1:] {
		w := t.word
		box.X1 = min(box.X1, w.Left)
		box.Y1 = min(box.Y1, w.Top)
		box.X2 = max(box.X2, w.Left+w.Width)
		box.Y2 = max(box.Y2, w.Top+w.Height)
	}
	return box
}

// DrawHighlights outlines every box on an RGBA copy of img. Box coordinates
// are relative to the image origin; the outline grows inwards from the box
// edges, which are inclusive.
func DrawHighlights(img image.Image, boxes []models.BoundingBox, c color.Color, width int) *image.RGBA {
	dst := copyImage(img)
	bounds := dst.Bounds()
	fill := image.NewUniform(c)

	for _, box := range boxes {
		r := box.Rect().Add(bounds.Min)
		r.Max = r.Max.Add(image.Pt(1, 1))
		w := min(width, r.Dx(), r.Dy())
		edges := []image.Rectangle{
			image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w),
			image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y),
			image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y),
			image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y),
		}
		for _, e := range edges {
			draw.Draw(dst, e.Intersect(bounds), fill, image.Point{}, draw.Src)
		}
	}
	return dst
}

func copyImage(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)
	return dst
}

// ParseHexColor parses "#rrggbb" or "rrggbb".
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// SavePages writes pages as <prefix>_page_<n>.png under dir and returns the
// written paths in page order.
func SavePages(dir, prefix string, pages []models.RasterPage) ([]string, error) {
	const op = "highlight.SavePages"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	paths := make([]string, 0, len(pages))
	for i, page := range pages {
		n := page.Number
		if n == 0 {
			n = i + 1
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_page_%d.png", prefix, n))
		if err := writePNG(path, page.Image); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return png.Encode(f, img)
}
