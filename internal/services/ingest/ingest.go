package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"plagcheck/internal/domain/models"
	"plagcheck/internal/lib/logger/sl"
	"plagcheck/internal/services/ocr"
)

var ErrUnsupportedType = errors.New("unsupported file type")

var supportedExtensions = []string{".txt", ".pdf", ".docx", ".png", ".jpg", ".jpeg"}

// A PDF whose text layer is no longer than this is read with OCR instead.
const minTextLayer = 50

type TextRecognizer interface {
	Text(ctx context.Context, img image.Image) (string, error)
}

type PageRasterizer interface {
	Rasterize(ctx context.Context, raw []byte) ([]image.Image, error)
}

// Loader turns files on disk into documents. Images and rendered PDF pages
// are kept on the document so matches can be drawn on them later.
type Loader struct {
	log        *slog.Logger
	recognizer TextRecognizer
	rasterizer PageRasterizer
}

// NewLoader returns a loader. Either collaborator may be nil: without a
// recognizer image files fail to load, without a rasterizer PDFs carry only
// their text layer.
func NewLoader(log *slog.Logger, recognizer TextRecognizer, rasterizer PageRasterizer) *Loader {
	return &Loader{
		log:        log,
		recognizer: recognizer,
		rasterizer: rasterizer,
	}
}

func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range supportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads one file. The document name is the file's base name.
func (l *Loader) Load(ctx context.Context, path string) (*models.Document, error) {
	const op = "ingest.Load"

	ext := strings.ToLower(filepath.Ext(path))
	if !Supported(path) {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnsupportedType, ext)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	name := filepath.Base(path)
	var doc *models.Document
	switch ext {
	case ".txt":
		doc = models.NewDocument(name, string(raw))
	case ".docx":
		text, err := parseDOCX(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, name, err)
		}
		doc = models.NewDocument(name, text)
	case ".pdf":
		doc, err = l.loadPDF(ctx, name, raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, name, err)
		}
	default:
		doc, err = l.loadImage(ctx, name, raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, name, err)
		}
	}

	l.log.Debug("document loaded",
		slog.String("name", name),
		slog.Int("chars", len(doc.RawText)),
		slog.Int("pages", len(doc.Images)),
	)

	return doc, nil
}

// LoadAll loads every path in order and stops at the first failure.
func (l *Loader) LoadAll(ctx context.Context, paths []string) ([]models.Document, error) {
	docs := make([]models.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := l.Load(ctx, p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (l *Loader) loadImage(ctx context.Context, name string, raw []byte) (*models.Document, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if l.recognizer == nil {
		return nil, ocr.ErrRecognizerUnavailable
	}

	text, err := l.recognizer.Text(ctx, img)
	if err != nil {
		return nil, err
	}

	return models.NewDocument(name, text, models.RasterPage{Number: 1, Image: img}), nil
}

// loadPDF renders every page so matches can be drawn on it, and reads the
// text with OCR when the text layer is missing or too short to be real.
func (l *Loader) loadPDF(ctx context.Context, name string, raw []byte) (*models.Document, error) {
	text, textErr := parsePDF(raw)

	images, err := l.rasterize(ctx, raw)
	if err != nil {
		if textErr != nil {
			return nil, errors.Join(textErr, err)
		}
		l.log.Warn("pdf pages not rendered", slog.String("name", name), sl.Err(err))
		return models.NewDocument(name, text), nil
	}

	pages := make([]models.RasterPage, len(images))
	for i, img := range images {
		pages[i] = models.RasterPage{Number: i + 1, Image: img}
	}

	if textErr == nil && !IsScanned(text) {
		return models.NewDocument(name, text, pages...), nil
	}
	if textErr != nil {
		l.log.Debug("pdf text layer unreadable", slog.String("name", name), sl.Err(textErr))
	}
	if l.recognizer == nil {
		if textErr != nil {
			return nil, errors.Join(textErr, ocr.ErrRecognizerUnavailable)
		}
		l.log.Warn("scanned pdf left without ocr", slog.String("name", name))
		return models.NewDocument(name, text, pages...), nil
	}

	texts := make([]string, 0, len(images))
	for i, img := range images {
		pageText, err := l.recognizer.Text(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("ocr page %d: %w", i+1, err)
		}
		texts = append(texts, pageText)
	}

	l.log.Debug("pdf read with ocr", slog.String("name", name), slog.Int("pages", len(images)))
	return models.NewDocument(name, strings.Join(texts, "\n"), pages...), nil
}

func (l *Loader) rasterize(ctx context.Context, raw []byte) ([]image.Image, error) {
	if l.rasterizer == nil {
		return nil, ocr.ErrRasterizerUnavailable
	}
	return l.rasterizer.Rasterize(ctx, raw)
}

// IsScanned reports whether a PDF text layer is too short to stand for the
// page content.
func IsScanned(textLayer string) bool {
	return len(strings.TrimSpace(textLayer)) <= minTextLayer
}

func parseDOCX(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open docx zip: %w", err)
	}

	var xmlData []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		xmlData, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}
		break
	}
	if len(xmlData) == 0 {
		return "", fmt.Errorf("word/document.xml not found")
	}

	decoder := xml.NewDecoder(bytes.NewReader(xmlData))
	var paragraphs []string
	var b strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteString("\t")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paragraphs = append(paragraphs, b.String())
				b.Reset()
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}

// parsePDF reads the text layer. Scanned PDFs without one yield "".
func parsePDF(raw []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		if content = strings.TrimSpace(content); content != "" {
			pages = append(pages, content)
		}
	}

	return strings.Join(pages, "\n"), nil
}
