package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

var ErrRasterizerUnavailable = errors.New("pdf rasterizer unavailable")

const DefaultDPI = 200

type RasterOptions struct {
	Binary  string
	DPI     int
	Timeout time.Duration
}

// Poppler renders PDF pages to images with pdftoppm.
type Poppler struct {
	log  *slog.Logger
	opts RasterOptions
}

func NewPoppler(log *slog.Logger, opts RasterOptions) *Poppler {
	if opts.Binary == "" {
		opts.Binary = "pdftoppm"
	}
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	return &Poppler{
		log:  log,
		opts: opts,
	}
}

// Rasterize returns one image per page, in page order.
func (p *Poppler) Rasterize(ctx context.Context, raw []byte) ([]image.Image, error) {
	const op = "ocr.Poppler.Rasterize"

	binary, err := exec.LookPath(p.opts.Binary)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrRasterizerUnavailable, err)
	}

	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	dir, err := os.MkdirTemp("", "plagcheck-pages-*")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(input, raw, 0o600); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cmd := exec.CommandContext(ctx, binary, "-r", strconv.Itoa(p.opts.DPI), "-png", input, filepath.Join(dir, "page"))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: run %s: %w: %s", op, p.opts.Binary, err, strings.TrimSpace(stderr.String()))
	}

	pages, err := readPages(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p.log.Debug("pdf rasterized", slog.Int("pages", len(pages)), slog.Int("dpi", p.opts.DPI))
	return pages, nil
}

// readPages decodes the page-N.png files pdftoppm wrote into dir. pdftoppm
// pads N to the width of the page count, so lexical order is page order.
func readPages(dir string) ([]image.Image, error) {
	files, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	pages := make([]image.Image, 0, len(files))
	for _, name := range files {
		img, err := decodePNG(name)
		if err != nil {
			return nil, err
		}
		pages = append(pages, img)
	}
	return pages, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
