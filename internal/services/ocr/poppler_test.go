package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopplerUnavailable(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	rasterizer := NewPoppler(log, RasterOptions{Binary: "definitely-not-a-pdftoppm-binary"})

	_, err := rasterizer.Rasterize(context.Background(), []byte("%PDF-1.4"))
	assert.ErrorIs(t, err, ErrRasterizerUnavailable)
}

func TestNewPopplerDefaults(t *testing.T) {
	p := NewPoppler(slog.New(slog.NewTextHandler(io.Discard, nil)), RasterOptions{})

	assert.Equal(t, "pdftoppm", p.opts.Binary)
	assert.Equal(t, DefaultDPI, p.opts.DPI)
}

func TestReadPagesInPageOrder(t *testing.T) {
	dir := t.TempDir()
	// Width encodes the page number.
	for _, page := range []int{10, 2, 1} {
		name := filepath.Join(dir, fmt.Sprintf("page-%02d.png", page))
		f, err := os.Create(name)
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, page, 1))))
		require.NoError(t, f.Close())
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "input.pdf"), []byte("%PDF"), 0o600))

	pages, err := readPages(dir)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, 1, pages[0].Bounds().Dx())
	assert.Equal(t, 2, pages[1].Bounds().Dx())
	assert.Equal(t, 10, pages[2].Bounds().Dx())
}

func TestReadPagesBrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page-1.png"), []byte("not a png"), 0o600))

	_, err := readPages(dir)
	assert.ErrorContains(t, err, "decode page-1.png")
}
