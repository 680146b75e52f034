package ocr

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

const (
	contrastFactor = 2.0
	minOCRWidth    = 1000
)

// Preprocess prepares a page for plain-text recognition: grayscale, doubled
// contrast around the mean luminance, and an upscale of narrow pages to
// minOCRWidth pixels.
func Preprocess(img image.Image) image.Image {
	b := img.Bounds()
	if b.Empty() {
		return img
	}

	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	var sum uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			gray.SetGray(x-b.Min.X, y-b.Min.Y, g)
			sum += uint64(g.Y)
		}
	}

	mean := float64(sum) / float64(b.Dx()*b.Dy())
	for i, v := range gray.Pix {
		gray.Pix[i] = clamp(mean + contrastFactor*(float64(v)-mean))
	}

	if b.Dx() >= minOCRWidth {
		return gray
	}

	scale := float64(minOCRWidth) / float64(b.Dx())
	scaled := image.NewGray(image.Rect(0, 0, minOCRWidth, int(float64(b.Dy())*scale)))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), gray, gray.Bounds(), draw.Src, nil)
	return scaled
}

func clamp(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
