package models

import "image"

// Document is the normalized {text, images} shape produced by ingestion.
type Document struct {
	Name    string       `json:"name"`
	RawText string       `json:"raw_text"`
	Images  []RasterPage `json:"-"`
}

// RasterPage is one page image of a scanned or photographed document.
type RasterPage struct {
	Number int
	Image  image.Image
}

func NewDocument(name string, rawText string, images ...RasterPage) *Document {
	return &Document{
		Name:    name,
		RawText: rawText,
		Images:  images,
	}
}

func (d Document) HasImages() bool {
	return len(d.Images) > 0
}

// BoundingBox is expressed in pixel coordinates of the page it was computed on.
type BoundingBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}
