// Package raster renders PDF pages to images for OCR.
package raster

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrUnavailable reports that the rendering backend cannot be used.
	ErrUnavailable = errors.New("pdf rasterizer unavailable")
	// ErrRender is returned when the document cannot be rendered.
	ErrRender = errors.New("pdf render failed")
)

// Rasterizer renders every page of a PDF, in page order. maxPages <= 0
// renders the whole document.
type Rasterizer interface {
	Rasterize(ctx context.Context, data []byte, maxPages int) ([]image.Image, error)
}

func pageLimit(total, maxPages int) int {
	if maxPages > 0 && total > maxPages {
		return maxPages
	}
	return total
}
