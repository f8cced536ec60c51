package raster

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// MuPDF renders pages in-process through go-fitz.
type MuPDF struct {
	dpi    float64
	logger *zap.Logger
}

func NewMuPDF(dpi int, logger *zap.Logger) *MuPDF {
	return &MuPDF{
		dpi:    float64(dpi),
		logger: logger,
	}
}

func (m *MuPDF) Rasterize(ctx context.Context, data []byte, maxPages int) ([]image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: open document: %v", ErrRender, err)
	}
	defer doc.Close()

	n := pageLimit(doc.NumPage(), maxPages)
	images := make([]image.Image, 0, n)
	for pageNum := 0; pageNum < n; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.ImageDPI(pageNum, m.dpi)
		if err != nil {
			m.logger.Error("Failed to convert page to image",
				zap.Int("page", pageNum+1),
				zap.Error(err))
			return nil, fmt.Errorf("%w: page %d: %v", ErrRender, pageNum+1, err)
		}
		images = append(images, img)
	}

	return images, nil
}
