package file

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"

	"go.uber.org/zap"
)

// PDFExtractor prefers the embedded text layer and falls back to OCR of every
// page when the whole document yields no native text. A PDF mixing text pages
// and scanned pages keeps only the text pages.
type PDFExtractor struct {
	native   NativeExtractor
	raster   Rasterizer
	ocr      Recognizer
	maxPages int
	logger   *zap.Logger
}

func NewPDFExtractor(native NativeExtractor, raster Rasterizer, ocr Recognizer, maxPages int, logger *zap.Logger) *PDFExtractor {
	return &PDFExtractor{
		native:   native,
		raster:   raster,
		ocr:      ocr,
		maxPages: maxPages,
		logger:   logger,
	}
}

func (p *PDFExtractor) ExtractText(ctx context.Context, data []byte) (*ExtractionResult, error) {
	text, pages, err := p.native.ExtractText(ctx, data)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	if text != "" {
		return &ExtractionResult{Text: text, Kind: KindPDF, Method: MethodNative, Pages: pages}, nil
	}

	p.logger.Info("Using OCR mode for PDF", zap.Int("pages", pages))
	return p.extractOCR(ctx, data)
}

func (p *PDFExtractor) extractOCR(ctx context.Context, data []byte) (*ExtractionResult, error) {
	images, err := p.raster.Rasterize(ctx, data, p.maxPages)
	if err != nil {
		return nil, fmt.Errorf("rasterize pdf: %w", err)
	}

	encoder := png.Encoder{CompressionLevel: png.BestSpeed}
	chunks := make([]string, 0, len(images))
	for pageNum, img := range images {
		var buf bytes.Buffer
		if err := encoder.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", pageNum+1, err)
		}

		text, err := p.ocr.Recognize(ctx, buf.Bytes())
		if err != nil {
			p.logger.Error("Failed to extract text via OCR",
				zap.Int("page", pageNum+1),
				zap.Error(err))
			return nil, fmt.Errorf("ocr page %d: %w", pageNum+1, err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			p.logger.Debug("Blank OCR page skipped", zap.Int("page", pageNum+1))
			continue
		}
		chunks = append(chunks, text)
	}

	return &ExtractionResult{
		Text:   strings.Join(chunks, "\n\n"),
		Kind:   KindPDF,
		Method: MethodOCR,
		Pages:  len(images),
	}, nil
}
