package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"go.uber.org/zap"
)

// ImageExtractor runs OCR once over a JPEG or PNG upload.
type ImageExtractor struct {
	ocr    Recognizer
	logger *zap.Logger
}

func NewImageExtractor(ocr Recognizer, logger *zap.Logger) *ImageExtractor {
	return &ImageExtractor{
		ocr:    ocr,
		logger: logger,
	}
}

// ExtractText is best-effort: an undecodable image yields an empty result
// rather than an error.
func (e *ImageExtractor) ExtractText(ctx context.Context, data []byte) (*ExtractionResult, error) {
	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		e.logger.Warn("Image decode failed", zap.Int("bytes", len(data)), zap.Error(err))
		return &ExtractionResult{Kind: KindImage, Method: MethodOCR}, nil
	}
	e.logger.Debug("Image decoded", zap.String("format", format))

	text, err := e.ocr.Recognize(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("image ocr: %w", err)
	}

	return &ExtractionResult{
		Text:   strings.TrimSpace(text),
		Kind:   KindImage,
		Method: MethodOCR,
		Pages:  1,
	}, nil
}
