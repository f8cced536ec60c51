package file

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Core dispatches an upload to the extractor registered for its kind
type Core struct {
	extractors map[Kind]TextExtractor
	logger     *zap.Logger
}

// NewCore creates a new Core instance with the required dependencies
func NewCore(pdfExtractor, imageExtractor TextExtractor, logger *zap.Logger) *Core {
	return &Core{
		extractors: map[Kind]TextExtractor{
			KindPDF:   pdfExtractor,
			KindImage: imageExtractor,
		},
		logger: logger,
	}
}

// Extract returns the plain text of doc. Unsupported kinds are rejected
// before any parsing, and a whitespace-only result is reported as ErrNoText.
func (c *Core) Extract(ctx context.Context, doc Document) (*ExtractionResult, error) {
	kind := KindOf(doc.Name)
	extractor, ok := c.extractors[kind]
	if !ok || extractor == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, filepath.Ext(doc.Name))
	}

	start := time.Now()
	result, err := extractor.ExtractText(ctx, doc.Data)
	if err != nil {
		c.logger.Error("Extraction failed",
			zap.String("file", doc.Name),
			zap.Stringer("kind", kind),
			zap.Error(err))
		return nil, err
	}

	if result == nil || strings.TrimSpace(result.Text) == "" {
		c.logger.Info("No text recovered",
			zap.String("file", doc.Name),
			zap.Stringer("kind", kind))
		return nil, ErrNoText
	}

	result.Kind = kind
	c.logger.Info("Extracted text",
		zap.String("file", doc.Name),
		zap.Stringer("kind", kind),
		zap.String("method", string(result.Method)),
		zap.Int("pages", result.Pages),
		zap.Int("chars", len(result.Text)),
		zap.Duration("took", time.Since(start)))
	return result, nil
}
