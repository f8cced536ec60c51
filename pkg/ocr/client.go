// Package ocr provides optical character recognition for page and photo images.
package ocr

import (
	"context"
	"errors"
)

// ErrUnavailable reports that the OCR engine or its trained data is missing.
var ErrUnavailable = errors.New("ocr engine unavailable")

// Engine recognizes text in a single encoded image (PNG or JPEG).
type Engine interface {
	Recognize(ctx context.Context, img []byte) (string, error)
	Name() string
}

// Config selects trained data and engine knobs.
type Config struct {
	// TessdataPrefix is the directory holding *.traineddata. Empty uses the
	// library default.
	TessdataPrefix string
	Languages      []string
	// Variables are passed verbatim to the engine (e.g. "preserve_interword_spaces").
	Variables map[string]string
}
