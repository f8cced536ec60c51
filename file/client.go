package file

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrNoText means neither the text layer nor OCR recovered any text.
	ErrNoText          = errors.New("could not extract text from this file")
	ErrCorruptDocument = errors.New("unreadable document")
)

// Kind is the closed set of upload kinds the extractor knows about.
type Kind int

const (
	KindUnsupported Kind = iota
	KindPDF
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindImage:
		return "image"
	default:
		return "unsupported"
	}
}

var kindByExtension = map[string]Kind{
	".pdf":  KindPDF,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".png":  KindImage,
}

// KindOf classifies a file by its declared extension, case-insensitively.
func KindOf(filename string) Kind {
	if kind, ok := kindByExtension[strings.ToLower(filepath.Ext(filename))]; ok {
		return kind
	}
	return KindUnsupported
}

type Method string

const (
	MethodNative Method = "native"
	MethodOCR    Method = "ocr"
)

// Document is an uploaded file held in memory for a single request.
type Document struct {
	Name string
	Data []byte
}

type ExtractionResult struct {
	Text   string `json:"text"`
	Kind   Kind   `json:"-"`
	Method Method `json:"method,omitempty"`
	Pages  int    `json:"pages,omitempty"`
}

type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (*ExtractionResult, error)
}

// NativeExtractor reads a PDF's embedded text layer and reports the number of
// pages it looked at.
type NativeExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, int, error)
}

type Rasterizer interface {
	Rasterize(ctx context.Context, data []byte, maxPages int) ([]image.Image, error)
}

type Recognizer interface {
	Recognize(ctx context.Context, img []byte) (string, error)
}
