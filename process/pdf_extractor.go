package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable is returned when the PDF structure cannot be parsed.
var ErrUnreadable = errors.New("unreadable PDF")

// LedongthucExtractor implements PageExtractor using github.com/ledongthuc/pdf
type LedongthucExtractor struct{}

// NewLedongthucExtractor creates a new instance of LedongthucExtractor
func NewLedongthucExtractor() *LedongthucExtractor {
	return &LedongthucExtractor{}
}

// ExtractPages reads the text layer page by page from an in-memory PDF.
// Pages whose content cannot be decoded contribute an empty string.
func (e *LedongthucExtractor) ExtractPages(ctx context.Context, data []byte, maxPages int) (pages []string, err error) {
	// the parser panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: parser panic: %v", ErrUnreadable, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	n := r.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}

	return pages, nil
}
