package processor

import (
	"context"
	"strings"
)

// PageExtractor defines the interface for native PDF text-layer extraction
type PageExtractor interface {
	// ExtractPages returns the text of each page in page order. maxPages <= 0
	// reads every page.
	ExtractPages(ctx context.Context, data []byte, maxPages int) ([]string, error)
}

// Client wraps the PageExtractor interface for easy swapping of implementations
type Client struct {
	extractor PageExtractor
	maxPages  int
}

// NewClient creates a new PDF processor client with the given extractor implementation
func NewClient(extractor PageExtractor, maxPages int) *Client {
	return &Client{
		extractor: extractor,
		maxPages:  maxPages,
	}
}

// ExtractText returns the document's text layer with pages separated by a
// blank line. Scanned PDFs yield an empty string and no error.
func (c *Client) ExtractText(ctx context.Context, data []byte) (string, int, error) {
	pages, err := c.extractor.ExtractPages(ctx, data, c.maxPages)
	if err != nil {
		return "", 0, err
	}
	return JoinPages(pages), len(pages), nil
}

// JoinPages concatenates non-empty page texts with a blank-line separator and
// trims the result.
func JoinPages(pages []string) string {
	chunks := make([]string, 0, len(pages))
	for _, p := range pages {
		if p != "" {
			chunks = append(chunks, p)
		}
	}
	return strings.TrimSpace(strings.Join(chunks, "\n\n"))
}
