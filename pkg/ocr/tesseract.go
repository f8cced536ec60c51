package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract implements Engine with the gosseract client.
type Tesseract struct {
	cfg           Config
	clientFactory func() *gosseract.Client
}

// NewTesseract constructs a Tesseract-backed OCR engine.
func NewTesseract(cfg Config) *Tesseract {
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"eng"}
	}
	if cfg.Variables == nil {
		cfg.Variables = map[string]string{
			"preserve_interword_spaces": "1",
		}
	}
	return &Tesseract{cfg: cfg, clientFactory: gosseract.NewClient}
}

func (t *Tesseract) Name() string { return "tesseract" }

// Check verifies the configured trained-data directory exists.
func (t *Tesseract) Check() error {
	if t.cfg.TessdataPrefix == "" {
		return nil
	}
	info, err := os.Stat(t.cfg.TessdataPrefix)
	if err != nil {
		return fmt.Errorf("%w: tessdata %s: %v", ErrUnavailable, t.cfg.TessdataPrefix, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: tessdata %s is not a directory", ErrUnavailable, t.cfg.TessdataPrefix)
	}
	return nil
}

// Recognize runs OCR on one image and returns the trimmed text.
func (t *Tesseract) Recognize(ctx context.Context, img []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := t.Check(); err != nil {
		return "", err
	}

	c := t.clientFactory()
	defer c.Close()

	if t.cfg.TessdataPrefix != "" {
		if err := c.SetTessdataPrefix(t.cfg.TessdataPrefix); err != nil {
			return "", fmt.Errorf("%w: set tessdata prefix: %v", ErrUnavailable, err)
		}
	}
	if err := c.SetLanguage(t.cfg.Languages...); err != nil {
		return "", fmt.Errorf("%w: set languages: %v", ErrUnavailable, err)
	}
	for k, v := range t.cfg.Variables {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return "", fmt.Errorf("set variable %s: %w", k, err)
		}
	}
	if err := c.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}
