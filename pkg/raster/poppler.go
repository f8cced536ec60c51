package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const pdftoppm = "pdftoppm"

// Poppler shells out to pdftoppm. binDir is the Poppler bin directory; empty
// resolves pdftoppm from PATH.
type Poppler struct {
	binDir string
	dpi    int
	logger *zap.Logger
}

func NewPoppler(binDir string, dpi int, logger *zap.Logger) *Poppler {
	return &Poppler{
		binDir: binDir,
		dpi:    dpi,
		logger: logger,
	}
}

// Binary resolves the pdftoppm executable.
func (p *Poppler) Binary() (string, error) {
	name := pdftoppm
	if p.binDir != "" {
		name = filepath.Join(p.binDir, pdftoppm)
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return path, nil
}

func (p *Poppler) Rasterize(ctx context.Context, data []byte, maxPages int) ([]image.Image, error) {
	bin, err := p.Binary()
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "pdftutor-raster-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(input, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write temp pdf: %w", err)
	}

	args := []string{"-r", strconv.Itoa(p.dpi), "-png"}
	if maxPages > 0 {
		args = append(args, "-l", strconv.Itoa(maxPages))
	}
	args = append(args, input, filepath.Join(dir, "page"))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		p.logger.Error("pdftoppm failed",
			zap.String("binary", bin),
			zap.String("stderr", strings.TrimSpace(stderr.String())),
			zap.Error(err))
		return nil, fmt.Errorf("%w: pdftoppm: %v: %s", ErrRender, err, strings.TrimSpace(stderr.String()))
	}

	return readPages(dir)
}

// readPages decodes page-N.png files. pdftoppm zero-pads page numbers to a
// common width, so directory order is page order.
func readPages(dir string) ([]image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list rendered pages: %w", err)
	}

	var images []image.Image
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "page-") || !strings.HasSuffix(name, ".png") {
			continue
		}
		img, err := decodePNG(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrRender, name, err)
		}
		images = append(images, img)
	}
	return images, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}
