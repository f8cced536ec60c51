package file

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type fakeNative struct {
	text  string
	pages int
	err   error
	calls int
}

func (f *fakeNative) ExtractText(ctx context.Context, data []byte) (string, int, error) {
	f.calls++
	return f.text, f.pages, f.err
}

type fakeRaster struct {
	pages    int
	err      error
	calls    int
	maxPages int
}

// Rasterize returns one image per page whose width encodes the page number.
func (f *fakeRaster) Rasterize(ctx context.Context, data []byte, maxPages int) ([]image.Image, error) {
	f.calls++
	f.maxPages = maxPages
	if f.err != nil {
		return nil, f.err
	}
	images := make([]image.Image, f.pages)
	for i := range images {
		images[i] = image.NewGray(image.Rect(0, 0, i+1, 1))
	}
	return images, nil
}

type fakeOCR struct {
	byWidth map[int]string
	text    string
	err     error
	calls   int
}

func (f *fakeOCR) Recognize(ctx context.Context, img []byte) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.byWidth == nil {
		return f.text, nil
	}
	decoded, err := png.Decode(bytes.NewReader(img))
	if err != nil {
		return "", err
	}
	return f.byWidth[decoded.Bounds().Dx()], nil
}

type fakeExtractor struct {
	result *ExtractionResult
	err    error
	calls  int
}

func (f *fakeExtractor) ExtractText(ctx context.Context, data []byte) (*ExtractionResult, error) {
	f.calls++
	return f.result, f.err
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name string
		want Kind
	}{
		{"notes.pdf", KindPDF},
		{"NOTES.PDF", KindPDF},
		{"scan.jpg", KindImage},
		{"scan.JPEG", KindImage},
		{"board.png", KindImage},
		{"readme.txt", KindUnsupported},
		{"archive.pdf.zip", KindUnsupported},
		{"noextension", KindUnsupported},
		{"", KindUnsupported},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.name); got != tc.want {
				t.Errorf("KindOf(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestCoreExtract_UnsupportedSkipsParsing(t *testing.T) {
	pdf := &fakeExtractor{}
	img := &fakeExtractor{}
	core := NewCore(pdf, img, zap.NewNop())

	_, err := core.Extract(context.Background(), Document{Name: "notes.txt", Data: []byte("hello")})
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
	if pdf.calls+img.calls != 0 {
		t.Errorf("no extractor should run for unsupported files")
	}
}

func TestCoreExtract_Dispatch(t *testing.T) {
	pdf := &fakeExtractor{result: &ExtractionResult{Text: "pdf text", Method: MethodNative}}
	img := &fakeExtractor{result: &ExtractionResult{Text: "image text", Method: MethodOCR}}
	core := NewCore(pdf, img, zap.NewNop())

	res, err := core.Extract(context.Background(), Document{Name: "a.PDF"})
	if err != nil || res.Text != "pdf text" || res.Kind != KindPDF {
		t.Fatalf("unexpected pdf result: %+v, %v", res, err)
	}
	res, err = core.Extract(context.Background(), Document{Name: "b.jpeg"})
	if err != nil || res.Text != "image text" || res.Kind != KindImage {
		t.Fatalf("unexpected image result: %+v, %v", res, err)
	}
	if pdf.calls != 1 || img.calls != 1 {
		t.Errorf("unexpected dispatch counts: pdf=%d img=%d", pdf.calls, img.calls)
	}
}

func TestCoreExtract_EmptyIsFailure(t *testing.T) {
	for _, text := range []string{"", "   \n\t "} {
		core := NewCore(&fakeExtractor{result: &ExtractionResult{Text: text}}, nil, zap.NewNop())
		if _, err := core.Extract(context.Background(), Document{Name: "x.pdf"}); !errors.Is(err, ErrNoText) {
			t.Errorf("text %q: expected ErrNoText, got %v", text, err)
		}
	}
}

func TestCoreExtract_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	core := NewCore(&fakeExtractor{err: boom}, nil, zap.NewNop())
	if _, err := core.Extract(context.Background(), Document{Name: "x.pdf"}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestPDFExtractor_NativeTextSkipsOCR(t *testing.T) {
	native := &fakeNative{text: "digital text", pages: 2}
	raster := &fakeRaster{pages: 2}
	ocr := &fakeOCR{text: "ocr"}
	p := NewPDFExtractor(native, raster, ocr, 0, zap.NewNop())

	res, err := p.ExtractText(context.Background(), []byte("%PDF-"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "digital text" || res.Method != MethodNative || res.Pages != 2 {
		t.Errorf("unexpected result: %+v", res)
	}
	if raster.calls != 0 || ocr.calls != 0 {
		t.Errorf("OCR must not run when the text layer has content")
	}
}

func TestPDFExtractor_OCRFallbackKeepsOrderSkipsBlank(t *testing.T) {
	native := &fakeNative{text: "", pages: 4}
	raster := &fakeRaster{pages: 4}
	ocr := &fakeOCR{byWidth: map[int]string{
		1: "page one\n",
		2: "   ",
		3: "page three",
		4: "\npage four",
	}}
	p := NewPDFExtractor(native, raster, ocr, 9, zap.NewNop())

	res, err := p.ExtractText(context.Background(), []byte("%PDF-"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "page one\n\npage three\n\npage four"
	if res.Text != want {
		t.Errorf("got %q, want %q", res.Text, want)
	}
	if res.Method != MethodOCR || res.Pages != 4 {
		t.Errorf("unexpected metadata: %+v", res)
	}
	if ocr.calls != 4 {
		t.Errorf("expected one OCR call per page, got %d", ocr.calls)
	}
	if raster.maxPages != 9 {
		t.Errorf("maxPages not forwarded: %d", raster.maxPages)
	}
}

func TestPDFExtractor_OCRNothingIsNoText(t *testing.T) {
	p := NewPDFExtractor(&fakeNative{}, &fakeRaster{pages: 2}, &fakeOCR{text: " "}, 0, zap.NewNop())
	core := NewCore(p, nil, zap.NewNop())

	if _, err := core.Extract(context.Background(), Document{Name: "scan.pdf", Data: []byte("%PDF-")}); !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestPDFExtractor_Errors(t *testing.T) {
	rasterErr := errors.New("rasterizer missing")
	ocrErr := errors.New("tessdata missing")

	testCases := []struct {
		name   string
		native *fakeNative
		raster *fakeRaster
		ocr    *fakeOCR
		want   error
	}{
		{"CorruptPDF", &fakeNative{err: errors.New("bad xref")}, &fakeRaster{}, &fakeOCR{}, ErrCorruptDocument},
		{"RasterUnavailable", &fakeNative{}, &fakeRaster{err: rasterErr}, &fakeOCR{}, rasterErr},
		{"OCRUnavailable", &fakeNative{}, &fakeRaster{pages: 1}, &fakeOCR{err: ocrErr}, ocrErr},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPDFExtractor(tc.native, tc.raster, tc.ocr, 0, zap.NewNop())
			if _, err := p.ExtractText(context.Background(), nil); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestImageExtractor(t *testing.T) {
	ocr := &fakeOCR{text: "  whiteboard notes \n"}
	e := NewImageExtractor(ocr, zap.NewNop())

	res, err := e.ExtractText(context.Background(), pngBytes(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "whiteboard notes" || res.Pages != 1 || res.Method != MethodOCR {
		t.Errorf("unexpected result: %+v", res)
	}
	if ocr.calls != 1 {
		t.Errorf("expected a single OCR call, got %d", ocr.calls)
	}
}

func TestImageExtractor_DecodeFailureIsEmpty(t *testing.T) {
	ocr := &fakeOCR{text: "should not run"}
	e := NewImageExtractor(ocr, zap.NewNop())

	res, err := e.ExtractText(context.Background(), []byte("this is not an image"))
	if err != nil {
		t.Fatalf("decode failure must not be an error: %v", err)
	}
	if res.Text != "" || ocr.calls != 0 {
		t.Errorf("expected empty result without OCR, got %+v (calls=%d)", res, ocr.calls)
	}
}

func TestImageExtractor_OCRError(t *testing.T) {
	ocrErr := errors.New("engine down")
	e := NewImageExtractor(&fakeOCR{err: ocrErr}, zap.NewNop())

	_, err := e.ExtractText(context.Background(), pngBytes(t))
	if !errors.Is(err, ocrErr) || !strings.Contains(err.Error(), "image ocr") {
		t.Fatalf("unexpected error: %v", err)
	}
}
