package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pdftutor/text"

	"go.uber.org/zap"
)

const (
	// MaxContextChars caps the document text sent to the model, in characters.
	MaxContextChars = 12000

	FallbackAnswer = "Alright students, I could not find enough information in this document to answer clearly."
)

var ErrNoContent = errors.New("no document content provided")

// GenerationError wraps any failure of the generative model.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "AI teacher error: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Request struct {
	Context  string `json:"context"`
	Selected string `json:"selected"`
	Question string `json:"question"`
}

type Response struct {
	Answer  string
	Variant Variant
}

type Builder struct {
	gen       Generator
	templates *Templates
	logger    *zap.Logger
}

func NewBuilder(gen Generator, templates *Templates, logger *zap.Logger) *Builder {
	return &Builder{
		gen:       gen,
		templates: templates,
		logger:    logger,
	}
}

// Teach turns a document and an optional selection or question into a
// plain-text explanation. The model is called at most once.
func (b *Builder) Teach(ctx context.Context, req Request) (*Response, error) {
	docText := strings.TrimSpace(req.Context)
	selected := strings.TrimSpace(req.Selected)
	question := strings.TrimSpace(req.Question)

	if docText == "" {
		return nil, ErrNoContent
	}
	docText = truncateRunes(docText, MaxContextChars)

	variant := SelectVariant(selected, question)
	prompt, err := b.templates.Render(variant, docText, selected, question)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	start := time.Now()
	raw, err := b.gen.Generate(ctx, prompt)
	if err != nil {
		b.logger.Error("Failed to generate explanation",
			zap.String("variant", string(variant)),
			zap.Error(err))
		return nil, &GenerationError{Err: err}
	}

	answer := text.Normalize(raw)
	if answer == "" {
		b.logger.Warn("Empty answer after normalization, using fallback",
			zap.String("variant", string(variant)),
			zap.Int("raw_chars", len(raw)))
		answer = FallbackAnswer
	}

	b.logger.Info("Explanation generated",
		zap.String("variant", string(variant)),
		zap.Int("context_chars", len(docText)),
		zap.Int("answer_chars", len(answer)),
		zap.Duration("took", time.Since(start)))

	return &Response{Answer: answer, Variant: variant}, nil
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
