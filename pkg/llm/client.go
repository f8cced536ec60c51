package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

const (
	ProviderGoogleAI = "googleai"
	ProviderOllama   = "ollama"
)

var ErrMissingAPIKey = errors.New("generative AI API key is not configured")

type Config struct {
	Provider  string
	Model     string
	APIKey    string
	OllamaURL string
}

// Client sends a single prompt to a text-completion model and returns its text.
type Client struct {
	model    llms.Model
	name     string
	logger   *zap.Logger
	callOpts []llms.CallOption
}

// New builds the langchaingo model for cfg.Provider.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	var (
		model llms.Model
		err   error
	)

	switch cfg.Provider {
	case ProviderGoogleAI, "":
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	case ProviderOllama:
		model, err = ollama.New(
			ollama.WithServerURL(cfg.OllamaURL),
			ollama.WithModel(cfg.Model),
		)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	return NewClient(model, cfg.Provider+"/"+cfg.Model, logger), nil
}

// NewClient wraps an existing langchaingo model.
func NewClient(model llms.Model, name string, logger *zap.Logger, opts ...llms.CallOption) *Client {
	return &Client{
		model:    model,
		name:     name,
		logger:   logger,
		callOpts: opts,
	}
}

// Generate makes exactly one completion call. There is no retry.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	completion, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, c.callOpts...)
	if err != nil {
		c.logger.Error("Generation failed",
			zap.String("model", c.name),
			zap.Int("prompt_chars", len(prompt)),
			zap.Duration("took", time.Since(start)),
			zap.Error(err))
		return "", err
	}

	c.logger.Info("Generation finished",
		zap.String("model", c.name),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("completion_chars", len(completion)),
		zap.Duration("took", time.Since(start)))
	return strings.TrimSpace(completion), nil
}

func (c *Client) Name() string { return c.name }
