package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

type fakeModel struct {
	response string
	err      error
	prompts  []string
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				m.prompts = append(m.prompts, text.Text)
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.response}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestClientGenerate(t *testing.T) {
	model := &fakeModel{response: "  Alright students, hello.  \n"}
	client := NewClient(model, "fake/model", zap.NewNop())

	got, err := client.Generate(context.Background(), "explain")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "Alright students, hello." {
		t.Errorf("unexpected completion: %q", got)
	}
	if len(model.prompts) != 1 || model.prompts[0] != "explain" {
		t.Errorf("expected exactly one call with the prompt, got %q", model.prompts)
	}
	if client.Name() != "fake/model" {
		t.Errorf("unexpected name: %s", client.Name())
	}
}

func TestClientGenerateError(t *testing.T) {
	quota := errors.New("quota exceeded")
	model := &fakeModel{err: quota}
	client := NewClient(model, "fake/model", zap.NewNop())

	if _, err := client.Generate(context.Background(), "explain"); !errors.Is(err, quota) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if len(model.prompts) != 1 {
		t.Errorf("expected no retry, got %d calls", len(model.prompts))
	}
}

func TestNewValidation(t *testing.T) {
	ctx := context.Background()

	if _, err := New(ctx, Config{Provider: ProviderGoogleAI, Model: "gemini-2.5-flash-lite"}, zap.NewNop()); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := New(ctx, Config{Provider: "carrier-pigeon"}, zap.NewNop()); err == nil {
		t.Errorf("expected unknown provider error")
	}
}

func TestNewOllama(t *testing.T) {
	client, err := New(context.Background(), Config{
		Provider:  ProviderOllama,
		Model:     "llama3.2",
		OllamaURL: "http://localhost:11434",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if client.Name() != "ollama/llama3.2" {
		t.Errorf("unexpected name: %s", client.Name())
	}
}
