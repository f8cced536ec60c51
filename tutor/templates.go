package tutor

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplates []byte

// Variant names one of the fixed instruction styles.
type Variant string

const (
	VariantQuestion  Variant = "question"
	VariantSelection Variant = "selection"
	VariantSummary   Variant = "summary"
)

var variants = []Variant{VariantQuestion, VariantSelection, VariantSummary}

// SelectVariant picks the instruction style. A typed question always wins
// over a highlighted selection.
func SelectVariant(selected, question string) Variant {
	switch {
	case question != "":
		return VariantQuestion
	case selected != "":
		return VariantSelection
	default:
		return VariantSummary
	}
}

type templateFile struct {
	Prompt       string            `yaml:"prompt"`
	Instructions map[string]string `yaml:"instructions"`
}

// Templates holds the parsed prompt layout and one instruction per variant.
type Templates struct {
	prompt       *template.Template
	instructions map[Variant]*template.Template
}

type promptData struct {
	Context     string
	Selected    string
	Question    string
	Instruction string
}

// LoadTemplates reads templates from path, or the built-in set when path is empty.
func LoadTemplates(path string) (*Templates, error) {
	if path == "" {
		return ParseTemplates(defaultTemplates)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}
	return ParseTemplates(data)
}

func ParseTemplates(data []byte) (*Templates, error) {
	var raw templateFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}
	if strings.TrimSpace(raw.Prompt) == "" {
		return nil, fmt.Errorf("prompts: missing prompt layout")
	}

	prompt, err := template.New("prompt").Option("missingkey=error").Parse(raw.Prompt)
	if err != nil {
		return nil, fmt.Errorf("prompts: prompt layout: %w", err)
	}

	t := &Templates{
		prompt:       prompt,
		instructions: make(map[Variant]*template.Template, len(variants)),
	}
	for _, v := range variants {
		text, ok := raw.Instructions[string(v)]
		if !ok || strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("prompts: missing %s instruction", v)
		}
		tmpl, err := template.New(string(v)).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("prompts: %s instruction: %w", v, err)
		}
		t.instructions[v] = tmpl
	}
	return t, nil
}

// Render builds the full prompt for variant v.
func (t *Templates) Render(v Variant, context, selected, question string) (string, error) {
	tmpl, ok := t.instructions[v]
	if !ok {
		return "", fmt.Errorf("unknown variant %q", v)
	}

	data := promptData{Context: context, Selected: selected, Question: question}

	var instruction strings.Builder
	if err := tmpl.Execute(&instruction, data); err != nil {
		return "", fmt.Errorf("render %s instruction: %w", v, err)
	}
	data.Instruction = instruction.String()

	var out strings.Builder
	if err := t.prompt.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return out.String(), nil
}
