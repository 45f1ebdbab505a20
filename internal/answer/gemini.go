package answer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Generator produces a short free-text answer for a prompt. Satisfied by
// Gemini; tests supply fakes.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini wraps the langchaingo Google AI client. Construction fails fast
// when the credential is missing; there is no ambient-singleton fallback.
type Gemini struct {
	model   llms.Model
	timeout time.Duration
}

func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &Gemini{model: llm, timeout: timeout}, nil
}

// Generate runs one prompt with the bounded timeout.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(0.2),
	)
}
