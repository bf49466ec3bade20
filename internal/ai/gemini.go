package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-1.5-flash"

// geminiModel is the subset of *genai.GenerativeModel used by GeminiGenerator.
type geminiModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiConfig holds Gemini connection and model settings.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
}

// GeminiGenerator implements TextGenerator with Google Gemini.
type GeminiGenerator struct {
	client *genai.Client
	// newModel returns a model whose system instruction is systemPrompt.
	newModel func(systemPrompt string) geminiModel
}

var _ TextGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator connects to the Gemini API.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	name := cfg.Model
	if name == "" {
		name = DefaultGeminiModel
	}
	newModel := func(systemPrompt string) geminiModel {
		m := client.GenerativeModel(name)
		m.SetTemperature(cfg.Temperature)
		m.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
		return m
	}

	return &GeminiGenerator{client: client, newModel: newModel}, nil
}

// Generate sends systemPrompt as the model's system instruction and
// userPrompt as the only content part.
func (g *GeminiGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := g.newModel(systemPrompt).GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	var sb strings.Builder
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyCompletion
	}
	return sb.String(), nil
}

// Close releases the underlying client.
func (g *GeminiGenerator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}
