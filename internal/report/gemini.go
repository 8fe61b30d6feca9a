package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/iwvelando/ecoprice/internal/config"
	"github.com/iwvelando/ecoprice/pkg/constants"
	"google.golang.org/genai"
)

// GeminiProvider generates reports with the Gemini API.
type GeminiProvider struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider returns a provider for cfg.
func NewGeminiProvider(cfg config.ReportConfig) *GeminiProvider {
	cfg.Normalize()
	model := cfg.Model
	if model == "" || model == constants.DefaultReportModel {
		model = constants.DefaultGeminiModel
	}
	return &GeminiProvider{
		apiKey:      cfg.APIKey,
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.TemperatureValue(),
	}
}

// Name identifies the provider in logs and outcomes.
func (p *GeminiProvider) Name() string {
	return constants.ReportProviderGemini + "/" + p.model
}

// Generate runs a single generateContent call.
func (p *GeminiProvider) Generate(ctx context.Context, systemPrompt string, prompt string) (string, error) {
	if p.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	generateConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(p.temperature)),
		MaxOutputTokens: int32(p.maxTokens),
	}
	if strings.TrimSpace(systemPrompt) != "" {
		generateConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	result, err := client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), generateConfig)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty report")
	}
	return text, nil
}
