package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/iwvelando/ecoprice/internal/config"
	"github.com/iwvelando/ecoprice/pkg/constants"
)

// ErrMissingAPIKey is returned by providers constructed without a key.
var ErrMissingAPIKey = errors.New("report API key is not configured")

const maxResponseBytes = 1 << 20

// ChatProvider talks to an OpenAI-compatible chat completions endpoint.
type ChatProvider struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
}

var _ Provider = (*ChatProvider)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewChatProvider returns a provider for cfg. A nil client uses a client
// whose timeout matches cfg.
func NewChatProvider(cfg config.ReportConfig, client *http.Client) *ChatProvider {
	cfg.Normalize()
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = constants.DefaultReportBaseURL
	}
	return &ChatProvider{
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.TemperatureValue(),
		client:      client,
	}
}

// Name identifies the provider in logs and outcomes.
func (p *ChatProvider) Name() string {
	return constants.ReportProviderOpenAI + "/" + p.model
}

// Generate sends one system and one user message and returns the first choice.
func (p *ChatProvider) Generate(ctx context.Context, systemPrompt string, prompt string) (string, error) {
	if p.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	messages := make([]chatMessage, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	res, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	var decoded chatResponse
	decodeErr := json.Unmarshal(raw, &decoded)

	if res.StatusCode != http.StatusOK {
		if decodeErr == nil && decoded.Error != nil && decoded.Error.Message != "" {
			return "", fmt.Errorf("chat API returned status %d: %s", res.StatusCode, decoded.Error.Message)
		}
		return "", fmt.Errorf("chat API returned status %d", res.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode chat response: %w", decodeErr)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}

	text := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("chat API returned an empty report")
	}
	return text, nil
}
